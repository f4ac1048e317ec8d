// Package render implements the renderer driver that ties together the
// scene model, intersector, camera, tile scheduler and shading kernel into
// complete frames (spec.md §4.9, component M).
package render

import (
	"render-engine/shading"
)

// Params is the external render configuration of spec.md §6. Each render
// pass (and Progress) runs it through normalize, which replaces a zero
// Samples, MaxSamples, DepthLimit, TileWidth, TileHeight or FocusDistance
// with a default; the other fields are used as given.
type Params struct {
	Mode shading.Mode

	// Samples is the number of path-tracer samples accumulated per pixel
	// per call to Driver.RenderPass; MaxSamples bounds total accumulation
	// across repeated passes (progressive rendering).
	Samples    uint32
	MaxSamples uint32

	AOSamples  uint32
	DepthMin   uint32
	DepthLimit uint32

	// SuperSample jitters the NDC coordinates by two uniforms per sample
	// before generating the primary ray (spec.md §6 "super_sample", §4.6
	// "Jitter the NDC with two uniforms when supersampling is enabled").
	SuperSample bool

	Equirectangular bool
	LensRadius      float32
	FocusDistance   float32

	TileWidth  int
	TileHeight int

	// ToneMap selects the ACES+gamma post-pipeline path (spec.md §4.8);
	// false clamps radiance directly to [0,1].
	ToneMap bool

	Workers int
}

// DefaultParams returns the renderer's baseline configuration.
func DefaultParams() Params {
	return Params{
		Mode:          shading.ModePathtracing,
		Samples:       1,
		MaxSamples:    1,
		AOSamples:     0,
		DepthMin:      5,
		DepthLimit:    64,
		FocusDistance: 1,
		TileWidth:     128,
		TileHeight:    128,
		ToneMap:       true,
		Workers:       0,
	}
}

// normalize fills a zero Samples, DepthLimit, TileWidth, TileHeight or
// FocusDistance with its DefaultParams counterpart, and a zero MaxSamples
// with Samples.
func (p Params) normalize() Params {
	d := DefaultParams()
	if p.Samples == 0 {
		p.Samples = d.Samples
	}
	if p.MaxSamples == 0 {
		p.MaxSamples = p.Samples
	}
	if p.DepthLimit == 0 {
		p.DepthLimit = d.DepthLimit
	}
	if p.TileWidth == 0 {
		p.TileWidth = d.TileWidth
	}
	if p.TileHeight == 0 {
		p.TileHeight = d.TileHeight
	}
	if p.FocusDistance == 0 {
		p.FocusDistance = d.FocusDistance
	}
	return p
}
