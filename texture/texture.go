// Package texture implements the 2D texture fetch used by the shading
// kernel: wrap-mode addressing plus nearest/bilinear filtering over a
// linear, unpremultiplied RGBA float buffer (spec.md §3 "Texture", §4.7).
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	stdmath "math"

	math "render-engine/math"
)

// Wrap selects the addressing mode applied to a texture coordinate outside
// [0, 1).
type Wrap int

const (
	Repeat Wrap = iota
	ClampToEdge
	Mirror
)

// Kind records why a texture was loaded, for diagnostics only — sampling
// behaves identically regardless of Kind (SPEC_FULL.md §3).
type Kind int

const (
	BaseColor Kind = iota
	Normal
	MetallicRoughness
	Emissive
)

// Texture is an immutable 2D image of linear, unpremultiplied RGBA floats.
// Invariant: len(Pixels) == Width*Height.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []math.Vec4
	WrapS  Wrap
	WrapT  Wrap
	Kind   Kind
	// Bilinear selects bilinear filtering in Sample; nearest otherwise.
	Bilinear bool
}

// White is a 1×1 multiplicative-identity texture, the same value Sample
// returns for an absent (nil) texture (spec.md §7 "Missing optional asset").
var White = &Texture{Name: "<white>", Width: 1, Height: 1, Pixels: []math.Vec4{{X: 1, Y: 1, Z: 1, W: 1}}}

// DecodeRGBA8 decodes a PNG/JPEG byte stream into a linear-float texture.
// sRGB→linear conversion is applied to the color channels; alpha is passed
// through unchanged. Rows are stored top-to-bottom as decoded, so v=0
// addresses the top row directly — the loaders flip V once at load time to
// match this, and Sample must not flip it again.
func DecodeRGBA8(name string, data []byte, bilinear bool) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture %q: decode: %w", name, err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]math.Vec4, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*w+x] = math.Vec4{
				X: srgbToLinear(float32(r) / 65535),
				Y: srgbToLinear(float32(g) / 65535),
				Z: srgbToLinear(float32(b) / 65535),
				W: float32(a) / 65535,
			}
		}
	}
	return &Texture{Name: name, Width: w, Height: h, Pixels: pixels, Bilinear: bilinear}, nil
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return powf((c+0.055)/1.055, 2.4)
}

// powf avoids pulling in math32 here just for one call site used at load
// time (not on the render hot path).
func powf(base, exp float32) float32 {
	// exp(exp*ln(base)) via repeated squaring is overkill for a one-shot
	// loader call; delegate to the standard library's float64 pow.
	return float32(stdmath.Pow(float64(base), float64(exp)))
}

// Sample fetches a filtered texel at normalized coordinates (u, v). The
// loaders (scene/obj_loader.go, scene/gltf_loader.go) already flip V once at
// load time so every caller downstream can assume a single top-left-origin
// convention (spec.md §4.7); Sample must not flip it again.
func (t *Texture) Sample(u, v float32) math.Vec4 {
	if t == nil {
		return math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	}
	s := wrap(t.WrapS, u)
	tc := wrap(t.WrapT, v)

	if !t.Bilinear {
		x := clampInt(int(s*float32(t.Width)), 0, t.Width-1)
		y := clampInt(int(tc*float32(t.Height)), 0, t.Height-1)
		return t.Pixels[y*t.Width+x]
	}

	fx := s*float32(t.Width) - 0.5
	fy := tc*float32(t.Height) - 0.5
	x0 := floorInt(fx)
	y0 := floorInt(fy)
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := lerp4(c00, c10, dx)
	bottom := lerp4(c01, c11, dx)
	return lerp4(top, bottom, dy)
}

func (t *Texture) texel(x, y int) math.Vec4 {
	x = wrapIndex(t.WrapS, x, t.Width)
	y = wrapIndex(t.WrapT, y, t.Height)
	return t.Pixels[y*t.Width+x]
}

func wrap(mode Wrap, c float32) float32 {
	switch mode {
	case ClampToEdge:
		return clampF(c, 0, 0.999999)
	case Mirror:
		c = absF(c)
		period := modF(c, 2)
		if period > 1 {
			period = 2 - period
		}
		return period
	default: // Repeat
		f := modF(c, 1)
		if f < 0 {
			f += 1
		}
		return f
	}
}

func wrapIndex(mode Wrap, i, n int) int {
	if n <= 1 {
		return 0
	}
	switch mode {
	case ClampToEdge:
		return clampInt(i, 0, n-1)
	case Mirror:
		period := 2 * n
		i = ((i % period) + period) % period
		if i >= n {
			i = period - 1 - i
		}
		return i
	default: // Repeat
		return ((i % n) + n) % n
	}
}

func lerp4(a, b math.Vec4, t float32) math.Vec4 {
	return math.Vec4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func modF(v, m float32) float32 {
	q := v / m
	return v - float32(floorInt(q))*m
}
