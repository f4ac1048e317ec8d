// Package image implements the radiance accumulation buffer, its AOVs, and
// the tone-map/gamma/quantize post-pipeline (spec.md §3 "ImageBuffer",
// components C and D).
package image

import (
	math "render-engine/math"
)

// Size is a pixel-dimension pair.
type Size struct {
	W, H int
}

// Buffer owns the four parallel per-pixel arrays of spec.md §3: linear
// radiance, the normal/albedo AOVs, and the post-processed 8-bit preview.
// All four always have length W*H.
type Buffer struct {
	Size     Size
	Radiance []math.Vec3
	Normal   []math.Vec3
	Albedo   []math.Vec3
	LDR      []math.U8Vec3
}

// New allocates a buffer of the given size with all arrays zeroed.
func New(w, h int) *Buffer {
	n := w * h
	return &Buffer{
		Size:     Size{W: w, H: h},
		Radiance: make([]math.Vec3, n),
		Normal:   make([]math.Vec3, n),
		Albedo:   make([]math.Vec3, n),
		LDR:      make([]math.U8Vec3, n),
	}
}

// Resize reallocates every array for a new size and resets them.
func (b *Buffer) Resize(w, h int) {
	*b = *New(w, h)
}

// Reset zeros all four arrays without reallocating.
func (b *Buffer) Reset() {
	for i := range b.Radiance {
		b.Radiance[i] = math.Vec3{}
		b.Normal[i] = math.Vec3{}
		b.Albedo[i] = math.Vec3{}
		b.LDR[i] = math.U8Vec3{}
	}
}

// Index converts pixel coordinates to a flat buffer index.
func (b *Buffer) Index(x, y int) int {
	return y*b.Size.W + x
}

// AccumulateRadiance scrubs non-finite contributions to zero before adding
// them into the running sum (spec.md §7 "Numerical failure" — replace with
// 0 and keep going, never abort). Returns true if the sample had to be
// scrubbed, so the caller can bump a diagnostic counter.
func (b *Buffer) AccumulateRadiance(i int, c math.Vec3) (scrubbed bool) {
	if !c.IsFinite() {
		return true
	}
	b.Radiance[i] = b.Radiance[i].Add(c)
	return false
}
