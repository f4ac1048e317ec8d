// Package material defines the PBR-lite surface description looked up at
// each ray hit (spec.md §3 "Material", component F).
package material

import (
	math "render-engine/math"
	"render-engine/texture"
)

// Kind is the tagged variant that replaces inheritance-style dispatch in
// the shading kernel (spec.md §9 Design Notes — "Virtual dispatch via
// tag").
type Kind int

const (
	Reflection Kind = iota
	Refraction
)

// AlphaMode follows the glTF convention; MASK selects the cutoff test of
// PassesAlphaTest (spec.md §4.1, SPEC_FULL.md §4.1 supplement).
type AlphaMode int

const (
	Opaque AlphaMode = iota
	Mask
	Blend
)

// Material is a surface description held by pointer: the model lists its
// materials in Model.Materials, each Primitive points at one, and the
// geometry builder stores that same pointer as the intersector geometry's
// user data. There is no index-based material id.
type Material struct {
	Name string

	BaseColorFactor   math.Vec4
	BaseColorTexture  *texture.Texture
	NormalTexture     *texture.Texture
	RoughnessFactor   float32
	MetalnessFactor   float32
	MetallicRoughnessTexture *texture.Texture
	EmissiveFactor    math.Vec3
	EmissiveTexture   *texture.Texture

	Kind Kind

	AlphaMode   AlphaMode
	AlphaCutoff float32
}

// Default returns a plain white, fully-rough dielectric material.
func Default() *Material {
	return &Material{
		Name:            "Default",
		BaseColorFactor: math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		RoughnessFactor: 1,
		MetalnessFactor: 0,
		AlphaCutoff:     0.5,
	}
}

// Valid reports whether the invariants of spec.md §3 hold: finite factors,
// roughness/metalness in [0,1], non-negative emissive.
func (m *Material) Valid() bool {
	if !m.BaseColorFactor.ToVec3().IsFinite() || isNaNOrInf(m.BaseColorFactor.W) {
		return false
	}
	if !m.EmissiveFactor.IsFinite() {
		return false
	}
	if m.RoughnessFactor < 0 || m.RoughnessFactor > 1 {
		return false
	}
	if m.MetalnessFactor < 0 || m.MetalnessFactor > 1 {
		return false
	}
	if m.EmissiveFactor.X < 0 || m.EmissiveFactor.Y < 0 || m.EmissiveFactor.Z < 0 {
		return false
	}
	return true
}

func isNaNOrInf(f float32) bool {
	return f != f || f > 3.4e38 || f < -3.4e38
}

// SampleBaseColor returns base_color_factor, optionally modulated by the
// base-color texture at uv (spec.md §4.6 step 4). Absent textures act as
// the multiplicative identity (spec.md §4.7).
func (m *Material) SampleBaseColor(u, v float32) math.Vec4 {
	c := m.BaseColorTexture.Sample(u, v)
	return math.Vec4{
		X: m.BaseColorFactor.X * c.X,
		Y: m.BaseColorFactor.Y * c.Y,
		Z: m.BaseColorFactor.Z * c.Z,
		W: m.BaseColorFactor.W * c.W,
	}
}

// SampleEmissive returns emissive_factor modulated by the emissive texture.
func (m *Material) SampleEmissive(u, v float32) math.Vec3 {
	c := m.EmissiveTexture.Sample(u, v)
	return math.Vec3{X: m.EmissiveFactor.X * c.X, Y: m.EmissiveFactor.Y * c.Y, Z: m.EmissiveFactor.Z * c.Z}
}

// PassesAlphaTest is the alpha test for glTF MASK materials: it accepts
// every hit unless AlphaMode is MASK, in which case a hit is rejected when
// the sampled alpha falls below AlphaCutoff (SPEC_FULL.md §4.1). The
// geometry builder does not install it as an intersect filter.
func (m *Material) PassesAlphaTest(u, v float32) bool {
	if m.AlphaMode != Mask {
		return true
	}
	return m.SampleBaseColor(u, v).W >= m.AlphaCutoff
}
