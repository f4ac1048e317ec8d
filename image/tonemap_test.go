package image

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	remath "render-engine/math"
)

func TestUpdateLDRQuantizesPerSpec(t *testing.T) {
	b := New(2, 2)
	b.Radiance[0] = remath.Vec3{X: 1, Y: 1, Z: 1}
	b.UpdateLDR(false)
	assert.Equal(t, remath.U8Vec3{X: 255, Y: 255, Z: 255}, b.LDR[0])
}

func TestUpdateLDRClampsNegative(t *testing.T) {
	b := New(1, 1)
	b.Radiance[0] = remath.Vec3{X: -1, Y: 0.5, Z: 2}
	b.UpdateLDR(false)
	got := b.LDR[0]
	assert.Equal(t, uint8(0), got.X)
	assert.Equal(t, uint8(127), got.Y)
	assert.Equal(t, uint8(255), got.Z)
}

func TestUpdateLDRIdempotent(t *testing.T) {
	b := New(4, 4)
	for i := range b.Radiance {
		b.Radiance[i] = remath.Vec3{X: 0.3, Y: 0.7, Z: 1.4}
	}
	b.UpdateLDR(true)
	first := append([]remath.U8Vec3(nil), b.LDR...)
	b.UpdateLDR(true)
	assert.Equal(t, first, b.LDR)
}

func TestACESNarkowiczMapsZeroToZero(t *testing.T) {
	assert.InDelta(t, 0.0, float64(ACESNarkowicz(0)), 1e-6)
}

func TestLinearToGammaMatchesSqrt(t *testing.T) {
	c := remath.Vec3{X: 0.25, Y: 0.64, Z: 0.81}
	got := LinearToGamma(c)
	assert.InDelta(t, math.Sqrt(0.25), float64(got.X), 1e-6)
	assert.InDelta(t, math.Sqrt(0.64), float64(got.Y), 1e-6)
	assert.InDelta(t, math.Sqrt(0.81), float64(got.Z), 1e-6)
}

func TestResetZeroesAllArrays(t *testing.T) {
	b := New(2, 2)
	b.Radiance[0] = remath.Vec3{X: 1, Y: 1, Z: 1}
	b.Normal[0] = remath.Vec3{X: 1}
	b.Albedo[0] = remath.Vec3{X: 1}
	b.LDR[0] = remath.U8Vec3{X: 255}
	b.Reset()
	assert.Equal(t, remath.Vec3{}, b.Radiance[0])
	assert.Equal(t, remath.Vec3{}, b.Normal[0])
	assert.Equal(t, remath.Vec3{}, b.Albedo[0])
	assert.Equal(t, remath.U8Vec3{}, b.LDR[0])
}

func TestAccumulateRadianceScrubsNaN(t *testing.T) {
	b := New(1, 1)
	scrubbed := b.AccumulateRadiance(0, remath.Vec3{X: float32(math.NaN())})
	assert.True(t, scrubbed)
	assert.Equal(t, remath.Vec3{}, b.Radiance[0])
}
