package material

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	math "render-engine/math"
)

func TestDefaultIsValid(t *testing.T) {
	assert.True(t, Default().Valid())
}

func TestValidRejectsOutOfRangeFactors(t *testing.T) {
	m := Default()
	m.RoughnessFactor = 1.5
	assert.False(t, m.Valid())

	m = Default()
	m.MetalnessFactor = -0.1
	assert.False(t, m.Valid())

	m = Default()
	m.EmissiveFactor = math.Vec3{X: -1}
	assert.False(t, m.Valid())
}

func TestAbsentTextureSamplesIdentity(t *testing.T) {
	m := Default()
	m.BaseColorFactor = math.Vec4{X: 0.5, Y: 0.5, Z: 0.5, W: 1}
	c := m.SampleBaseColor(0.2, 0.3)
	assert.Equal(t, m.BaseColorFactor, c)
}

func TestMaskAlphaTest(t *testing.T) {
	m := Default()
	m.AlphaMode = Mask
	m.AlphaCutoff = 0.5
	m.BaseColorFactor.W = 0.2
	assert.False(t, m.PassesAlphaTest(0, 0))

	m.BaseColorFactor.W = 0.9
	assert.True(t, m.PassesAlphaTest(0, 0))
}

func TestOpaqueIgnoresAlphaCutoff(t *testing.T) {
	m := Default()
	m.BaseColorFactor.W = 0
	assert.True(t, m.PassesAlphaTest(0, 0))
}

func TestJSONRoundTripPreservesFields(t *testing.T) {
	m := &Material{
		Name:            "brass",
		BaseColorFactor: math.Vec4{X: 0.8, Y: 0.6, Z: 0.1, W: 1},
		RoughnessFactor: 0.3,
		MetalnessFactor: 1,
		EmissiveFactor:  math.Vec3{X: 0.1, Y: 0.2, Z: 0.05},
		Kind:            Refraction,
		AlphaMode:       Mask,
		AlphaCutoff:     0.42,
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var got Material
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, m.BaseColorFactor, got.BaseColorFactor)
	assert.Equal(t, m.RoughnessFactor, got.RoughnessFactor)
	assert.Equal(t, m.MetalnessFactor, got.MetalnessFactor)
	assert.Equal(t, m.EmissiveFactor, got.EmissiveFactor)
	assert.Equal(t, m.Kind, got.Kind)
	assert.Equal(t, m.AlphaMode, got.AlphaMode)
	assert.Equal(t, m.AlphaCutoff, got.AlphaCutoff)
}
