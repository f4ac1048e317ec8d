package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-engine/material"
	math "render-engine/math"
)

func TestMaterialJSONRoundTripPreservesFields(t *testing.T) {
	m := &material.Material{
		Name:            "Rusty Panel",
		BaseColorFactor: math.Vec4{X: 0.8, Y: 0.2, Z: 0.1, W: 1},
		RoughnessFactor: 0.42,
		MetalnessFactor: 0.9,
		EmissiveFactor:  math.Vec3{X: 0.01, Y: 0.02, Z: 0.03},
		Kind:            material.Refraction,
		AlphaMode:       material.Mask,
		AlphaCutoff:     0.37,
	}

	data, err := MaterialToJSON(m)
	require.NoError(t, err)

	got, err := MaterialFromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, m.BaseColorFactor, got.BaseColorFactor)
	assert.Equal(t, m.RoughnessFactor, got.RoughnessFactor)
	assert.Equal(t, m.MetalnessFactor, got.MetalnessFactor)
	assert.Equal(t, m.EmissiveFactor, got.EmissiveFactor)
	assert.Equal(t, m.Kind, got.Kind)
	assert.Equal(t, m.AlphaMode, got.AlphaMode)
	assert.Equal(t, m.AlphaCutoff, got.AlphaCutoff)
}

func TestSaveLoadMaterialRoundTrip(t *testing.T) {
	m := material.Default()
	m.Name = "Default Copy"

	path := t.TempDir() + "/material.json"
	require.NoError(t, SaveMaterial(m, path))

	got, err := LoadMaterial(path)
	require.NoError(t, err)
	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, m.BaseColorFactor, got.BaseColorFactor)
}
