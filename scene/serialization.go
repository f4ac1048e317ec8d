package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"render-engine/material"
	math "render-engine/math"
)

func vec4FromArray(a [4]float32) math.Vec4 { return math.Vec4{X: a[0], Y: a[1], Z: a[2], W: a[3]} }
func vec3FromArray(a [3]float32) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }

// materialJSON is the neutral on-disk record for a Material (spec.md §3,
// testable property 10: round-tripping preserves every field bit-exactly
// for finite inputs). Textures are not embedded — each *TexturePath field
// records the Name of the corresponding texture, if any.
type materialJSON struct {
	Name string

	BaseColorFactor [4]float32
	RoughnessFactor float32
	MetalnessFactor float32
	EmissiveFactor  [3]float32

	Kind        int
	AlphaMode   int
	AlphaCutoff float32

	BaseColorTexturePath         string `json:",omitempty"`
	NormalTexturePath            string `json:",omitempty"`
	MetallicRoughnessTexturePath string `json:",omitempty"`
	EmissiveTexturePath          string `json:",omitempty"`
}

// MaterialToJSON marshals a Material to its neutral JSON record.
func MaterialToJSON(m *material.Material) ([]byte, error) {
	mj := materialJSON{
		Name:            m.Name,
		BaseColorFactor: [4]float32{m.BaseColorFactor.X, m.BaseColorFactor.Y, m.BaseColorFactor.Z, m.BaseColorFactor.W},
		RoughnessFactor: m.RoughnessFactor,
		MetalnessFactor: m.MetalnessFactor,
		EmissiveFactor:  [3]float32{m.EmissiveFactor.X, m.EmissiveFactor.Y, m.EmissiveFactor.Z},
		Kind:            int(m.Kind),
		AlphaMode:       int(m.AlphaMode),
		AlphaCutoff:     m.AlphaCutoff,
	}
	if m.BaseColorTexture != nil {
		mj.BaseColorTexturePath = m.BaseColorTexture.Name
	}
	if m.NormalTexture != nil {
		mj.NormalTexturePath = m.NormalTexture.Name
	}
	if m.MetallicRoughnessTexture != nil {
		mj.MetallicRoughnessTexturePath = m.MetallicRoughnessTexture.Name
	}
	if m.EmissiveTexture != nil {
		mj.EmissiveTexturePath = m.EmissiveTexture.Name
	}

	data, err := json.MarshalIndent(mj, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("scene: marshal material: %w", err)
	}
	return data, nil
}

// MaterialFromJSON unmarshals a neutral material record. The texture path
// fields are not read: the returned Material has no textures attached.
func MaterialFromJSON(data []byte) (*material.Material, error) {
	var mj materialJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return nil, fmt.Errorf("scene: unmarshal material: %w", err)
	}

	m := &material.Material{
		Name: mj.Name,
		BaseColorFactor: vec4FromArray(mj.BaseColorFactor),
		RoughnessFactor: mj.RoughnessFactor,
		MetalnessFactor: mj.MetalnessFactor,
		EmissiveFactor:  vec3FromArray(mj.EmissiveFactor),
		Kind:            material.Kind(mj.Kind),
		AlphaMode:       material.AlphaMode(mj.AlphaMode),
		AlphaCutoff:     mj.AlphaCutoff,
	}
	return m, nil
}

// SaveMaterial writes a Material's JSON record to path.
func SaveMaterial(m *material.Material, path string) error {
	data, err := MaterialToJSON(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scene: write material %q: %w", path, err)
	}
	return nil
}

// LoadMaterial reads a Material's JSON record from path.
func LoadMaterial(path string) (*material.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read material %q: %w", path, err)
	}
	return MaterialFromJSON(data)
}
