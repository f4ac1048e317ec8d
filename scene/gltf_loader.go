package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"render-engine/geometry"
	"render-engine/material"
	math "render-engine/math"
	"render-engine/texture"
)

// LoadGLTF opens a .glb or .gltf file and returns a fully populated Model:
// materials, textures, meshes (with generated tangents where the source
// lacks them), the node hierarchy, and animations (spec.md §3, §6 "model
// loading"). PBR metallic-roughness factors are carried through unchanged.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	model := NewModel(path)

	textures, err := loadGLTFTextures(doc, dir)
	if err != nil {
		return nil, err
	}
	model.Textures = textures

	materials := loadGLTFMaterials(doc, textures)
	model.Materials = materials

	meshPrims := make([][]MeshIndex, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			p, err := loadGLTFPrimitive(doc, *prim)
			if err != nil {
				return nil, fmt.Errorf("scene: mesh %d prim %d: %w", mi, pi, err)
			}
			geometry.GenerateTangents(p)
			if prim.Material != nil && *prim.Material < len(materials) {
				p.Material = materials[*prim.Material]
			} else {
				p.Material = material.Default()
			}
			name := gm.Name
			if name == "" {
				name = fmt.Sprintf("mesh_%d", mi)
			}
			mesh := &Mesh{Name: fmt.Sprintf("%s_p%d", name, pi), Primitives: []*Primitive{p}}
			meshPrims[mi] = append(meshPrims[mi], model.AddMesh(mesh))
		}
	}

	nodes := make([]NodeIndex, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		localMatrix := gltfLocalMatrix(gn)

		n := &Node{Name: name, LocalMatrix: localMatrix, Mesh: NoIndex}
		if gn.Mesh != nil && int(*gn.Mesh) < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			if len(prims) == 1 {
				n.Mesh = prims[0]
			}
		}
		nodes[i] = model.AddNode(n)
	}

	for i, gn := range doc.Nodes {
		node := model.Node(nodes[i])
		if gn.Mesh != nil {
			prims := meshPrims[*gn.Mesh]
			if len(prims) > 1 {
				for pi, meshIdx := range prims {
					child := model.AddNode(&Node{Name: fmt.Sprintf("%s_prim%d", node.Name, pi), LocalMatrix: math.Mat4Identity(), Mesh: meshIdx})
					node.Children = append(node.Children, child)
				}
			}
		}
		for _, c := range gn.Children {
			if int(c) < len(nodes) {
				node.Children = append(node.Children, nodes[c])
			}
		}
	}

	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if int(rootIdx) < len(nodes) {
				model.Roots = append(model.Roots, nodes[rootIdx])
			}
		}
	} else {
		hasParent := make([]bool, len(nodes))
		for _, gn := range doc.Nodes {
			for _, c := range gn.Children {
				if int(c) < len(hasParent) {
					hasParent[c] = true
				}
			}
		}
		for i := range nodes {
			if !hasParent[i] {
				model.Roots = append(model.Roots, nodes[i])
			}
		}
	}

	model.Animations = loadGLTFAnimations(doc, nodes)

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

func gltfLocalMatrix(gn *gltf.Node) math.Mat4 {
	t := gn.TranslationOrDefault()
	s := gn.ScaleOrDefault()
	r := gn.RotationOrDefault()

	T := math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])})
	R := math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}.ToMat4()
	S := math.Mat4Scale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])})
	// Mat4.Mul applies its receiver first, so this is local = T · R · S.
	return S.Mul(R).Mul(T)
}

func loadGLTFTextures(doc *gltf.Document, dir string) ([]*texture.Texture, error) {
	out := make([]*texture.Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		var data []byte
		var err error
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("gltf_img_%d", *gt.Source)
		}

		if img.BufferView != nil {
			data, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		} else if img.URI != "" && !img.IsEmbeddedResource() {
			data, err = os.ReadFile(filepath.Join(dir, img.URI))
		}
		if err != nil || data == nil {
			continue
		}

		tex, decErr := texture.DecodeRGBA8(name, data, true)
		if decErr != nil {
			continue
		}
		out[i] = tex
	}
	return out, nil
}

func loadGLTFMaterials(doc *gltf.Document, textures []*texture.Texture) []*material.Material {
	out := make([]*material.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		m := material.Default()
		m.Name = gm.Name

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			m.BaseColorFactor = math.Vec4{X: float32(cf[0]), Y: float32(cf[1]), Z: float32(cf[2]), W: float32(cf[3])}
			m.RoughnessFactor = float32(pbr.RoughnessFactorOrDefault())
			m.MetalnessFactor = float32(pbr.MetallicFactorOrDefault())
			if pbr.BaseColorTexture != nil {
				assignTexture(&m.BaseColorTexture, pbr.BaseColorTexture.Index, textures)
			}
			if pbr.MetallicRoughnessTexture != nil {
				assignTexture(&m.MetallicRoughnessTexture, pbr.MetallicRoughnessTexture.Index, textures)
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			idx := int(*gm.NormalTexture.Index)
			if idx >= 0 && idx < len(textures) {
				m.NormalTexture = textures[idx]
			}
		}
		if gm.EmissiveTexture != nil {
			assignTexture(&m.EmissiveTexture, gm.EmissiveTexture.Index, textures)
		}
		ef := gm.EmissiveFactor
		m.EmissiveFactor = math.Vec3{X: float32(ef[0]), Y: float32(ef[1]), Z: float32(ef[2])}

		switch gm.AlphaMode {
		case gltf.AlphaMask:
			m.AlphaMode = material.Mask
		case gltf.AlphaBlend:
			m.AlphaMode = material.Blend
		default:
			m.AlphaMode = material.Opaque
		}
		m.AlphaCutoff = float32(gm.AlphaCutoffOrDefault())

		out[i] = m
	}
	return out
}

func assignTexture(dst **texture.Texture, idx uint32, textures []*texture.Texture) {
	if int(idx) < len(textures) && textures[idx] != nil {
		*dst = textures[idx]
	}
}

func loadGLTFPrimitive(doc *gltf.Document, prim gltf.Primitive) (*Primitive, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	p := &Primitive{Positions: make([]math.Vec3, len(positions))}
	for i, v := range positions {
		p.Positions[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		p.Normals = make([]math.Vec3, len(normals))
		for i, v := range normals {
			p.Normals[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
		}
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		p.Texcoords0 = make([]math.Vec2, len(uvs))
		for i, v := range uvs {
			// glTF texcoords are top-left origin; flip V to the renderer's
			// bottom-left convention (spec.md §4.2 loader normalization).
			p.Texcoords0[i] = math.Vec2{X: v[0], Y: 1 - v[1]}
		}
	}

	if idx, ok := prim.Attributes["TANGENT"]; ok {
		tangents, _ := modeler.ReadTangent(doc, doc.Accessors[idx], nil)
		p.Tangents = make([]math.Vec4, len(tangents))
		for i, v := range tangents {
			p.Tangents[i] = math.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}
		}
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		p.Triangles = make([]math.U32Vec3, len(indices)/3)
		for i := range p.Triangles {
			p.Triangles[i] = math.U32Vec3{X: indices[i*3], Y: indices[i*3+1], Z: indices[i*3+2]}
		}
	} else {
		p.Triangles = make([]math.U32Vec3, len(p.Positions)/3)
		for i := range p.Triangles {
			p.Triangles[i] = math.U32Vec3{X: uint32(i * 3), Y: uint32(i*3 + 1), Z: uint32(i*3 + 2)}
		}
	}

	return p, nil
}

func loadGLTFAnimations(doc *gltf.Document, nodes []NodeIndex) []*Animation {
	out := make([]*Animation, 0, len(doc.Animations))
	for ai, ga := range doc.Animations {
		anim := &Animation{Name: ga.Name}
		if anim.Name == "" {
			anim.Name = fmt.Sprintf("anim_%d", ai)
		}

		haveRange := false
		samplerTimelines := make([][]float32, len(ga.Samplers))
		for si, gs := range ga.Samplers {
			timeline, _ := modeler.ReadAccessor(doc, doc.Accessors[gs.Input], nil)
			times := timeline.([]float32)

			values, mode := readAnimationValues(doc, doc.Accessors[gs.Output])
			anim.Samplers = append(anim.Samplers, AnimationSampler{
				Timeline:    times,
				Values:      values,
				Interpolate: mode,
			})
			samplerTimelines[si] = times

			for _, t := range times {
				if !haveRange || t < anim.TimelineMin {
					anim.TimelineMin = t
				}
				if !haveRange || t > anim.TimelineMax {
					anim.TimelineMax = t
				}
				haveRange = true
			}
		}

		for _, gc := range ga.Channels {
			if gc.Target.Node == nil {
				continue
			}
			nodeIdx := nodes[*gc.Target.Node]
			var path TargetPath
			switch gc.Target.Path {
			case gltf.TRSTranslation:
				path = TargetTranslation
			case gltf.TRSRotation:
				path = TargetRotation
			case gltf.TRSScale:
				path = TargetScale
			default:
				continue
			}
			anim.Channels = append(anim.Channels, AnimationChannel{
				Sampler:    int(gc.Sampler),
				TargetNode: nodeIdx,
				TargetPath: path,
			})
		}

		out = append(out, anim)
	}
	return out
}

func readAnimationValues(doc *gltf.Document, acc *gltf.Accessor) ([]float32, InterpolationMode) {
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, InterpolateLinear
	}
	switch v := data.(type) {
	case [][3]float32:
		flat := make([]float32, 0, len(v)*3)
		for _, t := range v {
			flat = append(flat, t[0], t[1], t[2])
		}
		return flat, InterpolateLinear
	case [][4]float32:
		flat := make([]float32, 0, len(v)*4)
		for _, q := range v {
			flat = append(flat, q[0], q[1], q[2], q[3])
		}
		return flat, InterpolateSlerp
	default:
		return nil, InterpolateLinear
	}
}

