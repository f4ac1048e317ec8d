package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"render-engine/geometry"
	"render-engine/material"
	math "render-engine/math"
	"render-engine/texture"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

// LoadOBJ parses a Wavefront .obj file into a Model with one mesh per
// object/group, normalizing to the neutral Primitive layout of spec.md §3.
// A companion .mtl file is loaded automatically if referenced via "mtllib".
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	materials := map[string]*material.Material{}

	type objObject struct {
		name    string
		matName string
		faces   []objFace
	}

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 32)
			y, _ := strconv.ParseFloat(fields[2], 32)
			z, _ := strconv.ParseFloat(fields[3], 32)
			positions = append(positions, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})

		case "vn":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 32)
			y, _ := strconv.ParseFloat(fields[2], 32)
			z, _ := strconv.ParseFloat(fields[3], 32)
			normals = append(normals, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			// OBJ texcoords are bottom-left origin already; flip to the
			// renderer's convention (spec.md §4.2 loader normalization).
			uvs = append(uvs, math.Vec2{X: float32(u), Y: 1 - float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				mtlPath := filepath.Join(dir, fields[1])
				loaded, err := loadMTL(mtlPath, dir)
				if err == nil {
					for k, v := range loaded {
						materials[k] = v
					}
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			type fv struct{ v, vt, vn int }
			var fverts []fv
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok))
			}
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scene: scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("scene: no geometry found in %q", path)
	}

	model := NewModel(path)
	for _, obj := range objects {
		prim := buildPrimitiveFromOBJ(obj.faces, positions, normals, uvs)
		geometry.GenerateTangents(prim)

		if mat, ok := materials[obj.matName]; ok {
			prim.Material = mat
		} else {
			prim.Material = material.Default()
		}

		mesh := &Mesh{Name: obj.name, Primitives: []*Primitive{prim}}
		meshIdx := model.AddMesh(mesh)
		nodeIdx := model.AddNode(&Node{Name: obj.name, LocalMatrix: math.Mat4Identity(), Mesh: meshIdx})
		model.Roots = append(model.Roots, nodeIdx)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn", "v/vt/vn".
// Returns 0-based indices (-1 if absent). OBJ is 1-based.
func parseFaceVertex(tok string) struct{ v, vt, vn int } {
	parseIdx := func(s string) int {
		if s == "" {
			return -1
		}
		n, _ := strconv.Atoi(s)
		if n > 0 {
			return n - 1
		}
		return n
	}
	parts := strings.Split(tok, "/")
	res := struct{ v, vt, vn int }{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0])
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1])
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2])
	}
	return res
}

// buildPrimitiveFromOBJ converts parsed face data into a deduplicated
// Primitive. Missing normals/texcoords are left empty so the tangent
// generator (component I) fills them per spec.md §4.3.
func buildPrimitiveFromOBJ(faces []objFace, positions, normals []math.Vec3, uvs []math.Vec2) *Primitive {
	type key struct{ v, vt, vn int }
	vertMap := map[key]uint32{}

	var posOut []math.Vec3
	var normOut []math.Vec3
	var uvOut []math.Vec2
	var triangles []math.U32Vec3

	hasNormals := len(normals) > 0
	hasUVs := len(uvs) > 0

	safePos := func(i int) math.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return math.Vec3{}
	}
	safeNorm := func(i int) math.Vec3 {
		if i >= 0 && i < len(normals) {
			return normals[i]
		}
		return math.Vec3{Y: 1}
	}
	safeUV := func(i int) math.Vec2 {
		if i >= 0 && i < len(uvs) {
			return uvs[i]
		}
		return math.Vec2{}
	}

	resolve := func(k key) uint32 {
		if idx, ok := vertMap[k]; ok {
			return idx
		}
		idx := uint32(len(posOut))
		posOut = append(posOut, safePos(k.v))
		if hasNormals {
			normOut = append(normOut, safeNorm(k.vn))
		}
		if hasUVs {
			uvOut = append(uvOut, safeUV(k.vt))
		}
		vertMap[k] = idx
		return idx
	}

	for _, face := range faces {
		var tri [3]uint32
		for c := 0; c < 3; c++ {
			k := key{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			tri[c] = resolve(k)
		}
		triangles = append(triangles, math.U32Vec3{X: tri[0], Y: tri[1], Z: tri[2]})
	}

	p := &Primitive{Positions: posOut, Triangles: triangles}
	if hasNormals {
		p.Normals = normOut
	}
	if hasUVs {
		p.Texcoords0 = uvOut
	}
	return p
}

// ── MTL loader ───────────────────────────────────────────────────────────────

func loadMTL(path, dir string) (map[string]*material.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]*material.Material{}
	var cur *material.Material

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				m := material.Default()
				m.Name = fields[1]
				mats[fields[1]] = m
				cur = m
			}
		case "Kd":
			if cur != nil && len(fields) >= 4 {
				r, _ := strconv.ParseFloat(fields[1], 32)
				g, _ := strconv.ParseFloat(fields[2], 32)
				b, _ := strconv.ParseFloat(fields[3], 32)
				cur.BaseColorFactor = math.Vec4{X: float32(r), Y: float32(g), Z: float32(b), W: 1}
			}
		case "Pr":
			if cur != nil && len(fields) >= 2 {
				r, _ := strconv.ParseFloat(fields[1], 32)
				cur.RoughnessFactor = float32(r)
			}
		case "Pm":
			if cur != nil && len(fields) >= 2 {
				m, _ := strconv.ParseFloat(fields[1], 32)
				cur.MetalnessFactor = float32(m)
			}
		case "map_Kd":
			// found → assign the decoded texture; decode failure leaves the
			// material's BaseColorTexture nil (sampled as identity white).
			if cur != nil && len(fields) >= 2 {
				texPath := filepath.Join(dir, fields[1])
				if data, err := os.ReadFile(texPath); err == nil {
					if tex, err := texture.DecodeRGBA8(fields[1], data, true); err == nil {
						cur.BaseColorTexture = tex
					}
				}
			}
		}
	}

	return mats, scanner.Err()
}
