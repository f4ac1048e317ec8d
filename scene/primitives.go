package scene

import (
	stdmath "math"

	"render-engine/geometry"
	"render-engine/material"
	math "render-engine/math"
)

// procedural builds a single-primitive Model from raw vertex buffers, then
// runs the tangent generator to fill tangents (spec.md §4.3).
func procedural(name string, positions, normals []math.Vec3, uvs []math.Vec2, triangles []math.U32Vec3) *Model {
	prim := &Primitive{
		Positions:  positions,
		Normals:    normals,
		Texcoords0: uvs,
		Triangles:  triangles,
		Material:   material.Default(),
	}
	geometry.GenerateTangents(prim)

	model := NewModel(name)
	mesh := &Mesh{Name: name, Primitives: []*Primitive{prim}}
	meshIdx := model.AddMesh(mesh)
	nodeIdx := model.AddNode(&Node{Name: name, LocalMatrix: math.Mat4Identity(), Mesh: meshIdx})
	model.Roots = []NodeIndex{nodeIdx}
	return model
}

// CreateSphere generates a UV-sphere model.
func CreateSphere(radius float32, segments, rings int) *Model {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var positions, normals []math.Vec3
	var uvs []math.Vec2
	var triangles []math.U32Vec3

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			sinTheta := float32(stdmath.Sin(theta))
			cosTheta := float32(stdmath.Cos(theta))

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			positions = append(positions, normal.Mul(radius))
			normals = append(normals, normal)
			uvs = append(uvs, math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			triangles = append(triangles,
				math.U32Vec3{X: current, Y: next, Z: current + 1},
				math.U32Vec3{X: current + 1, Y: next, Z: next + 1},
			)
		}
	}

	return procedural("Sphere", positions, normals, uvs, triangles)
}

// CreatePlane generates a flat subdivided plane model.
func CreatePlane(width, depth float32, subdivisions int) *Model {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var positions, normals []math.Vec3
	var uvs []math.Vec2
	var triangles []math.U32Vec3

	halfW := width / 2.0
	halfD := depth / 2.0

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			positions = append(positions, math.Vec3{X: -halfW + u*width, Y: 0, Z: -halfD + v*depth})
			normals = append(normals, math.Vec3{Y: 1})
			uvs = append(uvs, math.Vec2{X: u, Y: v})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1
			triangles = append(triangles,
				math.U32Vec3{X: topLeft, Y: bottomLeft, Z: topRight},
				math.U32Vec3{X: topRight, Y: bottomLeft, Z: bottomRight},
			)
		}
	}

	return procedural("Plane", positions, normals, uvs, triangles)
}

// CreateCube generates a cube model of the given edge length, one quad per
// face split into two triangles, with per-face flat normals.
func CreateCube(size float32) *Model {
	s := size / 2
	type face struct {
		normal   math.Vec3
		corners  [4]math.Vec3
	}
	faces := []face{
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: -s}, {X: -s, Y: s, Z: -s}, {X: s, Y: s, Z: -s}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -s, Y: s, Z: s}, {X: s, Y: s, Z: s}, {X: s, Y: s, Z: -s}, {X: -s, Y: s, Z: -s}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: -s, Z: s}, {X: -s, Y: -s, Z: s}}},
		{math.Vec3{X: 1}, [4]math.Vec3{{X: s, Y: -s, Z: s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: s, Y: s, Z: s}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: s}, {X: -s, Y: s, Z: s}, {X: -s, Y: s, Z: -s}}},
	}

	var positions, normals []math.Vec3
	var uvs []math.Vec2
	var triangles []math.U32Vec3
	faceUVs := [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	for _, f := range faces {
		base := uint32(len(positions))
		for i, c := range f.corners {
			positions = append(positions, c)
			normals = append(normals, f.normal)
			uvs = append(uvs, faceUVs[i])
		}
		triangles = append(triangles,
			math.U32Vec3{X: base, Y: base + 1, Z: base + 2},
			math.U32Vec3{X: base + 2, Y: base + 3, Z: base},
		)
	}

	return procedural("Cube", positions, normals, uvs, triangles)
}
