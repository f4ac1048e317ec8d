package geometry

import (
	"render-engine/intersector"
	math "render-engine/math"
	"render-engine/scene"
)

// nodeLink remembers the parent chain from a scene.Model's root down to the
// node that owns a Geometry binding, so updateGeometries can recompute its
// world transform each frame without re-walking the whole forest
// (spec.md §3 "Geometry (live binding)").
type nodeLink struct {
	node   scene.NodeIndex
	parent *nodeLink // nil at a root
}

// Binding pairs an attached intersector.GeomID with the primitive and node
// chain that produced it (spec.md §3 "Geometry (live binding)").
type Binding struct {
	GeomID    intersector.GeomID
	Primitive *scene.Primitive
	chain     *nodeLink
}

// GenerateGeometries flattens model's default-scene node forest into
// intersector geometries (spec.md §4.2 "generateGeometries"). Every
// primitive under a node with a mesh is transformed into world space,
// attached to scn, and its material registered as geometry user-data.
func GenerateGeometries(model *scene.Model, scn *intersector.Scene) ([]*Binding, error) {
	var bindings []*Binding

	var walk func(idx scene.NodeIndex, parent *nodeLink, transform math.Mat4) error
	walk = func(idx scene.NodeIndex, parent *nodeLink, transform math.Mat4) error {
		node := model.Node(idx)
		world := node.LocalMatrix.Mul(transform)
		link := &nodeLink{node: idx, parent: parent}

		if node.HasMesh() {
			mesh := model.Mesh(node.Mesh)
			for _, prim := range mesh.Primitives {
				b, err := attachPrimitive(prim, world, scn)
				if err != nil {
					return err
				}
				b.chain = link
				bindings = append(bindings, b)
			}
		}

		for _, c := range node.Children {
			if err := walk(c, link, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range model.Roots {
		if err := walk(root, nil, math.Mat4Identity()); err != nil {
			return nil, err
		}
	}
	return bindings, nil
}

func attachPrimitive(prim *scene.Primitive, world math.Mat4, scn *intersector.Scene) (*Binding, error) {
	n := len(prim.Positions)
	m := len(prim.Triangles)

	geom := intersector.NewGeometry(n, m)
	copy(geom.Triangles, prim.Triangles)

	normalMat := world.NormalMatrix()
	for i := 0; i < n; i++ {
		geom.Positions[i] = world.MulVec3(prim.Positions[i])
	}

	normals := make([]math.Vec3, n)
	tangents := make([]math.Vec4, n)
	bitangents := make([]math.Vec3, n)
	texcoords := make([]math.Vec2, n)
	for i := 0; i < n; i++ {
		normal := normalMat.TransformDirection(prim.Normals[i]).Normalize()
		normals[i] = normal

		tangent := prim.Tangents[i]
		tXYZ := world.TransformDirection(math.Vec3{X: tangent.X, Y: tangent.Y, Z: tangent.Z}).Normalize()
		tangents[i] = math.Vec4{X: tXYZ.X, Y: tXYZ.Y, Z: tXYZ.Z, W: tangent.W}

		objectBitangent := prim.Normals[i].Cross(math.Vec3{X: tangent.X, Y: tangent.Y, Z: tangent.Z}).Mul(tangent.W)
		bitangents[i] = normalMat.TransformDirection(objectBitangent).Normalize()

		texcoords[i] = prim.Texcoords0[i]
	}

	geom.SetNormals(normals)
	geom.SetTexcoords(texcoords)
	geom.SetTangents(tangents)
	geom.SetBitangents(bitangents)
	geom.SetUserData(prim.Material)

	id, err := scn.Attach(geom)
	if err != nil {
		return nil, err
	}
	return &Binding{GeomID: id, Primitive: prim}, nil
}

// UpdateGeometries recomputes every binding's world transform at time t
// under the given animation (spec.md §4.2 "updateGeometries"). t is folded
// into the animation's timeline via wrapTime before evaluation. Rewrites
// position/normal/tangent/bitangent buffers in place and recommits the
// scene.
func UpdateGeometries(model *scene.Model, scn *intersector.Scene, bindings []*Binding, anim *scene.Animation, t float32) error {
	tPrime := wrapTime(anim, t)

	for _, b := range bindings {
		world := worldTransform(model, b.chain, anim, tPrime)
		rewriteBinding(model, scn, b, world)
	}
	return scn.CommitScene()
}

// worldTransform walks from root to the binding's node, composing
// M = parent · M_anim(node) · node.local_matrix at each step.
func worldTransform(model *scene.Model, chain *nodeLink, anim *scene.Animation, t float32) math.Mat4 {
	var links []*nodeLink
	for l := chain; l != nil; l = l.parent {
		links = append(links, l)
	}

	m := math.Mat4Identity()
	for i := len(links) - 1; i >= 0; i-- {
		link := links[i]
		node := model.Node(link.node)
		mAnim := animatedMatrix(anim, link.node, t)
		m = node.LocalMatrix.Mul(mAnim).Mul(m)
	}
	return m
}

func rewriteBinding(model *scene.Model, scn *intersector.Scene, b *Binding, world math.Mat4) {
	geom := scn.Geometry(b.GeomID)
	if geom == nil {
		return
	}
	prim := b.Primitive
	n := len(prim.Positions)
	normalMat := world.NormalMatrix()

	normals := make([]math.Vec3, n)
	tangents := make([]math.Vec4, n)
	bitangents := make([]math.Vec3, n)

	for i := 0; i < n; i++ {
		geom.Positions[i] = world.MulVec3(prim.Positions[i])

		normal := normalMat.TransformDirection(prim.Normals[i]).Normalize()
		normals[i] = normal

		tangent := prim.Tangents[i]
		tXYZ := world.TransformDirection(math.Vec3{X: tangent.X, Y: tangent.Y, Z: tangent.Z}).Normalize()
		tangents[i] = math.Vec4{X: tXYZ.X, Y: tXYZ.Y, Z: tXYZ.Z, W: tangent.W}

		objectBitangent := prim.Normals[i].Cross(math.Vec3{X: tangent.X, Y: tangent.Y, Z: tangent.Z}).Mul(tangent.W)
		bitangents[i] = normalMat.TransformDirection(objectBitangent).Normalize()
	}

	geom.SetNormals(normals)
	geom.SetTangents(tangents)
	geom.SetBitangents(bitangents)
	geom.MarkDirty()

	_ = model
}
