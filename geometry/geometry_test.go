package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-engine/intersector"
	math "render-engine/math"
	"render-engine/scene"
)

func trianglePrimitive() *scene.Primitive {
	p := &scene.Primitive{
		Positions: []math.Vec3{
			{X: -1, Y: -1, Z: 0},
			{X: 1, Y: -1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Triangles: []math.U32Vec3{{X: 0, Y: 1, Z: 2}},
	}
	GenerateTangents(p)
	return p
}

func TestGenerateTangentsFillsMissingNormals(t *testing.T) {
	p := trianglePrimitive()
	require.Len(t, p.Normals, 3)
	for _, n := range p.Normals {
		assert.InDelta(t, 1, n.Length(), 1e-5)
	}
}

func TestGenerateTangentsMarksUntexturedWhenTexcoordsMissing(t *testing.T) {
	p := trianglePrimitive()
	assert.True(t, p.Untextured)
	for _, uv := range p.Texcoords0 {
		assert.Equal(t, math.Vec2{}, uv)
	}
}

func TestGenerateTangentsUnitLength(t *testing.T) {
	p := &scene.Primitive{
		Positions: []math.Vec3{
			{X: -1, Y: -1, Z: 0},
			{X: 1, Y: -1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Texcoords0: []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1}},
		Triangles:  []math.U32Vec3{{X: 0, Y: 1, Z: 2}},
	}
	GenerateTangents(p)
	for _, tn := range p.Tangents {
		xyz := math.Vec3{X: tn.X, Y: tn.Y, Z: tn.Z}
		assert.InDelta(t, 1, xyz.Length(), 1e-5)
	}
}

func quadModel() *scene.Model {
	m := scene.NewModel("test")
	prim := trianglePrimitive()
	prim.Material = nil
	mesh := &scene.Mesh{Name: "tri", Primitives: []*scene.Primitive{prim}}
	meshIdx := m.AddMesh(mesh)
	nodeIdx := m.AddNode(&scene.Node{Name: "n0", LocalMatrix: math.Mat4Identity(), Mesh: meshIdx, Children: nil})
	m.Roots = []scene.NodeIndex{nodeIdx}
	return m
}

func TestGenerateGeometriesAttachesEachPrimitive(t *testing.T) {
	m := quadModel()
	scn := intersector.NewScene()
	bindings, err := GenerateGeometries(m, scn)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.NotEqual(t, intersector.InvalidGeomID, bindings[0].GeomID)
}

func TestUpdateGeometriesWithoutAnimationIsIdentity(t *testing.T) {
	m := quadModel()
	scn := intersector.NewScene()
	bindings, err := GenerateGeometries(m, scn)
	require.NoError(t, err)

	before := append([]math.Vec3(nil), scn.Geometry(bindings[0].GeomID).Positions...)
	err = UpdateGeometries(m, scn, bindings, nil, 0)
	require.NoError(t, err)
	after := scn.Geometry(bindings[0].GeomID).Positions
	assert.Equal(t, before, after)
}

func TestWrapTimeCyclic(t *testing.T) {
	anim := &scene.Animation{TimelineMax: 2}
	assert.InDelta(t, 0.5, wrapTime(anim, 2.5), 1e-5)
	assert.InDelta(t, 0.5, wrapTime(anim, 0.5), 1e-5)
}

func TestWrapTimeNilAnimationIsIdentity(t *testing.T) {
	assert.Equal(t, float32(3.7), wrapTime(nil, 3.7))
}
