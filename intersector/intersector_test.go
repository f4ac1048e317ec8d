package intersector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	math "render-engine/math"
)

func singleTriangleGeometry() *Geometry {
	g := NewGeometry(3, 1)
	g.Positions[0] = math.Vec3{X: -1, Y: -1, Z: 0}
	g.Positions[1] = math.Vec3{X: 1, Y: -1, Z: 0}
	g.Positions[2] = math.Vec3{X: 0, Y: 1, Z: 0}
	g.Triangles[0] = math.U32Vec3{X: 0, Y: 1, Z: 2}
	g.SetNormals([]math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}})
	g.SetTexcoords([]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1}})
	return g
}

func TestAttachCommitIntersectHit(t *testing.T) {
	s := NewScene()
	g := singleTriangleGeometry()
	id, err := s.Attach(g)
	require.NoError(t, err)

	ray := Ray{Origin: math.Vec3{X: 0, Y: 0, Z: -5}, Dir: math.Vec3{Z: 1}, Tnear: 0, Tfar: 1e30}
	hit := s.Intersect1(ray)
	assert.Equal(t, id, hit.GeomID)
	assert.InDelta(t, 5, hit.Tfar, 1e-4)
}

func TestIntersectMissReturnsInvalidGeomID(t *testing.T) {
	s := NewScene()
	g := singleTriangleGeometry()
	_, err := s.Attach(g)
	require.NoError(t, err)

	ray := Ray{Origin: math.Vec3{X: 10, Y: 10, Z: -5}, Dir: math.Vec3{Z: 1}, Tnear: 0, Tfar: 1e30}
	hit := s.Intersect1(ray)
	assert.Equal(t, InvalidGeomID, hit.GeomID)
}

func TestOccluded1MutatesTfarOnHit(t *testing.T) {
	s := NewScene()
	g := singleTriangleGeometry()
	_, err := s.Attach(g)
	require.NoError(t, err)

	ray := &Ray{Origin: math.Vec3{X: 0, Y: 0, Z: -5}, Dir: math.Vec3{Z: 1}, Tnear: 0, Tfar: 1e30}
	occluded := s.Occluded1(ray)
	assert.True(t, occluded)
	assert.Less(t, ray.Tfar, float32(0))
}

func TestOccluded1UnchangedOnMiss(t *testing.T) {
	s := NewScene()
	g := singleTriangleGeometry()
	_, err := s.Attach(g)
	require.NoError(t, err)

	ray := &Ray{Origin: math.Vec3{X: 10, Y: 10, Z: -5}, Dir: math.Vec3{Z: 1}, Tnear: 0, Tfar: 1e30}
	occluded := s.Occluded1(ray)
	assert.False(t, occluded)
	assert.Equal(t, float32(1e30), ray.Tfar)
}

func TestInterpolate0NormalAtCentroid(t *testing.T) {
	s := NewScene()
	g := singleTriangleGeometry()
	id, err := s.Attach(g)
	require.NoError(t, err)

	n := s.Interpolate0(id, 0, 1.0/3, 1.0/3, SlotNormal)
	assert.InDelta(t, 0, n.X, 1e-5)
	assert.InDelta(t, 0, n.Y, 1e-5)
	assert.InDelta(t, 1, n.Z, 1e-5)
}

func TestIntersectFilterRejectsCandidate(t *testing.T) {
	s := NewScene()
	g := singleTriangleGeometry()
	g.SetIntersectFilter(func(geomID GeomID, primID int, u, v float32) bool {
		return false
	})
	_, err := s.Attach(g)
	require.NoError(t, err)

	ray := Ray{Origin: math.Vec3{X: 0, Y: 0, Z: -5}, Dir: math.Vec3{Z: 1}, Tnear: 0, Tfar: 1e30}
	hit := s.Intersect1(ray)
	assert.Equal(t, InvalidGeomID, hit.GeomID)
}

func TestDetachRemovesFromQueries(t *testing.T) {
	s := NewScene()
	g := singleTriangleGeometry()
	id, err := s.Attach(g)
	require.NoError(t, err)

	s.Detach(id)
	ray := Ray{Origin: math.Vec3{X: 0, Y: 0, Z: -5}, Dir: math.Vec3{Z: 1}, Tnear: 0, Tfar: 1e30}
	hit := s.Intersect1(ray)
	assert.Equal(t, InvalidGeomID, hit.GeomID)
}
