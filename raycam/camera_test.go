package raycam

import (
	"testing"

	"github.com/stretchr/testify/assert"

	math "render-engine/math"
	"render-engine/rng"
)

func TestLookAtSetsDerivedFields(t *testing.T) {
	c := New(800, 600, 60)
	c.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3{Y: 1})
	assert.InDelta(t, 1, c.Dir.Length(), 1e-6)
	assert.InDelta(t, -1, c.Dir.Z, 1e-6)
}

func TestAspectMatchesWidthOverHeight(t *testing.T) {
	c := New(1920, 1080, 60)
	assert.InDelta(t, float64(1920)/float64(1080), float64(c.Aspect()), 1e-6)
}

func TestRayForCenterMatchesDirWithoutLens(t *testing.T) {
	c := New(100, 100, 60)
	c.LookAt(math.Vec3{}, math.Vec3{Z: -1}, math.Vec3{Y: 1})
	ray := c.RayFor(0, 0, nil)
	assert.InDelta(t, c.Dir.X, ray.Dir.X, 1e-5)
	assert.InDelta(t, c.Dir.Y, ray.Dir.Y, 1e-5)
	assert.InDelta(t, c.Dir.Z, ray.Dir.Z, 1e-5)
}

func TestRayForWithLensOffsetsOrigin(t *testing.T) {
	c := New(100, 100, 60)
	c.LookAt(math.Vec3{}, math.Vec3{Z: -1}, math.Vec3{Y: 1})
	c.LensRadius = 0.1
	c.FocusDistance = 5

	st := rng.Seed(12345, 67890)
	ray := c.RayFor(0.3, -0.2, &st)
	assert.InDelta(t, 1, ray.Dir.Length(), 1e-4)
}

func TestEquirectangularCoversFullSphere(t *testing.T) {
	c := New(100, 100, 60)
	c.Equirectangular = true
	c.LookAt(math.Vec3{}, math.Vec3{Z: -1}, math.Vec3{Y: 1})

	forward := c.RayFor(0, 0, nil)
	backward := c.RayFor(0.5, 0, nil)
	assert.InDelta(t, 1, forward.Dir.Length(), 1e-4)
	assert.InDelta(t, 1, backward.Dir.Length(), 1e-4)
	assert.Less(t, forward.Dir.Dot(backward.Dir), float32(0))
}
