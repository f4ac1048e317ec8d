// Package raycam implements the pinhole/thin-lens camera ray generator
// (spec.md §3 "Camera", §4.4, component B). External camera controllers
// (display.OrbitController, display.FPSController) mutate a Camera's public
// fields between render passes; the renderer reads the current values at
// pass start (spec.md §6 "Camera controller").
package raycam

import (
	"github.com/chewxy/math32"

	"render-engine/intersector"
	math "render-engine/math"
	"render-engine/rng"
)

// Camera holds the state of spec.md §3 "Camera". Side/TrueUp/Aspect are
// derived from Dir/Up/Width/Height on every RayFor call rather than cached,
// since external controllers may mutate Dir/Up/Origin between passes.
type Camera struct {
	Width, Height uint32
	FOVDegrees    float32
	Tnear, Tfar   float32
	Origin        math.Vec3
	Dir           math.Vec3
	Up            math.Vec3
	LensRadius    float32
	FocusDistance float32

	// Equirectangular switches ray_for to the full-sphere panoramic
	// projection of spec.md §4.4, ignoring FOV/lens.
	Equirectangular bool
}

// New returns a camera with a sane default orientation and tnear/tfar.
func New(width, height uint32, fovDegrees float32) *Camera {
	return &Camera{
		Width: width, Height: height,
		FOVDegrees:    fovDegrees,
		Tnear:         1e-4,
		Tfar:          1e30,
		Origin:        math.Vec3{},
		Dir:           math.Vec3{Z: -1},
		Up:            math.Vec3{Y: 1},
		FocusDistance: 1,
	}
}

// LookAt sets Origin/Dir/Up per spec.md §4.4 "lookAt".
func (c *Camera) LookAt(eye, target, up math.Vec3) {
	c.Origin = eye
	c.Dir = target.Sub(eye).Normalize()
	c.Up = up
}

// Aspect returns width/height.
func (c *Camera) Aspect() float32 {
	return float32(c.Width) / float32(c.Height)
}

// Basis returns the derived (side, trueUp) orthonormal basis of spec.md §3.
func (c *Camera) Basis() (side, trueUp math.Vec3) {
	side = c.Dir.Cross(c.Up).Normalize()
	trueUp = side.Cross(c.Dir).Normalize()
	return
}

// RayFor generates a primary ray for NDC coordinates in [-1,1] (spec.md
// §4.4 "ray_for"). rngState supplies the two uniform randoms used for the
// thin-lens disk sample when LensRadius > 0; pass a zero rng.State when
// LensRadius is 0 (never consulted).
func (c *Camera) RayFor(xNDC, yNDC float32, rngState *rng.State) intersector.Ray {
	if c.Equirectangular {
		return c.rayForEquirectangular(xNDC, yNDC)
	}

	side, trueUp := c.Basis()
	scale := math32.Tan(c.FOVDegrees * 0.5 * (math32.Pi / 180))

	dirSample := side.Mul(scale * xNDC).Add(trueUp.Mul(scale * yNDC)).Add(c.Dir).Normalize()

	if c.LensRadius <= 0 {
		return intersector.Ray{Origin: c.Origin, Dir: dirSample, Tnear: c.Tnear, Tfar: c.Tfar}
	}

	u1 := rngState.Uniform01f()
	u2 := rngState.Uniform01f()
	dx, dy := concentricDisk(u1, u2)
	diskOffset := side.Mul(dx * c.LensRadius).Add(trueUp.Mul(dy * c.LensRadius))

	denom := dirSample.Dot(c.Dir)
	if denom == 0 {
		denom = 1e-6
	}
	focusPoint := c.Origin.Add(dirSample.Mul(c.FocusDistance / denom))

	newOrigin := c.Origin.Add(diskOffset)
	newDir := focusPoint.Sub(newOrigin).Normalize()
	return intersector.Ray{Origin: newOrigin, Dir: newDir, Tnear: c.Tnear, Tfar: c.Tfar}
}

func (c *Camera) rayForEquirectangular(xNDC, yNDC float32) intersector.Ray {
	theta := math32.Pi * (2 * xNDC)
	phi := math32.Pi * yNDC

	sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)
	sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)

	side, trueUp := c.Basis()
	localDir := math.Vec3{X: cosPhi * sinTheta, Y: sinPhi, Z: cosPhi * cosTheta}

	dir := side.Mul(localDir.X).Add(trueUp.Mul(localDir.Y)).Add(c.Dir.Mul(localDir.Z)).Normalize()
	return intersector.Ray{Origin: c.Origin, Dir: dir, Tnear: c.Tnear, Tfar: c.Tfar}
}

// concentricDisk maps two uniform [0,1) randoms to a point on the unit disk
// via Shirley's concentric mapping (spec.md §4.4 "concentric map").
func concentricDisk(u1, u2 float32) (x, y float32) {
	sx := 2*u1 - 1
	sy := 2*u2 - 1
	if sx == 0 && sy == 0 {
		return 0, 0
	}

	var r, theta float32
	if math32.Abs(sx) > math32.Abs(sy) {
		r = sx
		theta = (math32.Pi / 4) * (sy / sx)
	} else {
		r = sy
		theta = (math32.Pi / 2) - (math32.Pi/4)*(sx/sy)
	}
	sinT, cosT := math32.Sin(theta), math32.Cos(theta)
	return r * cosT, r * sinT
}
