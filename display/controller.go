package display

import (
	"github.com/chewxy/math32"

	"render-engine/core"
	math "render-engine/math"
	"render-engine/raycam"
)

// OrbitController drives a raycam.Camera around a fixed target via mouse
// drag (yaw/pitch) and scroll (distance), the interactive-preview analogue
// of the teacher's rasterizer orbit camera adapted to mutate Origin/Dir/Up
// directly instead of a view matrix (SPEC_FULL.md "display").
type OrbitController struct {
	Target             math.Vec3
	Distance           float32
	Yaw, Pitch         float32
	MinDistance        float32
	MaxDistance        float32
	RotateSpeed        float32
	ZoomSpeed          float32

	dragging   bool
	lastX, lastY float64
}

// NewOrbitController returns a controller orbiting target at the given
// distance, looking down -Z with no rotation.
func NewOrbitController(target math.Vec3, distance float32) *OrbitController {
	return &OrbitController{
		Target:      target,
		Distance:    distance,
		MinDistance: 0.1,
		MaxDistance: 1000,
		RotateSpeed: 0.005,
		ZoomSpeed:   0.1,
	}
}

// Attach wires mouse scroll to zoom. Drag/rotate is driven by Update
// polling the window each frame, since GLFW cursor-position callbacks run
// off the render loop's cadence.
func (o *OrbitController) Attach(win *core.Window) {
	win.SetScrollCallback(func(_, yoff float64) {
		o.Distance -= float32(yoff) * o.ZoomSpeed * o.Distance
		if o.Distance < o.MinDistance {
			o.Distance = o.MinDistance
		}
		if o.Distance > o.MaxDistance {
			o.Distance = o.MaxDistance
		}
	})
}

// Update polls the left mouse button and cursor position to accumulate
// yaw/pitch while dragging, then writes the resulting Origin/Dir/Up into
// cam.
func (o *OrbitController) Update(win *core.Window, cam *raycam.Camera) {
	x, y := win.GetCursorPos()
	pressed := win.IsMouseButtonPressed(0)

	if pressed && o.dragging {
		o.Yaw -= float32(x-o.lastX) * o.RotateSpeed
		o.Pitch -= float32(y-o.lastY) * o.RotateSpeed
		const limit = 1.5533 // ~89 degrees, avoids gimbal lock at the poles
		if o.Pitch > limit {
			o.Pitch = limit
		}
		if o.Pitch < -limit {
			o.Pitch = -limit
		}
	}
	o.dragging = pressed
	o.lastX, o.lastY = x, y

	cosPitch := math32.Cos(o.Pitch)
	offset := math.Vec3{
		X: o.Distance * cosPitch * math32.Sin(o.Yaw),
		Y: o.Distance * math32.Sin(o.Pitch),
		Z: o.Distance * cosPitch * math32.Cos(o.Yaw),
	}
	eye := o.Target.Add(offset)
	cam.LookAt(eye, o.Target, math.Vec3{Y: 1})
}

// FPSController moves a raycam.Camera freely via WASD translation and
// mouse-look rotation, the free-fly analogue to OrbitController.
type FPSController struct {
	Yaw, Pitch float32
	MoveSpeed  float32
	LookSpeed  float32

	haveLast     bool
	lastX, lastY float64
}

// NewFPSController returns a controller with sane default speeds.
func NewFPSController() *FPSController {
	return &FPSController{MoveSpeed: 2, LookSpeed: 0.003}
}

// Update polls WASD keys and cursor delta, advancing cam.Origin and
// recomputing cam.Dir/Up from the accumulated yaw/pitch. dt is the frame
// time in seconds.
func (f *FPSController) Update(win *core.Window, cam *raycam.Camera, dt float32) {
	x, y := win.GetCursorPos()
	if f.haveLast {
		f.Yaw -= float32(x-f.lastX) * f.LookSpeed
		f.Pitch -= float32(y-f.lastY) * f.LookSpeed
		const limit = 1.5533
		if f.Pitch > limit {
			f.Pitch = limit
		}
		if f.Pitch < -limit {
			f.Pitch = -limit
		}
	}
	f.lastX, f.lastY = x, y
	f.haveLast = true

	cosPitch := math32.Cos(f.Pitch)
	dir := math.Vec3{
		X: cosPitch * math32.Sin(f.Yaw),
		Y: math32.Sin(f.Pitch),
		Z: cosPitch * math32.Cos(f.Yaw),
	}.Normalize()

	up := math.Vec3{Y: 1}
	side := dir.Cross(up).Normalize()

	move := f.MoveSpeed * dt
	if win.IsKeyPressed(core.KeyW) {
		cam.Origin = cam.Origin.Add(dir.Mul(move))
	}
	if win.IsKeyPressed(core.KeyS) {
		cam.Origin = cam.Origin.Sub(dir.Mul(move))
	}
	if win.IsKeyPressed(core.KeyD) {
		cam.Origin = cam.Origin.Add(side.Mul(move))
	}
	if win.IsKeyPressed(core.KeyA) {
		cam.Origin = cam.Origin.Sub(side.Mul(move))
	}
	if win.IsKeyPressed(core.KeySpace) {
		cam.Origin = cam.Origin.Add(up.Mul(move))
	}

	cam.Dir = dir
	cam.Up = up
}
