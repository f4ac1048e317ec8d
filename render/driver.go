package render

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"render-engine/geometry"
	"render-engine/image"
	"render-engine/intersector"
	math "render-engine/math"
	"render-engine/raycam"
	"render-engine/rng"
	"render-engine/scene"
	"render-engine/shading"
	"render-engine/tile"
)

// Driver orchestrates the render passes of spec.md §4.9: build or update
// geometry, commit the intersector, dispatch tiles, accumulate samples, and
// run the post-pipeline. A Driver owns one Model/Scene/Buffer triple for
// its lifetime; swap models by calling SetModel, which rebuilds bindings
// from scratch.
type Driver struct {
	log *zap.Logger

	model    *scene.Model
	scn      *intersector.Scene
	bindings []*geometry.Binding

	Camera *raycam.Camera
	Buffer *image.Buffer

	pool *tile.Pool

	sampleCount uint32
	background  math.Vec3
}

// New constructs a Driver for the given model, camera and output size. log
// may be nil, in which case a no-op logger is used.
func New(model *scene.Model, cam *raycam.Camera, width, height int, log *zap.Logger) (*Driver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Driver{
		log:    log,
		Camera: cam,
		Buffer: image.New(width, height),
		scn:    intersector.NewScene(),
	}
	if err := d.SetModel(model); err != nil {
		return nil, err
	}
	return d, nil
}

// SetModel releases the current geometry (if any) and rebuilds intersector
// bindings for model (spec.md §4.9 "geometry rebuild on model swap").
func (d *Driver) SetModel(model *scene.Model) error {
	if model == nil {
		return newError(KindInvalidInput, "SetModel", fmt.Errorf("nil model"))
	}
	for _, b := range d.bindings {
		d.scn.Release(b.GeomID)
	}
	bindings, err := geometry.GenerateGeometries(model, d.scn)
	if err != nil {
		return newError(KindInvalidInput, "SetModel", err)
	}
	d.model = model
	d.bindings = bindings
	d.sampleCount = 0
	d.Buffer.Reset()
	return nil
}

// Animate re-evaluates anim at time t and rewrites every binding's world
// transform (spec.md §4.9 "animation update"). Pass a nil anim to hold the
// bind pose.
func (d *Driver) Animate(anim *scene.Animation, t float32) error {
	if err := geometry.UpdateGeometries(d.model, d.scn, d.bindings, anim, t); err != nil {
		return newError(KindIntersectorCommit, "Animate", err)
	}
	return nil
}

// SetBackground sets the radiance returned for primary rays that escape
// the scene (spec.md §4.6 "miss radiance").
func (d *Driver) SetBackground(c math.Vec3) {
	d.background = c
}

// Reset clears the accumulated sample count and buffer without touching
// geometry, for use after the camera moves (spec.md §6 "Camera controller"
// invalidates accumulated samples since they were taken from stale rays).
func (d *Driver) Reset() {
	d.sampleCount = 0
	d.Buffer.Reset()
}

// Progress returns the fraction of MaxSamples accumulated so far, for
// progressive-rendering UIs (SPEC_FULL.md supplement).
func (d *Driver) Progress(p Params) float32 {
	p = p.normalize()
	if p.MaxSamples == 0 {
		return 1
	}
	return float32(d.sampleCount) / float32(p.MaxSamples)
}

// RenderPass runs one pass of p.Samples additional samples per pixel
// (classic/AOV modes always shade exactly one sample per pixel per pass)
// and updates the LDR preview (spec.md §4.9 steps 1-5). Returns a *Error on
// failure; ctx cancellation is honored between tile batches.
func (d *Driver) RenderPass(ctx context.Context, p Params) error {
	p = p.normalize()

	if err := d.scn.CommitScene(); err != nil {
		return newError(KindIntersectorCommit, "RenderPass", err)
	}

	if d.pool == nil {
		d.pool = tile.NewPool(p.Workers)
	}

	w, h := d.Buffer.Size.W, d.Buffer.Size.H
	tiles := tile.Split(w, h, p.TileWidth, p.TileHeight)

	samples := p.Samples
	if p.Mode != shading.ModePathtracing {
		samples = 1
	}
	if d.sampleCount+samples > p.MaxSamples {
		if d.sampleCount >= p.MaxSamples {
			samples = 0
		} else {
			samples = p.MaxSamples - d.sampleCount
		}
	}

	shParams := shading.Params{AOSamples: p.AOSamples, DepthMin: p.DepthMin, DepthLimit: p.DepthLimit}

	for s := uint32(0); s < samples; s++ {
		pass := d.sampleCount + s
		err := d.pool.RenderPass(ctx, tiles, pass, func(t tile.Rect, st *rng.State) {
			tile.ForEachPixel(t, st, func(x, y int, st *rng.State) {
				d.shadePixel(x, y, p, shParams, st)
			})
		})
		if err != nil {
			if ctx.Err() != nil {
				return newError(KindCancelled, "RenderPass", err)
			}
			return newError(KindIntersectorCommit, "RenderPass", err)
		}
	}
	d.sampleCount += samples

	divisor := d.sampleCount
	if p.Mode != shading.ModePathtracing {
		divisor = 1
	}
	d.Buffer.UpdateLDRSamples(p.ToneMap, divisor)

	d.log.Debug("render pass complete",
		zap.Uint32("samples_this_pass", samples),
		zap.Uint32("total_samples", d.sampleCount),
		zap.Int("width", w), zap.Int("height", h),
	)
	return nil
}

// pixelSample returns the (x,y) sample position within pixel (x,y), the
// pixel center unless supersample is set, in which case it is jittered by
// two uniforms drawn from st over the pixel's unit square (spec.md §6
// "super_sample", §4.6 "Jitter the NDC with two uniforms when
// supersampling is enabled").
func pixelSample(x, y int, supersample bool, st *rng.State) (px, py float32) {
	px, py = float32(x)+0.5, float32(y)+0.5
	if supersample {
		px += st.Uniform01f() - 0.5
		py += st.Uniform01f() - 0.5
	}
	return px, py
}

func (d *Driver) shadePixel(x, y int, p Params, shParams shading.Params, st *rng.State) {
	w, h := d.Buffer.Size.W, d.Buffer.Size.H
	px, py := pixelSample(x, y, p.SuperSample, st)
	xNDC := (2*px/float32(w) - 1) * d.Camera.Aspect()
	yNDC := 1 - 2*py/float32(h)

	d.Camera.LensRadius = p.LensRadius
	d.Camera.FocusDistance = p.FocusDistance
	d.Camera.Equirectangular = p.Equirectangular

	ray := d.Camera.RayFor(xNDC, yNDC, st)
	c := shading.Shade(p.Mode, d.scn, ray, d.background, shParams, st)

	i := d.Buffer.Index(x, y)
	if d.Buffer.AccumulateRadiance(i, c) {
		d.log.Warn("non-finite radiance sample scrubbed", zap.Int("x", x), zap.Int("y", y))
	}

	if p.Mode == shading.ModeAlbedo {
		d.Buffer.Albedo[i] = c
	}
	if p.Mode == shading.ModeNormal {
		d.Buffer.Normal[i] = c
	}
}

// Close releases the tile worker pool.
func (d *Driver) Close() {
	if d.pool != nil {
		d.pool.Release()
	}
}
