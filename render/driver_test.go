package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	math "render-engine/math"
	"render-engine/raycam"
	"render-engine/rng"
	"render-engine/scene"
	"render-engine/shading"
)

func TestRenderPassEmptySceneIsBlack(t *testing.T) {
	model := scene.NewModel("empty")
	cam := raycam.New(4, 4, 60)
	cam.LookAt(math.Vec3{}, math.Vec3{Z: -1}, math.Vec3{Y: 1})

	d, err := New(model, cam, 4, 4, nil)
	require.NoError(t, err)

	p := DefaultParams()
	p.Mode = shading.ModeClassic
	require.NoError(t, d.RenderPass(context.Background(), p))

	for i, c := range d.Buffer.Radiance {
		assert.Equal(t, math.Vec3{}, c, "pixel %d", i)
	}
	for i, c := range d.Buffer.LDR {
		assert.Equal(t, math.U8Vec3{}, c, "pixel %d", i)
	}
}

func TestRenderPassClassicPlaneMatchesScenario(t *testing.T) {
	model := scene.CreatePlane(40, 40, 1)
	cam := raycam.New(2, 2, 90)
	cam.LookAt(math.Vec3{Y: 5}, math.Vec3{}, math.Vec3{Z: -1})

	d, err := New(model, cam, 2, 2, nil)
	require.NoError(t, err)

	p := DefaultParams()
	p.Mode = shading.ModeClassic
	p.AOSamples = 0
	p.ToneMap = true
	require.NoError(t, d.RenderPass(context.Background(), p))

	for _, c := range d.Buffer.LDR {
		assert.Equal(t, uint8(255), c.X)
		assert.Equal(t, uint8(255), c.Y)
		assert.Equal(t, uint8(255), c.Z)
	}
}

func TestRenderPassDeterministicAcrossRuns(t *testing.T) {
	build := func() *Driver {
		model := scene.CreateSphere(1, 8, 8)
		cam := raycam.New(8, 8, 60)
		cam.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3{Y: 1})
		d, err := New(model, cam, 8, 8, nil)
		require.NoError(t, err)
		return d
	}

	p := DefaultParams()
	p.Mode = shading.ModePathtracing
	p.Samples = 4
	p.MaxSamples = 4

	d1 := build()
	require.NoError(t, d1.RenderPass(context.Background(), p))

	d2 := build()
	require.NoError(t, d2.RenderPass(context.Background(), p))

	assert.Equal(t, d1.Buffer.Radiance, d2.Buffer.Radiance)
}

func TestRenderPassCancellationReturnsCancelledKind(t *testing.T) {
	model := scene.CreateSphere(1, 16, 16)
	cam := raycam.New(64, 64, 60)
	cam.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3{Y: 1})
	d, err := New(model, cam, 64, 64, nil)
	require.NoError(t, err)

	p := DefaultParams()
	p.Mode = shading.ModePathtracing
	p.Samples = 100
	p.MaxSamples = 100

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = d.RenderPass(ctx, p)
	require.Error(t, err)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindCancelled, rerr.Kind)
}

func TestPixelSampleNoSuperSampleIsCenter(t *testing.T) {
	st := rng.Seed(1, 2)
	px, py := pixelSample(3, 5, false, &st)
	assert.Equal(t, float32(3.5), px)
	assert.Equal(t, float32(5.5), py)
	// st must be left untouched: no uniforms drawn when disabled.
	assert.Equal(t, rng.Seed(1, 2), st)
}

func TestPixelSampleSuperSampleJitters(t *testing.T) {
	st := rng.Seed(1, 2)
	px, py := pixelSample(3, 5, true, &st)
	assert.NotEqual(t, float32(3.5), px)
	assert.NotEqual(t, float32(5.5), py)
	assert.InDelta(t, 3.5, px, 0.5)
	assert.InDelta(t, 5.5, py, 0.5)
	// two uniforms must have been consumed from st.
	assert.NotEqual(t, rng.Seed(1, 2), st)
}

func TestProgressReflectsSampleCount(t *testing.T) {
	model := scene.CreateSphere(1, 8, 8)
	cam := raycam.New(4, 4, 60)
	cam.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3{Y: 1})
	d, err := New(model, cam, 4, 4, nil)
	require.NoError(t, err)

	p := DefaultParams()
	p.Mode = shading.ModePathtracing
	p.Samples = 2
	p.MaxSamples = 8

	require.NoError(t, d.RenderPass(context.Background(), p))
	assert.InDelta(t, 0.25, d.Progress(p), 1e-6)
}
