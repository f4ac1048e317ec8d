package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	math "render-engine/math"
)

func solid2x2() *Texture {
	return &Texture{
		Width:  2,
		Height: 2,
		Pixels: []math.Vec4{
			{X: 1, Y: 0, Z: 0, W: 1}, // (0,0)
			{X: 0, Y: 1, Z: 0, W: 1}, // (1,0)
			{X: 0, Y: 0, Z: 1, W: 1}, // (0,1)
			{X: 1, Y: 1, Z: 0, W: 1}, // (1,1)
		},
	}
}

func TestAbsentTextureIsWhite(t *testing.T) {
	var tex *Texture
	c := tex.Sample(0.5, 0.5)
	assert.Equal(t, math.Vec4{X: 1, Y: 1, Z: 1, W: 1}, c)
}

func TestNearestSampleUsesVDirectly(t *testing.T) {
	tex := solid2x2()
	// v is not re-flipped here: the loaders already flip V once at load
	// time, so v=0.1 addresses row 0 directly.
	c := tex.Sample(0.1, 0.1)
	assert.Equal(t, float32(1), c.X)

	c = tex.Sample(0.1, 0.9)
	assert.Equal(t, float32(0), c.X)
	assert.Equal(t, float32(1), c.Z)
}

func TestWrapRepeat(t *testing.T) {
	tex := solid2x2()
	tex.WrapS, tex.WrapT = Repeat, Repeat
	a := tex.Sample(0.1, 0.1)
	b := tex.Sample(1.1, 0.1)
	assert.Equal(t, a, b)
}

func TestWrapClampToEdge(t *testing.T) {
	tex := solid2x2()
	tex.WrapS, tex.WrapT = ClampToEdge, ClampToEdge
	a := tex.Sample(0.99, 0.1)
	b := tex.Sample(5.0, 0.1)
	assert.Equal(t, a, b)
}

func TestBilinearBlendsNeighbors(t *testing.T) {
	tex := solid2x2()
	tex.Bilinear = true
	tex.WrapS, tex.WrapT = ClampToEdge, ClampToEdge
	c := tex.Sample(0.5, 0.5)
	assert.InDelta(t, 0.5, c.X, 1e-3)
}
