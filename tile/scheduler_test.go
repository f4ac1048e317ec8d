package tile

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-engine/rng"
)

func TestSplitCoversImageExactly(t *testing.T) {
	tiles := Split(300, 130, 128, 128)
	covered := make([][]bool, 130)
	for y := range covered {
		covered[y] = make([]bool, 300)
	}
	for _, r := range tiles {
		for y := r.MinY; y < r.MaxY; y++ {
			for x := r.MinX; x < r.MaxX; x++ {
				assert.False(t, covered[y][x], "pixel (%d,%d) covered twice", x, y)
				covered[y][x] = true
			}
		}
	}
	for y := range covered {
		for x := range covered[y] {
			assert.True(t, covered[y][x], "pixel (%d,%d) never covered", x, y)
		}
	}
}

func TestSplitDefaultsZeroTileSize(t *testing.T) {
	tiles := Split(10, 10, 0, 0)
	require.Len(t, tiles, 1)
	assert.Equal(t, Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, tiles[0])
}

func TestForEachPixelVisitsRowMajor(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 3, MaxY: 2}
	st := rng.SeedFromTile(0)
	var got [][2]int
	ForEachPixel(r, &st, func(x, y int, _ *rng.State) {
		got = append(got, [2]int{x, y})
	})
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}, got)
}

func TestRenderPassVisitsEveryTileExactlyOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Release()

	tiles := Split(256, 256, 64, 64)
	var mu sync.Mutex
	seen := map[Rect]int{}

	err := pool.RenderPass(context.Background(), tiles, 0, func(r Rect, st *rng.State) {
		mu.Lock()
		seen[r]++
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Len(t, seen, len(tiles))
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestRenderPassHonorsCancellation(t *testing.T) {
	pool := NewPool(2)
	defer pool.Release()

	tiles := Split(1024, 1024, 32, 32)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.RenderPass(ctx, tiles, 0, func(r Rect, st *rng.State) {})
	assert.Error(t, err)
}

func TestTileSeedIndexDistinctPerTileAndSample(t *testing.T) {
	a := tileSeedIndex(0, 0)
	b := tileSeedIndex(1, 0)
	c := tileSeedIndex(0, 1)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}
