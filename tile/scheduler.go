// Package tile implements the tile-parallel dispatch loop shared by every
// render pass (spec.md §4.9, component L). Each tile gets its own RNG
// stream seeded from its (tile index, sample index) pair so results
// are independent of how work is sliced across goroutines (spec.md §8
// "cross-thread determinism").
package tile

import (
	"context"
	"runtime"

	"github.com/alitto/pond/v2"

	"render-engine/rng"
)

// Default tile extents (spec.md §6 "tile_size").
const (
	DefaultWidth  = 128
	DefaultHeight = 128
)

// Rect is one tile's pixel-space bounds, [MinX,MaxX) x [MinY,MaxY).
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Width and Height of the rect.
func (r Rect) Width() int  { return r.MaxX - r.MinX }
func (r Rect) Height() int { return r.MaxY - r.MinY }

// Split partitions a width x height image into row-major tiles of at most
// tileW x tileH pixels (spec.md §4.9 "tile scheduler").
func Split(width, height, tileW, tileH int) []Rect {
	if tileW <= 0 {
		tileW = DefaultWidth
	}
	if tileH <= 0 {
		tileH = DefaultHeight
	}
	var tiles []Rect
	for y := 0; y < height; y += tileH {
		maxY := y + tileH
		if maxY > height {
			maxY = height
		}
		for x := 0; x < width; x += tileW {
			maxX := x + tileW
			if maxX > width {
				maxX = width
			}
			tiles = append(tiles, Rect{MinX: x, MinY: y, MaxX: maxX, MaxY: maxY})
		}
	}
	return tiles
}

// PixelFunc shades one pixel of a tile; st is a per-tile RNG stream, private
// to the goroutine processing that tile (spec.md §5 "no shared mutable RNG
// state").
type PixelFunc func(x, y int, st *rng.State)

// Pool dispatches tiles across a worker group (spec.md §4.9 "fork-join").
// Built on pond's task pool, the same fork-join idiom the scheduler's
// reference design uses for bounded worker-count parallelism.
type Pool struct {
	pool pond.Pool
}

// NewPool returns a Pool with the given worker count (0 or less =
// GOMAXPROCS).
func NewPool(workers int) *Pool {
	var p pond.Pool
	if workers > 0 {
		p = pond.NewPool(workers)
	} else {
		p = pond.NewPool(runtime.GOMAXPROCS(0))
	}
	return &Pool{pool: p}
}

// Release stops accepting new tasks and waits for in-flight tiles to drain.
func (p *Pool) Release() {
	p.pool.StopAndWait()
}

// RenderPass dispatches fn over every tile of tiles, one goroutine group
// task per tile, each seeded deterministically from (tileIndex,
// sampleIndex) via rng.SeedFromTile (spec.md §4.9, §8 property 5). ctx
// cancellation is checked between tile batches — a coarse-grained
// cooperative cancel, not mid-tile (spec.md §5 "cancellation granularity").
func (p *Pool) RenderPass(ctx context.Context, tiles []Rect, sampleIndex uint32, fn func(Rect, *rng.State)) error {
	group := p.pool.NewGroup()
	for i, t := range tiles {
		if err := ctx.Err(); err != nil {
			group.Wait()
			return err
		}
		tile := t
		st := rng.SeedFromTile(tileSeedIndex(i, sampleIndex))
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(tile, &st)
			return nil
		})
	}
	return group.Wait()
}

// tileSeedIndex folds a tile index and a sample index into the single
// integer rng.SeedFromTile expects, so every (tile, sample) pair gets its
// own independent stream (spec.md §8 property 5).
func tileSeedIndex(tileIndex int, sampleIndex uint32) int {
	return tileIndex*1_000_003 + int(sampleIndex)
}

// ForEachPixel invokes fn for every pixel in r, row-major (spec.md §4.9
// "intra-tile order").
func ForEachPixel(r Rect, st *rng.State, fn PixelFunc) {
	for y := r.MinY; y < r.MaxY; y++ {
		for x := r.MinX; x < r.MaxX; x++ {
			fn(x, y, st)
		}
	}
}
