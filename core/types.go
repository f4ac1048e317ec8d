package core

// Color is the display package's window clear color (SPEC_FULL.md
// "display" component — the only remaining consumer of this package's
// rasterizer-era value types after the intersector/shading rewrite).
type Color struct {
	R, G, B, A float32
}

var (
	ColorBlack = Color{0, 0, 0, 1}
	ColorWhite = Color{1, 1, 1, 1}
)
