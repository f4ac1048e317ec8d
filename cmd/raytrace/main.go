// Command raytrace is the interactive/offline entry point: it loads a
// scene, drives a render.Driver, and either writes a PNG (offline) or
// opens a preview window refreshed every pass (interactive), per spec.md
// §1's two operating modes.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"render-engine/core"
	"render-engine/display"
	imagebuf "render-engine/image"
	math "render-engine/math"
	"render-engine/raycam"
	"render-engine/render"
	"render-engine/scene"
	"render-engine/shading"
)

func main() {
	var (
		scenePath  = flag.String("scene", "", "path to a .gltf/.glb/.obj file, or empty for a built-in sphere")
		width      = flag.Int("width", 960, "output width in pixels")
		height     = flag.Int("height", 540, "output height in pixels")
		outPath    = flag.String("out", "", "path of the PNG written in batch mode (empty means out.png)")
		mode       = flag.String("mode", "path", "shading mode: path, classic, albedo, normal")
		samples    = flag.Uint("samples", 256, "maximum samples per pixel")
		interactive = flag.Bool("interactive", false, "open a live preview window instead of batch-rendering")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	model, err := loadModel(*scenePath)
	if err != nil {
		logger.Fatal("load model", zap.Error(err))
	}

	cam := raycam.New(uint32(*width), uint32(*height), 60)
	cam.LookAt(math.Vec3{X: 2, Y: 2, Z: 4}, math.Vec3{}, math.Vec3{Y: 1})

	driver, err := render.New(model, cam, *width, *height, logger)
	if err != nil {
		logger.Fatal("new driver", zap.Error(err))
	}
	defer driver.Close()
	driver.SetBackground(math.Vec3{X: 0.05, Y: 0.05, Z: 0.08})

	p := render.DefaultParams()
	p.Mode = parseMode(*mode)
	p.MaxSamples = uint32(*samples)
	p.Samples = 1
	if p.Mode != shading.ModePathtracing {
		p.MaxSamples = 1
	}

	if *interactive {
		runInteractive(logger, driver, cam, p)
		return
	}
	runBatch(logger, driver, p, *outPath)
}

func loadModel(path string) (*scene.Model, error) {
	if path == "" {
		return scene.CreateSphere(1, 32, 16), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return scene.LoadGLTF(path)
	case ".obj":
		return scene.LoadOBJ(path)
	default:
		return nil, fmt.Errorf("unrecognized scene extension: %s", path)
	}
}

func parseMode(s string) shading.Mode {
	switch s {
	case "classic":
		return shading.ModeClassic
	case "albedo":
		return shading.ModeAlbedo
	case "normal":
		return shading.ModeNormal
	default:
		return shading.ModePathtracing
	}
}

// runBatch drives RenderPass to completion (or until MaxSamples), then
// writes the LDR buffer as a PNG, matching spec.md §1's offline mode.
func runBatch(logger *zap.Logger, driver *render.Driver, p render.Params, outPath string) {
	ctx := context.Background()
	for driver.Progress(p) < 1 {
		if err := driver.RenderPass(ctx, p); err != nil {
			logger.Fatal("render pass", zap.Error(err))
		}
	}

	if outPath == "" {
		outPath = "out.png"
	}
	if err := writePNG(driver.Buffer, outPath); err != nil {
		logger.Fatal("write png", zap.Error(err))
	}
	logger.Info("render complete", zap.String("out", outPath))
}

// runInteractive opens a window and refreshes the preview after every
// render pass, letting an OrbitController move the camera between passes
// (spec.md §1's interactive mode, §6 "Camera controller").
func runInteractive(logger *zap.Logger, driver *render.Driver, cam *raycam.Camera, p render.Params) {
	win, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		logger.Fatal("new window", zap.Error(err))
	}
	defer win.Destroy()

	sink, err := display.NewSink(win)
	if err != nil {
		logger.Fatal("new sink", zap.Error(err))
	}
	defer sink.Close()

	orbit := display.NewOrbitController(math.Vec3{}, 4)
	orbit.Attach(win)

	ctx := context.Background()
	for !win.ShouldClose() {
		win.PollEvents()

		before := cam.Origin
		orbit.Update(win, cam)
		if before != cam.Origin {
			driver.Reset()
		}

		if err := driver.RenderPass(ctx, p); err != nil {
			logger.Error("render pass", zap.Error(err))
		}
		sink.Present(driver.Buffer, core.ColorBlack)
	}
}

func writePNG(buf *imagebuf.Buffer, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, buf.Size.W, buf.Size.H))
	for y := 0; y < buf.Size.H; y++ {
		for x := 0; x < buf.Size.W; x++ {
			c := buf.LDR[buf.Index(x, y)]
			img.SetRGBA(x, y, color.RGBA{R: c.X, G: c.Y, B: c.Z, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}
