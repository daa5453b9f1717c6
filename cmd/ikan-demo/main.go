// Command ikan-demo opens a window and draws a pannable 2D scene of quads, circles and sprites through
// the batch renderer. Clicking an object picks it through the viewport's entity-id attachment.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/ikan-go/common"
	"github.com/Carmen-Shannon/ikan-go/engine"
	"github.com/Carmen-Shannon/ikan-go/engine/camera"
	"github.com/Carmen-Shannon/ikan-go/engine/config"
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/game_object"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/batch"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/texture"
	"github.com/Carmen-Shannon/ikan-go/engine/scene"
	"github.com/Carmen-Shannon/ikan-go/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	spritePath := flag.String("sprites", "", "optional PNG or JPEG sprite sheet laid out as a 2x2 grid")
	flag.Parse()

	if err := run(*configPath, *spritePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, spritePath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	core.SetLogger(logger)

	// ── Window + Renderer ───────────────────────────────────────────────
	// The window makes its GL context current, so it must exist before the renderer.
	win := window.NewWindow(cfg.WindowOptions()...)

	r, err := renderer.NewRenderer(cfg.Renderer.Backend, cfg.RendererOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	b := batch.NewBatch2DRenderer(r, cfg.BatchOptions()...)
	if err := b.Initialize(cfg.Batch.MaxQuads, cfg.Batch.MaxCircles, cfg.Batch.MaxLines); err != nil {
		return fmt.Errorf("failed to initialize batch renderer: %w", err)
	}
	b.SetLineWidth(cfg.Batch.LineWidth)

	viewport := framebuffer.NewFramebuffer(r.Backend(), cfg.FramebufferSpecification())

	// ── Camera ──────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithController(camera.NewCameraController(
			camera.WithZoom(8),
			camera.WithZoomLimits(1, 64),
			camera.WithPanSpeed(1.5),
			camera.WithZoomSpeed(0.5),
		)),
	)

	// ── Scene ───────────────────────────────────────────────────────────
	sc := scene.NewScene("ikan demo", cam, scene.WithActive(true))
	checker, err := checkerboard(r)
	if err != nil {
		return err
	}
	populate(sc, checker)

	if spritePath != "" {
		sheet, err := texture.LoadTexture(r.Backend(), &common.ImportedTexture{Path: spritePath},
			texture.WithName("sprite_sheet"),
		)
		if err != nil {
			return fmt.Errorf("failed to load sprite sheet: %w", err)
		}
		addSprites(sc, sheet)
	}

	// ── Engine ──────────────────────────────────────────────────────────
	opts := append(cfg.EngineOptions(),
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithBatchRenderer(b),
		engine.WithViewport(viewport),
		engine.WithScene(0, sc),
	)
	eng := engine.NewEngine(opts...)

	setupInput(eng, cam)

	eng.SetRenderCallback(func(_ float32) {
		b.BeginBatch(cam.ViewProjectionMatrix())
		b.DrawRect(mgl32.Translate3D(0, 0, 0.5).Mul4(mgl32.Scale3D(24, 16, 1)), mgl32.Vec4{1, 1, 1, 1}, -1)
		b.EndBatch()
	})

	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║  ikan - Batch 2D Demo                                ║")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	fmt.Println("║  Camera: WASD/Arrows=Pan  Scroll=Zoom  Esc=Quit      ║")
	fmt.Println("║          Left click=Pick                             ║")
	fmt.Println("╚══════════════════════════════════════════════════════╝")

	logger.Info("starting ikan demo", "backend", cfg.Renderer.Backend.String())
	eng.Run()
	return nil
}

// checkerboard creates a small two-tone texture used to show tiling on textured quads.
//
// Parameters:
//   - r: the renderer whose backend allocates the texture
//
// Returns:
//   - texture.Texture: the checkerboard
//   - error: an error if the texture could not be created
func checkerboard(r renderer.Renderer) (texture.Texture, error) {
	const size = 8
	data := make([]byte, 0, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(0x40)
			if (x+y)%2 == 0 {
				v = 0xd0
			}
			data = append(data, v, v, v, 0xff)
		}
	}
	return texture.NewTexture(r.Backend(), size, size, data,
		texture.WithName("checkerboard"),
		texture.WithFilter(backend.TextureFilterNearest),
	)
}

// populate fills the scene with a colored grid of quads, a textured floor and a ring of circles.
//
// Parameters:
//   - sc: the scene to fill
//   - checker: the texture tiled across the floor
func populate(sc scene.Scene, checker texture.Texture) {
	sc.Add(game_object.NewGameObject(
		game_object.WithPosition(mgl32.Vec3{0, 0, -0.5}),
		game_object.WithScale(mgl32.Vec2{24, 16}),
		game_object.WithSprite(game_object.SpriteComponent{
			Color:        mgl32.Vec4{1, 1, 1, 1},
			Texture:      checker,
			TilingFactor: 6,
		}),
	))

	const cols, rows = 10, 6
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			fx, fy := float32(x)/float32(cols-1), float32(y)/float32(rows-1)
			sc.Add(game_object.NewGameObject(
				game_object.WithPosition(mgl32.Vec3{-9 + float32(x)*2, -5 + float32(y)*2, 0}),
				game_object.WithScale(mgl32.Vec2{1.4, 1.4}),
				game_object.WithRotationSpeed(0.5*(fx-0.5)),
				game_object.WithSprite(game_object.SpriteComponent{
					Color: mgl32.Vec4{fx, 0.3, fy, 0.9},
				}),
			))
		}
	}

	const ring = 12
	for i := 0; i < ring; i++ {
		angle := float32(i) / ring * 2 * math32.Pi
		pos := mgl32.Rotate2D(angle).Mul2x1(mgl32.Vec2{7, 0})
		sc.Add(game_object.NewGameObject(
			game_object.WithPosition(mgl32.Vec3{pos.X(), pos.Y(), 0.25}),
			game_object.WithScale(mgl32.Vec2{1.2, 1.2}),
			game_object.WithCircle(game_object.CircleComponent{
				Color:     mgl32.Vec4{1, 0.6, 0.1, 1},
				Thickness: 0.2 + 0.8*float32(i)/ring,
				Fade:      0.01,
			}),
		))
	}
}

// addSprites places one object per cell of a 2x2 sprite sheet.
//
// Parameters:
//   - sc: the scene to add to
//   - sheet: the sprite sheet texture
func addSprites(sc scene.Scene, sheet texture.Texture) {
	cell := mgl32.Vec2{float32(sheet.Width()) / 2, float32(sheet.Height()) / 2}
	for i := 0; i < 4; i++ {
		coords := mgl32.Vec2{float32(i % 2), float32(i / 2)}
		sc.Add(game_object.NewGameObject(
			game_object.WithPosition(mgl32.Vec3{-3 + float32(i)*2, 7, 0.4}),
			game_object.WithScale(mgl32.Vec2{1.8, 1.8}),
			game_object.WithSprite(game_object.SpriteComponent{
				Color:      mgl32.Vec4{1, 1, 1, 1},
				SubTexture: texture.NewSubTextureFromCoords(sheet, coords, cell, mgl32.Vec2{1, 1}),
			}),
		))
	}
}

// setupInput wires camera controls: WASD/arrow panning, scroll zoom and left-click picking.
//
// Parameters:
//   - eng: the engine instance providing window callbacks and tick
//   - cam: the camera to control
func setupInput(eng engine.Engine, cam camera.Camera) {
	keyState := make(map[uint32]bool)

	eng.Window().SetKeyDownCallback(func(keyCode uint32) {
		keyState[keyCode] = true
	})

	eng.Window().SetKeyUpCallback(func(keyCode uint32) {
		keyState[keyCode] = false
	})

	eng.Window().SetScrollCallback(func(delta float32) {
		cam.Controller().ZoomBy(delta)
	})

	eng.Window().SetLeftMouseDownCallback(func(x, y int32) {
		obj := eng.PickAt(x, y)
		if obj == nil {
			core.Logger().Info("picked background", "x", x, "y", y)
			return
		}
		core.Logger().Info("picked object", "id", obj.ID(), "position", obj.Position())
		if s := obj.Sprite(); s != nil {
			s.Color = mgl32.Vec4{1, 1, 1, 1}
			obj.SetSprite(*s)
		}
	})

	eng.SetTickCallback(func(dt float32) {
		var dx, dy float32
		if keyState[common.KeyW] || keyState[common.KeyUp] {
			dy++
		}
		if keyState[common.KeyS] || keyState[common.KeyDown] {
			dy--
		}
		if keyState[common.KeyA] || keyState[common.KeyLeft] {
			dx--
		}
		if keyState[common.KeyD] || keyState[common.KeyRight] {
			dx++
		}
		if dx != 0 || dy != 0 {
			cam.Controller().Pan(dx*dt, dy*dt)
		}
	})
}
