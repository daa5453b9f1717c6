package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/game_object"
	"github.com/Carmen-Shannon/ikan-go/engine/profiler"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/batch"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/ikan-go/engine/scene"
	"github.com/Carmen-Shannon/ikan-go/engine/window"
)

// maxTicksPerFrame bounds how many fixed ticks one frame may run to catch up after a stall.
const maxTicksPerFrame = 5

// engine implements the Engine interface.
// Every GPU call happens on the thread that owns the window's context, so the whole loop runs there.
type engine struct {
	running  bool
	shutdown bool

	window   window.Window
	renderer renderer.Renderer
	batch    batch.Batch2DRenderer
	viewport framebuffer.Framebuffer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	lastFrame   time.Time
	accumulator time.Duration
	now         func() time.Time
	sleep       func(time.Duration)
}

// Engine is the main entry point for the engine.
// It drives the fixed-rate tick, scene rendering through the batch renderer, and window presentation.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer API the engine clears and draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil
	Renderer() renderer.Renderer

	// Batch returns the batch renderer scenes are drawn through.
	//
	// Returns:
	//   - batch.Batch2DRenderer: the batch renderer, or nil
	Batch() batch.Batch2DRenderer

	// Viewport returns the offscreen framebuffer scenes are rendered into.
	//
	// Returns:
	//   - framebuffer.Framebuffer: the viewport framebuffer, or nil when rendering straight to the window
	Viewport() framebuffer.Framebuffer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after active scenes are updated.
	// Use this for game logic, physics and input processing.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the tick length in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame, after the scenes are drawn and
	// while the viewport framebuffer is still bound. Use this for overlays drawn through the batch renderer.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// PickAt returns the object drawn at a window pixel, searching active scenes from the top-most key
	// down. It needs a viewport framebuffer with a picking attachment.
	//
	// Parameters:
	//   - x, y: the pixel position from the top-left corner
	//
	// Returns:
	//   - game_object.GameObject: the object, or nil
	PickAt(x, y int32) game_object.GameObject

	// Run starts the main engine loop on the calling thread (blocks until the window closes), then
	// releases the batch renderer and viewport and closes the window.
	Run()

	// Quit asks the loop to stop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		scenes:           make(map[int]scene.Scene),
		running:          false,
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		now:              time.Now,
		sleep:            time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}
	if e.batch != nil {
		e.profiler.AddStatsProvider(e.batchStats)
	}
	if e.renderer != nil {
		e.profiler.AddStatsProvider(e.rendererStats)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Batch() batch.Batch2DRenderer {
	return e.batch
}

func (e *engine) Viewport() framebuffer.Framebuffer {
	return e.viewport
}

func (e *engine) Run() {
	core.Assert(e.window != nil, "engine has no window")
	e.running = true
	e.lastFrame = e.now()
	e.window.SetUpdateCallback(e.frame)
	core.Logger().Info("engine running", "tick_rate", e.engineTickRate, "frame_limit", e.renderFrameLimit)
	e.window.ProcessMessages()
	e.running = false
	e.release()
	if err := e.window.Close(); err != nil {
		core.Logger().Warn("failed to close window", "error", err)
	}
}

func (e *engine) Quit() {
	if !e.running {
		return
	}
	e.running = false
	if e.window != nil {
		e.window.RequestClose()
	}
}

// release frees the engine-owned GPU resources while the context is still current. Idempotent.
func (e *engine) release() {
	if e.shutdown {
		return
	}
	e.shutdown = true
	if e.batch != nil {
		e.batch.Shutdown()
	}
	if e.viewport != nil {
		e.viewport.Release()
	}
	core.Logger().Info("engine stopped")
}

// frame runs one loop iteration: catch-up ticks at the fixed rate, render, present, profile.
func (e *engine) frame() {
	now := e.now()
	dt := now.Sub(e.lastFrame)
	e.lastFrame = now

	e.accumulator += dt
	ticks := 0
	for e.accumulator >= e.engineTickRate && ticks < maxTicksPerFrame {
		e.tick(float32(e.engineTickRate.Seconds()))
		e.accumulator -= e.engineTickRate
		ticks++
	}
	if ticks == maxTicksPerFrame && e.accumulator >= e.engineTickRate {
		core.Logger().Debug("dropping tick backlog", "backlog", e.accumulator)
		e.accumulator = 0
	}

	e.render(float32(dt.Seconds()))

	if e.window != nil {
		e.window.SwapBuffers()
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(now); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// tick advances every active scene by one fixed step, then runs the tick callback.
func (e *engine) tick(dt float32) {
	for _, s := range e.activeScenes() {
		s.Update(dt)
	}
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// render draws every active scene in ascending z-index order, runs the render callback and presents
// the viewport framebuffer.
func (e *engine) render(dt float32) {
	if e.renderer == nil {
		if e.renderCallback != nil {
			e.renderCallback(dt)
		}
		return
	}

	if e.viewport != nil {
		e.viewport.Bind()
		e.renderer.SetClearColor(e.viewport.Specification().ClearColor)
	}
	e.renderer.ClearBits()
	if e.viewport != nil {
		if idx := e.viewport.PixelPickAttachmentIndex(); idx >= 0 {
			e.viewport.ClearAttachment(idx, -1)
		}
	}

	if e.batch != nil {
		e.batch.ResetStats()
		for _, s := range e.activeScenes() {
			s.Render(e.batch, s.Camera().ViewProjectionMatrix())
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	if e.viewport != nil {
		e.viewport.Unbind()
		spec := e.viewport.Specification()
		width, height := int32(spec.Width), int32(spec.Height)
		if e.window != nil {
			width, height = int32(e.window.Width()), int32(e.window.Height())
		}
		e.renderer.Backend().BlitToDefault(e.viewport.RendererID(), int32(spec.Width), int32(spec.Height), width, height)
	}
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// resize follows the window's framebuffer size with the renderer viewport, the viewport framebuffer
// and every scene camera.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.SetViewport(uint32(width), uint32(height))
	}
	if e.viewport != nil {
		e.viewport.Resize(uint32(width), uint32(height))
	}
	for _, s := range e.scenes {
		s.Resize(width, height)
	}
}

func (e *engine) batchStats() []slog.Attr {
	stats := e.batch.Stats()
	return []slog.Attr{
		slog.Uint64("draw_calls", uint64(stats.DrawCalls)),
		slog.Uint64("quads", uint64(stats.QuadCount)),
		slog.Uint64("circles", uint64(stats.CircleCount)),
		slog.Uint64("lines", uint64(stats.LineCount)),
		slog.Uint64("vertices", uint64(stats.VertexCount())),
		slog.Uint64("indices", uint64(stats.IndexCount())),
	}
}

func (e *engine) rendererStats() []slog.Attr {
	stats := e.renderer.Stats()
	return []slog.Attr{
		slog.Int64("vertex_buffer_bytes", stats.VertexBufferSize),
		slog.Int64("index_buffer_bytes", stats.IndexBufferSize),
		slog.Int64("texture_bytes", stats.TextureBufferSize),
	}
}

func (e *engine) PickAt(x, y int32) game_object.GameObject {
	if e.viewport == nil || e.renderer == nil {
		return nil
	}
	scenes := e.activeScenes()
	for i := len(scenes) - 1; i >= 0; i-- {
		if obj := scenes[i].Pick(e.renderer, e.viewport, x, y); obj != nil {
			return obj
		}
	}
	return nil
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// The loop runs on a single thread so the change applies from the next frame.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.engineTickRate = time.Duration(float64(time.Second) / fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
