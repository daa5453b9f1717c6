package config

import (
	"github.com/Carmen-Shannon/ikan-go/engine"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/batch"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/ikan-go/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// WindowOptions converts the window section into window builder options.
//
// Returns:
//   - []window.WindowBuilderOption: the options
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithWidth(c.Window.Width),
		window.WithHeight(c.Window.Height),
		window.WithVSync(c.Window.VSync),
	}
}

// EngineOptions converts the engine section into engine builder options.
//
// Returns:
//   - []engine.EngineBuilderOption: the options
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithTickRate(c.Engine.TickRate),
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
		engine.WithProfiling(c.Engine.Profiling),
	}
}

// RendererOptions converts the renderer section into renderer builder options. The backend type is
// passed to renderer.NewRenderer separately.
//
// Returns:
//   - []renderer.RendererBuilderOption: the options
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithClearColor(mgl32.Vec4(c.Renderer.ClearColor)),
		renderer.WithDepthTest(c.Renderer.DepthTest),
		renderer.WithBlend(c.Renderer.Blend),
		renderer.WithMultiSample(c.Renderer.MultiSample),
	}
}

// BatchOptions converts the batch section into batch renderer builder options. Capacities are
// passed to Initialize separately.
//
// Returns:
//   - []batch.Batch2DRendererBuilderOption: the options
func (c Config) BatchOptions() []batch.Batch2DRendererBuilderOption {
	return []batch.Batch2DRendererBuilderOption{
		batch.WithMaxTextureSlots(c.Batch.MaxTextureSlots),
	}
}

// FramebufferSpecification builds the viewport framebuffer specification at the window size.
//
// Returns:
//   - framebuffer.Specification: the specification
func (c Config) FramebufferSpecification() framebuffer.Specification {
	return framebuffer.Specification{
		Width:       uint32(c.Window.Width),
		Height:      uint32(c.Window.Height),
		ClearColor:  mgl32.Vec4(c.Renderer.ClearColor),
		Attachments: append([]backend.TextureFormat(nil), c.Viewport.Attachments...),
	}
}
