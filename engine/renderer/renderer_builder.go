package renderer

import (
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend injects the backend implementation instead of creating one from the backend type.
// This is required for BackendTypeNone.
//
// Parameters:
//   - b: the backend to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b backend.Backend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithClearColor sets the clear color applied when the renderer is created.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color mgl32.Vec4) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithDepthTest sets whether depth testing is enabled when the renderer is created. The default is enabled.
//
// Parameters:
//   - enabled: true to enable depth testing
//
// Returns:
//   - RendererBuilderOption: a function that applies the depth option to a renderer
func WithDepthTest(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.depth = enabled
	}
}

// WithBlend sets whether alpha blending is enabled when the renderer is created. The default is enabled.
//
// Parameters:
//   - enabled: true to enable blending
//
// Returns:
//   - RendererBuilderOption: a function that applies the blend option to a renderer
func WithBlend(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.blend = enabled
	}
}

// WithMultiSample sets whether multisampling is enabled when the renderer is created. The default is enabled.
//
// Parameters:
//   - enabled: true to enable multisampling
//
// Returns:
//   - RendererBuilderOption: a function that applies the multisample option to a renderer
func WithMultiSample(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.multiSample = enabled
	}
}
