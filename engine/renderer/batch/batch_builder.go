package batch

// Batch2DRendererBuilderOption is a functional option applied to a batch renderer during construction
// via NewBatch2DRenderer.
type Batch2DRendererBuilderOption func(*batch2DRenderer)

// WithMaxTextureSlots sets how many textures one quad batch may reference, including the white
// texture in slot 0. The default is DefaultMaxTextureSlots, which matches the embedded quad shader.
// Fewer than MinTextureSlots is a fatal configuration error.
//
// Parameters:
//   - slots: the number of texture units
//
// Returns:
//   - Batch2DRendererBuilderOption: a function that applies the texture slot option to a batch renderer
func WithMaxTextureSlots(slots uint32) Batch2DRendererBuilderOption {
	return func(r *batch2DRenderer) {
		r.maxTextureSlots = slots
	}
}

// WithQuadShaderSource replaces the embedded quad shader. The source must declare the QuadLayout
// inputs, u_ViewProjection and a u_Textures sampler array.
//
// Parameters:
//   - source: the combined "#type" shader source
//
// Returns:
//   - Batch2DRendererBuilderOption: a function that applies the quad shader option to a batch renderer
func WithQuadShaderSource(source string) Batch2DRendererBuilderOption {
	return func(r *batch2DRenderer) {
		r.quads.source = source
	}
}

// WithCircleShaderSource replaces the embedded circle shader.
//
// Parameters:
//   - source: the combined "#type" shader source
//
// Returns:
//   - Batch2DRendererBuilderOption: a function that applies the circle shader option to a batch renderer
func WithCircleShaderSource(source string) Batch2DRendererBuilderOption {
	return func(r *batch2DRenderer) {
		r.circles.source = source
	}
}

// WithLineShaderSource replaces the embedded line shader.
//
// Parameters:
//   - source: the combined "#type" shader source
//
// Returns:
//   - Batch2DRendererBuilderOption: a function that applies the line shader option to a batch renderer
func WithLineShaderSource(source string) Batch2DRendererBuilderOption {
	return func(r *batch2DRenderer) {
		r.lines.source = source
	}
}
