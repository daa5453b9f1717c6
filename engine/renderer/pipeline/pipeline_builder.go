package pipeline

import (
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/shader"
)

// PipelineBuilderOption is a functional option applied to a pipeline during construction via NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithName sets the debug name used in log output.
//
// Parameters:
//   - name: the pipeline name
//
// Returns:
//   - PipelineBuilderOption: a function that applies the name option to a pipeline
func WithName(name string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.name = name
	}
}

// WithShader sets the program bound for draws through the pipeline.
//
// Parameters:
//   - s: the shader program
//
// Returns:
//   - PipelineBuilderOption: a function that applies the shader option to a pipeline
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithTopology sets the primitive topology. The default is triangles.
//
// Parameters:
//   - topology: the topology used by draws through the pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that applies the topology option to a pipeline
func WithTopology(topology backend.Topology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithDepthTestEnabled toggles depth testing for draws through the pipeline. Enabled by default.
// Disabling it turns depth testing off for the pipeline's draws even when the renderer has it on.
//
// Parameters:
//   - enabled: true to enable depth testing
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth test option to a pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithBlendEnabled toggles alpha blending for draws through the pipeline. Enabled by default.
// Disabling it turns blending off for the pipeline's draws even when the renderer has it on.
//
// Parameters:
//   - enabled: true to enable blending
//
// Returns:
//   - PipelineBuilderOption: a function that applies the blend option to a pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}
