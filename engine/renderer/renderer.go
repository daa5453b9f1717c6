package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend/opengl"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     backend.Backend

	clearColor  mgl32.Vec4
	depth       bool
	blend       bool
	multiSample bool
}

// Renderer is the state and draw surface of the engine. It translates engine-level commands into
// backend calls and is the gate every GPU resource constructor goes through via Backend.
//
// The Renderer is not safe for concurrent use. All calls must be made from the thread that owns the
// graphics context.
type Renderer interface {
	// Type returns the backend type the Renderer was created with.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	Type() RendererBackendType

	// Backend returns the active backend. Calling it with BackendTypeNone and no injected backend is fatal.
	//
	// Returns:
	//   - backend.Backend: the backend every resource is created through
	Backend() backend.Backend

	// Depth enables or disables depth testing.
	//
	// Parameters:
	//   - enabled: the new state
	Depth(enabled bool)

	// Blend enables or disables alpha blending.
	//
	// Parameters:
	//   - enabled: the new state
	Blend(enabled bool)

	// MultiSample enables or disables multisampling.
	//
	// Parameters:
	//   - enabled: the new state
	MultiSample(enabled bool)

	// SetDepthFunc sets the depth comparison function.
	//
	// Parameters:
	//   - f: the comparison function
	SetDepthFunc(f backend.DepthFunc)

	// BeginWireframe switches polygon rasterization to lines.
	BeginWireframe()

	// EndWireframe restores filled polygon rasterization.
	EndWireframe()

	// SetLineWidth sets the rasterized line width in pixels.
	//
	// Parameters:
	//   - width: the line width
	SetLineWidth(width float32)

	// SetClearColor sets the color used by ClearColorBit and ClearBits.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color mgl32.Vec4)

	// ClearBits clears the color, depth and stencil buffers of the active render target.
	ClearBits()

	// ClearColorBit clears the color buffer of the active render target.
	ClearColorBit()

	// ClearDepthBit clears the depth buffer of the active render target.
	ClearDepthBit()

	// ClearStencilBit clears the stencil buffer of the active render target.
	ClearStencilBit()

	// SetViewport sets the active viewport to (0, 0, width, height).
	//
	// Parameters:
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	SetViewport(width, height uint32)

	// EntityIDFromPixels reads the entity id written at a pixel of a framebuffer's picking attachment.
	//
	// Parameters:
	//   - fb: the framebuffer to read
	//   - attachmentIndex: the color attachment holding entity ids, usually fb.PixelPickAttachmentIndex()
	//   - mx: the pixel column
	//   - my: the pixel row
	//
	// Returns:
	//   - int32: the stored entity id
	EntityIDFromPixels(fb framebuffer.Framebuffer, attachmentIndex int, mx, my int32) int32

	// DrawIndexed binds p and draws count indices with its topology. A count of 0 draws every index
	// of the pipeline's index buffer. The pipeline's shader is bound first, and depth testing or
	// blending it disables is off for this draw only.
	//
	// Parameters:
	//   - p: the pipeline to draw
	//   - count: the number of indices
	DrawIndexed(p pipeline.Pipeline, count uint32)

	// DrawLines binds p and draws vertexCount vertices as a line list, with the pipeline's shader and
	// render state applied as in DrawIndexed.
	//
	// Parameters:
	//   - p: the pipeline to draw
	//   - vertexCount: the number of vertices
	DrawLines(p pipeline.Pipeline, vertexCount uint32)

	// DrawArrays binds p and draws count vertices with its topology, without an index buffer, with the
	// pipeline's shader and render state applied as in DrawIndexed.
	//
	// Parameters:
	//   - p: the pipeline to draw
	//   - count: the number of vertices
	DrawArrays(p pipeline.Pipeline, count uint32)

	// Stats returns a snapshot of the GPU memory statistics.
	//
	// Returns:
	//   - backend.Statistics: bytes currently allocated per resource class
	Stats() backend.Statistics
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given backend type. For BackendTypeOpenGL a GL backend is
// created unless one is injected with WithBackend, which requires a current GL context.
//
// Parameters:
//   - backendType: the backend to render with
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the OpenGL backend could not be initialized
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		clearColor:  mgl32.Vec4{0.1, 0.1, 0.1, 1},
		depth:       true,
		blend:       true,
		multiSample: true,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil && backendType == BackendTypeOpenGL {
		b, err := opengl.NewBackend()
		if err != nil {
			return nil, fmt.Errorf("failed to create %s backend: %w", backendType, err)
		}
		r.backend = b
	}

	if r.backend == nil {
		core.Logger().Warn("renderer created without a backend", "type", backendType.String())
		return r, nil
	}

	r.Depth(r.depth)
	r.Blend(r.blend)
	r.MultiSample(r.multiSample)
	r.SetClearColor(r.clearColor)
	core.Logger().Info("renderer initialized", "type", backendType.String())
	return r, nil
}

func (r *renderer) Type() RendererBackendType {
	return r.backendType
}

func (r *renderer) Backend() backend.Backend {
	if r.backend == nil {
		core.Fatal("no renderer backend available", "type", r.backendType.String())
	}
	return r.backend
}

func (r *renderer) Depth(enabled bool) {
	r.Backend().SetCapability(backend.CapabilityDepthTest, enabled)
	r.depth = enabled
}

func (r *renderer) Blend(enabled bool) {
	r.Backend().SetCapability(backend.CapabilityBlend, enabled)
	r.blend = enabled
}

func (r *renderer) MultiSample(enabled bool) {
	r.Backend().SetCapability(backend.CapabilityMultiSample, enabled)
	r.multiSample = enabled
}

func (r *renderer) SetDepthFunc(f backend.DepthFunc) {
	r.Backend().SetDepthFunc(f)
}

func (r *renderer) BeginWireframe() {
	r.Backend().SetWireframe(true)
}

func (r *renderer) EndWireframe() {
	r.Backend().SetWireframe(false)
}

func (r *renderer) SetLineWidth(width float32) {
	r.Backend().SetLineWidth(width)
}

func (r *renderer) SetClearColor(color mgl32.Vec4) {
	r.Backend().SetClearColor(color)
	r.clearColor = color
}

func (r *renderer) ClearBits() {
	r.Backend().Clear(backend.ClearColor | backend.ClearDepth | backend.ClearStencil)
}

func (r *renderer) ClearColorBit() {
	r.Backend().Clear(backend.ClearColor)
}

func (r *renderer) ClearDepthBit() {
	r.Backend().Clear(backend.ClearDepth)
}

func (r *renderer) ClearStencilBit() {
	r.Backend().Clear(backend.ClearStencil)
}

func (r *renderer) SetViewport(width, height uint32) {
	r.Backend().SetViewport(backend.Viewport{Width: int32(width), Height: int32(height)})
}

func (r *renderer) EntityIDFromPixels(fb framebuffer.Framebuffer, attachmentIndex int, mx, my int32) int32 {
	fb.Bind()
	defer fb.Unbind()
	return fb.ReadPixel(attachmentIndex, mx, my)
}

func (r *renderer) DrawIndexed(p pipeline.Pipeline, count uint32) {
	b := r.Backend()
	r.beginDraw(p)
	defer r.endDraw(p)
	if count == 0 {
		ib := p.IndexBuffer()
		core.Assert(ib != nil, "indexed draw without an index buffer", "pipeline", p.Name())
		count = ib.Count()
	}
	b.DrawIndexed(p.Topology(), count)
	b.BindTexture(0)
}

func (r *renderer) DrawLines(p pipeline.Pipeline, vertexCount uint32) {
	r.beginDraw(p)
	defer r.endDraw(p)
	r.Backend().DrawArrays(backend.TopologyLines, 0, vertexCount)
}

func (r *renderer) DrawArrays(p pipeline.Pipeline, count uint32) {
	r.beginDraw(p)
	defer r.endDraw(p)
	r.Backend().DrawArrays(p.Topology(), 0, count)
}

// beginDraw binds the pipeline's shader and vertex state and applies its render state. A pipeline can
// only turn off depth testing or blending that the renderer has on, never turn it on.
func (r *renderer) beginDraw(p pipeline.Pipeline) {
	b := r.Backend()
	if s := p.Shader(); s != nil {
		s.Bind()
	}
	if r.depth && !p.DepthTestEnabled() {
		b.SetCapability(backend.CapabilityDepthTest, false)
	}
	if r.blend && !p.BlendEnabled() {
		b.SetCapability(backend.CapabilityBlend, false)
	}
	p.Bind()
}

// endDraw restores the renderer's render state after a draw through p.
func (r *renderer) endDraw(p pipeline.Pipeline) {
	b := r.Backend()
	if r.depth && !p.DepthTestEnabled() {
		b.SetCapability(backend.CapabilityDepthTest, true)
	}
	if r.blend && !p.BlendEnabled() {
		b.SetCapability(backend.CapabilityBlend, true)
	}
}

func (r *renderer) Stats() backend.Statistics {
	return *r.Backend().Statistics()
}
