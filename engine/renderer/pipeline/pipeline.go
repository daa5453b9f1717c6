package pipeline

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/buffer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/shader"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	backend backend.Backend
	id      backend.RendererID
	name    string

	vertexBuffers []buffer.VertexBuffer
	indexBuffer   buffer.IndexBuffer
	slots         []backend.AttributeSlot
	nextSlot      uint32

	shader           shader.Shader
	topology         backend.Topology
	depthTestEnabled bool
	blendEnabled     bool

	released bool
}

// Pipeline binds a set of vertex buffers and an optional index buffer to vertex attribute state,
// together with the render state a draw through it needs.
//
// Attached buffers are shared with the caller: Release frees only the pipeline's own handle and the
// buffers must be released by whoever created them.
type Pipeline interface {
	// Name returns the debug name given with WithName.
	//
	// Returns:
	//   - string: the pipeline name
	Name() string

	// AddVertexBuffer attaches vb and describes one attribute slot per element of its layout.
	// Slot indices continue from the previously attached buffer. Integer and bool elements use the
	// integer attribute path. Matrix elements occupy one slot per row, each advancing per instance.
	// The buffer's layout must be set before it is attached.
	//
	// Parameters:
	//   - vb: the vertex buffer to attach
	AddVertexBuffer(vb buffer.VertexBuffer)

	// SetIndexBuffer replaces the pipeline's index buffer.
	//
	// Parameters:
	//   - ib: the index buffer, or nil to detach
	SetIndexBuffer(ib buffer.IndexBuffer)

	// VertexBuffers returns the attached vertex buffers in insertion order.
	//
	// Returns:
	//   - []buffer.VertexBuffer: the attached buffers
	VertexBuffers() []buffer.VertexBuffer

	// IndexBuffer returns the attached index buffer.
	//
	// Returns:
	//   - buffer.IndexBuffer: the index buffer, or nil
	IndexBuffer() buffer.IndexBuffer

	// AttributeSlots returns every attribute slot described so far, in slot order.
	//
	// Returns:
	//   - []backend.AttributeSlot: the slot descriptors
	AttributeSlots() []backend.AttributeSlot

	// Bind binds the vertex array, then every vertex buffer in insertion order, then the index buffer.
	Bind()

	// Unbind reverses Bind.
	Unbind()

	// Shader returns the program drawn with this pipeline.
	//
	// Returns:
	//   - shader.Shader: the shader, or nil
	Shader() shader.Shader

	// Topology returns the primitive topology of draws through this pipeline.
	//
	// Returns:
	//   - backend.Topology: the topology
	Topology() backend.Topology

	// DepthTestEnabled reports whether draws through this pipeline use depth testing.
	//
	// Returns:
	//   - bool: true if depth testing is on
	DepthTestEnabled() bool

	// BlendEnabled reports whether draws through this pipeline use alpha blending.
	//
	// Returns:
	//   - bool: true if blending is on
	BlendEnabled() bool

	// RendererID returns the native vertex array handle.
	//
	// Returns:
	//   - backend.RendererID: the handle
	RendererID() backend.RendererID

	// Release frees the vertex array. Calls after the first are no-ops.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates an empty pipeline with triangle topology, depth testing and blending enabled.
//
// Parameters:
//   - b: the backend that allocates the vertex array
//   - opts: options applied after the defaults
//
// Returns:
//   - Pipeline: the pipeline
func NewPipeline(b backend.Backend, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		backend:          b,
		topology:         backend.TopologyTriangles,
		depthTestEnabled: true,
		blendEnabled:     true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.id = b.AcquirePipeline()
	core.Logger().Debug("created pipeline", "name", p.name, "id", p.id)
	return p
}

func (p *pipeline) Name() string {
	return p.name
}

func (p *pipeline) AddVertexBuffer(vb buffer.VertexBuffer) {
	layout := vb.Layout()
	core.Assert(!layout.Empty(), "vertex buffer has no layout", "pipeline", p.name, "buffer", vb.RendererID())

	p.backend.BindVertexArray(p.id)
	vb.Bind()

	stride := int32(layout.Stride())
	first := len(p.slots)
	for _, e := range layout.Elements() {
		switch {
		case e.Type.IsMatrix():
			for row := uint32(0); row < e.Count; row++ {
				p.describe(backend.AttributeSlot{
					Name:       e.Name,
					Components: int32(e.Count),
					Type:       backend.AttributeTypeFloat,
					Normalized: e.Normalized,
					Stride:     stride,
					Offset:     int(e.Offset + row*e.Count*4),
					Rate:       backend.StepRateInstance,
				})
			}
		case e.Type.IsInteger():
			p.describe(backend.AttributeSlot{
				Name:       e.Name,
				Components: int32(e.Count),
				Type:       e.Type.AttributeType(),
				Integer:    true,
				Stride:     stride,
				Offset:     int(e.Offset),
				Rate:       backend.StepRateVertex,
			})
		default:
			p.describe(backend.AttributeSlot{
				Name:       e.Name,
				Components: int32(e.Count),
				Type:       backend.AttributeTypeFloat,
				Normalized: e.Normalized,
				Stride:     stride,
				Offset:     int(e.Offset),
				Rate:       backend.StepRateVertex,
			})
		}
	}
	p.vertexBuffers = append(p.vertexBuffers, vb)

	core.Logger().Debug("attached vertex buffer",
		"pipeline", p.name,
		"buffer", vb.RendererID(),
		"stride", stride,
		"attributes", formatSlots(p.slots[first:]),
	)
}

// describe assigns the next slot index to slot, enables it and then describes its format.
func (p *pipeline) describe(slot backend.AttributeSlot) {
	slot.Index = p.nextSlot
	p.nextSlot++
	p.backend.EnableAttribute(slot.Index)
	p.backend.DescribeAttribute(slot)
	p.slots = append(p.slots, slot)
}

func formatSlots(slots []backend.AttributeSlot) string {
	var sb strings.Builder
	for i, s := range slots {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%d:%s x%d @%d %s", s.Index, s.Name, s.Components, s.Offset, s.Rate)
	}
	return sb.String()
}

func (p *pipeline) SetIndexBuffer(ib buffer.IndexBuffer) {
	p.backend.BindVertexArray(p.id)
	if ib != nil {
		ib.Bind()
	}
	p.indexBuffer = ib
}

func (p *pipeline) VertexBuffers() []buffer.VertexBuffer {
	return append([]buffer.VertexBuffer(nil), p.vertexBuffers...)
}

func (p *pipeline) IndexBuffer() buffer.IndexBuffer {
	return p.indexBuffer
}

func (p *pipeline) AttributeSlots() []backend.AttributeSlot {
	return append([]backend.AttributeSlot(nil), p.slots...)
}

func (p *pipeline) Bind() {
	p.backend.BindVertexArray(p.id)
	for _, vb := range p.vertexBuffers {
		vb.Bind()
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Bind()
	}
}

func (p *pipeline) Unbind() {
	p.backend.BindVertexArray(0)
	for _, vb := range p.vertexBuffers {
		vb.Unbind()
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Unbind()
	}
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) Topology() backend.Topology {
	return p.topology
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) RendererID() backend.RendererID {
	return p.id
}

func (p *pipeline) Release() {
	if p.released {
		return
	}
	p.released = true
	p.backend.ReleasePipeline(p.id)
	core.Logger().Debug("destroyed pipeline", "name", p.name, "id", p.id)
}
