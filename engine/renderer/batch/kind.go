package batch

import (
	"fmt"

	"github.com/Carmen-Shannon/ikan-go/common"
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/buffer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/shader"
)

const (
	verticesPerQuad   = 4
	indicesPerQuad    = 6
	verticesPerCircle = 4
	verticesPerLine   = 2
)

// PrimitiveKind names one of the primitive classes the batch renderer accumulates.
type PrimitiveKind int

const (
	PrimitiveQuad PrimitiveKind = iota
	PrimitiveCircle
	PrimitiveLine
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveQuad:
		return "quad"
	case PrimitiveCircle:
		return "circle"
	case PrimitiveLine:
		return "line"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// kindData is the GPU and CPU state of one primitive kind. The staging slice holds the vertices
// written since the last flush; its capacity is maxPrimitives * verticesPer.
type kindData[V any] struct {
	kind        PrimitiveKind
	verticesPer uint32
	topology    backend.Topology
	layout      buffer.BufferLayout
	source      string

	maxPrimitives uint32
	count         uint32
	staging       []V

	shader   shader.Shader
	vb       buffer.VertexBuffer
	pipeline pipeline.Pipeline
}

func newKindData[V any](kind PrimitiveKind, verticesPer uint32, topology backend.Topology, layout buffer.BufferLayout, source string) kindData[V] {
	return kindData[V]{
		kind:        kind,
		verticesPer: verticesPer,
		topology:    topology,
		layout:      layout,
		source:      source,
	}
}

func (d *kindData[V]) initialized() bool {
	return d.maxPrimitives > 0
}

func (d *kindData[V]) full() bool {
	return d.count >= d.maxPrimitives
}

// allocate sizes the kind for maxPrimitives, replacing its vertex buffer and pipeline. Vertices
// staged but not yet flushed are carried over into the new staging slice.
func (d *kindData[V]) allocate(b backend.Backend, maxPrimitives uint32, ib buffer.IndexBuffer) error {
	if d.shader == nil {
		s, err := shader.NewShader(b, d.kind.String(), d.source)
		if err != nil {
			return fmt.Errorf("batch %s: %w", d.kind, err)
		}
		d.shader = s
	}

	capacity := int(maxPrimitives) * int(d.verticesPer)
	staging := make([]V, len(d.staging), capacity)
	copy(staging, d.staging)

	vb := buffer.NewDynamicVertexBuffer(b, capacity*int(d.layout.Stride()))
	vb.AddLayout(d.layout)
	p := pipeline.NewPipeline(b,
		pipeline.WithName(d.kind.String()),
		pipeline.WithShader(d.shader),
		pipeline.WithTopology(d.topology),
	)
	p.AddVertexBuffer(vb)
	if ib != nil {
		p.SetIndexBuffer(ib)
	}

	d.releaseBuffers()
	d.vb, d.pipeline, d.staging = vb, p, staging
	core.Logger().Debug("allocated batch data",
		"kind", d.kind.String(),
		"max", maxPrimitives,
		"previous_max", d.maxPrimitives,
		"carried_vertices", len(staging),
		"vertex_buffer_size", vb.Size(),
	)
	d.maxPrimitives = maxPrimitives
	return nil
}

// push appends the vertices of one primitive. The caller flushes first when the kind is full.
func (d *kindData[V]) push(vertices ...V) {
	d.staging = append(d.staging, vertices...)
	d.count++
}

// upload writes the staged prefix to the vertex buffer.
func (d *kindData[V]) upload() {
	if err := d.vb.SetData(common.SliceToBytes(d.staging)); err != nil {
		core.Fatal("batch upload failed", "kind", d.kind.String(), "error", err)
	}
}

func (d *kindData[V]) reset() {
	d.staging = d.staging[:0]
	d.count = 0
}

func (d *kindData[V]) vertexCount() uint32 {
	return uint32(len(d.staging))
}

func (d *kindData[V]) releaseBuffers() {
	if d.pipeline != nil {
		d.pipeline.Release()
		d.pipeline = nil
	}
	if d.vb != nil {
		d.vb.Release()
		d.vb = nil
	}
}

func (d *kindData[V]) release() {
	d.releaseBuffers()
	if d.shader != nil {
		d.shader.Release()
		d.shader = nil
	}
	d.staging = nil
	d.count = 0
	d.maxPrimitives = 0
}
