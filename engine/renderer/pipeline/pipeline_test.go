package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMat4ExpandsIntoInstanceSlots(t *testing.T) {
	rec := backendtest.NewRecorder()
	vb := buffer.NewDynamicVertexBuffer(rec, 64*8)
	vb.AddLayout(buffer.NewBufferLayout(buffer.NewBufferElement("a_Transform", buffer.ShaderDataTypeMat4, false)))

	p := NewPipeline(rec)
	p.AddVertexBuffer(vb)

	slots := p.AttributeSlots()
	require.Len(t, slots, 4)
	assert.Equal(t, []uint32{0, 1, 2, 3}, rec.Enabled)
	for row, s := range slots {
		assert.Equal(t, uint32(row), s.Index)
		assert.Equal(t, backend.StepRateInstance, s.Rate)
		assert.Equal(t, int32(4), s.Components)
		assert.Equal(t, 16*row, s.Offset)
		assert.Equal(t, int32(64), s.Stride)
		assert.False(t, s.Integer)
	}
	assert.Equal(t, slots, rec.Attributes)
}

func TestMat3RowsFollowPrecedingElements(t *testing.T) {
	rec := backendtest.NewRecorder()
	vb := buffer.NewDynamicVertexBuffer(rec, 1024)
	vb.AddLayout(buffer.NewBufferLayout(
		buffer.NewBufferElement("a_Position", buffer.ShaderDataTypeFloat3, false),
		buffer.NewBufferElement("a_Normal", buffer.ShaderDataTypeMat3, false),
	))

	p := NewPipeline(rec)
	p.AddVertexBuffer(vb)

	slots := p.AttributeSlots()
	require.Len(t, slots, 4)
	assert.Equal(t, backend.StepRateVertex, slots[0].Rate)
	for row := 0; row < 3; row++ {
		s := slots[1+row]
		assert.Equal(t, backend.StepRateInstance, s.Rate)
		assert.Equal(t, 12+row*12, s.Offset)
		assert.Equal(t, int32(3), s.Components)
	}
}

func TestIntegerAndFloatSlots(t *testing.T) {
	rec := backendtest.NewRecorder()
	vb := buffer.NewDynamicVertexBuffer(rec, 1024)
	vb.AddLayout(buffer.NewBufferLayout(
		buffer.NewBufferElement("a_Color", buffer.ShaderDataTypeFloat4, true),
		buffer.NewBufferElement("a_ObjectID", buffer.ShaderDataTypeInt, true),
		buffer.NewBufferElement("a_Flag", buffer.ShaderDataTypeBool, false),
	))

	p := NewPipeline(rec)
	p.AddVertexBuffer(vb)

	slots := p.AttributeSlots()
	require.Len(t, slots, 3)

	assert.False(t, slots[0].Integer)
	assert.True(t, slots[0].Normalized)
	assert.Equal(t, backend.AttributeTypeFloat, slots[0].Type)

	assert.True(t, slots[1].Integer)
	assert.Equal(t, backend.AttributeTypeInt, slots[1].Type)
	assert.Equal(t, 16, slots[1].Offset)

	assert.True(t, slots[2].Integer)
	assert.Equal(t, backend.AttributeTypeBool, slots[2].Type)
	assert.Equal(t, 20, slots[2].Offset)
	for _, s := range slots {
		assert.Equal(t, backend.StepRateVertex, s.Rate)
		assert.Equal(t, int32(21), s.Stride)
	}
}

func TestSlotsAreSequentialAcrossBuffers(t *testing.T) {
	rec := backendtest.NewRecorder()
	mesh := buffer.NewVertexBuffer(rec, make([]byte, 48))
	mesh.AddLayout(buffer.NewBufferLayout(
		buffer.NewBufferElement("a_Position", buffer.ShaderDataTypeFloat3, false),
		buffer.NewBufferElement("a_TexCoord", buffer.ShaderDataTypeFloat2, false),
	))
	instances := buffer.NewDynamicVertexBuffer(rec, 64*16)
	instances.AddLayout(buffer.NewBufferLayout(buffer.NewBufferElement("a_Transform", buffer.ShaderDataTypeMat4, false)))

	p := NewPipeline(rec)
	p.AddVertexBuffer(mesh)
	p.AddVertexBuffer(instances)

	slots := p.AttributeSlots()
	require.Len(t, slots, 6)
	for i, s := range slots {
		assert.Equal(t, uint32(i), s.Index)
	}
	assert.Equal(t, backend.StepRateVertex, slots[1].Rate)
	assert.Equal(t, backend.StepRateInstance, slots[2].Rate)
	assert.Len(t, p.VertexBuffers(), 2)
}

func TestAddVertexBufferWithoutLayoutAsserts(t *testing.T) {
	rec := backendtest.NewRecorder()
	vb := buffer.NewDynamicVertexBuffer(rec, 32)
	p := NewPipeline(rec)
	assert.Panics(t, func() { p.AddVertexBuffer(vb) })
}

func TestBindOrder(t *testing.T) {
	rec := backendtest.NewRecorder()
	a := buffer.NewDynamicVertexBuffer(rec, 16)
	a.AddLayout(buffer.NewBufferLayout(buffer.NewBufferElement("a_Position", buffer.ShaderDataTypeFloat4, false)))
	b := buffer.NewDynamicVertexBuffer(rec, 16)
	b.AddLayout(buffer.NewBufferLayout(buffer.NewBufferElement("a_Color", buffer.ShaderDataTypeFloat4, false)))
	ib := buffer.NewIndexBufferWithCount(rec, []uint32{0, 1, 2})

	p := NewPipeline(rec)
	p.AddVertexBuffer(a)
	p.AddVertexBuffer(b)
	p.SetIndexBuffer(ib)

	rec.Calls = nil
	p.Bind()

	require.Len(t, rec.Calls, 4)
	assert.Equal(t, "BindVertexArray", rec.Calls[0].Op)
	assert.Equal(t, p.RendererID(), rec.Calls[0].Args[0])
	assert.Equal(t, a.RendererID(), rec.Calls[1].Args[1])
	assert.Equal(t, b.RendererID(), rec.Calls[2].Args[1])
	assert.Equal(t, backend.BufferTargetElementArray, rec.Calls[3].Args[0])
	assert.Equal(t, ib.RendererID(), rec.Calls[3].Args[1])
}

func TestSetIndexBufferReplaces(t *testing.T) {
	rec := backendtest.NewRecorder()
	first := buffer.NewIndexBufferWithCount(rec, []uint32{0, 1, 2})
	second := buffer.NewIndexBufferWithCount(rec, []uint32{0, 1, 2, 2, 3, 0})

	p := NewPipeline(rec)
	p.SetIndexBuffer(first)
	p.SetIndexBuffer(second)
	assert.Equal(t, second, p.IndexBuffer())
}

func TestBuilderOptionsAndRelease(t *testing.T) {
	rec := backendtest.NewRecorder()
	p := NewPipeline(rec,
		WithName("lines"),
		WithTopology(backend.TopologyLines),
		WithDepthTestEnabled(false),
		WithBlendEnabled(false),
	)
	assert.Equal(t, "lines", p.Name())
	assert.Equal(t, backend.TopologyLines, p.Topology())
	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.Shader())

	p.Release()
	p.Release()
	assert.Zero(t, rec.LiveOf(backendtest.KindPipeline))
}
