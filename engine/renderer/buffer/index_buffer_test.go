package buffer

import (
	"encoding/binary"
	"testing"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend/backendtest"
	"github.com/stretchr/testify/assert"
)

func TestIndexBufferWithCount(t *testing.T) {
	rec := backendtest.NewRecorder()
	ib := NewIndexBufferWithCount(rec, []uint32{0, 1, 2, 2, 3, 0})

	assert.Equal(t, uint32(6), ib.Count())
	assert.Equal(t, 24, ib.Size())
	assert.Equal(t, int64(24), rec.Statistics().IndexBufferSize)

	stored := rec.Buffers[ib.RendererID()]
	assert.Len(t, stored, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(stored[16:]))
}

func TestIndexBufferWithSize(t *testing.T) {
	rec := backendtest.NewRecorder()
	raw := make([]byte, 12)
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(i+10))
	}
	ib := NewIndexBufferWithSize(rec, raw)
	assert.Equal(t, uint32(3), ib.Count())
	assert.Equal(t, 12, ib.Size())
	assert.Equal(t, raw, rec.Buffers[ib.RendererID()])
}

func TestIndexBufferWithSizeRejectsPartialIndex(t *testing.T) {
	rec := backendtest.NewRecorder()
	assert.Panics(t, func() { NewIndexBufferWithSize(rec, make([]byte, 6)) })
}

func TestIndexBufferBindAndRelease(t *testing.T) {
	rec := backendtest.NewRecorder()
	ib := NewIndexBufferWithCount(rec, []uint32{0, 1, 2})
	ib.Unbind()
	ib.Bind()
	assert.Equal(t, ib.RendererID(), rec.BoundBuffer(backend.BufferTargetElementArray))

	ib.Release()
	ib.Release()
	assert.Zero(t, rec.LiveOf(backendtest.KindBuffer))
	assert.Zero(t, rec.Statistics().IndexBufferSize)
}
