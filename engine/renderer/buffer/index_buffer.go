package buffer

import (
	"github.com/Carmen-Shannon/ikan-go/common"
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

// IndexSize is the byte width of one index. Every index buffer stores 32-bit unsigned indices.
const IndexSize = 4

// indexBuffer is the implementation of the IndexBuffer interface.
type indexBuffer struct {
	backend  backend.Backend
	id       backend.RendererID
	count    uint32
	size     int
	released bool
}

// IndexBuffer owns one GPU buffer of 32-bit indices.
type IndexBuffer interface {
	// Count returns the number of indices.
	//
	// Returns:
	//   - uint32: the index count
	Count() uint32

	// Size returns the storage size in bytes.
	//
	// Returns:
	//   - int: Count() * IndexSize
	Size() int

	// Bind makes this buffer the active element buffer.
	Bind()

	// Unbind clears the active element buffer.
	Unbind()

	// RendererID returns the native handle.
	//
	// Returns:
	//   - backend.RendererID: the buffer handle
	RendererID() backend.RendererID

	// Release frees the GPU buffer. Calls after the first are no-ops.
	Release()
}

var _ IndexBuffer = &indexBuffer{}

// NewIndexBufferWithCount creates a static index buffer from indices. Its size is len(indices) * IndexSize.
//
// Parameters:
//   - b: the backend that allocates the buffer
//   - indices: the index data
//
// Returns:
//   - IndexBuffer: the uploaded buffer
func NewIndexBufferWithCount(b backend.Backend, indices []uint32) IndexBuffer {
	return newIndexBuffer(b, common.SliceToBytes(indices), uint32(len(indices)))
}

// NewIndexBufferWithSize creates a static index buffer from raw bytes holding 32-bit indices.
//
// Parameters:
//   - b: the backend that allocates the buffer
//   - data: the raw index bytes, a multiple of IndexSize long
//
// Returns:
//   - IndexBuffer: the uploaded buffer
func NewIndexBufferWithSize(b backend.Backend, data []byte) IndexBuffer {
	core.Assert(len(data)%IndexSize == 0, "index data is not a whole number of 32-bit indices", "size", len(data))
	return newIndexBuffer(b, data, uint32(len(data)/IndexSize))
}

func newIndexBuffer(b backend.Backend, data []byte, count uint32) IndexBuffer {
	ib := &indexBuffer{backend: b, count: count, size: int(count) * IndexSize}
	ib.id = b.AcquireBuffer()
	b.BindBuffer(backend.BufferTargetElementArray, ib.id)
	b.BufferData(backend.BufferTargetElementArray, data, ib.size, backend.BufferUsageStatic)
	b.Statistics().IndexBufferSize += int64(ib.size)
	core.Logger().Debug("created index buffer", "id", ib.id, "count", ib.count, "size", ib.size)
	return ib
}

func (ib *indexBuffer) Count() uint32 {
	return ib.count
}

func (ib *indexBuffer) Size() int {
	return ib.size
}

func (ib *indexBuffer) Bind() {
	ib.backend.BindBuffer(backend.BufferTargetElementArray, ib.id)
}

func (ib *indexBuffer) Unbind() {
	ib.backend.BindBuffer(backend.BufferTargetElementArray, 0)
}

func (ib *indexBuffer) RendererID() backend.RendererID {
	return ib.id
}

func (ib *indexBuffer) Release() {
	if ib.released {
		return
	}
	ib.released = true
	ib.backend.ReleaseBuffer(ib.id)
	ib.backend.Statistics().IndexBufferSize -= int64(ib.size)
	core.Logger().Debug("destroyed index buffer", "id", ib.id, "count", ib.count)
}
