package buffer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

var (
	// ErrStaticBuffer is returned when SetData is called on a buffer created with fixed content.
	ErrStaticBuffer = errors.New("buffer: SetData called on a static vertex buffer")

	// ErrCapacityExceeded is returned when a payload is larger than the buffer's storage.
	ErrCapacityExceeded = errors.New("buffer: payload exceeds allocated capacity")

	// ErrReleased is returned when a released buffer is used.
	ErrReleased = errors.New("buffer: used after release")
)

// vertexBuffer is the implementation of the VertexBuffer interface.
type vertexBuffer struct {
	backend  backend.Backend
	id       backend.RendererID
	size     int
	dynamic  bool
	layout   BufferLayout
	released bool
}

// VertexBuffer owns one GPU buffer of vertex records.
type VertexBuffer interface {
	// SetData uploads data to the start of a dynamic buffer.
	//
	// Parameters:
	//   - data: the bytes to upload, at most Size() bytes
	//
	// Returns:
	//   - error: ErrStaticBuffer for static buffers, ErrCapacityExceeded if data is larger than the buffer
	SetData(data []byte) error

	// Read copies len(out) bytes from the start of the GPU buffer into out.
	//
	// Parameters:
	//   - out: the destination, at most Size() bytes
	//
	// Returns:
	//   - error: ErrCapacityExceeded if out is larger than the buffer
	Read(out []byte) error

	// Bind makes this buffer the active array buffer.
	Bind()

	// Unbind clears the active array buffer.
	Unbind()

	// AddLayout sets or replaces the layout describing the buffer's records. The layout must be set
	// before the buffer is attached to a pipeline.
	//
	// Parameters:
	//   - layout: the record layout
	AddLayout(layout BufferLayout)

	// Layout returns the record layout.
	//
	// Returns:
	//   - BufferLayout: the layout, empty if none was set
	Layout() BufferLayout

	// Size returns the storage size in bytes.
	//
	// Returns:
	//   - int: the allocated size
	Size() int

	// Dynamic reports whether the buffer accepts SetData.
	//
	// Returns:
	//   - bool: true for buffers created with NewDynamicVertexBuffer
	Dynamic() bool

	// RendererID returns the native handle.
	//
	// Returns:
	//   - backend.RendererID: the buffer handle
	RendererID() backend.RendererID

	// Release frees the GPU buffer. Calls after the first are no-ops.
	Release()
}

var _ VertexBuffer = &vertexBuffer{}

// NewVertexBuffer creates a static vertex buffer holding data.
//
// Parameters:
//   - b: the backend that allocates the buffer
//   - data: the immutable content
//
// Returns:
//   - VertexBuffer: the uploaded buffer
func NewVertexBuffer(b backend.Backend, data []byte) VertexBuffer {
	vb := &vertexBuffer{backend: b, size: len(data)}
	vb.id = b.AcquireBuffer()
	b.BindBuffer(backend.BufferTargetArray, vb.id)
	b.BufferData(backend.BufferTargetArray, data, len(data), backend.BufferUsageStatic)
	b.Statistics().VertexBufferSize += int64(vb.size)
	core.Logger().Debug("created static vertex buffer", "id", vb.id, "size", vb.size)
	return vb
}

// NewDynamicVertexBuffer creates a vertex buffer of size bytes with uninitialized content, to be
// filled with SetData.
//
// Parameters:
//   - b: the backend that allocates the buffer
//   - size: the storage size in bytes
//
// Returns:
//   - VertexBuffer: the allocated buffer
func NewDynamicVertexBuffer(b backend.Backend, size int) VertexBuffer {
	vb := &vertexBuffer{backend: b, size: size, dynamic: true}
	vb.id = b.AcquireBuffer()
	b.BindBuffer(backend.BufferTargetArray, vb.id)
	b.BufferData(backend.BufferTargetArray, nil, size, backend.BufferUsageDynamic)
	b.Statistics().VertexBufferSize += int64(vb.size)
	core.Logger().Debug("created dynamic vertex buffer", "id", vb.id, "size", vb.size)
	return vb
}

func (vb *vertexBuffer) SetData(data []byte) error {
	if vb.released {
		return ErrReleased
	}
	if !vb.dynamic {
		return ErrStaticBuffer
	}
	if len(data) > vb.size {
		return fmt.Errorf("%w: %d bytes into %d byte buffer %d", ErrCapacityExceeded, len(data), vb.size, vb.id)
	}
	vb.backend.BindBuffer(backend.BufferTargetArray, vb.id)
	vb.backend.BufferSubData(backend.BufferTargetArray, 0, data)
	return nil
}

func (vb *vertexBuffer) Read(out []byte) error {
	if vb.released {
		return ErrReleased
	}
	if len(out) > vb.size {
		return fmt.Errorf("%w: read of %d bytes from %d byte buffer %d", ErrCapacityExceeded, len(out), vb.size, vb.id)
	}
	vb.backend.BindBuffer(backend.BufferTargetArray, vb.id)
	vb.backend.GetBufferSubData(backend.BufferTargetArray, 0, out)
	return nil
}

func (vb *vertexBuffer) Bind() {
	vb.backend.BindBuffer(backend.BufferTargetArray, vb.id)
}

func (vb *vertexBuffer) Unbind() {
	vb.backend.BindBuffer(backend.BufferTargetArray, 0)
}

func (vb *vertexBuffer) AddLayout(layout BufferLayout) {
	vb.layout = layout
}

func (vb *vertexBuffer) Layout() BufferLayout {
	return vb.layout
}

func (vb *vertexBuffer) Size() int {
	return vb.size
}

func (vb *vertexBuffer) Dynamic() bool {
	return vb.dynamic
}

func (vb *vertexBuffer) RendererID() backend.RendererID {
	return vb.id
}

func (vb *vertexBuffer) Release() {
	if vb.released {
		return
	}
	vb.released = true
	vb.backend.ReleaseBuffer(vb.id)
	vb.backend.Statistics().VertexBufferSize -= int64(vb.size)
	core.Logger().Debug("destroyed vertex buffer", "id", vb.id, "size", vb.size)
}
