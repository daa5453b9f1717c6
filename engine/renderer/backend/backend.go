// Package backend defines the capability surface a GPU API must provide to the renderer.
// Every GPU-owning object (buffers, pipelines, textures, framebuffers, shaders) receives a
// Backend at construction and performs all native calls through it. The production
// implementation lives in the opengl sub-package; backendtest provides a recording double.
package backend

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RendererID is an opaque native GPU handle. Ownership is tracked by the engine object that
// acquired it, which must release it exactly once.
type RendererID uint32

// IDManager allocates and releases native GPU handles. Allocation failure is fatal.
type IDManager interface {
	// AcquireBuffer allocates a native buffer handle.
	//
	// Returns:
	//   - RendererID: the new buffer handle
	AcquireBuffer() RendererID

	// AcquireTextures allocates count native texture handles.
	//
	// Parameters:
	//   - count: the number of handles to allocate
	//
	// Returns:
	//   - []RendererID: the new texture handles in allocation order
	AcquireTextures(count int) []RendererID

	// AcquirePipeline allocates a native vertex array handle.
	//
	// Returns:
	//   - RendererID: the new vertex array handle
	AcquirePipeline() RendererID

	// AcquireFramebuffer allocates a native framebuffer handle.
	//
	// Returns:
	//   - RendererID: the new framebuffer handle
	AcquireFramebuffer() RendererID

	// AcquireShader allocates a native shader program handle.
	//
	// Returns:
	//   - RendererID: the new program handle
	AcquireShader() RendererID

	// ReleaseBuffer frees a buffer handle.
	//
	// Parameters:
	//   - id: the handle to free
	ReleaseBuffer(id RendererID)

	// ReleaseTextures frees one or more texture handles.
	//
	// Parameters:
	//   - ids: the handles to free
	ReleaseTextures(ids ...RendererID)

	// ReleasePipeline frees a vertex array handle.
	//
	// Parameters:
	//   - id: the handle to free
	ReleasePipeline(id RendererID)

	// ReleaseFramebuffer frees a framebuffer handle.
	//
	// Parameters:
	//   - id: the handle to free
	ReleaseFramebuffer(id RendererID)

	// ReleaseShader frees a shader program handle.
	//
	// Parameters:
	//   - id: the handle to free
	ReleaseShader(id RendererID)
}

// Backend is the full set of GPU operations used by the renderer. Calls are issued from a single
// thread in program order; implementations do no locking.
type Backend interface {
	IDManager

	// BindBuffer makes id the active buffer for target. A zero id unbinds.
	BindBuffer(target BufferTarget, id RendererID)

	// BufferData (re)allocates storage for the buffer bound to target. When data is nil the storage
	// is left uninitialized.
	//
	// Parameters:
	//   - target: the bind point of the buffer
	//   - data: the initial content, or nil
	//   - size: the storage size in bytes
	//   - usage: the usage hint passed to the driver
	BufferData(target BufferTarget, data []byte, size int, usage BufferUsage)

	// BufferSubData overwrites part of the buffer bound to target starting at offset.
	BufferSubData(target BufferTarget, offset int, data []byte)

	// GetBufferSubData reads len(out) bytes from the buffer bound to target starting at offset.
	GetBufferSubData(target BufferTarget, offset int, out []byte)

	// BindVertexArray makes id the active vertex array. A zero id unbinds.
	BindVertexArray(id RendererID)

	// EnableAttribute enables the vertex attribute at index on the bound vertex array.
	EnableAttribute(index uint32)

	// DescribeAttribute sets the format, stride, offset and advance rate of an enabled attribute
	// on the bound vertex array, sourcing data from the bound array buffer.
	DescribeAttribute(slot AttributeSlot)

	// ActiveTexture selects the texture unit affected by BindTexture.
	ActiveTexture(unit uint32)

	// BindTexture binds a 2D texture to the active texture unit. A zero id unbinds.
	BindTexture(id RendererID)

	// TexImage2D uploads image into the bound 2D texture and applies its sampling parameters.
	TexImage2D(image TextureImage)

	// BindFramebuffer makes id the active render target. A zero id restores the default target.
	BindFramebuffer(id RendererID)

	// FramebufferTexture attaches texture id to the bound framebuffer at attachment.
	FramebufferTexture(attachment Attachment, id RendererID)

	// DrawBuffers enables the first count color attachments of the bound framebuffer for output.
	DrawBuffers(count int)

	// DisableColorBuffers turns off color reads and writes on the bound framebuffer.
	DisableColorBuffers()

	// FramebufferComplete reports whether the bound framebuffer is complete.
	FramebufferComplete() bool

	// ReadPixelInt reads one signed integer texel from attachment of the bound framebuffer.
	ReadPixelInt(attachment Attachment, x, y int32) int32

	// ClearColorAttachmentInt fills integer color attachment index of the bound framebuffer with value.
	ClearColorAttachmentInt(index int, value int32)

	// BlitToDefault copies color attachment 0 of framebuffer src onto the default framebuffer, scaling
	// from the source size to the destination size. The default framebuffer is bound afterwards.
	BlitToDefault(src RendererID, srcWidth, srcHeight, dstWidth, dstHeight int32)

	// SetCapability enables or disables a fixed-function capability.
	SetCapability(c Capability, enabled bool)

	// SetDepthFunc sets the depth comparison function.
	SetDepthFunc(f DepthFunc)

	// SetWireframe toggles line polygon rasterization.
	SetWireframe(enabled bool)

	// SetLineWidth sets the rasterized width of line primitives.
	SetLineWidth(width float32)

	// SetClearColor sets the color used when clearing color buffers.
	SetClearColor(c mgl32.Vec4)

	// Clear clears the buffers selected by mask on the active render target.
	Clear(mask ClearMask)

	// Viewport returns the active viewport.
	Viewport() Viewport

	// SetViewport replaces the active viewport.
	SetViewport(v Viewport)

	// CompileProgram compiles each stage source, links them into program id and discards the
	// intermediate stage objects.
	//
	// Parameters:
	//   - id: a program handle from AcquireShader
	//   - sources: one source per stage
	//
	// Returns:
	//   - error: the compile or link log if either step fails
	CompileProgram(id RendererID, sources []ShaderSource) error

	// UseProgram makes id the active program. A zero id unbinds.
	UseProgram(id RendererID)

	// UniformLocation returns the location of a uniform in program, or -1 if it is not active.
	UniformLocation(program RendererID, name string) int32

	// SetUniformInt uploads an int to the active program.
	SetUniformInt(location int32, v int32)

	// SetUniformIntArray uploads an int array to the active program.
	SetUniformIntArray(location int32, v []int32)

	// SetUniformFloat uploads a float to the active program.
	SetUniformFloat(location int32, v float32)

	// SetUniformFloat4 uploads a vec4 to the active program.
	SetUniformFloat4(location int32, v mgl32.Vec4)

	// SetUniformMat4 uploads a column-major mat4 to the active program.
	SetUniformMat4(location int32, m mgl32.Mat4)

	// DrawIndexed draws count 32-bit indices from the bound index buffer.
	DrawIndexed(topology Topology, count uint32)

	// DrawArrays draws count vertices starting at first from the bound vertex array.
	DrawArrays(topology Topology, first, count uint32)

	// Statistics returns the live allocation counters for this backend.
	Statistics() *Statistics
}

// Statistics counts bytes of GPU memory currently allocated through a Backend.
// Resource constructors add to these counters and Release subtracts.
type Statistics struct {
	VertexBufferSize  int64
	IndexBufferSize   int64
	TextureBufferSize int64
}
