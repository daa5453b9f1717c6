// Package backendtest provides a recording backend.Backend for headless tests. The Recorder keeps
// enough state (buffer contents, bindings, live handles, viewport) to answer readbacks and to let
// tests assert on exactly which GPU calls a component issued.
package backendtest

import (
	"fmt"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind names the class of a native handle.
type Kind string

const (
	KindBuffer      Kind = "buffer"
	KindTexture     Kind = "texture"
	KindPipeline    Kind = "pipeline"
	KindFramebuffer Kind = "framebuffer"
	KindShader      Kind = "shader"
)

// Call is one recorded backend invocation.
type Call struct {
	Op   string
	Args []any
}

// DrawCall is one recorded draw.
type DrawCall struct {
	Topology    backend.Topology
	Indexed     bool
	First       uint32
	Count       uint32
	VertexArray backend.RendererID
	Program     backend.RendererID
	IndexBuffer backend.RendererID
}

// Recorder is an in-memory backend.Backend. The zero value is not usable; call NewRecorder.
type Recorder struct {
	// FailAfter makes the Nth handle acquisition (1-based) and every later one fatal. Zero disables it.
	FailAfter int
	// Incomplete makes FramebufferComplete report false.
	Incomplete bool
	// CompileErr is returned by CompileProgram when set.
	CompileErr error
	// Pixels answers ReadPixelInt, keyed by {x, y}.
	Pixels map[[2]int32]int32

	Calls      []Call
	Draws      []DrawCall
	Attributes []backend.AttributeSlot
	Enabled    []uint32

	// Live maps every acquired and not yet released handle to its kind.
	Live map[backend.RendererID]Kind
	// Released lists released handles in release order.
	Released []backend.RendererID

	Buffers         map[backend.RendererID][]byte
	Usages          map[backend.RendererID]backend.BufferUsage
	Textures        map[backend.RendererID]backend.TextureImage
	Attachments     map[backend.RendererID]map[backend.Attachment]backend.RendererID
	DrawBufferCount map[backend.RendererID]int
	ColorDisabled   map[backend.RendererID]bool
	Programs        map[backend.RendererID][]backend.ShaderSource
	Uniforms        map[string]any
	Capabilities    map[backend.Capability]bool

	DepthFunc  backend.DepthFunc
	Wireframe  bool
	LineWidth  float32
	ClearColor mgl32.Vec4

	nextID      backend.RendererID
	acquired    int
	bound       map[backend.BufferTarget]backend.RendererID
	vertexArray backend.RendererID
	framebuffer backend.RendererID
	texture     backend.RendererID
	program     backend.RendererID
	locations   map[string]int32
	names       map[int32]string
	viewport    backend.Viewport
	stats       backend.Statistics
}

var _ backend.Backend = &Recorder{}

// NewRecorder returns an empty Recorder with a 1280x720 viewport.
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder() *Recorder {
	return &Recorder{
		Pixels:          make(map[[2]int32]int32),
		Live:            make(map[backend.RendererID]Kind),
		Buffers:         make(map[backend.RendererID][]byte),
		Usages:          make(map[backend.RendererID]backend.BufferUsage),
		Textures:        make(map[backend.RendererID]backend.TextureImage),
		Attachments:     make(map[backend.RendererID]map[backend.Attachment]backend.RendererID),
		DrawBufferCount: make(map[backend.RendererID]int),
		ColorDisabled:   make(map[backend.RendererID]bool),
		Programs:        make(map[backend.RendererID][]backend.ShaderSource),
		Uniforms:        make(map[string]any),
		Capabilities:    make(map[backend.Capability]bool),
		nextID:          1,
		bound:           make(map[backend.BufferTarget]backend.RendererID),
		locations:       make(map[string]int32),
		names:           make(map[int32]string),
		viewport:        backend.Viewport{Width: 1280, Height: 720},
		LineWidth:       1,
	}
}

// CountOf returns how many recorded calls have the given op name.
func (r *Recorder) CountOf(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LiveOf returns how many live handles have the given kind.
func (r *Recorder) LiveOf(kind Kind) int {
	n := 0
	for _, k := range r.Live {
		if k == kind {
			n++
		}
	}
	return n
}

// BoundBuffer returns the buffer bound to target.
func (r *Recorder) BoundBuffer(target backend.BufferTarget) backend.RendererID {
	return r.bound[target]
}

// BoundFramebuffer returns the active render target.
func (r *Recorder) BoundFramebuffer() backend.RendererID {
	return r.framebuffer
}

// BoundProgram returns the active shader program.
func (r *Recorder) BoundProgram() backend.RendererID {
	return r.program
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) acquire(kind Kind) backend.RendererID {
	r.acquired++
	if r.FailAfter > 0 && r.acquired >= r.FailAfter {
		core.Fatal("handle allocation failed", "kind", string(kind), "attempt", r.acquired)
	}
	id := r.nextID
	r.nextID++
	r.Live[id] = kind
	r.record("Acquire", kind, id)
	return id
}

func (r *Recorder) release(kind Kind, id backend.RendererID) {
	got, ok := r.Live[id]
	if !ok || got != kind {
		core.Fatal("released handle that is not live", "kind", string(kind), "id", id)
	}
	delete(r.Live, id)
	r.Released = append(r.Released, id)
	r.record("Release", kind, id)
}

func (r *Recorder) AcquireBuffer() backend.RendererID {
	id := r.acquire(KindBuffer)
	r.Buffers[id] = nil
	return id
}

func (r *Recorder) AcquireTextures(count int) []backend.RendererID {
	ids := make([]backend.RendererID, count)
	for i := range ids {
		ids[i] = r.acquire(KindTexture)
	}
	return ids
}

func (r *Recorder) AcquirePipeline() backend.RendererID {
	return r.acquire(KindPipeline)
}

func (r *Recorder) AcquireFramebuffer() backend.RendererID {
	id := r.acquire(KindFramebuffer)
	r.Attachments[id] = make(map[backend.Attachment]backend.RendererID)
	return id
}

func (r *Recorder) AcquireShader() backend.RendererID {
	return r.acquire(KindShader)
}

func (r *Recorder) ReleaseBuffer(id backend.RendererID) {
	r.release(KindBuffer, id)
	delete(r.Buffers, id)
}

func (r *Recorder) ReleaseTextures(ids ...backend.RendererID) {
	for _, id := range ids {
		r.release(KindTexture, id)
		delete(r.Textures, id)
	}
}

func (r *Recorder) ReleasePipeline(id backend.RendererID) {
	r.release(KindPipeline, id)
}

func (r *Recorder) ReleaseFramebuffer(id backend.RendererID) {
	r.release(KindFramebuffer, id)
	delete(r.Attachments, id)
}

func (r *Recorder) ReleaseShader(id backend.RendererID) {
	r.release(KindShader, id)
	delete(r.Programs, id)
}

func (r *Recorder) BindBuffer(target backend.BufferTarget, id backend.RendererID) {
	r.bound[target] = id
	r.record("BindBuffer", target, id)
}

func (r *Recorder) boundBuffer(target backend.BufferTarget) backend.RendererID {
	id := r.bound[target]
	if id == 0 {
		core.Fatal("no buffer bound", "target", int(target))
	}
	return id
}

func (r *Recorder) BufferData(target backend.BufferTarget, data []byte, size int, usage backend.BufferUsage) {
	id := r.boundBuffer(target)
	buf := make([]byte, size)
	copy(buf, data)
	r.Buffers[id] = buf
	r.Usages[id] = usage
	r.record("BufferData", target, id, size, usage)
}

func (r *Recorder) BufferSubData(target backend.BufferTarget, offset int, data []byte) {
	id := r.boundBuffer(target)
	buf := r.Buffers[id]
	if offset < 0 || offset+len(data) > len(buf) {
		core.Fatal("buffer sub data out of range", "id", id, "offset", offset, "size", len(data), "capacity", len(buf))
	}
	copy(buf[offset:], data)
	r.record("BufferSubData", target, id, offset, len(data))
}

func (r *Recorder) GetBufferSubData(target backend.BufferTarget, offset int, out []byte) {
	id := r.boundBuffer(target)
	buf := r.Buffers[id]
	if offset < 0 || offset+len(out) > len(buf) {
		core.Fatal("buffer read out of range", "id", id, "offset", offset, "size", len(out), "capacity", len(buf))
	}
	copy(out, buf[offset:])
	r.record("GetBufferSubData", target, id, offset, len(out))
}

func (r *Recorder) BindVertexArray(id backend.RendererID) {
	r.vertexArray = id
	r.record("BindVertexArray", id)
}

func (r *Recorder) EnableAttribute(index uint32) {
	r.Enabled = append(r.Enabled, index)
	r.record("EnableAttribute", index)
}

func (r *Recorder) DescribeAttribute(slot backend.AttributeSlot) {
	r.Attributes = append(r.Attributes, slot)
	r.record("DescribeAttribute", slot)
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.record("ActiveTexture", unit)
}

func (r *Recorder) BindTexture(id backend.RendererID) {
	r.texture = id
	r.record("BindTexture", id)
}

func (r *Recorder) TexImage2D(image backend.TextureImage) {
	if r.texture == 0 {
		core.Fatal("no texture bound")
	}
	r.Textures[r.texture] = image
	r.record("TexImage2D", r.texture, image.Format, image.Width, image.Height)
}

func (r *Recorder) BindFramebuffer(id backend.RendererID) {
	r.framebuffer = id
	r.record("BindFramebuffer", id)
}

func (r *Recorder) FramebufferTexture(attachment backend.Attachment, id backend.RendererID) {
	if r.framebuffer == 0 {
		core.Fatal("no framebuffer bound")
	}
	r.Attachments[r.framebuffer][attachment] = id
	r.record("FramebufferTexture", r.framebuffer, attachment, id)
}

func (r *Recorder) DrawBuffers(count int) {
	r.DrawBufferCount[r.framebuffer] = count
	r.record("DrawBuffers", count)
}

func (r *Recorder) DisableColorBuffers() {
	r.ColorDisabled[r.framebuffer] = true
	r.record("DisableColorBuffers", r.framebuffer)
}

func (r *Recorder) FramebufferComplete() bool {
	r.record("FramebufferComplete", r.framebuffer)
	return !r.Incomplete
}

func (r *Recorder) ReadPixelInt(attachment backend.Attachment, x, y int32) int32 {
	r.record("ReadPixelInt", attachment, x, y)
	return r.Pixels[[2]int32{x, y}]
}

func (r *Recorder) ClearColorAttachmentInt(index int, value int32) {
	r.record("ClearColorAttachmentInt", r.framebuffer, index, value)
}

func (r *Recorder) BlitToDefault(src backend.RendererID, srcWidth, srcHeight, dstWidth, dstHeight int32) {
	r.framebuffer = 0
	r.record("BlitToDefault", src, srcWidth, srcHeight, dstWidth, dstHeight)
}

func (r *Recorder) SetCapability(c backend.Capability, enabled bool) {
	r.Capabilities[c] = enabled
	r.record("SetCapability", c, enabled)
}

func (r *Recorder) SetDepthFunc(f backend.DepthFunc) {
	r.DepthFunc = f
	r.record("SetDepthFunc", f)
}

func (r *Recorder) SetWireframe(enabled bool) {
	r.Wireframe = enabled
	r.record("SetWireframe", enabled)
}

func (r *Recorder) SetLineWidth(width float32) {
	r.LineWidth = width
	r.record("SetLineWidth", width)
}

func (r *Recorder) SetClearColor(c mgl32.Vec4) {
	r.ClearColor = c
	r.record("SetClearColor", c)
}

func (r *Recorder) Clear(mask backend.ClearMask) {
	r.record("Clear", mask)
}

func (r *Recorder) Viewport() backend.Viewport {
	return r.viewport
}

func (r *Recorder) SetViewport(v backend.Viewport) {
	r.viewport = v
	r.record("SetViewport", v)
}

func (r *Recorder) CompileProgram(id backend.RendererID, sources []backend.ShaderSource) error {
	r.record("CompileProgram", id, len(sources))
	if r.CompileErr != nil {
		return r.CompileErr
	}
	r.Programs[id] = sources
	return nil
}

func (r *Recorder) UseProgram(id backend.RendererID) {
	r.program = id
	r.record("UseProgram", id)
}

// UniformLocation hands out a stable location per program and name.
func (r *Recorder) UniformLocation(program backend.RendererID, name string) int32 {
	key := fmt.Sprintf("%d/%s", program, name)
	loc, ok := r.locations[key]
	if !ok {
		loc = int32(len(r.locations))
		r.locations[key] = loc
		r.names[loc] = name
	}
	return loc
}

func (r *Recorder) setUniform(op string, location int32, v any) {
	if name, ok := r.names[location]; ok {
		r.Uniforms[name] = v
	}
	r.record(op, location, v)
}

func (r *Recorder) SetUniformInt(location int32, v int32) {
	r.setUniform("SetUniformInt", location, v)
}

func (r *Recorder) SetUniformIntArray(location int32, v []int32) {
	r.setUniform("SetUniformIntArray", location, append([]int32(nil), v...))
}

func (r *Recorder) SetUniformFloat(location int32, v float32) {
	r.setUniform("SetUniformFloat", location, v)
}

func (r *Recorder) SetUniformFloat4(location int32, v mgl32.Vec4) {
	r.setUniform("SetUniformFloat4", location, v)
}

func (r *Recorder) SetUniformMat4(location int32, m mgl32.Mat4) {
	r.setUniform("SetUniformMat4", location, m)
}

func (r *Recorder) DrawIndexed(topology backend.Topology, count uint32) {
	r.Draws = append(r.Draws, DrawCall{
		Topology:    topology,
		Indexed:     true,
		Count:       count,
		VertexArray: r.vertexArray,
		Program:     r.program,
		IndexBuffer: r.bound[backend.BufferTargetElementArray],
	})
	r.record("DrawIndexed", topology, count)
}

func (r *Recorder) DrawArrays(topology backend.Topology, first, count uint32) {
	r.Draws = append(r.Draws, DrawCall{
		Topology:    topology,
		First:       first,
		Count:       count,
		VertexArray: r.vertexArray,
		Program:     r.program,
	})
	r.record("DrawArrays", topology, first, count)
}

func (r *Recorder) Statistics() *backend.Statistics {
	return &r.stats
}
