// Package opengl implements backend.Backend on OpenGL 4.1 core through go-gl. A context must be
// current on the calling thread before NewBackend is called, and every call must come from that thread.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glBackend is the OpenGL implementation of backend.Backend.
type glBackend struct {
	stats backend.Statistics
}

var _ backend.Backend = &glBackend{}

// NewBackend loads the OpenGL function pointers for the current context and returns a Backend
// issuing calls against it.
//
// Returns:
//   - backend.Backend: the OpenGL backend
//   - error: an error if the function pointers could not be loaded
func NewBackend() (backend.Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.Logger().Info("OpenGL backend initialized",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
	)
	return &glBackend{}, nil
}

func (b *glBackend) BindBuffer(target backend.BufferTarget, id backend.RendererID) {
	gl.BindBuffer(bufferTargetToGL(target), uint32(id))
}

func (b *glBackend) BufferData(target backend.BufferTarget, data []byte, size int, usage backend.BufferUsage) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(&data[0])
	}
	gl.BufferData(bufferTargetToGL(target), size, ptr, bufferUsageToGL(usage))
}

func (b *glBackend) BufferSubData(target backend.BufferTarget, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(bufferTargetToGL(target), offset, len(data), gl.Ptr(&data[0]))
}

func (b *glBackend) GetBufferSubData(target backend.BufferTarget, offset int, out []byte) {
	if len(out) == 0 {
		return
	}
	gl.GetBufferSubData(bufferTargetToGL(target), offset, len(out), gl.Ptr(&out[0]))
}

func (b *glBackend) BindVertexArray(id backend.RendererID) {
	gl.BindVertexArray(uint32(id))
}

func (b *glBackend) EnableAttribute(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (b *glBackend) DescribeAttribute(slot backend.AttributeSlot) {
	xtype := attributeTypeToGL(slot.Type)
	if slot.Integer {
		gl.VertexAttribIPointer(slot.Index, slot.Components, xtype, slot.Stride, gl.PtrOffset(slot.Offset))
	} else {
		gl.VertexAttribPointer(slot.Index, slot.Components, xtype, slot.Normalized, slot.Stride, gl.PtrOffset(slot.Offset))
	}

	var divisor uint32
	if slot.Rate == backend.StepRateInstance {
		divisor = 1
	}
	gl.VertexAttribDivisor(slot.Index, divisor)
}

func (b *glBackend) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (b *glBackend) BindTexture(id backend.RendererID) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

func (b *glBackend) TexImage2D(image backend.TextureImage) {
	f := textureFormatToGL(image.Format)
	var ptr unsafe.Pointer
	if len(image.Data) > 0 {
		ptr = gl.Ptr(&image.Data[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internalFormat, image.Width, image.Height, 0, f.dataFormat, f.pixelType, ptr)

	filter := filterToGL(image.Filter)
	wrap := wrapToGL(image.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_R, wrap)
	if image.Wrap == backend.TextureWrapClampToBorder {
		border := image.BorderColor
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	}
}

func (b *glBackend) BindFramebuffer(id backend.RendererID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(id))
}

func (b *glBackend) FramebufferTexture(attachment backend.Attachment, id backend.RendererID) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachmentToGL(attachment), gl.TEXTURE_2D, uint32(id), 0)
}

func (b *glBackend) DrawBuffers(count int) {
	if count <= 0 {
		return
	}
	bufs := make([]uint32, count)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(count), &bufs[0])
}

func (b *glBackend) DisableColorBuffers() {
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
}

func (b *glBackend) FramebufferComplete() bool {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (b *glBackend) ReadPixelInt(attachment backend.Attachment, x, y int32) int32 {
	var value int32
	gl.ReadBuffer(attachmentToGL(attachment))
	gl.ReadPixels(x, y, 1, 1, gl.RED_INTEGER, gl.INT, gl.Ptr(&value))
	return value
}

func (b *glBackend) ClearColorAttachmentInt(index int, value int32) {
	gl.ClearBufferiv(gl.COLOR, int32(index), &value)
}

func (b *glBackend) BlitToDefault(src backend.RendererID, srcWidth, srcHeight, dstWidth, dstHeight int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(src))
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, srcWidth, srcHeight, 0, 0, dstWidth, dstHeight, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (b *glBackend) SetCapability(c backend.Capability, enabled bool) {
	glCap, ok := capabilities[c]
	if !ok {
		core.Logger().Warn("unknown capability", "capability", int(c))
		return
	}
	if enabled {
		gl.Enable(glCap)
	} else {
		gl.Disable(glCap)
	}
}

func (b *glBackend) SetDepthFunc(f backend.DepthFunc) {
	gl.DepthFunc(depthFuncs[f])
}

func (b *glBackend) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (b *glBackend) SetLineWidth(width float32) {
	gl.LineWidth(width)
}

func (b *glBackend) SetClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (b *glBackend) Clear(mask backend.ClearMask) {
	gl.Clear(clearMaskToGL(mask))
}

func (b *glBackend) Viewport() backend.Viewport {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return backend.Viewport{X: vp[0], Y: vp[1], Width: vp[2], Height: vp[3]}
}

func (b *glBackend) SetViewport(v backend.Viewport) {
	gl.Viewport(v.X, v.Y, v.Width, v.Height)
}

func (b *glBackend) CompileProgram(id backend.RendererID, sources []backend.ShaderSource) error {
	program := uint32(id)
	stages := make([]uint32, 0, len(sources))
	defer func() {
		for _, s := range stages {
			gl.DetachShader(program, s)
			gl.DeleteShader(s)
		}
	}()

	for _, src := range sources {
		s, err := compileStage(src)
		if err != nil {
			return err
		}
		gl.AttachShader(program, s)
		stages = append(stages, s)
	}

	gl.LinkProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(info))
		return fmt.Errorf("failed to link program %d: %s", program, strings.TrimRight(info, "\x00"))
	}
	return nil
}

func compileStage(src backend.ShaderSource) (uint32, error) {
	stage, ok := shaderStages[src.Stage]
	if !ok {
		return 0, fmt.Errorf("unsupported shader stage %s", src.Stage)
	}

	s := gl.CreateShader(stage)
	csrc, free := gl.Strs(src.Source + "\x00")
	gl.ShaderSource(s, 1, csrc, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLength)
		info := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(s, logLength, nil, gl.Str(info))
		gl.DeleteShader(s)
		return 0, fmt.Errorf("failed to compile %s shader: %s", src.Stage, strings.TrimRight(info, "\x00"))
	}
	return s, nil
}

func (b *glBackend) UseProgram(id backend.RendererID) {
	gl.UseProgram(uint32(id))
}

func (b *glBackend) UniformLocation(program backend.RendererID, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (b *glBackend) SetUniformInt(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (b *glBackend) SetUniformIntArray(location int32, v []int32) {
	if len(v) == 0 {
		return
	}
	gl.Uniform1iv(location, int32(len(v)), &v[0])
}

func (b *glBackend) SetUniformFloat(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (b *glBackend) SetUniformFloat4(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (b *glBackend) SetUniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (b *glBackend) DrawIndexed(topology backend.Topology, count uint32) {
	gl.DrawElements(topologies[topology], int32(count), gl.UNSIGNED_INT, nil)
}

func (b *glBackend) DrawArrays(topology backend.Topology, first, count uint32) {
	gl.DrawArrays(topologies[topology], int32(first), int32(count))
}

func (b *glBackend) Statistics() *backend.Statistics {
	return &b.stats
}
