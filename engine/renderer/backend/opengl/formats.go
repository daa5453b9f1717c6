package opengl

import (
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// textureFormatTriple is the internal format, data format and pixel type passed to glTexImage2D.
type textureFormatTriple struct {
	internalFormat int32
	dataFormat     uint32
	pixelType      uint32
}

var textureFormats = map[backend.TextureFormat]textureFormatTriple{
	backend.TextureFormatRGBA8:           {internalFormat: gl.RGBA8, dataFormat: gl.RGBA, pixelType: gl.UNSIGNED_BYTE},
	backend.TextureFormatR32I:            {internalFormat: gl.R32I, dataFormat: gl.RED_INTEGER, pixelType: gl.INT},
	backend.TextureFormatDepth24Stencil8: {internalFormat: gl.DEPTH24_STENCIL8, dataFormat: gl.DEPTH_STENCIL, pixelType: gl.UNSIGNED_INT_24_8},
}

func textureFormatToGL(f backend.TextureFormat) textureFormatTriple {
	t, ok := textureFormats[f]
	if !ok {
		core.Fatal("invalid texture format", "format", f.String())
	}
	return t
}

func bufferTargetToGL(t backend.BufferTarget) uint32 {
	if t == backend.BufferTargetElementArray {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func bufferUsageToGL(u backend.BufferUsage) uint32 {
	if u == backend.BufferUsageDynamic {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func attributeTypeToGL(t backend.AttributeType) uint32 {
	switch t {
	case backend.AttributeTypeInt:
		return gl.INT
	case backend.AttributeTypeBool:
		// glVertexAttribIPointer has no BOOL type; a bool is one unsigned byte.
		return gl.UNSIGNED_BYTE
	}
	return gl.FLOAT
}

func attachmentToGL(a backend.Attachment) uint32 {
	if a == backend.AttachmentDepthStencil {
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(a)
}

func filterToGL(f backend.TextureFilter) int32 {
	if f == backend.TextureFilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func wrapToGL(w backend.TextureWrap) int32 {
	switch w {
	case backend.TextureWrapRepeat:
		return gl.REPEAT
	case backend.TextureWrapClampToBorder:
		return gl.CLAMP_TO_BORDER
	}
	return gl.CLAMP_TO_EDGE
}

var capabilities = map[backend.Capability]uint32{
	backend.CapabilityDepthTest:   gl.DEPTH_TEST,
	backend.CapabilityBlend:       gl.BLEND,
	backend.CapabilityMultiSample: gl.MULTISAMPLE,
}

var depthFuncs = map[backend.DepthFunc]uint32{
	backend.DepthFuncLess:         gl.LESS,
	backend.DepthFuncLessEqual:    gl.LEQUAL,
	backend.DepthFuncEqual:        gl.EQUAL,
	backend.DepthFuncGreater:      gl.GREATER,
	backend.DepthFuncGreaterEqual: gl.GEQUAL,
	backend.DepthFuncNotEqual:     gl.NOTEQUAL,
	backend.DepthFuncAlways:       gl.ALWAYS,
	backend.DepthFuncNever:        gl.NEVER,
}

var topologies = map[backend.Topology]uint32{
	backend.TopologyTriangles: gl.TRIANGLES,
	backend.TopologyLines:     gl.LINES,
	backend.TopologyLineStrip: gl.LINE_STRIP,
	backend.TopologyPoints:    gl.POINTS,
}

var shaderStages = map[backend.ShaderStage]uint32{
	backend.ShaderStageVertex:   gl.VERTEX_SHADER,
	backend.ShaderStageFragment: gl.FRAGMENT_SHADER,
	backend.ShaderStageGeometry: gl.GEOMETRY_SHADER,
}

func clearMaskToGL(m backend.ClearMask) uint32 {
	var bits uint32
	if m&backend.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if m&backend.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if m&backend.ClearStencil != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	return bits
}
