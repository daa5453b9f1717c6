package opengl

import (
	"testing"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
)

func TestTextureFormatTriples(t *testing.T) {
	cases := []struct {
		format backend.TextureFormat
		want   textureFormatTriple
	}{
		{backend.TextureFormatRGBA8, textureFormatTriple{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}},
		{backend.TextureFormatR32I, textureFormatTriple{gl.R32I, gl.RED_INTEGER, gl.INT}},
		{backend.TextureFormatDepth24Stencil8, textureFormatTriple{gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8}},
	}
	for _, c := range cases {
		t.Run(c.format.String(), func(t *testing.T) {
			assert.Equal(t, c.want, textureFormatToGL(c.format))
		})
	}
}

func TestTextureFormatNoneIsFatal(t *testing.T) {
	assert.Panics(t, func() { textureFormatToGL(backend.TextureFormatNone) })
}

func TestAttachmentPoints(t *testing.T) {
	assert.Equal(t, uint32(gl.COLOR_ATTACHMENT0), attachmentToGL(backend.ColorAttachment(0)))
	assert.Equal(t, uint32(gl.COLOR_ATTACHMENT3), attachmentToGL(backend.ColorAttachment(3)))
	assert.Equal(t, uint32(gl.DEPTH_STENCIL_ATTACHMENT), attachmentToGL(backend.AttachmentDepthStencil))
}

func TestClearMask(t *testing.T) {
	assert.Equal(t, uint32(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT), clearMaskToGL(backend.ClearColor|backend.ClearDepth))
	assert.Equal(t, uint32(gl.STENCIL_BUFFER_BIT), clearMaskToGL(backend.ClearStencil))
	assert.Zero(t, clearMaskToGL(0))
}

func TestAttributeTypes(t *testing.T) {
	assert.Equal(t, uint32(gl.FLOAT), attributeTypeToGL(backend.AttributeTypeFloat))
	assert.Equal(t, uint32(gl.INT), attributeTypeToGL(backend.AttributeTypeInt))
	assert.Equal(t, uint32(gl.UNSIGNED_BYTE), attributeTypeToGL(backend.AttributeTypeBool))
}

func TestIntegerAttributeTypesAreValidForIPointer(t *testing.T) {
	valid := []uint32{gl.BYTE, gl.UNSIGNED_BYTE, gl.SHORT, gl.UNSIGNED_SHORT, gl.INT, gl.UNSIGNED_INT}
	for _, at := range []backend.AttributeType{backend.AttributeTypeInt, backend.AttributeTypeBool} {
		assert.Contains(t, valid, attributeTypeToGL(at), "attribute type %d", at)
	}
}

func TestBufferEnums(t *testing.T) {
	assert.Equal(t, uint32(gl.ARRAY_BUFFER), bufferTargetToGL(backend.BufferTargetArray))
	assert.Equal(t, uint32(gl.ELEMENT_ARRAY_BUFFER), bufferTargetToGL(backend.BufferTargetElementArray))
	assert.Equal(t, uint32(gl.STATIC_DRAW), bufferUsageToGL(backend.BufferUsageStatic))
	assert.Equal(t, uint32(gl.DYNAMIC_DRAW), bufferUsageToGL(backend.BufferUsageDynamic))
}
