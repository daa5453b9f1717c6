package batch

import (
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/buffer"
	"github.com/go-gl/mathgl/mgl32"
)

// QuadVertex is one corner of a batched quad. The field order matches QuadLayout.
type QuadVertex struct {
	Position     mgl32.Vec3
	Color        mgl32.Vec4
	TexCoord     mgl32.Vec2
	TexIndex     float32
	TilingFactor float32
	ObjectID     int32
}

// CircleVertex is one corner of the quad a circle is rasterized in. The field order matches CircleLayout.
type CircleVertex struct {
	WorldPosition mgl32.Vec3
	LocalPosition mgl32.Vec3
	Color         mgl32.Vec4
	Thickness     float32
	Fade          float32
	ObjectID      int32
}

// LineVertex is one end point of a batched line segment. The field order matches LineLayout.
type LineVertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	ObjectID int32
}

// QuadLayout returns the vertex layout of QuadVertex.
func QuadLayout() buffer.BufferLayout {
	return buffer.NewBufferLayout(
		buffer.NewBufferElement("a_Position", buffer.ShaderDataTypeFloat3, false),
		buffer.NewBufferElement("a_Color", buffer.ShaderDataTypeFloat4, false),
		buffer.NewBufferElement("a_TexCoord", buffer.ShaderDataTypeFloat2, false),
		buffer.NewBufferElement("a_TexIndex", buffer.ShaderDataTypeFloat, false),
		buffer.NewBufferElement("a_TilingFactor", buffer.ShaderDataTypeFloat, false),
		buffer.NewBufferElement("a_ObjectID", buffer.ShaderDataTypeInt, false),
	)
}

// CircleLayout returns the vertex layout of CircleVertex.
func CircleLayout() buffer.BufferLayout {
	return buffer.NewBufferLayout(
		buffer.NewBufferElement("a_WorldPosition", buffer.ShaderDataTypeFloat3, false),
		buffer.NewBufferElement("a_LocalPosition", buffer.ShaderDataTypeFloat3, false),
		buffer.NewBufferElement("a_Color", buffer.ShaderDataTypeFloat4, false),
		buffer.NewBufferElement("a_Thickness", buffer.ShaderDataTypeFloat, false),
		buffer.NewBufferElement("a_Fade", buffer.ShaderDataTypeFloat, false),
		buffer.NewBufferElement("a_ObjectID", buffer.ShaderDataTypeInt, false),
	)
}

// LineLayout returns the vertex layout of LineVertex.
func LineLayout() buffer.BufferLayout {
	return buffer.NewBufferLayout(
		buffer.NewBufferElement("a_Position", buffer.ShaderDataTypeFloat3, false),
		buffer.NewBufferElement("a_Color", buffer.ShaderDataTypeFloat4, false),
		buffer.NewBufferElement("a_ObjectID", buffer.ShaderDataTypeInt, false),
	)
}

// quadPositions are the corners of the unit quad centered on the origin, counter-clockwise from
// the bottom left.
var quadPositions = [4]mgl32.Vec4{
	{-0.5, -0.5, 0, 1},
	{0.5, -0.5, 0, 1},
	{0.5, 0.5, 0, 1},
	{-0.5, 0.5, 0, 1},
}

var quadTexCoords = [4]mgl32.Vec2{
	{0, 0},
	{1, 0},
	{1, 1},
	{0, 1},
}

// quadIndices generates the shared index pattern for count quads: 0 1 2 2 3 0 offset by 4 per quad.
func quadIndices(count uint32) []uint32 {
	indices := make([]uint32, count*indicesPerQuad)
	for q := uint32(0); q < count; q++ {
		base, offset := q*indicesPerQuad, q*verticesPerQuad
		indices[base+0] = offset + 0
		indices[base+1] = offset + 1
		indices[base+2] = offset + 2
		indices[base+3] = offset + 2
		indices[base+4] = offset + 3
		indices[base+5] = offset + 0
	}
	return indices
}
