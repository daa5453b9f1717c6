package batch

import (
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/texture"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// accepts reports whether a primitive of kind may be staged. Drawing an uninitialized kind is a
// no-op; drawing outside a batch is a usage error.
func (r *batch2DRenderer) accepts(kind PrimitiveKind, initialized bool) bool {
	if !initialized {
		core.Logger().Debug("dropping draw of uninitialized primitive kind", "kind", kind.String())
		return false
	}
	core.Assert(r.state == StateBatchOpen, "draw called outside BeginBatch/EndBatch", "kind", kind.String(), "state", r.state.String())
	return true
}

func (r *batch2DRenderer) DrawQuad(transform mgl32.Mat4, color mgl32.Vec4, objectID int32) {
	r.drawQuad(transform, nil, quadTexCoords, color, 1, objectID)
}

func (r *batch2DRenderer) DrawTexturedQuad(transform mgl32.Mat4, tex texture.Texture, tint mgl32.Vec4, tilingFactor float32, objectID int32) {
	r.drawQuad(transform, tex, quadTexCoords, tint, tilingFactor, objectID)
}

func (r *batch2DRenderer) DrawSubTexturedQuad(transform mgl32.Mat4, sub *texture.SubTexture, tint mgl32.Vec4, tilingFactor float32, objectID int32) {
	if sub == nil {
		r.drawQuad(transform, nil, quadTexCoords, tint, tilingFactor, objectID)
		return
	}
	r.drawQuad(transform, sub.Texture(), sub.TexCoords(), tint, tilingFactor, objectID)
}

func (r *batch2DRenderer) DrawRotatedQuad(position mgl32.Vec3, size mgl32.Vec2, radians float32, color mgl32.Vec4, objectID int32) {
	r.DrawQuad(RotatedTransform(position, size, radians), color, objectID)
}

// RotatedTransform builds translate(position) * rotateZ(radians) * scale(size).
//
// Parameters:
//   - position: the translation
//   - size: the X and Y scale
//   - radians: the rotation about Z
//
// Returns:
//   - mgl32.Mat4: the model matrix
func RotatedTransform(position mgl32.Vec3, size mgl32.Vec2, radians float32) mgl32.Mat4 {
	sin, cos := math32.Sin(radians), math32.Cos(radians)
	return mgl32.Mat4{
		cos * size.X(), sin * size.X(), 0, 0,
		-sin * size.Y(), cos * size.Y(), 0, 0,
		0, 0, 1, 0,
		position.X(), position.Y(), position.Z(), 1,
	}
}

func (r *batch2DRenderer) drawQuad(transform mgl32.Mat4, tex texture.Texture, texCoords [4]mgl32.Vec2, color mgl32.Vec4, tilingFactor float32, objectID int32) {
	if !r.accepts(PrimitiveQuad, r.quads.initialized()) {
		return
	}
	if r.quads.full() {
		r.flushQuads()
	}
	texIndex := r.textureIndex(tex)

	var vertices [verticesPerQuad]QuadVertex
	for i := range vertices {
		vertices[i] = QuadVertex{
			Position:     transform.Mul4x1(quadPositions[i]).Vec3(),
			Color:        color,
			TexCoord:     texCoords[i],
			TexIndex:     texIndex,
			TilingFactor: tilingFactor,
			ObjectID:     objectID,
		}
	}
	r.quads.push(vertices[:]...)
	r.stats.QuadCount++
}

// textureIndex returns the slot of tex in the current quad batch, adding it when it is new. When
// every slot is taken the pending quads are flushed first.
func (r *batch2DRenderer) textureIndex(tex texture.Texture) float32 {
	if tex == nil {
		return 0
	}
	for i, t := range r.textureSlots {
		if t.RendererID() == tex.RendererID() {
			return float32(i)
		}
	}
	if uint32(len(r.textureSlots)) >= r.maxTextureSlots {
		r.flushQuads()
		r.resetTextureSlots()
	}
	r.textureSlots = append(r.textureSlots, tex)
	return float32(len(r.textureSlots) - 1)
}

func (r *batch2DRenderer) DrawCircle(transform mgl32.Mat4, color mgl32.Vec4, thickness, fade float32, objectID int32) {
	if !r.accepts(PrimitiveCircle, r.circles.initialized()) {
		return
	}
	if r.circles.full() {
		r.flushCircles()
	}

	var vertices [verticesPerCircle]CircleVertex
	for i := range vertices {
		vertices[i] = CircleVertex{
			WorldPosition: transform.Mul4x1(quadPositions[i]).Vec3(),
			LocalPosition: quadPositions[i].Vec3().Mul(2),
			Color:         color,
			Thickness:     thickness,
			Fade:          fade,
			ObjectID:      objectID,
		}
	}
	r.circles.push(vertices[:]...)
	r.stats.CircleCount++
}

func (r *batch2DRenderer) DrawLine(p0, p1 mgl32.Vec3, color mgl32.Vec4, objectID int32) {
	if !r.accepts(PrimitiveLine, r.lines.initialized()) {
		return
	}
	if r.lines.full() {
		r.flushLines()
	}
	r.lines.push(
		LineVertex{Position: p0, Color: color, ObjectID: objectID},
		LineVertex{Position: p1, Color: color, ObjectID: objectID},
	)
	r.stats.LineCount++
}

func (r *batch2DRenderer) DrawRect(transform mgl32.Mat4, color mgl32.Vec4, objectID int32) {
	var corners [4]mgl32.Vec3
	for i, c := range quadPositions {
		corners[i] = transform.Mul4x1(c).Vec3()
	}
	for i := range corners {
		r.DrawLine(corners[i], corners[(i+1)%len(corners)], color, objectID)
	}
}
