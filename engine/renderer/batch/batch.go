// Package batch implements the 2D batch renderer. Quads, circles and lines are accumulated in CPU
// staging slices and submitted with one draw call per kind whenever a kind fills up or the batch ends.
package batch

import (
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/buffer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaxTextureSlots is the number of texture units the embedded quad shader samples from.
const DefaultMaxTextureSlots = 16

// MinTextureSlots is the smallest usable slot count: the white texture in slot 0 plus one texture a
// quad can sample.
const MinTextureSlots = 2

// maxPrimitivesPerKind keeps the index count of a full quad or circle batch within a uint32.
const maxPrimitivesPerKind = math.MaxUint32 / indicesPerQuad

// ErrCapacityOverflow is returned when growing a primitive kind would exceed the largest batch a
// single indexed draw can address.
var ErrCapacityOverflow = errors.New("batch capacity overflow")

var (
	//go:embed shaders/quad.glsl
	quadShaderSource string

	//go:embed shaders/circle.glsl
	circleShaderSource string

	//go:embed shaders/line.glsl
	lineShaderSource string
)

// State is the lifecycle state of a batch renderer.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateBatchOpen
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateBatchOpen:
		return "batch_open"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// batch2DRenderer is the implementation of the Batch2DRenderer interface.
type batch2DRenderer struct {
	renderer renderer.Renderer
	state    State

	quads   kindData[QuadVertex]
	circles kindData[CircleVertex]
	lines   kindData[LineVertex]

	indexBuffer     buffer.IndexBuffer
	indexCapacity   uint32
	whiteTexture    texture.Texture
	textureSlots    []texture.Texture
	maxTextureSlots uint32

	viewProjection mgl32.Mat4
	lineWidth      float32
	stats          Stats
}

// Batch2DRenderer accumulates 2D primitives and submits them in bounded batches. Every kind that
// reaches its capacity is flushed automatically before the next primitive of that kind is staged,
// so a draw is never dropped. At EndBatch the pending kinds are flushed in the order quads, circles,
// lines.
//
// A Batch2DRenderer is not safe for concurrent use.
type Batch2DRenderer interface {
	// Initialize allocates the GPU and CPU storage for each kind. A zero maximum leaves that kind
	// uninitialized, and drawing it is a no-op until it is added with AddQuadData, AddCircleData or
	// AddLineData.
	//
	// Parameters:
	//   - maxQuads: the quads per batch
	//   - maxCircles: the circles per batch
	//   - maxLines: the lines per batch
	//
	// Returns:
	//   - error: an error if a shader fails to compile
	Initialize(maxQuads, maxCircles, maxLines uint32) error

	// AddQuadData grows the quad capacity by additional. Quads staged but not yet flushed are kept.
	//
	// Parameters:
	//   - additional: the number of quads to add to the batch capacity
	//
	// Returns:
	//   - error: an error if the quad shader fails to compile
	AddQuadData(additional uint32) error

	// AddCircleData grows the circle capacity by additional. Circles staged but not yet flushed are kept.
	//
	// Parameters:
	//   - additional: the number of circles to add to the batch capacity
	//
	// Returns:
	//   - error: an error if the circle shader fails to compile
	AddCircleData(additional uint32) error

	// AddLineData grows the line capacity by additional. Lines staged but not yet flushed are kept.
	//
	// Parameters:
	//   - additional: the number of lines to add to the batch capacity
	//
	// Returns:
	//   - error: an error if the line shader fails to compile
	AddLineData(additional uint32) error

	// BeginBatch opens a batch drawn with viewProjection. Opening a batch while one is open is fatal.
	//
	// Parameters:
	//   - viewProjection: the camera view-projection matrix used at every flush of this batch
	BeginBatch(viewProjection mgl32.Mat4)

	// EndBatch flushes every kind with pending primitives and closes the batch.
	EndBatch()

	// DrawQuad stages a solid quad. The unit quad centered on the origin is transformed by transform.
	//
	// Parameters:
	//   - transform: the model matrix
	//   - color: the fill color
	//   - objectID: the id written to the picking attachment
	DrawQuad(transform mgl32.Mat4, color mgl32.Vec4, objectID int32)

	// DrawTexturedQuad stages a textured quad. A nil texture draws with the white texture.
	//
	// Parameters:
	//   - transform: the model matrix
	//   - tex: the texture
	//   - tint: the color the texture is multiplied by
	//   - tilingFactor: the texture coordinate scale
	//   - objectID: the id written to the picking attachment
	DrawTexturedQuad(transform mgl32.Mat4, tex texture.Texture, tint mgl32.Vec4, tilingFactor float32, objectID int32)

	// DrawSubTexturedQuad stages a quad textured with a region of a sprite sheet.
	//
	// Parameters:
	//   - transform: the model matrix
	//   - sub: the texture region
	//   - tint: the color the texture is multiplied by
	//   - tilingFactor: the texture coordinate scale
	//   - objectID: the id written to the picking attachment
	DrawSubTexturedQuad(transform mgl32.Mat4, sub *texture.SubTexture, tint mgl32.Vec4, tilingFactor float32, objectID int32)

	// DrawRotatedQuad stages a solid quad from a position, size and rotation about Z.
	//
	// Parameters:
	//   - position: the center of the quad
	//   - size: the width and height
	//   - radians: the rotation about Z
	//   - color: the fill color
	//   - objectID: the id written to the picking attachment
	DrawRotatedQuad(position mgl32.Vec3, size mgl32.Vec2, radians float32, color mgl32.Vec4, objectID int32)

	// DrawCircle stages a circle inscribed in the transformed unit quad.
	//
	// Parameters:
	//   - transform: the model matrix
	//   - color: the fill color
	//   - thickness: the ring thickness, 1 for a filled disc
	//   - fade: the edge softness
	//   - objectID: the id written to the picking attachment
	DrawCircle(transform mgl32.Mat4, color mgl32.Vec4, thickness, fade float32, objectID int32)

	// DrawLine stages a line segment.
	//
	// Parameters:
	//   - p0: the start point
	//   - p1: the end point
	//   - color: the line color
	//   - objectID: the id written to the picking attachment
	DrawLine(p0, p1 mgl32.Vec3, color mgl32.Vec4, objectID int32)

	// DrawRect stages the outline of the transformed unit quad as four lines.
	//
	// Parameters:
	//   - transform: the model matrix
	//   - color: the line color
	//   - objectID: the id written to the picking attachment
	DrawRect(transform mgl32.Mat4, color mgl32.Vec4, objectID int32)

	// SetLineWidth sets the width used when lines are flushed. Lines already staged are flushed
	// with the previous width first.
	//
	// Parameters:
	//   - width: the line width in pixels
	SetLineWidth(width float32)

	// LineWidth returns the current line width.
	//
	// Returns:
	//   - float32: the line width in pixels
	LineWidth() float32

	// Shutdown releases every GPU resource owned by the renderer. Calls after the first are no-ops.
	Shutdown()

	// State returns the lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Capacity returns the per-batch maximum of each kind. Zero means the kind is uninitialized.
	//
	// Returns:
	//   - uint32: the quad capacity
	//   - uint32: the circle capacity
	//   - uint32: the line capacity
	Capacity() (quads, circles, lines uint32)

	// Stats returns the counters accumulated since the last ResetStats.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats

	// ResetStats zeroes the counters.
	ResetStats()
}

var _ Batch2DRenderer = &batch2DRenderer{}

// NewBatch2DRenderer creates a batch renderer that draws through r. No GPU resources are allocated
// until Initialize.
//
// Parameters:
//   - r: the renderer used for resources and draw calls
//   - opts: variadic list of Batch2DRendererBuilderOption functions to configure the batch renderer
//
// Returns:
//   - Batch2DRenderer: the batch renderer
func NewBatch2DRenderer(r renderer.Renderer, opts ...Batch2DRendererBuilderOption) Batch2DRenderer {
	b := &batch2DRenderer{
		renderer:        r,
		quads:           newKindData[QuadVertex](PrimitiveQuad, verticesPerQuad, backend.TopologyTriangles, QuadLayout(), quadShaderSource),
		circles:         newKindData[CircleVertex](PrimitiveCircle, verticesPerCircle, backend.TopologyTriangles, CircleLayout(), circleShaderSource),
		lines:           newKindData[LineVertex](PrimitiveLine, verticesPerLine, backend.TopologyLines, LineLayout(), lineShaderSource),
		maxTextureSlots: DefaultMaxTextureSlots,
		viewProjection:  mgl32.Ident4(),
		lineWidth:       1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxTextureSlots < MinTextureSlots {
		core.Fatal("batch renderer needs a texture slot besides the white texture", "slots", b.maxTextureSlots, "min", MinTextureSlots)
	}
	return b
}

func (r *batch2DRenderer) Initialize(maxQuads, maxCircles, maxLines uint32) error {
	core.Assert(r.state == StateUninitialized, "batch renderer initialized twice", "state", r.state.String())

	r.whiteTexture = texture.NewWhiteTexture(r.renderer.Backend())
	r.textureSlots = make([]texture.Texture, 1, r.maxTextureSlots)
	r.textureSlots[0] = r.whiteTexture
	r.state = StateInitialized

	if maxQuads > 0 {
		if err := r.AddQuadData(maxQuads); err != nil {
			return err
		}
	}
	if maxCircles > 0 {
		if err := r.AddCircleData(maxCircles); err != nil {
			return err
		}
	}
	if maxLines > 0 {
		if err := r.AddLineData(maxLines); err != nil {
			return err
		}
	}

	core.Logger().Info("initialized batch renderer",
		"max_quads", maxQuads,
		"max_circles", maxCircles,
		"max_lines", maxLines,
		"texture_slots", r.maxTextureSlots,
	)
	return nil
}

// ensureIndices regrows the shared quad index buffer to cover count quads and points every
// pipeline that uses it at the new buffer.
func (r *batch2DRenderer) ensureIndices(count uint32) {
	if count <= r.indexCapacity {
		return
	}
	ib := buffer.NewIndexBufferWithCount(r.renderer.Backend(), quadIndices(count))
	if r.quads.pipeline != nil {
		r.quads.pipeline.SetIndexBuffer(ib)
	}
	if r.circles.pipeline != nil {
		r.circles.pipeline.SetIndexBuffer(ib)
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
	}
	r.indexBuffer, r.indexCapacity = ib, count
}

func (r *batch2DRenderer) assertAllocatable() {
	core.Assert(r.state == StateInitialized || r.state == StateBatchOpen, "batch renderer is not initialized", "state", r.state.String())
}

func (r *batch2DRenderer) AddQuadData(additional uint32) error {
	r.assertAllocatable()
	if additional == 0 {
		return nil
	}
	total, err := grow(PrimitiveQuad, r.quads.maxPrimitives, additional)
	if err != nil {
		return err
	}
	r.ensureIndices(total)
	return r.quads.allocate(r.renderer.Backend(), total, r.indexBuffer)
}

func (r *batch2DRenderer) AddCircleData(additional uint32) error {
	r.assertAllocatable()
	if additional == 0 {
		return nil
	}
	total, err := grow(PrimitiveCircle, r.circles.maxPrimitives, additional)
	if err != nil {
		return err
	}
	r.ensureIndices(total)
	return r.circles.allocate(r.renderer.Backend(), total, r.indexBuffer)
}

func (r *batch2DRenderer) AddLineData(additional uint32) error {
	r.assertAllocatable()
	if additional == 0 {
		return nil
	}
	total, err := grow(PrimitiveLine, r.lines.maxPrimitives, additional)
	if err != nil {
		return err
	}
	return r.lines.allocate(r.renderer.Backend(), total, nil)
}

// grow returns current+additional, or ErrCapacityOverflow when the sum exceeds maxPrimitivesPerKind.
func grow(kind PrimitiveKind, current, additional uint32) (uint32, error) {
	total := uint64(current) + uint64(additional)
	if total > maxPrimitivesPerKind {
		return 0, fmt.Errorf("%w: %s capacity %d + %d exceeds %d", ErrCapacityOverflow, kind, current, additional, uint64(maxPrimitivesPerKind))
	}
	return uint32(total), nil
}

func (r *batch2DRenderer) BeginBatch(viewProjection mgl32.Mat4) {
	core.Assert(r.state != StateBatchOpen, "BeginBatch called while a batch is open")
	core.Assert(r.state == StateInitialized, "BeginBatch called on a batch renderer that is not initialized", "state", r.state.String())

	r.viewProjection = viewProjection
	r.quads.reset()
	r.circles.reset()
	r.lines.reset()
	r.resetTextureSlots()
	r.state = StateBatchOpen
}

func (r *batch2DRenderer) EndBatch() {
	core.Assert(r.state == StateBatchOpen, "EndBatch called without an open batch", "state", r.state.String())
	r.flush()
	r.state = StateInitialized
}

// flush submits every pending kind in registration order.
func (r *batch2DRenderer) flush() {
	r.flushQuads()
	r.flushCircles()
	r.flushLines()
}

func (r *batch2DRenderer) flushQuads() {
	d := &r.quads
	if d.count == 0 {
		return
	}
	d.upload()
	for i, tex := range r.textureSlots {
		tex.Bind(uint32(i))
	}
	// Uniform uploads go to the current program.
	d.shader.Bind()
	d.shader.SetUniformMat4("u_ViewProjection", r.viewProjection)
	r.renderer.DrawIndexed(d.pipeline, d.count*indicesPerQuad)
	r.stats.DrawCalls++
	d.reset()
	r.resetTextureSlots()
}

func (r *batch2DRenderer) flushCircles() {
	d := &r.circles
	if d.count == 0 {
		return
	}
	d.upload()
	d.shader.Bind()
	d.shader.SetUniformMat4("u_ViewProjection", r.viewProjection)
	r.renderer.DrawIndexed(d.pipeline, d.count*indicesPerQuad)
	r.stats.DrawCalls++
	d.reset()
}

func (r *batch2DRenderer) flushLines() {
	d := &r.lines
	if d.count == 0 {
		return
	}
	d.upload()
	d.shader.Bind()
	d.shader.SetUniformMat4("u_ViewProjection", r.viewProjection)
	r.renderer.SetLineWidth(r.lineWidth)
	r.renderer.DrawLines(d.pipeline, d.vertexCount())
	r.stats.DrawCalls++
	d.reset()
}

func (r *batch2DRenderer) resetTextureSlots() {
	if len(r.textureSlots) > 1 {
		clear(r.textureSlots[1:])
		r.textureSlots = r.textureSlots[:1]
	}
}

func (r *batch2DRenderer) SetLineWidth(width float32) {
	if width == r.lineWidth {
		return
	}
	if r.state == StateBatchOpen {
		r.flushLines()
	}
	r.lineWidth = width
}

func (r *batch2DRenderer) LineWidth() float32 {
	return r.lineWidth
}

func (r *batch2DRenderer) Shutdown() {
	if r.state == StateShutdown {
		return
	}
	r.quads.release()
	r.circles.release()
	r.lines.release()
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
		r.indexBuffer, r.indexCapacity = nil, 0
	}
	if r.whiteTexture != nil {
		r.whiteTexture.Release()
		r.whiteTexture = nil
	}
	r.textureSlots = nil
	r.state = StateShutdown
	core.Logger().Info("shut down batch renderer")
}

func (r *batch2DRenderer) State() State {
	return r.state
}

func (r *batch2DRenderer) Capacity() (quads, circles, lines uint32) {
	return r.quads.maxPrimitives, r.circles.maxPrimitives, r.lines.maxPrimitives
}

func (r *batch2DRenderer) Stats() Stats {
	return r.stats
}

func (r *batch2DRenderer) ResetStats() {
	r.stats = Stats{}
}
