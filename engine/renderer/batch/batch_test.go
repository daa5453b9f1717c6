package batch

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = mgl32.Vec4{1, 0, 0, 1}
	green = mgl32.Vec4{0, 1, 0, 1}
	blue  = mgl32.Vec4{0, 0, 1, 1}
)

func newTestBatch(t *testing.T, maxQuads, maxCircles, maxLines uint32, opts ...Batch2DRendererBuilderOption) (*batch2DRenderer, *backendtest.Recorder) {
	t.Helper()
	rec := backendtest.NewRecorder()
	r, err := renderer.NewRenderer(renderer.BackendTypeNone, renderer.WithBackend(rec))
	require.NoError(t, err)
	b := NewBatch2DRenderer(r, opts...).(*batch2DRenderer)
	require.NoError(t, b.Initialize(maxQuads, maxCircles, maxLines))
	return b, rec
}

func stagedQuads(t *testing.T, rec *backendtest.Recorder, b *batch2DRenderer) []QuadVertex {
	t.Helper()
	buf := rec.Buffers[b.quads.vb.RendererID()]
	require.NotEmpty(t, buf)
	return unsafe.Slice((*QuadVertex)(unsafe.Pointer(&buf[0])), len(buf)/int(unsafe.Sizeof(QuadVertex{})))
}

func TestOverflowFlushesBeforeStaging(t *testing.T) {
	b, rec := newTestBatch(t, 2, 0, 0)

	b.BeginBatch(mgl32.Ident4())
	b.DrawQuad(mgl32.Ident4(), red, 1)
	b.DrawQuad(mgl32.Ident4(), green, 2)
	assert.Empty(t, rec.Draws)

	b.DrawQuad(mgl32.Ident4(), blue, 3)
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, uint32(2*indicesPerQuad), rec.Draws[0].Count)

	b.EndBatch()
	require.Len(t, rec.Draws, 2)
	assert.Equal(t, uint32(indicesPerQuad), rec.Draws[1].Count)

	quads := stagedQuads(t, rec, b)
	assert.Equal(t, blue, quads[0].Color)
	assert.Equal(t, int32(3), quads[0].ObjectID)
	assert.Equal(t, uint32(2), b.Stats().DrawCalls)
}

func TestDrawCallCountFormula(t *testing.T) {
	const n = 3
	for _, total := range []int{0, 1, 2, 3, 4, 6, 7, 10, 12} {
		b, rec := newTestBatch(t, n, 0, 0)
		b.BeginBatch(mgl32.Ident4())
		for i := 0; i < total; i++ {
			b.DrawQuad(mgl32.Ident4(), red, int32(i))
		}
		b.EndBatch()

		want := total / n
		if total%n > 0 {
			want++
		}
		assert.Len(t, rec.Draws, want, "total %d", total)
	}
}

func TestFlushUploadsOnlyWrittenPrefix(t *testing.T) {
	b, rec := newTestBatch(t, 10, 0, 0)

	b.BeginBatch(mgl32.Ident4())
	b.DrawQuad(mgl32.Ident4(), red, 0)
	b.EndBatch()

	var sizes []int
	for _, c := range rec.Calls {
		if c.Op == "BufferSubData" {
			sizes = append(sizes, c.Args[3].(int))
		}
	}
	assert.Equal(t, []int{verticesPerQuad * int(unsafe.Sizeof(QuadVertex{}))}, sizes)
	assert.Equal(t, 10*verticesPerQuad*int(unsafe.Sizeof(QuadVertex{})), b.quads.vb.Size())
}

func TestEndBatchFlushOrder(t *testing.T) {
	b, rec := newTestBatch(t, 4, 4, 4)
	vp := mgl32.Ortho2D(-1, 1, -1, 1)

	b.BeginBatch(vp)
	b.DrawLine(mgl32.Vec3{}, mgl32.Vec3{1, 1, 0}, red, 0)
	b.DrawCircle(mgl32.Ident4(), green, 1, 0.005, 1)
	b.DrawQuad(mgl32.Ident4(), blue, 2)
	b.EndBatch()

	require.Len(t, rec.Draws, 3)
	assert.Equal(t, b.quads.shader.RendererID(), rec.Draws[0].Program)
	assert.Equal(t, b.circles.shader.RendererID(), rec.Draws[1].Program)
	assert.Equal(t, b.lines.shader.RendererID(), rec.Draws[2].Program)

	assert.True(t, rec.Draws[0].Indexed)
	assert.True(t, rec.Draws[1].Indexed)
	assert.Equal(t, b.indexBuffer.RendererID(), rec.Draws[1].IndexBuffer)
	assert.False(t, rec.Draws[2].Indexed)
	assert.Equal(t, backend.TopologyLines, rec.Draws[2].Topology)
	assert.Equal(t, uint32(2), rec.Draws[2].Count)
	assert.Equal(t, vp, rec.Uniforms["u_ViewProjection"])
	assert.Equal(t, StateInitialized, b.State())
}

func TestNestedBeginBatchIsFatal(t *testing.T) {
	if !core.AssertionsEnabled {
		t.Skip("assertions compiled out")
	}
	b, _ := newTestBatch(t, 2, 0, 0)
	b.BeginBatch(mgl32.Ident4())
	assert.Panics(t, func() { b.BeginBatch(mgl32.Ident4()) })
}

func TestUninitializedKindIsNoOp(t *testing.T) {
	b, rec := newTestBatch(t, 2, 0, 0)

	b.BeginBatch(mgl32.Ident4())
	b.DrawCircle(mgl32.Ident4(), red, 1, 0, 0)
	b.DrawLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, red, 0)
	b.EndBatch()

	assert.Empty(t, rec.Draws)
	assert.Zero(t, b.Stats().CircleCount)
	_, circles, lines := b.Capacity()
	assert.Zero(t, circles)
	assert.Zero(t, lines)
}

func TestAddQuadDataCarriesPendingQuads(t *testing.T) {
	b, rec := newTestBatch(t, 2, 0, 0)
	oldVB := b.quads.vb.RendererID()

	b.BeginBatch(mgl32.Ident4())
	b.DrawQuad(mgl32.Ident4(), red, 1)
	b.DrawQuad(mgl32.Ident4(), green, 2)
	require.NoError(t, b.AddQuadData(2))
	assert.Empty(t, rec.Draws)

	b.DrawQuad(mgl32.Ident4(), blue, 3)
	b.DrawQuad(mgl32.Ident4(), blue, 4)
	assert.Empty(t, rec.Draws)
	b.EndBatch()

	require.Len(t, rec.Draws, 1)
	assert.Equal(t, uint32(4*indicesPerQuad), rec.Draws[0].Count)
	assert.Contains(t, rec.Released, oldVB)
	assert.Equal(t, uint32(4), b.indexBuffer.Count()/indicesPerQuad)

	quads := stagedQuads(t, rec, b)
	require.Len(t, quads, 16)
	assert.Equal(t, red, quads[0].Color)
	assert.Equal(t, green, quads[4].Color)
	assert.Equal(t, int32(4), quads[12].ObjectID)
}

func TestAddDataInitializesUninitializedKind(t *testing.T) {
	b, rec := newTestBatch(t, 0, 0, 0)
	require.NoError(t, b.AddCircleData(3))
	require.NoError(t, b.AddLineData(5))

	quads, circles, lines := b.Capacity()
	assert.Equal(t, [3]uint32{0, 3, 5}, [3]uint32{quads, circles, lines})

	b.BeginBatch(mgl32.Ident4())
	b.DrawCircle(mgl32.Ident4(), red, 1, 0, 0)
	b.EndBatch()
	assert.Len(t, rec.Draws, 1)
}

func TestTextureSlotsOverflowFlushesQuads(t *testing.T) {
	b, rec := newTestBatch(t, 10, 0, 0, WithMaxTextureSlots(2))
	be := b.renderer.Backend()
	a, err := texture.NewTexture(be, 1, 1, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	c, err := texture.NewTexture(be, 1, 1, []byte{5, 6, 7, 8})
	require.NoError(t, err)

	b.BeginBatch(mgl32.Ident4())
	b.DrawTexturedQuad(mgl32.Ident4(), a, red, 1, 0)
	b.DrawTexturedQuad(mgl32.Ident4(), a, red, 1, 1)
	b.DrawQuad(mgl32.Ident4(), red, 2)
	assert.Empty(t, rec.Draws)

	b.DrawTexturedQuad(mgl32.Ident4(), c, red, 1, 3)
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, uint32(3*indicesPerQuad), rec.Draws[0].Count)

	b.EndBatch()
	require.Len(t, rec.Draws, 2)
	quads := stagedQuads(t, rec, b)
	assert.Equal(t, float32(1), quads[0].TexIndex)
}

func TestTextureSlotsNeverExceedLimit(t *testing.T) {
	b, rec := newTestBatch(t, 8, 0, 0, WithMaxTextureSlots(MinTextureSlots))
	be := b.renderer.Backend()
	textures := make([]texture.Texture, 3)
	for i := range textures {
		tex, err := texture.NewTexture(be, 1, 1, []byte{byte(i), 0, 0, 255})
		require.NoError(t, err)
		textures[i] = tex
	}

	b.BeginBatch(mgl32.Ident4())
	for i, tex := range textures {
		b.DrawTexturedQuad(mgl32.Ident4(), tex, red, 1, int32(i))
		assert.LessOrEqual(t, uint32(len(b.textureSlots)), b.maxTextureSlots)
	}
	b.EndBatch()
	assert.Len(t, rec.Draws, 3)
}

func TestFullSlotsWithoutPendingQuadsAreReset(t *testing.T) {
	b, rec := newTestBatch(t, 8, 0, 0, WithMaxTextureSlots(MinTextureSlots))
	be := b.renderer.Backend()
	stale, err := texture.NewTexture(be, 1, 1, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	fresh, err := texture.NewTexture(be, 1, 1, []byte{5, 6, 7, 8})
	require.NoError(t, err)

	b.BeginBatch(mgl32.Ident4())
	b.textureSlots = append(b.textureSlots, stale)
	b.DrawTexturedQuad(mgl32.Ident4(), fresh, red, 1, 0)

	assert.Empty(t, rec.Draws)
	require.Len(t, b.textureSlots, 2)
	assert.Equal(t, fresh.RendererID(), b.textureSlots[1].RendererID())
	assert.Equal(t, float32(1), b.quads.staging[0].TexIndex)
	b.EndBatch()
}

func TestSingleTextureSlotIsFatal(t *testing.T) {
	rec := backendtest.NewRecorder()
	r, err := renderer.NewRenderer(renderer.BackendTypeNone, renderer.WithBackend(rec))
	require.NoError(t, err)

	defer func() {
		fe, ok := recover().(*core.FatalError)
		require.True(t, ok)
		assert.Contains(t, fe.Error(), "texture slot")
	}()
	NewBatch2DRenderer(r, WithMaxTextureSlots(1))
}

func TestAddDataRejectsCapacityOverflow(t *testing.T) {
	b, rec := newTestBatch(t, 4, 4, 4)
	live := len(rec.Live)

	for _, add := range []func(uint32) error{b.AddQuadData, b.AddCircleData, b.AddLineData} {
		err := add(math.MaxUint32)
		assert.ErrorIs(t, err, ErrCapacityOverflow)
	}
	quads, circles, lines := b.Capacity()
	assert.Equal(t, [3]uint32{4, 4, 4}, [3]uint32{quads, circles, lines})
	assert.Len(t, rec.Live, live)
}

func TestGrowSizesBufferInBytes(t *testing.T) {
	b, _ := newTestBatch(t, 2, 0, 0)
	require.NoError(t, b.AddQuadData(3))
	assert.Equal(t, 5*verticesPerQuad*int(QuadLayout().Stride()), b.quads.vb.Size())
}

func TestSubTexturedQuadUsesRegion(t *testing.T) {
	b, rec := newTestBatch(t, 4, 0, 0)
	sheet, err := texture.NewTexture(b.renderer.Backend(), 4, 4, make([]byte, 4*4*4))
	require.NoError(t, err)
	sub := texture.NewSubTexture(sheet, mgl32.Vec2{0.25, 0.5}, mgl32.Vec2{0.5, 1})

	b.BeginBatch(mgl32.Ident4())
	b.DrawSubTexturedQuad(mgl32.Ident4(), sub, red, 2, 9)
	b.EndBatch()

	quads := stagedQuads(t, rec, b)
	assert.Equal(t, mgl32.Vec2{0.25, 0.5}, quads[0].TexCoord)
	assert.Equal(t, mgl32.Vec2{0.5, 1}, quads[2].TexCoord)
	assert.Equal(t, float32(2), quads[0].TilingFactor)
	assert.Equal(t, float32(1), quads[0].TexIndex)
}

func TestRotatedQuadCorners(t *testing.T) {
	b, rec := newTestBatch(t, 1, 0, 0)

	b.BeginBatch(mgl32.Ident4())
	b.DrawRotatedQuad(mgl32.Vec3{10, 0, 0}, mgl32.Vec2{2, 4}, mgl32.DegToRad(90), red, 0)
	b.EndBatch()

	quads := stagedQuads(t, rec, b)
	assert.True(t, quads[0].Position.ApproxEqualThreshold(mgl32.Vec3{12, -1, 0}, 1e-5), "%v", quads[0].Position)
	assert.True(t, quads[2].Position.ApproxEqualThreshold(mgl32.Vec3{8, 1, 0}, 1e-5), "%v", quads[2].Position)
}

func TestRotatedTransformMatchesMathgl(t *testing.T) {
	pos, size, angle := mgl32.Vec3{1, 2, 3}, mgl32.Vec2{4, 5}, float32(0.7)
	want := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3DZ(angle)).
		Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
	assert.True(t, RotatedTransform(pos, size, angle).ApproxEqualThreshold(want, 1e-5))
}

func TestCircleVertices(t *testing.T) {
	b, rec := newTestBatch(t, 0, 1, 0)

	b.BeginBatch(mgl32.Ident4())
	b.DrawCircle(mgl32.Scale3D(4, 4, 1), green, 0.5, 0.01, 7)
	b.EndBatch()

	buf := rec.Buffers[b.circles.vb.RendererID()]
	circles := unsafe.Slice((*CircleVertex)(unsafe.Pointer(&buf[0])), verticesPerCircle)
	assert.Equal(t, mgl32.Vec3{-2, -2, 0}, circles[0].WorldPosition)
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, circles[0].LocalPosition)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, circles[2].LocalPosition)
	assert.Equal(t, float32(0.5), circles[1].Thickness)
	assert.Equal(t, int32(7), circles[3].ObjectID)
}

func TestDrawRectAndLineWidth(t *testing.T) {
	b, rec := newTestBatch(t, 0, 0, 8)

	b.BeginBatch(mgl32.Ident4())
	b.DrawRect(mgl32.Ident4(), red, 0)
	b.SetLineWidth(3)
	require.Len(t, rec.Draws, 1)
	assert.Equal(t, uint32(8), rec.Draws[0].Count)
	assert.Equal(t, float32(1), rec.LineWidth)

	b.DrawLine(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, red, 0)
	b.EndBatch()
	assert.Equal(t, float32(3), rec.LineWidth)
	assert.Equal(t, uint32(5), b.Stats().LineCount)
	assert.Equal(t, uint32(10), b.Stats().VertexCount())
}

func TestStatsAndReset(t *testing.T) {
	b, _ := newTestBatch(t, 4, 4, 4)

	b.BeginBatch(mgl32.Ident4())
	b.DrawQuad(mgl32.Ident4(), red, 0)
	b.DrawQuad(mgl32.Ident4(), red, 0)
	b.DrawCircle(mgl32.Ident4(), red, 1, 0, 0)
	b.EndBatch()

	s := b.Stats()
	assert.Equal(t, uint32(2), s.DrawCalls)
	assert.Equal(t, uint32(12), s.VertexCount())
	assert.Equal(t, uint32(18), s.IndexCount())

	b.ResetStats()
	assert.Equal(t, Stats{}, b.Stats())
}

func TestShutdownReleasesEverything(t *testing.T) {
	b, rec := newTestBatch(t, 4, 4, 4)
	b.BeginBatch(mgl32.Ident4())
	b.DrawQuad(mgl32.Ident4(), red, 0)
	b.EndBatch()
	require.NoError(t, b.AddQuadData(4))

	b.Shutdown()
	assert.Empty(t, rec.Live)
	assert.Equal(t, StateShutdown, b.State())
	assert.NotPanics(t, b.Shutdown)
	assert.Zero(t, rec.Statistics().VertexBufferSize)
	assert.Zero(t, rec.Statistics().TextureBufferSize)
}

func TestInitializeReportsShaderErrors(t *testing.T) {
	rec := backendtest.NewRecorder()
	rec.CompileErr = errors.New("0:12: syntax error")
	r, err := renderer.NewRenderer(renderer.BackendTypeNone, renderer.WithBackend(rec))
	require.NoError(t, err)

	err = NewBatch2DRenderer(r).Initialize(1, 0, 0)
	assert.ErrorContains(t, err, "syntax error")
}

func TestAllocationFailureIsFatal(t *testing.T) {
	rec := backendtest.NewRecorder()
	rec.FailAfter = 3
	r, err := renderer.NewRenderer(renderer.BackendTypeNone, renderer.WithBackend(rec))
	require.NoError(t, err)

	defer func() {
		_, ok := recover().(*core.FatalError)
		assert.True(t, ok)
	}()
	_ = NewBatch2DRenderer(r).Initialize(1, 1, 1)
	t.Fatal("expected allocation failure")
}
