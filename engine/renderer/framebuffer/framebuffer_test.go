package framebuffer

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend/backendtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editorSpec() Specification {
	return Specification{
		Width:      800,
		Height:     600,
		ClearColor: mgl32.Vec4{0.1, 0.1, 0.1, 1},
		Attachments: []backend.TextureFormat{
			backend.TextureFormatRGBA8,
			backend.TextureFormatR32I,
			backend.TextureFormatDepth24Stencil8,
		},
	}
}

func TestNewFramebufferAttachments(t *testing.T) {
	rec := backendtest.NewRecorder()
	fb := NewFramebuffer(rec, editorSpec())

	colors := fb.ColorAttachmentIDs()
	require.Len(t, colors, 2)
	assert.NotZero(t, fb.DepthAttachmentID())
	assert.Equal(t, 1, fb.PixelPickAttachmentIndex())

	attached := rec.Attachments[fb.RendererID()]
	assert.Equal(t, colors[0], attached[backend.ColorAttachment(0)])
	assert.Equal(t, colors[1], attached[backend.ColorAttachment(1)])
	assert.Equal(t, fb.DepthAttachmentID(), attached[backend.AttachmentDepthStencil])
	assert.Equal(t, 2, rec.DrawBufferCount[fb.RendererID()])

	img := rec.Textures[colors[1]]
	assert.Equal(t, backend.TextureFormatR32I, img.Format)
	assert.Equal(t, backend.TextureFilterLinear, img.Filter)
	assert.Equal(t, backend.TextureWrapClampToEdge, img.Wrap)
	assert.Equal(t, int32(800), img.Width)
	assert.Equal(t, backend.RendererID(0), rec.BoundFramebuffer())
}

func TestInvalidateIsIdempotentOnHandles(t *testing.T) {
	rec := backendtest.NewRecorder()
	fb := NewFramebuffer(rec, editorSpec())
	textures, framebuffers := rec.LiveOf(backendtest.KindTexture), rec.LiveOf(backendtest.KindFramebuffer)
	old := fb.RendererID()

	fb.Invalidate()
	fb.Invalidate()

	assert.Equal(t, textures, rec.LiveOf(backendtest.KindTexture))
	assert.Equal(t, framebuffers, rec.LiveOf(backendtest.KindFramebuffer))
	assert.NotEqual(t, old, fb.RendererID())
	assert.Contains(t, rec.Released, old)
}

func TestInvalidateReleasesTexturesBeforeFramebuffer(t *testing.T) {
	rec := backendtest.NewRecorder()
	fb := NewFramebuffer(rec, editorSpec())
	old := fb.RendererID()
	rec.Released = nil

	fb.Invalidate()

	require.Len(t, rec.Released, 4)
	assert.Equal(t, old, rec.Released[3])
}

func TestDepthOnlyFramebuffer(t *testing.T) {
	rec := backendtest.NewRecorder()
	fb := NewFramebuffer(rec, Specification{
		Width:       1024,
		Height:      1024,
		Attachments: []backend.TextureFormat{backend.TextureFormatDepth24Stencil8},
	})

	assert.Empty(t, fb.ColorAttachmentIDs())
	assert.Equal(t, -1, fb.PixelPickAttachmentIndex())
	assert.True(t, rec.ColorDisabled[fb.RendererID()])
	assert.Zero(t, rec.CountOf("DrawBuffers"))

	img := rec.Textures[fb.DepthAttachmentID()]
	assert.Equal(t, backend.TextureWrapClampToBorder, img.Wrap)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, img.BorderColor)
	assert.Equal(t, 1, rec.CountOf("FramebufferComplete"))
}

func TestFramebufferWithoutAttachmentsWarns(t *testing.T) {
	var buf bytes.Buffer
	prev := core.Logger()
	core.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer core.SetLogger(prev)

	rec := backendtest.NewRecorder()
	fb := NewFramebuffer(rec, Specification{Width: 4, Height: 4})

	assert.NotZero(t, fb.RendererID())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "without attachments")
	assert.Zero(t, rec.CountOf("FramebufferComplete"))
}

func TestIncompleteFramebufferIsFatal(t *testing.T) {
	rec := backendtest.NewRecorder()
	rec.Incomplete = true
	defer func() {
		fe, ok := recover().(*core.FatalError)
		require.True(t, ok)
		assert.Contains(t, fe.Error(), "framebuffer is incomplete")
	}()
	NewFramebuffer(rec, editorSpec())
}

func TestInvalidAttachmentConfigurations(t *testing.T) {
	rec := backendtest.NewRecorder()
	assert.Panics(t, func() {
		NewFramebuffer(rec, Specification{Width: 1, Height: 1, Attachments: []backend.TextureFormat{
			backend.TextureFormatDepth24Stencil8, backend.TextureFormatDepth24Stencil8,
		}})
	})
	assert.Panics(t, func() {
		NewFramebuffer(rec, Specification{Width: 1, Height: 1, Attachments: []backend.TextureFormat{
			backend.TextureFormatRGBA8, backend.TextureFormatRGBA8, backend.TextureFormatRGBA8,
			backend.TextureFormatRGBA8, backend.TextureFormatRGBA8,
		}})
	})
	assert.Panics(t, func() {
		NewFramebuffer(rec, Specification{Width: 1, Height: 1, Attachments: []backend.TextureFormat{backend.TextureFormatNone}})
	})
}

func TestBindSavesAndUnbindRestoresViewport(t *testing.T) {
	rec := backendtest.NewRecorder()
	screen := backend.Viewport{X: 10, Y: 20, Width: 1920, Height: 1080}
	rec.SetViewport(screen)
	fb := NewFramebuffer(rec, editorSpec())

	fb.Bind()
	assert.Equal(t, fb.RendererID(), rec.BoundFramebuffer())
	assert.Equal(t, backend.Viewport{Width: 800, Height: 600}, rec.Viewport())

	fb.Unbind()
	assert.Equal(t, backend.RendererID(0), rec.BoundFramebuffer())
	assert.Equal(t, screen, rec.Viewport())
}

func TestResizeRestoresViewport(t *testing.T) {
	rec := backendtest.NewRecorder()
	screen := backend.Viewport{Width: 1280, Height: 720}
	rec.SetViewport(screen)
	fb := NewFramebuffer(rec, editorSpec())

	fb.Resize(320, 240)

	assert.Equal(t, screen, rec.Viewport())
	assert.Equal(t, uint32(320), fb.Specification().Width)
	assert.Equal(t, int32(240), rec.Textures[fb.ColorAttachmentIDs()[0]].Height)
}

func TestReadPixelAndClearColor(t *testing.T) {
	rec := backendtest.NewRecorder()
	rec.Pixels[[2]int32{5, 7}] = 42
	fb := NewFramebuffer(rec, editorSpec())

	assert.Equal(t, int32(42), fb.ReadPixel(fb.PixelPickAttachmentIndex(), 5, 7))

	fb.UpdateSpecificationColor(mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, fb.Specification().ClearColor)
}

func TestClearAttachment(t *testing.T) {
	rec := backendtest.NewRecorder()
	fb := NewFramebuffer(rec, editorSpec())
	fb.Bind()
	fb.ClearAttachment(fb.PixelPickAttachmentIndex(), -1)
	fb.Unbind()

	require.Equal(t, 1, rec.CountOf("ClearColorAttachmentInt"))
	for _, c := range rec.Calls {
		if c.Op == "ClearColorAttachmentInt" {
			assert.Equal(t, []any{fb.RendererID(), fb.PixelPickAttachmentIndex(), int32(-1)}, c.Args)
		}
	}
}

func TestReleaseFreesEverythingOnce(t *testing.T) {
	rec := backendtest.NewRecorder()
	fb := NewFramebuffer(rec, editorSpec())
	fb.Release()
	fb.Release()
	assert.Empty(t, rec.Live)
}
