package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/ikan-go/common"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend/backendtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTexture(t *testing.T) {
	rec := backendtest.NewRecorder()
	tex, err := NewTexture(rec, 4, 2, make([]byte, 4*2*4), WithName("checker"), WithFilter(backend.TextureFilterNearest))
	require.NoError(t, err)

	img := rec.Textures[tex.RendererID()]
	assert.Equal(t, int32(4), img.Width)
	assert.Equal(t, int32(2), img.Height)
	assert.Equal(t, backend.TextureFormatRGBA8, img.Format)
	assert.Equal(t, backend.TextureFilterNearest, img.Filter)
	assert.Equal(t, backend.TextureWrapRepeat, img.Wrap)
	assert.Equal(t, int64(32), rec.Statistics().TextureBufferSize)
	assert.Equal(t, "checker", tex.Name())
}

func TestNewTextureSizeMismatch(t *testing.T) {
	rec := backendtest.NewRecorder()
	_, err := NewTexture(rec, 4, 4, make([]byte, 10))
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Zero(t, rec.LiveOf(backendtest.KindTexture))
}

func TestWhiteTexture(t *testing.T) {
	rec := backendtest.NewRecorder()
	tex := NewWhiteTexture(rec)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, rec.Textures[tex.RendererID()].Data)
	assert.Equal(t, uint32(1), tex.Width())
}

func TestBindAndRelease(t *testing.T) {
	rec := backendtest.NewRecorder()
	tex := NewWhiteTexture(rec)
	tex.Bind(3)
	require.GreaterOrEqual(t, len(rec.Calls), 2)
	last := rec.Calls[len(rec.Calls)-2:]
	assert.Equal(t, "ActiveTexture", last[0].Op)
	assert.Equal(t, uint32(3), last[0].Args[0])
	assert.Equal(t, "BindTexture", last[1].Op)

	tex.Release()
	tex.Release()
	assert.Zero(t, rec.LiveOf(backendtest.KindTexture))
	assert.Zero(t, rec.Statistics().TextureBufferSize)
}

func TestSubTextureFromCoords(t *testing.T) {
	rec := backendtest.NewRecorder()
	sheet, err := NewTexture(rec, 128, 64, make([]byte, 128*64*4))
	require.NoError(t, err)

	sub := NewSubTextureFromCoords(sheet, mgl32.Vec2{1, 0}, mgl32.Vec2{32, 32}, mgl32.Vec2{2, 1})
	coords := sub.TexCoords()
	assert.Equal(t, mgl32.Vec2{0.25, 0}, coords[0])
	assert.Equal(t, mgl32.Vec2{0.75, 0}, coords[1])
	assert.Equal(t, mgl32.Vec2{0.75, 0.5}, coords[2])
	assert.Equal(t, mgl32.Vec2{0.25, 0.5}, coords[3])
	assert.Equal(t, sheet, sub.Texture())
}

func TestLoadTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	rec := backendtest.NewRecorder()
	tex, err := LoadTexture(rec, &common.ImportedTexture{Path: "sprites.png", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, "sprites.png", tex.Name())
	assert.Equal(t, uint32(2), tex.Width())

	// The bottom image row is uploaded first.
	data := rec.Textures[tex.RendererID()].Data
	assert.Equal(t, []byte{0, 255, 0, 255}, data[:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, data[8:12])

	_, err = LoadTexture(rec, &common.ImportedTexture{Data: []byte("nope")})
	assert.Error(t, err)
}
