package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]uint32(nil)))
	b := SliceToBytes([]uint32{1, 2})
	assert.Len(t, b, 8)

	v := struct{ A, B float32 }{1, 2}
	assert.Len(t, StructToBytes(&v), 8)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func encodePNG(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImportedTextureDecode(t *testing.T) {
	tex := &ImportedTexture{Data: encodePNG(t)}
	pix, w, h, err := tex.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(2), h)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, pix)

	flipped := &ImportedTexture{Data: encodePNG(t), FlipVertical: true}
	pix, _, _, err = flipped.Decode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, pix)
}

func TestImportedTextureDecodeErrors(t *testing.T) {
	var nilTex *ImportedTexture
	_, _, _, err := nilTex.Decode()
	assert.Error(t, err)

	_, _, _, err = (&ImportedTexture{}).Decode()
	assert.Error(t, err)

	_, _, _, err = (&ImportedTexture{Data: []byte("not an image")}).Decode()
	assert.Error(t, err)
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := ExtractFrustumFromMatrix(mgl32.Ortho(-2, 2, -1, 1, -1, 1))
	assert.True(t, f.IntersectsSphere(mgl32.Vec3{}, 0.1))
	assert.True(t, f.IntersectsSphere(mgl32.Vec3{2.4, 0, 0}, 0.5))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{3, 0, 0}, 0.5))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{0, -1.6, 0}, 0.5))
}
