// Package texture implements 2D GPU textures created from raw pixel data.
package texture

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/ikan-go/common"
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

// ErrSizeMismatch is returned when pixel data does not match the texture dimensions.
var ErrSizeMismatch = errors.New("texture: data size does not match width * height * bytes per pixel")

// texture is the implementation of the Texture interface.
type texture struct {
	backend  backend.Backend
	id       backend.RendererID
	width    uint32
	height   uint32
	format   backend.TextureFormat
	filter   backend.TextureFilter
	wrap     backend.TextureWrap
	name     string
	released bool
}

// Texture is a 2D texture resident on the GPU.
type Texture interface {
	// Name returns the debug name set with WithName.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Width returns the width in pixels.
	//
	// Returns:
	//   - uint32: the width
	Width() uint32

	// Height returns the height in pixels.
	//
	// Returns:
	//   - uint32: the height
	Height() uint32

	// Format returns the storage format.
	//
	// Returns:
	//   - backend.TextureFormat: the format
	Format() backend.TextureFormat

	// Size returns the GPU storage size in bytes.
	//
	// Returns:
	//   - int: width * height * bytes per pixel
	Size() int

	// Bind binds the texture to a texture unit.
	//
	// Parameters:
	//   - slot: the texture unit
	Bind(slot uint32)

	// Unbind clears the texture binding of the active unit.
	Unbind()

	// RendererID returns the native handle.
	//
	// Returns:
	//   - backend.RendererID: the handle
	RendererID() backend.RendererID

	// Release frees the GPU texture. Calls after the first are no-ops.
	Release()
}

var _ Texture = &texture{}

// NewTexture creates a texture of width x height from data. The default format is RGBA8 with
// linear filtering and repeat wrapping.
//
// Parameters:
//   - b: the backend that allocates the texture
//   - width: the width in pixels
//   - height: the height in pixels
//   - data: width * height texels in the texture's format
//   - opts: options applied after the defaults
//
// Returns:
//   - Texture: the uploaded texture
//   - error: ErrSizeMismatch if data has the wrong length
func NewTexture(b backend.Backend, width, height uint32, data []byte, opts ...TextureBuilderOption) (Texture, error) {
	t := &texture{
		backend: b,
		width:   width,
		height:  height,
		format:  backend.TextureFormatRGBA8,
		filter:  backend.TextureFilterLinear,
		wrap:    backend.TextureWrapRepeat,
	}
	for _, opt := range opts {
		opt(t)
	}

	if want := t.Size(); len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d %s", ErrSizeMismatch, len(data), want, width, height, t.format)
	}

	t.id = b.AcquireTextures(1)[0]
	b.BindTexture(t.id)
	b.TexImage2D(backend.TextureImage{
		Width:  int32(width),
		Height: int32(height),
		Format: t.format,
		Data:   data,
		Filter: t.filter,
		Wrap:   t.wrap,
	})
	b.BindTexture(0)
	b.Statistics().TextureBufferSize += int64(t.Size())
	core.Logger().Debug("created texture", "name", t.name, "id", t.id, "width", width, "height", height, "format", t.format.String())
	return t, nil
}

// NewWhiteTexture creates the 1x1 opaque white texture used for untextured draws.
//
// Parameters:
//   - b: the backend that allocates the texture
//
// Returns:
//   - Texture: the white texture
func NewWhiteTexture(b backend.Backend) Texture {
	white := uint32(0xffffffff)
	t, err := NewTexture(b, 1, 1, common.StructToBytes(&white), WithName("white"))
	if err != nil {
		core.Fatal("failed to create white texture", "error", err)
	}
	return t
}

// LoadTexture decodes a PNG or JPEG image and uploads it as an RGBA8 texture. Rows are flipped so that
// texture coordinate (0, 0) is the bottom-left of the image. The texture name defaults to the import
// name, then to its path.
//
// Parameters:
//   - b: the backend that allocates the texture
//   - img: the encoded image source
//   - opts: options applied after the defaults
//
// Returns:
//   - Texture: the texture
//   - error: error if decoding fails
func LoadTexture(b backend.Backend, img *common.ImportedTexture, opts ...TextureBuilderOption) (Texture, error) {
	if img != nil {
		img.FlipVertical = true
	}
	pix, width, height, err := img.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	name := common.Coalesce(img.Name, img.Path)
	opts = append([]TextureBuilderOption{WithName(name), WithFormat(backend.TextureFormatRGBA8)}, opts...)
	return NewTexture(b, width, height, pix, opts...)
}

func (t *texture) Name() string {
	return t.name
}

func (t *texture) Width() uint32 {
	return t.width
}

func (t *texture) Height() uint32 {
	return t.height
}

func (t *texture) Format() backend.TextureFormat {
	return t.format
}

func (t *texture) Size() int {
	return int(t.width) * int(t.height) * t.format.BytesPerPixel()
}

func (t *texture) Bind(slot uint32) {
	t.backend.ActiveTexture(slot)
	t.backend.BindTexture(t.id)
}

func (t *texture) Unbind() {
	t.backend.BindTexture(0)
}

func (t *texture) RendererID() backend.RendererID {
	return t.id
}

func (t *texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.backend.ReleaseTextures(t.id)
	t.backend.Statistics().TextureBufferSize -= int64(t.Size())
	core.Logger().Debug("destroyed texture", "name", t.name, "id", t.id)
}
