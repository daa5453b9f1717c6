package texture

import (
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/backend"
)

// TextureBuilderOption is a functional option applied to a texture during construction via NewTexture.
type TextureBuilderOption func(*texture)

// WithName sets the debug name used in log output.
//
// Parameters:
//   - name: the texture name
//
// Returns:
//   - TextureBuilderOption: a function that applies the name option to a texture
func WithName(name string) TextureBuilderOption {
	return func(t *texture) {
		t.name = name
	}
}

// WithFormat sets the storage format. The default is RGBA8.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - TextureBuilderOption: a function that applies the format option to a texture
func WithFormat(format backend.TextureFormat) TextureBuilderOption {
	return func(t *texture) {
		t.format = format
	}
}

// WithFilter sets the minification and magnification filter. The default is linear.
//
// Parameters:
//   - filter: the filter mode
//
// Returns:
//   - TextureBuilderOption: a function that applies the filter option to a texture
func WithFilter(filter backend.TextureFilter) TextureBuilderOption {
	return func(t *texture) {
		t.filter = filter
	}
}

// WithWrap sets the addressing mode outside [0,1]. The default is repeat.
//
// Parameters:
//   - wrap: the wrap mode
//
// Returns:
//   - TextureBuilderOption: a function that applies the wrap option to a texture
func WithWrap(wrap backend.TextureWrap) TextureBuilderOption {
	return func(t *texture) {
		t.wrap = wrap
	}
}
