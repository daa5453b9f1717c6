package texture

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SubTexture is a rectangular region of a texture, typically one sprite of a sprite sheet.
type SubTexture struct {
	texture   Texture
	texCoords [4]mgl32.Vec2
}

// NewSubTexture creates a region of tex spanning min to max in normalized coordinates.
//
// Parameters:
//   - tex: the source texture
//   - min: the bottom-left corner in [0,1]
//   - max: the top-right corner in [0,1]
//
// Returns:
//   - *SubTexture: the region
func NewSubTexture(tex Texture, min, max mgl32.Vec2) *SubTexture {
	return &SubTexture{
		texture: tex,
		texCoords: [4]mgl32.Vec2{
			{min.X(), min.Y()},
			{max.X(), min.Y()},
			{max.X(), max.Y()},
			{min.X(), max.Y()},
		},
	}
}

// NewSubTextureFromCoords addresses a sprite of a sheet laid out on a regular grid.
//
// Parameters:
//   - tex: the sprite sheet
//   - coords: the cell of the bottom-left corner of the sprite, in cells
//   - cellSize: the size of one cell in pixels
//   - spriteSize: the size of the sprite in cells
//
// Returns:
//   - *SubTexture: the region
func NewSubTextureFromCoords(tex Texture, coords, cellSize, spriteSize mgl32.Vec2) *SubTexture {
	w, h := float32(tex.Width()), float32(tex.Height())
	min := mgl32.Vec2{coords.X() * cellSize.X() / w, coords.Y() * cellSize.Y() / h}
	max := mgl32.Vec2{
		(coords.X() + spriteSize.X()) * cellSize.X() / w,
		(coords.Y() + spriteSize.Y()) * cellSize.Y() / h,
	}
	return NewSubTexture(tex, min, max)
}

// Texture returns the source texture.
func (s *SubTexture) Texture() Texture {
	return s.texture
}

// TexCoords returns the four corner coordinates in quad vertex order: bottom-left, bottom-right,
// top-right, top-left.
func (s *SubTexture) TexCoords() [4]mgl32.Vec2 {
	return s.texCoords
}
