package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/ikan-go/engine/renderer/texture"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SpriteComponent draws the object as a quad. A nil Texture and SubTexture draw a solid quad.
type SpriteComponent struct {
	Color        mgl32.Vec4
	Texture      texture.Texture
	SubTexture   *texture.SubTexture
	TilingFactor float32
}

// CircleComponent draws the object as a circle inscribed in its transform.
type CircleComponent struct {
	Color     mgl32.Vec4
	Thickness float32
	Fade      float32
}

type gameObject struct {
	id      uint64
	enabled atomic.Bool

	position      mgl32.Vec3
	scale         mgl32.Vec2
	rotation      float32
	rotationSpeed float32

	sprite *SpriteComponent
	circle *CircleComponent
}

// GameObject is a 2D scene entity: a transform plus at most one drawable component.
type GameObject interface {
	// ID returns the object's unique identifier. It is also the id written to the picking attachment.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Position returns the world position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Scale returns the X and Y size.
	//
	// Returns:
	//   - mgl32.Vec2: the scale
	Scale() mgl32.Vec2

	// Rotation returns the rotation about Z in radians.
	//
	// Returns:
	//   - float32: the rotation
	Rotation() float32

	// RotationSpeed returns the angular velocity about Z in radians per second.
	//
	// Returns:
	//   - float32: the rotation speed
	RotationSpeed() float32

	// Transform returns translate(position) * rotateZ(rotation) * scale(scale).
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	Transform() mgl32.Mat4

	// Sprite returns the sprite component, or nil if the object has none.
	//
	// Returns:
	//   - *SpriteComponent: the sprite
	Sprite() *SpriteComponent

	// Circle returns the circle component, or nil if the object has none.
	//
	// Returns:
	//   - *CircleComponent: the circle
	Circle() *CircleComponent

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetPosition sets the world position.
	//
	// Parameters:
	//   - position: the new position
	SetPosition(position mgl32.Vec3)

	// SetScale sets the X and Y size.
	//
	// Parameters:
	//   - scale: the new scale
	SetScale(scale mgl32.Vec2)

	// SetRotation sets the rotation about Z.
	//
	// Parameters:
	//   - radians: the new rotation
	SetRotation(radians float32)

	// SetRotationSpeed sets the angular velocity about Z.
	//
	// Parameters:
	//   - radiansPerSecond: the new rotation speed
	SetRotationSpeed(radiansPerSecond float32)

	// SetSprite replaces the drawable component with a sprite.
	//
	// Parameters:
	//   - s: the sprite
	SetSprite(s SpriteComponent)

	// SetCircle replaces the drawable component with a circle.
	//
	// Parameters:
	//   - c: the circle
	SetCircle(c CircleComponent)

	// Update advances the rotation by the rotation speed.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds
	Update(dt float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options. Objects start enabled
// with unit scale and no drawable component.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: mgl32.Vec2{1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) Scale() mgl32.Vec2 {
	return g.scale
}

func (g *gameObject) Rotation() float32 {
	return g.rotation
}

func (g *gameObject) RotationSpeed() float32 {
	return g.rotationSpeed
}

func (g *gameObject) Transform() mgl32.Mat4 {
	sin, cos := math32.Sin(g.rotation), math32.Cos(g.rotation)
	return mgl32.Mat4{
		cos * g.scale.X(), sin * g.scale.X(), 0, 0,
		-sin * g.scale.Y(), cos * g.scale.Y(), 0, 0,
		0, 0, 1, 0,
		g.position.X(), g.position.Y(), g.position.Z(), 1,
	}
}

func (g *gameObject) Sprite() *SpriteComponent {
	return g.sprite
}

func (g *gameObject) Circle() *CircleComponent {
	return g.circle
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetPosition(position mgl32.Vec3) {
	g.position = position
}

func (g *gameObject) SetScale(scale mgl32.Vec2) {
	g.scale = scale
}

func (g *gameObject) SetRotation(radians float32) {
	g.rotation = radians
}

func (g *gameObject) SetRotationSpeed(radiansPerSecond float32) {
	g.rotationSpeed = radiansPerSecond
}

func (g *gameObject) SetSprite(s SpriteComponent) {
	if s.TilingFactor == 0 {
		s.TilingFactor = 1
	}
	g.sprite, g.circle = &s, nil
}

func (g *gameObject) SetCircle(c CircleComponent) {
	g.circle, g.sprite = &c, nil
}

func (g *gameObject) Update(dt float32) {
	if g.rotationSpeed == 0 {
		return
	}
	g.rotation = math32.Mod(g.rotation+g.rotationSpeed*dt, 2*math32.Pi)
}
