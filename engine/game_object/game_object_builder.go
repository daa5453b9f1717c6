package game_object

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - position: the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(position mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = position
	}
}

// WithScale sets the initial X and Y size.
//
// Parameters:
//   - scale: the scale
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(scale mgl32.Vec2) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = scale
	}
}

// WithRotation sets the initial rotation about Z in radians.
//
// Parameters:
//   - radians: the rotation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(radians float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = radians
	}
}

// WithRotationSpeed sets the angular velocity applied by Update.
//
// Parameters:
//   - radiansPerSecond: the rotation speed
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(radiansPerSecond float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = radiansPerSecond
	}
}

// WithSprite gives the object a sprite component.
//
// Parameters:
//   - s: the sprite
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the sprite
func WithSprite(s SpriteComponent) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.SetSprite(s)
	}
}

// WithCircle gives the object a circle component.
//
// Parameters:
//   - c: the circle
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the circle
func WithCircle(c CircleComponent) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.SetCircle(c)
	}
}
