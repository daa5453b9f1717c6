package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the 2D camera's positional state: position, rotation about Z and zoom.
// The Camera reads from the controller and computes its matrices.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Rotation returns the rotation about Z in radians.
	//
	// Returns:
	//   - float32: the rotation
	Rotation() float32

	// SetRotation sets the rotation about Z in radians.
	//
	// Parameters:
	//   - radians: the rotation
	SetRotation(radians float32)

	// Rotate adds delta to the rotation.
	//
	// Parameters:
	//   - delta: rotation change in radians
	Rotate(delta float32)

	// Zoom returns the zoom level: the half-height of the visible region in world units.
	//
	// Returns:
	//   - float32: the zoom level
	Zoom() float32

	// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
	//
	// Parameters:
	//   - zoom: the new zoom level
	SetZoom(zoom float32)

	// ZoomBy changes the zoom level by delta scaled by ZoomSpeed. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount, typically a scroll offset
	ZoomBy(delta float32)

	// Pan translates the camera along its local axes by (dx, dy) scaled by PanSpeed and the zoom level.
	//
	// Parameters:
	//   - dx: movement along the camera's right axis
	//   - dy: movement along the camera's up axis
	Pan(dx, dy float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	rotation float32
	zoom     float32

	minZoom   float32
	maxZoom   float32
	panSpeed  float32
	zoomSpeed float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller at the origin with zoom 1.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		zoom:      1.0,
		minZoom:   0.25,
		maxZoom:   100.0,
		panSpeed:  1.0,
		zoomSpeed: 0.25,
	}
	for _, option := range options {
		option(cc)
	}
	cc.zoom = cc.clampZoom(cc.zoom)
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = position
}

func (cc *cameraControllerImpl) Rotation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotation
}

func (cc *cameraControllerImpl) SetRotation(radians float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotation = radians
}

func (cc *cameraControllerImpl) Rotate(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotation += delta
}

func (cc *cameraControllerImpl) Zoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoom
}

func (cc *cameraControllerImpl) SetZoom(zoom float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoom = cc.clampZoom(zoom)
}

func (cc *cameraControllerImpl) ZoomBy(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoom = cc.clampZoom(cc.zoom - delta*cc.zoomSpeed)
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	sin, cos := math32.Sin(cc.rotation), math32.Cos(cc.rotation)
	scale := cc.panSpeed * cc.zoom
	cc.position[0] += (dx*cos - dy*sin) * scale
	cc.position[1] += (dx*sin + dy*cos) * scale
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// clampZoom limits zoom to [minZoom, maxZoom]. Caller must hold the mutex.
func (cc *cameraControllerImpl) clampZoom(zoom float32) float32 {
	return math32.Max(cc.minZoom, math32.Min(cc.maxZoom, zoom))
}
