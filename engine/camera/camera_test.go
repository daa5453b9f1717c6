package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraWithoutControllerIsOrthoAtOrigin(t *testing.T) {
	c := NewCamera(WithAspect(2))
	want := mgl32.Ortho(-2, 2, -1, 1, -1, 1)
	assert.True(t, c.ViewProjectionMatrix().ApproxEqualThreshold(want, 1e-6))
	assert.Equal(t, mgl32.Ident4(), c.ViewMatrix())
}

func TestCameraFollowsController(t *testing.T) {
	ctrl := NewCameraController(WithPosition(mgl32.Vec3{3, 4, 0}), WithZoom(2))
	c := NewCamera(WithAspect(1.5), WithController(ctrl))

	// The camera position maps to the centre of clip space.
	centre := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{3, 4, 0, 1})
	assert.InDelta(t, 0, centre.X(), 1e-6)
	assert.InDelta(t, 0, centre.Y(), 1e-6)

	// The top-right corner of the visible region maps to (1, 1).
	corner := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{3 + 1.5*2, 4 + 2, 0, 1})
	assert.InDelta(t, 1, corner.X(), 1e-5)
	assert.InDelta(t, 1, corner.Y(), 1e-5)

	ctrl.SetPosition(mgl32.Vec3{})
	c.Update()
	centre = c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, centre.X(), 1e-6)
}

func TestCameraRotation(t *testing.T) {
	ctrl := NewCameraController()
	ctrl.SetRotation(math32.Pi / 2)
	c := NewCamera(WithController(ctrl))

	// A quarter turn counter-clockwise puts world +Y on the camera's right axis.
	p := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-6)
	assert.InDelta(t, 0, p.Y(), 1e-6)
}

func TestControllerZoomClamps(t *testing.T) {
	ctrl := NewCameraController(WithZoomLimits(0.5, 4), WithZoomSpeed(1))
	ctrl.ZoomBy(10)
	assert.Equal(t, float32(0.5), ctrl.Zoom())
	ctrl.ZoomBy(-10)
	assert.Equal(t, float32(4), ctrl.Zoom())
	ctrl.SetZoom(2)
	assert.Equal(t, float32(2), ctrl.Zoom())
}

func TestControllerPanScalesWithZoom(t *testing.T) {
	ctrl := NewCameraController(WithZoom(2), WithPanSpeed(0.5))
	ctrl.Pan(1, 0)
	assert.InDelta(t, 1, ctrl.Position().X(), 1e-6)

	ctrl.SetRotation(math32.Pi / 2)
	ctrl.Pan(1, 0)
	assert.InDelta(t, 1, ctrl.Position().X(), 1e-5)
	assert.InDelta(t, 1, ctrl.Position().Y(), 1e-5)
}
