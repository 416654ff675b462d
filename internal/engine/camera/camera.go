// Package camera provides the orbit camera used by the mesh viewer.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshsculpt/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FovY   float32 // Vertical field of view, radians
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		RotationX:       0.4,
		RotationY:       0.6,
		FovY:            45 * math32.Pi / 180,
		Aspect:          16.0 / 9.0,
		Near:            0.01,
		Far:             1000,
		MinDistance:     0.05,
		MaxDistance:     5000,
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp, sp := math32.Cos(c.RotationX), math32.Sin(c.RotationX)
	cy, sy := math32.Cos(c.RotationY), math32.Sin(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * sy,
		Y: c.Distance * sp,
		Z: c.Distance * cp * cy,
	})
}

// Forward returns the unit view direction.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.Center.Sub(c.Position()).Normalize()
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Project maps a world-space point into normalized device coordinates.
// Points at or behind the eye plane report ok=false.
func (c *OrbitCamera) Project(world math.Vec3) (ndc math.Vec3, ok bool) {
	clip := c.ViewProjection().MulVec4(math.Vec4{world.X, world.Y, world.Z, 1})
	if clip[3] <= 0 {
		return math.Vec3{}, false
	}
	return math.Vec3{X: clip[0] / clip[3], Y: clip[1] / clip[3], Z: clip[2] / clip[3]}, true
}

// SetViewport updates the aspect ratio from a pixel size.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	c.RotationX = math32.Max(c.MinPitch, math32.Min(c.MaxPitch, c.RotationX))
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math32.Max(c.MinDistance, math32.Min(c.MaxDistance, c.Distance))
}

// HandlePan moves the center in the view plane by a pixel delta.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * c.DragSensitivity * 0.2
	fwd := c.Forward()
	right := fwd.Cross(math.Vec3{Y: 1}).Normalize()
	up := right.Cross(fwd)
	c.Center = c.Center.Add(right.Scale(-deltaX * speed)).Add(up.Scale(deltaY * speed))
}

// FitToBounds centers on a bounding box and backs off until it fills the
// vertical field of view.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = min.Add(max).Scale(0.5)
	radius := max.Sub(min).Length() / 2
	if radius <= 0 {
		radius = 1
	}
	c.Distance = radius / math32.Sin(c.FovY/2)
	c.Distance = math32.Max(c.MinDistance, math32.Min(c.MaxDistance, c.Distance))
	c.Near = math32.Max(c.Distance/1000, 0.0001)
	c.Far = math32.Max(c.Distance*100, c.Near*10)
}
