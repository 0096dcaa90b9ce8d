// Package camera provides the orbit camera used to place terrain patches in
// screen space before tessellation.
package camera

import (
	gomath "math"

	"github.com/Faultbox/hmaptess/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	// Projection
	FovY float32 // Vertical field of view, radians
	Near float32
	Far  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    200.0,
		Pitch:       0.5,
		Yaw:         0.0,
		FovY:        gomath.Pi / 3,
		Near:        1.0,
		Far:         5000.0,
		MinDistance: 10.0,
		MaxDistance: 5000.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// SetDistance sets the orbit distance, clamped to the camera constraints.
func (c *OrbitCamera) SetDistance(d float32) {
	c.Distance = min(max(d, c.MinDistance), c.MaxDistance)
}

// FitToBounds centers the camera on a box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(minP, maxP math.Vec3) {
	c.Center = minP.Add(maxP).Scale(0.5)

	size := max(maxP.X-minP.X, maxP.Z-minP.Z)
	c.SetDistance(max(size*0.8, 200))

	c.Pitch = 0.6 // Look down at ~35 degrees
	c.Yaw = 0.0
}
