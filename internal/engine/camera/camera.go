// Package camera provides the camera that feeds the per-frame transforms.
package camera

import (
	"github.com/Faultbox/softrender/internal/engine/transform"
	"github.com/Faultbox/softrender/pkg/math"
)

// OrbitCamera looks at Center from Eye and can orbit around the Up axis.
type OrbitCamera struct {
	Eye    math.Vec3f
	Center math.Vec3f
	Up     math.Vec3f

	// Radians per second used by Advance.
	OrbitSpeed float32
}

// NewOrbitCamera creates a camera with the given placement.
func NewOrbitCamera(eye, center, up math.Vec3f) *OrbitCamera {
	return &OrbitCamera{
		Eye:    eye,
		Center: center,
		Up:     up,
	}
}

// Orbit rotates the eye around Center by angle radians about Up.
// The distance to Center is preserved.
func (c *OrbitCamera) Orbit(angle float32) {
	if angle == 0 {
		return
	}
	q := math.QuatFromAxisAngle(c.Up, angle)
	c.Eye = c.Center.Add(q.Rotate(c.Eye.Sub(c.Center)))
}

// Advance orbits by OrbitSpeed*dt. It reports whether the eye moved.
func (c *OrbitCamera) Advance(dt float32) bool {
	if c.OrbitSpeed == 0 || dt <= 0 {
		return false
	}
	c.Orbit(c.OrbitSpeed * dt)
	return true
}

// Distance returns |Eye - Center|.
func (c *OrbitCamera) Distance() float32 {
	return c.Eye.Sub(c.Center).Norm()
}

// Frame builds the standing transforms for the current placement.
func (c *OrbitCamera) Frame(width, height int, depth float32) (*transform.Frame, error) {
	return transform.NewFrame(c.Eye, c.Center, c.Up, width, height, depth)
}
