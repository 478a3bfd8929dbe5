// Package camera provides the orbit camera used to view the simulation.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Projection
	FOV  float32 // vertical, radians
	Near float32
	Far  float32

	DragSensitivity float32 // radians per unit of normalized drag
	ZoomSensitivity float32
}

// NewOrbitCamera returns a camera framing the [-1,1]×[0,1]×[-1,1] domain.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Center:          mgl32.Vec3{0, 0.25, 0},
		Distance:        3.2,
		Pitch:           0.6,
		Yaw:             0.7,
		MinDistance:     1.2,
		MaxDistance:     10,
		MinPitch:        -1.4,
		MaxPitch:        1.5,
		FOV:             mgl32.DegToRad(45),
		Near:            0.05,
		Far:             50,
		DragSensitivity: math.Pi,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sp, cp := math.Sincos(float64(c.Pitch))
	sy, cy := math.Sincos(float64(c.Yaw))
	offset := mgl32.Vec3{
		float32(cp * sy),
		float32(sp),
		float32(cp * cy),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

// View returns the view matrix.
func (c *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for a viewport aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns projection × view.
func (c *OrbitCamera) ViewProjection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return c.Projection(aspect).Mul4(c.View())
}

// HandleDrag rotates the camera. dx and dy are the drag in fractions of the
// viewport size, so a full-width drag turns half a circle.
func (c *OrbitCamera) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves the camera toward the center for positive delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on a bounding box.
func (c *OrbitCamera) FitToBounds(lo, hi mgl32.Vec3) {
	c.Center = lo.Add(hi).Mul(0.5)
	size := hi.Sub(lo)
	c.Distance = mgl32.Clamp(1.6*max(size.X(), size.Z()), c.MinDistance, c.MaxDistance)
}
