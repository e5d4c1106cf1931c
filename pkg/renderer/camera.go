package renderer

import (
	"math"

	"github.com/df07/go-raykernel/pkg/core"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraConfig places a pinhole camera.
type CameraConfig struct {
	Center mgl32.Vec3 // eye position
	LookAt mgl32.Vec3
	Up     mgl32.Vec3
	Width  int     // image width in pixels
	Height int     // image height in pixels
	VFov   float32 // vertical field of view in degrees
}

// Camera maps pixel coordinates to primary rays. The direction through pixel
// (x, y) is normalize(x*vx + y*vy + vz), with (0,0) the top-left corner.
type Camera struct {
	origin  mgl32.Vec3
	forward mgl32.Vec3
	vx      mgl32.Vec3
	vy      mgl32.Vec3
	vz      mgl32.Vec3
}

// NewCamera creates a camera from config.
func NewCamera(config CameraConfig) *Camera {
	w := config.LookAt.Sub(config.Center).Normalize()
	u := w.Cross(config.Up).Normalize()
	v := u.Cross(w)

	halfHeight := float32(math.Tan(float64(mgl32.DegToRad(config.VFov)) / 2))
	pixel := 2 * halfHeight / float32(config.Height)

	vx := u.Mul(pixel)
	vy := v.Mul(-pixel)
	vz := w.Sub(vx.Mul(float32(config.Width) / 2)).Sub(vy.Mul(float32(config.Height) / 2))

	return &Camera{origin: config.Center, forward: w, vx: vx, vy: vy, vz: vz}
}

// FrameBox returns a camera config looking at box from above and to the
// front, far enough back that the whole box is in view.
func FrameBox(box core.AABB, width, height int) CameraConfig {
	center := box.Center()
	radius := box.Size().Len() / 2
	if radius == 0 {
		radius = 1
	}
	const vfov = 45
	distance := radius / float32(math.Sin(float64(mgl32.DegToRad(vfov))/2)) * 1.1
	eye := center.Add(mgl32.Vec3{0.35, 0.45, 1}.Normalize().Mul(distance))
	return CameraConfig{Center: eye, LookAt: center, Up: mgl32.Vec3{0, 1, 0}, Width: width, Height: height, VFov: vfov}
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.forward
}

// Origin returns the eye position.
func (c *Camera) Origin() mgl32.Vec3 {
	return c.origin
}

// GetRay returns the primary ray through image position (x, y). Pixel
// centres sit at half-integer positions.
func (c *Camera) GetRay(x, y float32) core.Ray {
	dir := c.vx.Mul(x).Add(c.vy.Mul(y)).Add(c.vz).Normalize()
	return core.NewRay(c.origin, dir)
}
