package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultOpeningAngle is the camera opening angle in degrees
const DefaultOpeningAngle = 30.0

// Camera is a pinhole camera generating one primary ray per film sample
type Camera struct {
	position     core.Vec3
	direction    core.Vec3
	up           core.Vec3
	right        core.Vec3
	openingAngle float64
	width        int
	height       int
}

// NewCamera creates a camera at position looking along direction. up only
// needs to be roughly perpendicular to direction; the camera frame is
// re-orthogonalized from it.
func NewCamera(position, direction, up core.Vec3, openingAngle float64, width, height int) *Camera {
	c := &Camera{
		position:     position,
		openingAngle: openingAngle,
		width:        width,
		height:       height,
	}
	c.SetOrientation(direction, up)
	return c
}

// DefaultCamera looks from the origin along +Z with +Y up
func DefaultCamera(width, height int) *Camera {
	return NewCamera(core.Vec3{}, core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), DefaultOpeningAngle, width, height)
}

// SetOrientation rebuilds the camera frame from a view direction and an up hint
func (c *Camera) SetOrientation(direction, up core.Vec3) {
	c.direction = direction.Normalize()
	c.right = c.direction.Cross(up.Normalize()).Normalize()
	c.up = c.right.Cross(c.direction).Normalize()
}

// Resolution returns the film size in pixels
func (c *Camera) Resolution() (width, height int) {
	return c.width, c.height
}

// Position returns the eye point
func (c *Camera) Position() core.Vec3 {
	return c.position
}

// Direction returns the unit view direction
func (c *Camera) Direction() core.Vec3 {
	return c.direction
}

// Ray generates the primary ray through pixel (x, y) at the sub-pixel offset,
// where (0.5, 0.5) is the pixel center. Pixel rows count upwards.
func (c *Camera) Ray(x, y int, offset core.Vec2) core.Ray {
	pixelSize := 2 * math.Tan(c.openingAngle/180*math.Pi) / float64(c.height)

	// Camera coordinates
	xc := (float64(x) + offset.X - float64(c.width-1)/2) * pixelSize
	yc := (float64(y) + offset.Y - float64(c.height-1)/2) * pixelSize

	direction := c.right.Multiply(xc).Add(c.up.Multiply(yc)).Add(c.direction)
	return core.NewRay(c.position, direction)
}
