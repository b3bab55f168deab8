package material

import (
	"image"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// NewImageTextureFromImage converts a decoded image into linear [0,1] pixels
func NewImageTextureFromImage(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*width+x] = core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
		}
	}

	return NewImageTexture(width, height, pixels)
}

// Evaluate samples the texture at given UV coordinates using nearest-neighbor
// filtering. Coordinates are mirrored into the positive range and wrapped.
func (t *ImageTexture) Evaluate(uv core.Vec2) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return core.Vec3{}
	}

	u := math.Abs(uv.X)
	v := math.Abs(uv.Y)
	u -= math.Floor(u)
	v -= math.Floor(v)

	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	// Clamp to image bounds
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return t.Pixels[y*t.Width+x]
}
