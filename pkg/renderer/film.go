package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Film accumulates weighted samples per pixel. Distinct rows may be written
// concurrently; a single row must not be.
type Film struct {
	width, height int
	accum         []core.Vec3
	weight        []float64
}

// NewFilm creates a black film
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		accum:  make([]core.Vec3, width*height),
		weight: make([]float64, width*height),
	}
}

// Resolution returns the film size in pixels
func (f *Film) Resolution() (width, height int) {
	return f.width, f.height
}

// AddSample adds color with the given weight to pixel (x, y). Samples
// outside the film are dropped.
func (f *Film) AddSample(x, y int, c core.Vec3, weight float64) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	i := y*f.width + x
	f.accum[i] = f.accum[i].Add(c.Multiply(weight))
	f.weight[i] += weight
}

// Color returns the weighted average of the samples at (x, y), clamped to [0,1]
func (f *Film) Color(x, y int) core.Vec3 {
	i := y*f.width + x
	if f.weight[i] <= 0 {
		return core.Vec3{}
	}
	return f.accum[i].Multiply(1 / f.weight[i]).Clamp01()
}

// Image converts the film to 8-bit RGBA. Film rows count upwards, image rows
// downwards.
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, f.height-1-y, vec3ToColor(f.Color(x, y)))
		}
	}
	return img
}

// vec3ToColor converts a color in [0,1] to RGBA
func vec3ToColor(c core.Vec3) color.RGBA {
	c = c.Clamp01()
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}
