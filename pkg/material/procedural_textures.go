package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SolidColor is a texture returning the same color everywhere
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV
func (s *SolidColor) Evaluate(uv core.Vec2) core.Vec3 {
	return s.Color
}

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	if checkSize <= 0 {
		checkSize = 1
	}
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Alternate colors based on check position
			color := color2
			if (x/checkSize+y/checkSize)%2 == 0 {
				color = color1
			}
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewGradientTexture creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientTexture(width, height int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		color := color1.Multiply(1.0 - t).Add(color2.Multiply(t))

		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewFlatNormalMap creates a tangent-space normal map that leaves the shading
// normal unchanged
func NewFlatNormalMap() *SolidColor {
	return NewSolidColor(core.NewVec3(0.5, 0.5, 1))
}
