package material

import (
	"image"
	"image/color"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"go.viam.com/test"
)

// TestImageTextureEvaluate tests basic texture sampling
func TestImageTextureEvaluate(t *testing.T) {
	// Create a 2x2 checkerboard pattern
	// Layout:
	//   white black
	//   black white
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	texture := NewImageTexture(2, 2, []core.Vec3{white, black, black, white})

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"Bottom left", core.NewVec2(0.1, 0.1), black},
		{"Bottom right", core.NewVec2(0.9, 0.1), white},
		{"Top left", core.NewVec2(0.1, 0.9), white},
		{"Top right", core.NewVec2(0.9, 0.9), black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.That(t, texture.Evaluate(tt.uv), test.ShouldResemble, tt.expected)
		})
	}
}

// TestImageTextureWrapping tests UV wrapping behavior
func TestImageTextureWrapping(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	texture := NewImageTexture(1, 1, []core.Vec3{red})

	for _, uv := range []core.Vec2{
		core.NewVec2(0.5, 0.5),
		core.NewVec2(1.5, 0.5),
		core.NewVec2(0.5, 1.5),
		core.NewVec2(-0.5, -0.5),
		core.NewVec2(2.3, 3.7),
		core.NewVec2(1, 1),
	} {
		test.That(t, texture.Evaluate(uv), test.ShouldResemble, red)
	}
}

func TestImageTextureNegativeCoordinatesMirror(t *testing.T) {
	// 2x1 texture: left half dark, right half bright
	dark := core.NewVec3(0.1, 0.1, 0.1)
	bright := core.NewVec3(0.9, 0.9, 0.9)
	texture := NewImageTexture(2, 1, []core.Vec3{dark, bright})

	// -0.8 mirrors to 0.8, not wrapped to 0.2
	test.That(t, texture.Evaluate(core.NewVec2(-0.8, 0.5)), test.ShouldResemble, bright)
	test.That(t, texture.Evaluate(core.NewVec2(-0.2, 0.5)), test.ShouldResemble, dark)
	test.That(t, texture.Evaluate(core.NewVec2(1.2, 0.5)), test.ShouldResemble, dark)
}

func TestNewImageTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	texture := NewImageTextureFromImage(img)
	test.That(t, texture.Width, test.ShouldEqual, 2)
	test.That(t, texture.Height, test.ShouldEqual, 1)
	test.That(t, texture.Pixels[0], test.ShouldResemble, core.NewVec3(1, 0, 0))
	test.That(t, texture.Pixels[1], test.ShouldResemble, core.NewVec3(0, 0, 1))
}

func TestProceduralTextures(t *testing.T) {
	a := core.NewVec3(1, 0, 0)
	b := core.NewVec3(0, 1, 0)

	checker := NewCheckerboardTexture(4, 4, 2, a, b)
	test.That(t, checker.Pixels[0], test.ShouldResemble, a)
	test.That(t, checker.Pixels[2], test.ShouldResemble, b)
	test.That(t, checker.Pixels[2*4+2], test.ShouldResemble, a)

	gradient := NewGradientTexture(1, 3, a, b)
	test.That(t, gradient.Pixels[0], test.ShouldResemble, a)
	test.That(t, gradient.Pixels[1], test.ShouldResemble, core.NewVec3(0.5, 0.5, 0))
	test.That(t, gradient.Pixels[2], test.ShouldResemble, b)

	flat := NewFlatNormalMap()
	test.That(t, flat.Evaluate(core.NewVec2(0.3, 0.7)), test.ShouldResemble, core.NewVec3(0.5, 0.5, 1))
}
