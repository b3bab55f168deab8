package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"go.viam.com/test"
)

func TestFilm_WeightedAverage(t *testing.T) {
	film := NewFilm(3, 2)
	test.That(t, film.Color(1, 1), test.ShouldResemble, core.Vec3{})

	film.AddSample(1, 1, core.NewVec3(0.2, 0.4, 0.6), 1)
	film.AddSample(1, 1, core.NewVec3(0.8, 0.4, 0), 3)
	vecClose(t, film.Color(1, 1), core.NewVec3(0.65, 0.4, 0.15), 1e-12)

	// Over-bright averages clamp
	film.AddSample(0, 0, core.NewVec3(4, -1, 0.5), 1)
	test.That(t, film.Color(0, 0), test.ShouldResemble, core.NewVec3(1, 0, 0.5))

	// Samples outside the film are ignored
	film.AddSample(-1, 0, core.NewVec3(1, 1, 1), 1)
	film.AddSample(3, 0, core.NewVec3(1, 1, 1), 1)
	film.AddSample(0, 2, core.NewVec3(1, 1, 1), 1)
	test.That(t, film.Color(2, 0), test.ShouldResemble, core.Vec3{})
}

func TestFilm_ImageFlipsRows(t *testing.T) {
	film := NewFilm(2, 2)
	film.AddSample(0, 0, core.NewVec3(1, 0, 0), 1)
	film.AddSample(1, 1, core.NewVec3(0, 0, 1), 1)

	img := film.Image()
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 2)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 2)
	// Film row 0 is the bottom image row
	test.That(t, img.RGBAAt(0, 1), test.ShouldResemble, color.RGBA{255, 0, 0, 255})
	test.That(t, img.RGBAAt(1, 0), test.ShouldResemble, color.RGBA{0, 0, 255, 255})
	test.That(t, img.RGBAAt(1, 1), test.ShouldResemble, color.RGBA{0, 0, 0, 255})
}

func TestVec3ToColor(t *testing.T) {
	tests := []struct {
		in   core.Vec3
		want color.RGBA
	}{
		{core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{core.NewVec3(0.5, 0.25, 2), color.RGBA{128, 64, 255, 255}},
		{core.NewVec3(-1, 0.1, 0.8), color.RGBA{0, 26, 204, 255}},
	}
	for _, tt := range tests {
		test.That(t, vec3ToColor(tt.in), test.ShouldResemble, tt.want)
	}
}
