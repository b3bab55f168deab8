package renderer

import (
	"image"
	"image/color"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red, green, blue and black; the primaries' luminances sum to 1
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	test.That(t, CalculateAverageLuminance(img), test.ShouldAlmostEqual, 0.25, 1e-4)
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	test.That(t, CalculateAverageLuminance(img), test.ShouldAlmostEqual, 1.0, 1e-4)
	test.That(t, CalculateAverageLuminance(image.NewRGBA(image.Rectangle{})), test.ShouldEqual, 0.0)
}

func TestRenderStats_Rates(t *testing.T) {
	stats := RenderStats{
		TotalSamples:      200,
		IntersectionTests: 5000,
		Duration:          2 * time.Second,
	}
	test.That(t, stats.SamplesPerSecond(), test.ShouldAlmostEqual, 100.0)
	test.That(t, stats.TestsPerSample(), test.ShouldAlmostEqual, 25.0)

	test.That(t, RenderStats{}.SamplesPerSecond(), test.ShouldEqual, 0.0)
	test.That(t, RenderStats{}.TestsPerSample(), test.ShouldEqual, 0.0)
}
