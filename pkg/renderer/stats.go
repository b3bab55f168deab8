package renderer

import (
	"image"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels       int           // Total number of pixels rendered
	TotalSamples      int           // Total number of samples taken
	SamplesPerPixel   int           // Samples taken per pixel
	Workers           int           // Number of rows rendered in parallel
	IntersectionTests uint64        // Element intersection tests during the render
	Duration          time.Duration // Wall time of the render
}

// SamplesPerSecond returns the sampling throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// TestsPerSample returns the average number of element intersection tests
// per primary sample, including shadow and secondary rays
func (s RenderStats) TestsPerSample() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.IntersectionTests) / float64(s.TotalSamples)
}

// CalculateAverageLuminance returns the mean relative luminance (CIE Y) of img
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent
				continue
			}
			_, lum, _ := c.Xyz()
			total += lum
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
