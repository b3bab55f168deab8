package renderer

import (
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// SuperSampler places a fixed number of samples in every pixel, at the pixel
// center or jittered around it
type SuperSampler struct {
	SamplesPerPixel int
	Jitter          bool
}

// NewSuperSampler creates a sampler; fewer than one sample per pixel means one
func NewSuperSampler(samplesPerPixel int, jitter bool) SuperSampler {
	if samplesPerPixel < 1 {
		samplesPerPixel = 1
	}
	return SuperSampler{SamplesPerPixel: samplesPerPixel, Jitter: jitter}
}

// NumberOfSamples returns the total sample count for a film
func (s SuperSampler) NumberOfSamples(width, height int) int {
	return width * height * s.SamplesPerPixel
}

// Offset returns the sub-pixel position of the next sample in [0, 1)^2
func (s SuperSampler) Offset(random *rand.Rand) core.Vec2 {
	offset := core.NewVec2(0.5, 0.5)
	if s.Jitter {
		offset = offset.Add(core.NewVec2(random.Float64()-0.5, random.Float64()-0.5))
	}
	return offset
}
