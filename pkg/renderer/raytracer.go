package renderer

import (
	"context"
	"runtime"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrNoCamera is returned when a raytracer is created without a camera
	ErrNoCamera = errors.New("no camera")
	// ErrNoIntegrator is returned when a raytracer is created without an integrator
	ErrNoIntegrator = errors.New("no integrator")
)

// Config contains rendering configuration
type Config struct {
	Sampler SuperSampler
	Workers int   // Rows rendered in parallel; 0 means one per CPU
	Seed    int64 // Jitter seed, each row draws from its own stream
}

// DefaultConfig returns one centered sample per pixel on every CPU
func DefaultConfig() Config {
	return Config{
		Sampler: NewSuperSampler(1, false),
		Seed:    42,
	}
}

// IntersectionCounter reports the running number of element intersection
// tests, as kept by the scene
type IntersectionCounter interface {
	IntersectionTests() uint64
}

// Raytracer drives the integrator over every sample of the camera's film
type Raytracer struct {
	camera     *Camera
	integrator integrator.Integrator
	config     Config
	counter    IntersectionCounter
	logger     *zap.SugaredLogger
}

// NewRaytracer checks the render wiring and creates a raytracer
func NewRaytracer(camera *Camera, integ integrator.Integrator, config Config, logger *zap.SugaredLogger) (*Raytracer, error) {
	if camera == nil {
		return nil, ErrNoCamera
	}
	if integ == nil {
		return nil, ErrNoIntegrator
	}
	if width, height := camera.Resolution(); width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid resolution %dx%d", width, height)
	}
	if config.Sampler.SamplesPerPixel < 1 {
		config.Sampler.SamplesPerPixel = 1
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Raytracer{
		camera:     camera,
		integrator: integ,
		config:     config,
		logger:     logger,
	}, nil
}

// SetIntersectionCounter makes Render report the tests counted by c
func (rt *Raytracer) SetIntersectionCounter(c IntersectionCounter) {
	rt.counter = c
}

// Config returns the effective configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Render integrates every sample and returns the developed film. A cancelled
// context stops the render between rows.
func (rt *Raytracer) Render(ctx context.Context) (*Film, RenderStats, error) {
	width, height := rt.camera.Resolution()
	film := NewFilm(width, height)

	var testsBefore uint64
	if rt.counter != nil {
		testsBefore = rt.counter.IntersectionTests()
	}

	rt.logger.Infow("rendering",
		"width", width,
		"height", height,
		"samplesPerPixel", rt.config.Sampler.SamplesPerPixel,
		"jitter", rt.config.Sampler.Jitter,
		"workers", rt.config.Workers,
	)
	start := time.Now()
	if err := rt.renderRows(ctx, film); err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "render interrupted")
	}

	stats := RenderStats{
		TotalPixels:     width * height,
		TotalSamples:    rt.config.Sampler.NumberOfSamples(width, height),
		SamplesPerPixel: rt.config.Sampler.SamplesPerPixel,
		Workers:         rt.config.Workers,
		Duration:        time.Since(start),
	}
	if rt.counter != nil {
		stats.IntersectionTests = rt.counter.IntersectionTests() - testsBefore
	}

	rt.logger.Infow("render finished",
		"duration", stats.Duration,
		"samples", stats.TotalSamples,
		"intersectionTests", stats.IntersectionTests,
	)
	return film, stats, nil
}
