package renderer

import (
	"context"
	"math/rand"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// renderRows renders every film row, at most config.Workers rows at a time.
// Rows never share pixels, so workers write to the film without locking.
func (rt *Raytracer) renderRows(ctx context.Context, film *Film) error {
	_, height := film.Resolution()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.config.Workers)

	var done atomic.Int64
	for y := 0; y < height; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			random := rand.New(rand.NewSource(rt.config.Seed + int64(y)))
			rt.renderRow(film, y, random)
			rt.reportProgress(done.Inc(), int64(height))
			return nil
		})
	}
	return g.Wait()
}

// renderRow integrates all samples of one film row
func (rt *Raytracer) renderRow(film *Film, y int, random *rand.Rand) {
	width, _ := film.Resolution()
	sampler := rt.config.Sampler
	for x := 0; x < width; x++ {
		for s := 0; s < sampler.SamplesPerPixel; s++ {
			ray := rt.camera.Ray(x, y, sampler.Offset(random))
			film.AddSample(x, y, rt.integrator.Integrate(ray), 1)
		}
	}
}

// reportProgress logs every time another tenth of the rows is finished.
// Each completed count is seen by exactly one worker.
func (rt *Raytracer) reportProgress(done, total int64) {
	if done*10/total > (done-1)*10/total {
		rt.logger.Infof("[%d%%]", done*100/total)
	}
}
