package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// loadRenderConfig reads the --config file, or the defaults, and applies the
// command line overrides
func loadRenderConfig(ctx *cli.Context) (config.RenderConfig, error) {
	rc := config.DefaultRenderConfig()
	if path := ctx.String("config"); path != "" {
		var err error
		if rc, err = config.LoadRenderConfig(path); err != nil {
			return config.RenderConfig{}, err
		}
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"output", func() { rc.Renderer.Output = ctx.String("output") }},
		{"width", func() { rc.Renderer.Width = ctx.Int("width") }},
		{"height", func() { rc.Renderer.Height = ctx.Int("height") }},
		{"workers", func() { rc.Renderer.Workers = ctx.Int("workers") }},
		{"spp", func() { rc.Sampler.SamplesPerPixel = ctx.Int("spp") }},
		{"jitter", func() { rc.Sampler.Jitter = ctx.Bool("jitter") }},
		{"depth", func() { rc.Integrator.RecursionDepth = ctx.Int("depth") }},
		{"shader", func() { rc.Integrator.Shader = ctx.String("shader") }},
		{"no-index", func() {
			enabled := !ctx.Bool("no-index")
			rc.KDTree.Enabled = &enabled
		}},
	}
	for _, o := range overrides {
		if ctx.IsSet(o.flag) {
			o.apply()
		}
	}

	if err := rc.Validate("render"); err != nil {
		return config.RenderConfig{}, errors.Wrap(err, "invalid settings")
	}
	return rc, nil
}

// loadScene loads the --scene file and builds it with its index
func loadScene(ctx *cli.Context, rc config.RenderConfig, logger *zap.SugaredLogger) (*config.SceneConfig, *scene.Scene, error) {
	sc, err := config.LoadScene(ctx.String("scene"))
	if err != nil {
		return nil, nil, err
	}
	s, err := sc.Build(logger)
	if err != nil {
		return nil, nil, err
	}

	index, err := rc.KDTree.Config()
	if err != nil {
		return nil, nil, err
	}
	s.SetIndex(rc.KDTree.IndexEnabled(), index)
	s.BuildIndex()
	return sc, s, nil
}

func renderAction(ctx *cli.Context) error {
	logger := loggerFor(ctx)
	defer func() { _ = logger.Sync() }()

	rc, err := loadRenderConfig(ctx)
	if err != nil {
		return err
	}
	sc, s, err := loadScene(ctx, rc, logger)
	if err != nil {
		return err
	}

	shader, err := rc.ShaderKind()
	if err != nil {
		return err
	}
	whitted := integrator.NewWhitted(s, rc.Integrator.RecursionDepth, shader)
	camera := sc.NewCamera(rc.Renderer.Width, rc.Renderer.Height)
	rt, err := renderer.NewRaytracer(camera, whitted, rc.RaytracerConfig(), logger)
	if err != nil {
		return err
	}
	rt.SetIntersectionCounter(s)

	renderCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
	defer stop()
	film, stats, err := rt.Render(renderCtx)
	if err != nil {
		return err
	}

	img := film.Image()
	if err := renderer.SaveImage(img, rc.Renderer.Output); err != nil {
		return err
	}

	logger.Infow("saved image",
		"scene", sc.Name,
		"output", rc.Renderer.Output,
		"duration", stats.Duration,
		"samplesPerSecond", fmt.Sprintf("%.0f", stats.SamplesPerSecond()),
		"testsPerSample", fmt.Sprintf("%.2f", stats.TestsPerSample()),
		"averageLuminance", fmt.Sprintf("%.4f", renderer.CalculateAverageLuminance(img)),
	)
	return nil
}

func inspectAction(ctx *cli.Context) error {
	logger := loggerFor(ctx)
	defer func() { _ = logger.Sync() }()

	rc, err := loadRenderConfig(ctx)
	if err != nil {
		return err
	}
	sc, s, err := loadScene(ctx, rc, logger)
	if err != nil {
		return err
	}
	probe := ctx.Int("probe")
	if probe < 1 {
		return errors.Errorf("probe resolution must be positive, got %d", probe)
	}

	out := ctx.App.Writer
	fmt.Fprintf(out, "%s: %d elements, %d meshes, %d lights\n\n",
		sc.Name, len(s.Elements()), len(s.Meshes()), len(s.Lights))

	if tree := s.Tree(); tree != nil {
		stats := tree.Stats()
		index := tree.Config()
		var buf bytes.Buffer
		table := newTable(&buf, []string{"kd-tree", "value"})
		table.AppendBulk([][]string{
			{"split / axis", index.Split.String() + " / " + index.Axis.String()},
			{"max leaf size / depth", fmt.Sprintf("%d / %d", index.MaxElementsInLeaf, index.MaxDepth)},
			{"elements", strconv.Itoa(stats.Elements)},
			{"nodes", strconv.Itoa(stats.Nodes)},
			{"leaves", strconv.Itoa(stats.Leaves)},
			{"empty leaves", strconv.Itoa(stats.EmptyLeaves)},
			{"depth", strconv.Itoa(stats.MaxDepth)},
			{"largest leaf", strconv.Itoa(stats.MaxLeafSize)},
			{"average leaf", fmt.Sprintf("%.2f", stats.AvgLeafSize)},
			{"duplication", fmt.Sprintf("%.2f", stats.Duplication())},
			{"leftmost leaf", fmt.Sprintf("level %d, %d elements", stats.LeftmostDepth, stats.LeftmostElements)},
		})
		table.Render()
		fmt.Fprintln(out, buf.String())
	}

	// One centered primary ray per probe pixel, with and without the tree
	camera := sc.NewCamera(probe, probe)
	rays := probe * probe
	indexed, indexedHits := probeTests(s, camera)

	index, _ := rc.KDTree.Config()
	s.SetIndex(false, index)
	s.BuildIndex()
	exhaustive, exhaustiveHits := probeTests(s, camera)

	var buf bytes.Buffer
	table := newTable(&buf, []string{"query", "hits", "tests", "tests per ray"})
	for _, row := range []struct {
		name  string
		hits  int
		tests uint64
	}{
		{"kd-tree", indexedHits, indexed},
		{"exhaustive", exhaustiveHits, exhaustive},
	} {
		table.Append([]string{
			row.name,
			strconv.Itoa(row.hits),
			strconv.FormatUint(row.tests, 10),
			fmt.Sprintf("%.2f", float64(row.tests)/float64(rays)),
		})
	}
	if rc.KDTree.IndexEnabled() && exhaustive > 0 {
		table.SetFooter([]string{"", "", "saved", fmt.Sprintf("%.1f%%", 100*(1-float64(indexed)/float64(exhaustive)))})
	}
	table.Render()
	fmt.Fprintln(out, buf.String())

	buf.Reset()
	table = newTable(&buf, []string{"material", "diffuse", "specular", "reflection", "refraction", "index"})
	for _, name := range s.MaterialNames() {
		m, err := s.Material(name)
		if err != nil {
			return err
		}
		table.Append([]string{
			name,
			config.Color(m.Diffuse).Hex(),
			config.Color(m.Specular).Hex(),
			strconv.FormatFloat(m.Reflection, 'g', 3, 64),
			strconv.FormatFloat(m.Refraction, 'g', 3, 64),
			strconv.FormatFloat(m.RefractionIndex, 'g', 3, 64),
		})
	}
	table.Render()
	fmt.Fprint(out, buf.String())
	return nil
}

// probeTests traces the primary ray through every pixel center and returns
// the intersection tests spent and the number of rays that hit something
func probeTests(s *scene.Scene, camera *renderer.Camera) (uint64, int) {
	width, height := camera.Resolution()
	center := core.NewVec2(0.5, 0.5)
	hits := 0
	s.ResetIntersectionTests()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if s.Intersect(camera.Ray(x, y, center)) != nil {
				hits++
			}
		}
	}
	return s.IntersectionTests(), hits
}

func scenesAction(ctx *cli.Context) error {
	logger := loggerFor(ctx)
	defer func() { _ = logger.Sync() }()

	scenes, err := config.ListScenes(ctx.String("dir"), logger)
	if err != nil {
		return err
	}
	if len(scenes) == 0 {
		fmt.Fprintf(ctx.App.Writer, "no scenes in %s\n", ctx.String("dir"))
		return nil
	}

	var buf bytes.Buffer
	table := newTable(&buf, []string{"group", "id", "name", "description"})
	for _, group := range config.GroupScenes(scenes) {
		for _, info := range group.Scenes {
			table.Append([]string{group.Name, info.ID, info.Name, info.Description})
		}
	}
	table.SetAutoMergeCells(true)
	table.Render()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func serveAction(ctx *cli.Context) error {
	logger := loggerFor(ctx)
	defer func() { _ = logger.Sync() }()

	rc, err := loadRenderConfig(ctx)
	if err != nil {
		return err
	}
	srv := server.NewServer(ctx.Int("port"), ctx.String("dir"), rc, logger)
	if static := ctx.String("static"); static != "" {
		srv.ServeStatic(static)
	}

	serveCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
	defer stop()
	return srv.Start(serveCtx)
}

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}
