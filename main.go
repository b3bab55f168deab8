package main

import (
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.NewLogger("whitted").Fatal(err)
	}
}

func newApp() *cli.App {
	sceneFlag := &cli.StringFlag{
		Name:     "scene",
		Aliases:  []string{"s"},
		Usage:    "scene description `FILE` (YAML)",
		Required: true,
	}
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "render configuration `FILE` (YAML); defaults apply when omitted",
	}

	return &cli.App{
		Name:  "whitted",
		Usage: "render scenes with a kd-tree accelerated Whitted raytracer",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "disable logging"},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render a scene to an image file",
				Description: `Load the scene, build the kd-tree and trace every pixel with the Whitted
integrator. Flags override the matching settings of the render configuration.
The output format follows the file extension (.png, .jpg, .ppm, ...).`,
				Flags: []cli.Flag{
					sceneFlag,
					configFlag,
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output image `FILE`"},
					&cli.IntFlag{Name: "width", Usage: "image width in pixels"},
					&cli.IntFlag{Name: "height", Usage: "image height in pixels"},
					&cli.IntFlag{Name: "spp", Usage: "samples per pixel"},
					&cli.BoolFlag{Name: "jitter", Usage: "jitter samples inside each pixel"},
					&cli.IntFlag{Name: "depth", Usage: "recursion depth of reflection and refraction"},
					&cli.StringFlag{Name: "shader", Usage: "constant, diffuse, phong or phong_bump"},
					&cli.IntFlag{Name: "workers", Usage: "rows rendered in parallel (0 = one per CPU)"},
					&cli.BoolFlag{Name: "no-index", Usage: "test every element instead of using the kd-tree"},
				},
				Action: renderAction,
			},
			{
				Name:  "inspect",
				Usage: "print kd-tree statistics for a scene",
				Description: `Build the kd-tree of the scene and report its shape, then trace one
primary ray per pixel with and without the tree and compare the number of
intersection tests.`,
				Flags: []cli.Flag{
					sceneFlag,
					configFlag,
					&cli.IntFlag{Name: "probe", Value: 32, Usage: "probe resolution for the intersection test comparison"},
				},
				Action: inspectAction,
			},
			{
				Name:  "serve",
				Usage: "serve the scenes of a directory over HTTP",
				Description: `GET /api/scenes lists the scenes, /api/render?scene=ID renders one to PNG and
/api/inspect?scene=ID&x=X&y=Y reports what the primary ray through a pixel hits.
Query parameters override the render configuration.`,
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "port to serve on"},
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "scenes", Usage: "scene `DIR`"},
					&cli.StringFlag{Name: "static", Usage: "serve the files of `DIR` under /"},
				},
				Action: serveAction,
			},
			{
				Name:  "scenes",
				Usage: "list scene files in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "scenes", Usage: "scene `DIR`"},
				},
				Action: scenesAction,
			},
		},
	}
}

func loggerFor(ctx *cli.Context) *zap.SugaredLogger {
	switch {
	case ctx.Bool("quiet"):
		return logging.Nop()
	case ctx.Bool("verbose"):
		return logging.NewDebugLogger("whitted")
	default:
		return logging.NewLogger("whitted")
	}
}
