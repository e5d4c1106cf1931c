package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-raykernel/cmd"
	"github.com/df07/go-raykernel/pkg/renderer"
	"github.com/urfave/cli"
)

func sceneFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "cull",
			Usage: "enable backface culling",
		},
		cli.BoolFlag{
			Name:  "no-pairs",
			Usage: "store every triangle on its own instead of pairing neighbours",
		},
		cli.StringFlag{
			Name:  "alpha",
			Usage: "texture whose alpha channel cuts out geometry with texture coordinates",
		},
		cli.IntFlag{
			Name:  "max-texture",
			Value: 1024,
			Usage: "downscale alpha textures larger than this many texels per side",
		},
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raykernel"
	app.Usage = "trace rays through triangle scenes with SIMD intersection kernels"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "scenes",
			Value: "scenes",
			Usage: "directory searched for ply:<name> scenes",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a debug view of a scene",
			Description: `
Load a built-in scene, a ply:<name> scene or a .ply file, build its BVH and
render one frame with the selected debug mode. Modes: ` + strings.Join(renderer.ModeNames(), ", ") + `.`,
			ArgsUsage: "scene",
			Flags: append(sceneFlags(),
				cli.StringFlag{
					Name:  "mode, m",
					Value: renderer.ModeEyeLight.String(),
					Usage: "debug shading mode",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "packet, p",
					Usage: "packet width (4, 8 or 16); 0 traces single rays",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render workers; 0 uses every CPU",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "bench",
			Usage: "compare single-ray and packet throughput",
			Description: `
Trace the same random rays through a scene as single rays and as packets of
4, 8 and 16 lanes, for both closest-hit and occlusion queries.`,
			ArgsUsage: "[scene]",
			Flags: append(sceneFlags(),
				cli.IntFlag{
					Name:  "rays",
					Value: 1 << 18,
					Usage: "number of random rays",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "only benchmark this packet width; 0 runs all",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for ray generation",
				},
			),
			Action: cmd.Bench,
		},
		{
			Name:   "info",
			Usage:  "print the host SIMD target and available scenes",
			Action: cmd.Info,
		},
		{
			Name:    "scenes",
			Aliases: []string{"list"},
			Usage:   "list available scenes",
			Action:  cmd.ListScenes,
		},
		{
			Name:  "serve",
			Usage: "serve the render and inspect HTTP API",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port",
					Value: 8080,
					Usage: "port to listen on",
				},
			},
			Action: cmd.Serve,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
