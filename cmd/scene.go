package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/df07/go-raykernel/pkg/loaders"
	"github.com/df07/go-raykernel/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

const alphaThreshold = 0.5

// loadScene loads and commits the scene named by the first argument, applying
// the culling, pairing and alpha texture flags.
func loadScene(ctx *cli.Context, defaultRef string) (*scene.Scene, error) {
	ref := ctx.Args().First()
	if ref == "" {
		ref = defaultRef
	}
	if ref == "" {
		return nil, errors.New("missing scene argument")
	}

	s, err := loaders.LoadScene(ref, ctx.GlobalString("scenes"))
	if err != nil {
		return nil, err
	}

	if path := ctx.String("alpha"); path != "" {
		tex, err := loaders.LoadTexture(path, ctx.Int("max-texture"))
		if err != nil {
			return nil, err
		}
		n := loaders.SetAlphaTexture(s, tex, alphaThreshold)
		logger.Infof("alpha texture %s (%dx%d) applied to %d meshes", path, tex.Width, tex.Height, n)
	}

	err = s.Commit(
		scene.WithBackfaceCulling(ctx.Bool("cull")),
		scene.WithPairs(!ctx.Bool("no-pairs")),
		scene.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", ref, err)
	}
	return s, nil
}

func displaySceneStats(stats scene.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Meshes", "Triangles", "Pairs", "Singles", "BVH nodes", "BVH depth", "Culling", "Build time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Meshes),
		fmt.Sprintf("%d", stats.Triangles),
		fmt.Sprintf("%d", stats.Pairs),
		fmt.Sprintf("%d", stats.Singles),
		fmt.Sprintf("%d", stats.BVH.TotalNodes),
		fmt.Sprintf("%d", stats.BVH.MaxDepth),
		fmt.Sprintf("%t", stats.Culling),
		stats.BuildTime.String(),
	})
	table.Render()
	logger.Noticef("scene statistics\n%s", buf.String())
}
