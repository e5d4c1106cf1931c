package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/df07/go-raykernel/pkg/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// RenderFrame renders one frame of a scene with the selected debug mode and
// writes it as a PNG.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	mode, err := renderer.ParseMode(ctx.String("mode"))
	if err != nil {
		return err
	}

	s, err := loadScene(ctx, "")
	if err != nil {
		return err
	}
	stats, err := s.Stats()
	if err != nil {
		return err
	}
	displaySceneStats(stats)

	cfg := renderer.DefaultConfig()
	cfg.Width = ctx.Int("width")
	cfg.Height = ctx.Int("height")
	cfg.Mode = mode

	rd, err := renderer.NewRenderer(s, cfg,
		renderer.WithPacketWidth(ctx.Int("packet")),
		renderer.WithWorkers(ctx.Int("workers")),
		renderer.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	frame, renderStats, err := rd.Render(context.Background())
	if err != nil {
		return err
	}
	displayRenderStats(renderStats)

	out := ctx.String("out")
	if out == "" {
		out = fmt.Sprintf("%s-%s.png", filepath.Base(ctx.Args().First()), mode)
	}
	if err := savePNG(out, frame); err != nil {
		return err
	}
	logger.Noticef("wrote %s (%dx%d, %s, avg luminance %.3f)", out, frame.Width, frame.Height, mode,
		renderer.CalculateAverageLuminance(frame.Image()))
	return nil
}

func savePNG(filename string, frame *renderer.Framebuffer) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()

	if err := png.Encode(f, frame.Image()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Worker", "Tiles", "Pixels", "Rays", "Shadow rays", "Hits", "Busy"})
	for _, w := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", w.ID),
			fmt.Sprintf("%d", w.Tiles),
			fmt.Sprintf("%d", w.Pixels),
			fmt.Sprintf("%d", w.Rays),
			fmt.Sprintf("%d", w.ShadowRays),
			fmt.Sprintf("%d", w.Hits),
			w.Busy.String(),
		})
	}
	table.SetFooter([]string{
		"total",
		fmt.Sprintf("%d", stats.Tiles),
		fmt.Sprintf("%d", stats.Pixels),
		fmt.Sprintf("%d", stats.Rays),
		fmt.Sprintf("%d", stats.ShadowRays),
		fmt.Sprintf("%d", stats.Hits),
		stats.Elapsed.String(),
	})
	table.Render()

	width := "single rays"
	if stats.PacketWidth > 1 {
		width = fmt.Sprintf("packets of %d", stats.PacketWidth)
	}
	logger.Noticef("rendered %dx%d in %s mode with %s: %.2f Mrays/s\n%s",
		stats.Width, stats.Height, stats.Mode, width, stats.RaysPerSecond()/1e6, buf.String())
}
