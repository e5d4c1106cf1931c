package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/go-raykernel/pkg/scene"
	"github.com/df07/go-raykernel/pkg/simd"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var laneWidths = []int{1, 4, 8, 16}

// Info reports the host SIMD target and the scenes that can be loaded.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	host := simd.Host()
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Lanes", "Execution"})
	for _, lanes := range laneWidths {
		exec := "native"
		if host.Emulated(lanes) {
			exec = "emulated"
		}
		table.Append([]string{fmt.Sprintf("%d", lanes), exec})
	}
	table.Render()
	logger.Noticef("host target %v\n%s", host, buf.String())

	return ListScenes(ctx)
}

// ListScenes prints the built-in scenes and the PLY files found in the scene
// directory.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	groups, err := scene.ListAllScenes(ctx.GlobalString("scenes"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Group", "ID", "Description"})
	for _, g := range groups {
		for _, info := range g.Scenes {
			table.Append([]string{g.Name, info.ID, info.Description})
		}
	}
	table.Render()
	logger.Noticef("available scenes\n%s", buf.String())
	return nil
}
