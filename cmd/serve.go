package cmd

import (
	"github.com/df07/go-raykernel/web/server"
	"github.com/urfave/cli"
)

// Serve starts the HTTP render and inspect server.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	srv := server.NewServer(ctx.Int("port"), ctx.GlobalString("scenes"))
	logger.Noticef("serving on port %d", ctx.Int("port"))
	return srv.Start()
}
