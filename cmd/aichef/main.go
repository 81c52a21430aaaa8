// AI Chef generates recipes from the ingredients you have and the time you
// can spend.
//
// Usage:
//
//	aichef generate --ingredients "chicken, rice" --minutes 30 [--save]
//	aichef history [--limit N] [--show ID]
//	aichef serve
//	aichef tui
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

const name = "aichef"

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Generate recipes from the ingredients you have",
		Version: version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			generateCmd(),
			historyCmd(),
			serveCmd(),
			tuiCmd(),
		},
	}
}
