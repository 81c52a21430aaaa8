package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hammamikhairi/aichef/internal/display"
)

// tuiLogFile keeps logs off the screen while the form owns the terminal.
const tuiLogFile = ".aichef-logs/aichef.log"

func tuiCmd() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive recipe form with history",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Do not add generated recipes to history",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(ctx, cmd, setupOptions{history: true, defaultLogFile: tuiLogFile})
			if err != nil {
				return err
			}
			defer a.Close()

			return display.RunTUI(ctx, a.engine, display.TUIOptions{
				UserID: a.cfg.UserID,
				Save:   !cmd.Bool("no-save"),
			})
		},
	}
}
