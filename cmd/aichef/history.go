package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hammamikhairi/aichef/internal/display"
	"github.com/hammamikhairi/aichef/internal/domain"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List saved recipes, newest first, or show one",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Number of entries to list (default from config)",
			},
			&cli.StringFlag{
				Name:  "show",
				Usage: "ID of an entry to display in full",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "With --show, print HTML instead of styled text",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(ctx, cmd, setupOptions{history: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if strings.HasPrefix(a.cfg.StorageEndpoint, "memory") || a.cfg.StorageEndpoint == "" {
				a.log.Warn("history is kept in memory and is empty in a new process; set storage_endpoint to keep it")
			}

			if id := cmd.String("show"); id != "" {
				_, parsed, err := a.engine.Show(ctx, a.cfg.UserID, id)
				if errors.Is(err, domain.ErrNotFound) {
					return cli.Exit(display.RenderError("No saved recipe with ID "+id), 1)
				}
				if err != nil {
					return err
				}
				return printRecipe(cmd, parsed)
			}

			entries, err := a.engine.History(ctx, a.cfg.UserID, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, display.RenderHistory(entries, -1))
			return err
		},
	}
}
