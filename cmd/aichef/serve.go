package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/aichef/internal/display"
	"github.com/hammamikhairi/aichef/internal/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the recipe API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "Listen address (default from config, :8080)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(ctx, cmd, setupOptions{history: true})
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Server.Address
			if cmd.IsSet("address") {
				addr = cmd.String("address")
			}

			srv := server.New(a.engine, server.Config{
				Address:        addr,
				RateLimit:      a.cfg.Server.RateLimit,
				RateBurst:      a.cfg.Server.RateBurst,
				RequestTimeout: a.cfg.RequestTimeout,
				DefaultUserID:  a.cfg.UserID,
			}, a.log)

			fmt.Fprint(cmd.Root().Writer, display.RenderBanner())
			fmt.Fprintln(cmd.Root().Writer, display.RenderInfo(fmt.Sprintf("%s %s listening on %s (%s mode)", name, version, addr, a.cfg.Mode())))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(gctx)
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			a.log.Info("server stopped gracefully")
			return nil
		},
	}
}
