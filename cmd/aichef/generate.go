package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hammamikhairi/aichef/internal/display"
	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/engine"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate one recipe and print it",
		Description: `Generate a recipe from a comma separated ingredient list and a time limit
between 5 and 120 minutes. With --save the recipe is added to history.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ingredients",
				Aliases:  []string{"i"},
				Usage:    "Ingredients you have, e.g. \"chicken, rice, broccoli\"",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "minutes",
				Aliases: []string{"m"},
				Value:   engine.DefaultMaxMinutes,
				Usage:   fmt.Sprintf("Maximum prep and cooking time (%d-%d)", domain.MinMinutes, domain.MaxMinutes),
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the recipe to history",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print HTML instead of styled text",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			save := cmd.Bool("save")
			a, err := setup(ctx, cmd, setupOptions{history: save})
			if err != nil {
				return err
			}
			defer a.Close()

			req := domain.GenerationRequest{
				Ingredients: cmd.String("ingredients"),
				MaxMinutes:  int(cmd.Int("minutes")),
			}

			ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
			defer cancel()

			var res *engine.Result
			if save {
				res, err = a.engine.GenerateAndSave(ctx, a.cfg.UserID, req)
			} else {
				res, err = a.engine.Generate(ctx, req)
			}
			if err != nil {
				a.log.Debug("generate: %v", err)
				return cli.Exit(display.RenderError(engine.Describe(err)), 1)
			}

			if err := printRecipe(cmd, res.Recipe); err != nil {
				return err
			}
			if res.Entry != nil {
				fmt.Fprintln(cmd.Root().Writer, display.RenderHint("saved as "+res.Entry.ID))
			}
			return nil
		},
	}
}

// printRecipe writes r as HTML or styled text depending on --html.
func printRecipe(cmd *cli.Command, r domain.ParsedRecipe) error {
	w := cmd.Root().Writer
	if cmd.Bool("html") {
		page, err := display.HTML(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, page)
		return err
	}
	_, err := fmt.Fprintln(w, display.RenderCard(r, 0))
	return err
}
