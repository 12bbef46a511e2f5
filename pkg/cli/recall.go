package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/engram-dev/engram/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func recallCommand() *cli.Command {
	var (
		cfg   config
		query string
		limit int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Free-text query to search memories for",
			Required:    true,
			Destination: &query,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of results",
			Value:       5,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "recall",
		Usage: "Search memories semantically",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			sp.Suffix = " searching memories..."
			sp.Start()

			results, err := uc.Recall(ctx, &memory.RecallInput{
				Query: query,
				Limit: int(limit),
			})

			sp.Stop()

			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(c.Root().Writer, "No matching memories found.")
				return nil
			}

			for i, r := range results {
				fmt.Fprintf(c.Root().Writer, "%d. [%.2f] %s\n", i+1, r.Score, r.Memory.Content)
				fmt.Fprintf(c.Root().Writer, "   ID: %s\n", r.Memory.ID)
				if len(r.Memory.Tags) > 0 {
					fmt.Fprintf(c.Root().Writer, "   Tags: %s\n", strings.Join(r.Memory.Tags, ", "))
				}
				fmt.Fprintln(c.Root().Writer)
			}

			return nil
		},
	}
}
