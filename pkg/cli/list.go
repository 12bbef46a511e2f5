package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/engram-dev/engram/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg    config
		cursor string
		limit  int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "cursor",
			Usage:       "Continuation cursor from a previous list call",
			Destination: &cursor,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of memories per page",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List stored memories",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			out, err := uc.List(ctx, &memory.ListInput{
				Cursor: cursor,
				Limit:  int(limit),
			})
			if err != nil {
				return err
			}

			if len(out.Memories) == 0 {
				fmt.Fprintln(c.Root().Writer, "No memories stored.")
				return nil
			}

			for _, m := range out.Memories {
				line := fmt.Sprintf("%s  %s  %s", m.ID, m.CreatedAt.Format("2006-01-02 15:04:05"), m.Content)
				if len(m.Tags) > 0 {
					line += fmt.Sprintf("  [%s]", strings.Join(m.Tags, ","))
				}
				fmt.Fprintln(c.Root().Writer, line)
			}

			if out.NextCursor != "" {
				fmt.Fprintf(c.Root().Writer, "\nMore results: --cursor %s\n", out.NextCursor)
			}

			return nil
		},
	}
}
