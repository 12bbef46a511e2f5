package cli

import (
	"context"
	"fmt"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func forgetCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "forget",
		Usage:     "Delete a memory by ID",
		ArgsUsage: "<memory-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("memory ID is required")
			}

			ctx = cfg.setupLogger(ctx)

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			out, err := uc.Forget(ctx, model.MemoryID(id))
			if err != nil {
				return err
			}

			if out.Sync.Accepted {
				fmt.Fprintf(c.Root().Writer, "Deleted %s (index sync job: %s)\n", id, out.Sync.JobID)
			} else {
				fmt.Fprintf(c.Root().Writer, "Deleted %s (index sync rejected: %s)\n", id, out.Sync.Reason)
			}

			return nil
		},
	}
}
