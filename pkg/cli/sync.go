package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func syncCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "sync",
		Usage: "Trigger a rebuild of the search index",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			status, err := uc.Resync(ctx)
			if err != nil {
				return err
			}

			if status.Accepted {
				fmt.Fprintf(c.Root().Writer, "Index sync accepted (job: %s)\n", status.JobID)
			} else {
				fmt.Fprintf(c.Root().Writer, "Index sync rejected: %s\n", status.Reason)
			}

			return nil
		},
	}
}
