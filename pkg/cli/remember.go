package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/engram-dev/engram/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func rememberCommand() *cli.Command {
	var (
		cfg     config
		content string
		tags    []string
		source  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "content",
			Aliases:     []string{"m"},
			Usage:       "Text to remember",
			Required:    true,
			Destination: &content,
		},
		&cli.StringSliceFlag{
			Name:        "tag",
			Aliases:     []string{"t"},
			Usage:       "Label for the memory (repeatable)",
			Destination: &tags,
		},
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Provenance of the memory (user or auto)",
			Value:       "user",
			Destination: &source,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "remember",
		Usage: "Store a new memory",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			src, err := model.ParseSource(source)
			if err != nil {
				return err
			}

			out, err := uc.Remember(ctx, &memory.RememberInput{
				Content: content,
				Tags:    tags,
				Source:  src,
			})
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(out.Memory, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, string(data))

			if out.Sync != nil && !out.Sync.Accepted {
				fmt.Fprintf(c.Root().Writer, "note: index sync rejected: %s\n", out.Sync.Reason)
			}

			return nil
		},
	}
}
