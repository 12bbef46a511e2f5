package cli

import (
	"context"

	mcpserver "github.com/engram-dev/engram/pkg/service/mcp"
	"github.com/engram-dev/engram/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server over stdio",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			srv, err := mcpserver.NewServer(uc, version)
			if err != nil {
				return err
			}

			logging.From(ctx).Info("starting MCP server on stdio")

			return srv.Run(ctx)
		},
	}
}
