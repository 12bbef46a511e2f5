package cli

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/engram-dev/engram/pkg/server"
	"github.com/engram-dev/engram/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg        config
		addr       string
		apiToken   string
		configPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address for the REST API",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("ENGRAM_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token required on every API request",
			Sources:     cli.EnvVars("ENGRAM_API_TOKEN"),
			Destination: &apiToken,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("ENGRAM_CONFIG"),
			Destination: &configPath,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if configPath != "" {
				fc, err := cfg.loadFile(configPath)
				if err != nil {
					return err
				}
				if fc.Addr != "" && !c.IsSet("addr") {
					addr = fc.Addr
				}
				if apiToken == "" {
					apiToken = fc.APIToken
				}
			}

			if apiToken == "" {
				return goerr.New("api-token is required")
			}

			ctx = cfg.setupLogger(ctx)

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(uc, apiToken),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(net.Listener) context.Context {
					return ctx
				},
			}

			logging.From(ctx).Info("starting REST server", "addr", addr)

			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return goerr.Wrap(err, "REST server failed")
			}
			return nil
		},
	}
}
