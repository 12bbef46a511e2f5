package cli

import (
	"context"
	"os"

	"github.com/engram-dev/engram/pkg/adapter"
	"github.com/engram-dev/engram/pkg/repository"
	"github.com/engram-dev/engram/pkg/service/index"
	"github.com/engram-dev/engram/pkg/usecase/memory"
	"github.com/engram-dev/engram/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	// Durable store
	bucket string

	// Search provider
	ragEndpoint string
	ragAPIKey   string

	// Logging
	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for memory records",
			Sources:     cli.EnvVars("ENGRAM_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "rag-endpoint",
			Usage:       "Base URL of the RAG search service",
			Sources:     cli.EnvVars("ENGRAM_RAG_ENDPOINT"),
			Destination: &cfg.ragEndpoint,
		},
		&cli.StringFlag{
			Name:        "rag-api-key",
			Usage:       "API key for the RAG search service",
			Sources:     cli.EnvVars("ENGRAM_RAG_API_KEY"),
			Destination: &cfg.ragAPIKey,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("ENGRAM_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// fileConfig is the YAML shape of the optional config file. Flag and
// environment values take precedence over file values.
type fileConfig struct {
	Bucket      string `yaml:"bucket"`
	RagEndpoint string `yaml:"rag_endpoint"`
	RagAPIKey   string `yaml:"rag_api_key"`
	Addr        string `yaml:"addr"`
	APIToken    string `yaml:"api_token"`
	LogLevel    string `yaml:"log_level"`
}

// loadFile fills unset config values from a YAML file
func (cfg *config) loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	if cfg.bucket == "" {
		cfg.bucket = fc.Bucket
	}
	if cfg.ragEndpoint == "" {
		cfg.ragEndpoint = fc.RagEndpoint
	}
	if cfg.ragAPIKey == "" {
		cfg.ragAPIKey = fc.RagAPIKey
	}
	if cfg.logLevel == "" {
		cfg.logLevel = fc.LogLevel
	}

	return &fc, nil
}

// setupLogger installs the configured logger into the context
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newUseCase wires the store, index controller and search provider
// into a memory usecase. All dependencies are constructed here once
// and injected; no handler reaches for ambient state.
func (cfg *config) newUseCase(ctx context.Context) (*memory.UseCase, error) {
	if cfg.bucket == "" {
		return nil, goerr.New("bucket is required")
	}
	if cfg.ragEndpoint == "" {
		return nil, goerr.New("rag-endpoint is required")
	}
	if cfg.ragAPIKey == "" {
		return nil, goerr.New("rag-api-key is required")
	}

	store, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}

	rag := adapter.NewRag(cfg.ragEndpoint, cfg.ragAPIKey)

	return memory.New(
		repository.New(store),
		index.NewController(rag),
		rag,
	), nil
}
