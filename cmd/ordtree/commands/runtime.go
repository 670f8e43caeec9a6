// Package commands implements the ordtree subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordtree/pkg/config"
	"github.com/Sumatoshi-tech/ordtree/pkg/observability"
	"github.com/Sumatoshi-tech/ordtree/pkg/version"
)

// GlobalOptions carries the persistent flags of the root command.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string
}

type runtimeEnv struct {
	cfg    *config.Config
	obs    observability.Config
	logger *slog.Logger
}

// loadRuntime loads the configuration and builds the logger for one command
// invocation. Flags take precedence over the file and environment.
func loadRuntime(cmd *cobra.Command, opts *GlobalOptions, mode observability.AppMode) (*runtimeEnv, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.Format != "" {
		cfg.Output.Format = opts.Format

		err = validateFormat(opts.Format)
		if err != nil {
			return nil, err
		}
	}

	level := cfg.Logging.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var logOut io.Writer = cmd.ErrOrStderr()
	if cfg.Logging.Output == "stdout" {
		logOut = cmd.OutOrStdout()
	}

	obsCfg := observability.Config{
		ServiceName:    "ordtree",
		ServiceVersion: version.Version,
		Mode:           mode,
		LogLevel:       level,
		LogJSON:        cfg.Logging.Format == "json",
		LogOutput:      logOut,
	}

	return &runtimeEnv{
		cfg:    cfg,
		obs:    obsCfg,
		logger: observability.NewLogger(obsCfg),
	}, nil
}
