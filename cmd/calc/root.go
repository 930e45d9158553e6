package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/logger"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:          "calc",
		Short:        "Evaluate arithmetic expressions",
		Long:         "calc evaluates expressions built from decimal numbers, + - * /, and round brackets,\neither from the command line or over HTTP.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: environment only)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overriding the config")

	cmd.AddCommand(newServeCmd(&opts), newEvalCmd(&opts))
	return cmd
}

// config loads the configuration and applies flag overrides.
func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrap(err, "--log-level")
		}
	}
	return cfg, nil
}

// newLogger builds the runtime logger described by cfg.
func newLogger(cfg *config.Config) (logger.Logger, error) {
	lc, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	return lc.New()
}
