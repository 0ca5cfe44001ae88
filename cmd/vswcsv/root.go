package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"vdatahq/vswcsv/pkg/cli"
	"vdatahq/vswcsv/pkg/config"
	"vdatahq/vswcsv/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vswcsv",
	Short: "vswcsv - export decoded signal samples as CSV",
	Long: `vswcsv reads decoded vehicle signal samples from JSON-lines logs or SQLite
sample stores and writes them as CSV: one "time" column followed by one column
per signal (or struct field), one row per instant.

Configuration is read from --config, or vswcsv.yaml in the working directory
when present. VSWCSV_* environment variables override the file; flags
override both.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the
// returned error.
func Execute() {
	if err := rootCmd.ExecuteContext(cli.SetupSignalHandler()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ./vswcsv.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig loads the configuration for a command and installs the
// configured logger as the slog default.
func loadConfig(command string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfigOrDefault(cfgFile)
	if err != nil {
		return nil, nil, cli.NewCommandError(command, cli.NewConfigError("config", err.Error()))
	}
	config.SetConfig(cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, cli.NewCommandError(command, err)
	}
	return cfg, logger, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return logger, nil
}

// commandContext returns the context the command was executed with.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
