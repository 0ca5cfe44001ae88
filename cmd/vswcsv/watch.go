package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"vdatahq/vswcsv/pkg/cli"
	"vdatahq/vswcsv/pkg/config"
	"vdatahq/vswcsv/pkg/telemetry/logging"
	"vdatahq/vswcsv/pkg/vdata/storage"
	"vdatahq/vswcsv/pkg/vdata/watch"
)

// triggerStart names the run performed when watching begins.
const triggerStart = "start"

var watchFlags struct {
	source   sourceFlags
	output   outputFlags
	debounce time.Duration
	schedule string
	noInit   bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [inputs...]",
	Short: "Re-run an export when inputs change or on a schedule",
	Long: `Export once, then export again whenever an input file changes and, with
--schedule, on a cron schedule. Runs never overlap; changes that arrive during
a run trigger one follow-up run.

The configuration file, when one is in use, is watched too. A valid new
configuration applies from the next run; an invalid one is logged and
ignored. Flags keep precedence over the reloaded file.

Examples:
  vswcsv watch -i ./logs -o out.csv
  vswcsv watch -i ./logs -o out.csv --schedule "*/15 * * * *"
  vswcsv watch -c vswcsv.yaml --no-initial`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchFlags.source.register(watchCmd)
	watchFlags.output.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period after file changes (default from config)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", `cron schedule for periodic runs, e.g. "0 * * * *"`)
	watchCmd.Flags().BoolVar(&watchFlags.noInit, "no-initial", false, "do not export when watching starts")
}

// watchConfig layers the watch command's flags over base.
func watchConfig(cmd *cobra.Command, base *config.Config, args []string) (*config.Config, error) {
	cfg := *base
	if cmd.Flags().Changed("debounce") {
		cfg.Watch.Debounce = watchFlags.debounce
	}
	if cmd.Flags().Changed("schedule") {
		cfg.Watch.Schedule = watchFlags.schedule
	}
	return layerConfig(cmd, &cfg, args, &watchFlags.source, &watchFlags.output)
}

func runWatch(cmd *cobra.Command, args []string) error {
	base, logger, err := loadConfig("watch")
	if err != nil {
		return err
	}
	cfg, err := watchConfig(cmd, base, args)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx, cancel := context.WithCancel(logging.WithCommand(commandContext(cmd), "watch"))
	defer cancel()

	job := newExportJob(cfg, logger)
	job.summary = cmd.ErrOrStderr()

	runner := watch.NewRunner(func(ctx context.Context, trigger string) error {
		_, err := job.run(ctx, trigger)
		return err
	}, logger.Slog())

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Loop(ctx)
	}()

	inputs, err := watchedPaths(cfg.Source.Inputs)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	inputWatcher, err := watch.NewFileWatcher(&watch.FileWatcherConfig{
		Paths:      inputs,
		Debounce:   cfg.Watch.Debounce,
		Extensions: storage.Extensions(cfg.Source.Base64),
		SkipHidden: true,
	}, logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer inputWatcher.Stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := inputWatcher.Watch(ctx, func(string) { runner.Request(watch.TriggerChange) }); err != nil {
			errCh <- err
		}
	}()

	if path := activeConfigFile(); path != "" {
		configWatcher, err := watch.NewFileWatcher(&watch.FileWatcherConfig{
			Paths:    []string{path},
			Debounce: cfg.Watch.Debounce,
		}, logger.Slog())
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer configWatcher.Stop()

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := configWatcher.Watch(ctx, func(string) {
				reloadWatchConfig(ctx, cmd, args, path, job)
			})
			if err != nil {
				errCh <- err
			}
		}()
	}

	if cfg.Watch.Schedule != "" {
		scheduler, err := watch.NewScheduler(cfg.Watch.Schedule, runner, logger.Slog())
		if err != nil {
			return cli.NewCommandError("watch", cli.NewConfigError("watch.schedule", err.Error()))
		}
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer scheduler.Stop()
	}

	if !watchFlags.noInit {
		runner.Request(triggerStart)
	}

	var watchErr error
	select {
	case <-ctx.Done():
	case watchErr = <-errCh:
	}
	cancel()
	wg.Wait()

	if watchErr != nil {
		return cli.NewCommandError("watch", watchErr)
	}
	logger.InfoContext(ctx, "watch stopped")
	return nil
}

// reloadWatchConfig re-reads the configuration file and applies it to the
// job. Flags keep precedence.
func reloadWatchConfig(ctx context.Context, cmd *cobra.Command, args []string, path string, job *exportJob) {
	previous := config.GetConfig()
	base, err := config.ReloadConfig(path)
	if err != nil {
		job.logger.WarnContext(ctx, "configuration reload failed, keeping previous configuration", "error", err)
		return
	}
	cfg, err := watchConfig(cmd, base, args)
	if err != nil {
		config.SetConfig(previous)
		job.logger.WarnContext(ctx, "reloaded configuration rejected, keeping previous configuration", "error", err)
		return
	}
	job.setConfig(cfg)
	job.logger.InfoContext(ctx, "configuration reloaded", "path", path)
}

// watchedPaths keeps the inputs that currently exist.
func watchedPaths(inputs []string) ([]string, error) {
	var paths []string
	for _, p := range inputs {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("none of the inputs exist: %v", inputs)
	}
	return paths, nil
}

// activeConfigFile returns the configuration file in use, if any.
func activeConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(config.DefaultConfigFile); err == nil {
		return config.DefaultConfigFile
	}
	return ""
}
