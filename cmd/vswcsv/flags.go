package main

import (
	"github.com/spf13/cobra"
	"vdatahq/vswcsv/pkg/config"
	"vdatahq/vswcsv/pkg/vdata/storage"
)

// sourceFlags select and shape the input signals. Shared by export,
// columns and watch.
type sourceFlags struct {
	inputs     string
	signals    string
	base64     bool
	queueMode  string
	expandMode string
	driver     string
}

// outputFlags control CSV generation. Shared by export and watch.
type outputFlags struct {
	output            string
	mode              string
	lookAhead         int
	interval          int
	maxFractionDigits int
	compress          string
	bufferSize        string
	metricsFile       string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.inputs, "input", "i", "", "input files or directories, comma separated")
	flags.StringVarP(&f.signals, "signals", "s", "", "signal names to extract, comma separated (default: all)")
	flags.BoolVarP(&f.base64, "base64", "b", false, "inputs are MIME base64 encoded")
	flags.StringVarP(&f.queueMode, "qmode", "m", "", "value for repeated samples at one instant: last, first, all")
	flags.StringVarP(&f.expandMode, "expand", "p", "", "struct columns: none, flat, full")
	flags.StringVar(&f.driver, "driver", "", "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")
}

func (f *outputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", `output file, "-" for stdout`)
	flags.StringVarP(&f.mode, "query", "x", "", "retrieval method: iterator, objects, object1s")
	flags.IntVarP(&f.lookAhead, "densify-rows", "d", 0, "rows to look ahead to fill initial nulls (0 disables)")
	flags.IntVarP(&f.interval, "densify-interval", "e", 0, "output interval in milliseconds (0 disables)")
	flags.IntVar(&f.maxFractionDigits, "max-fraction-digits", 0, "maximum fraction digits for floats")
	flags.StringVar(&f.compress, "compress", "", "output compression: none, lz4")
	flags.StringVar(&f.bufferSize, "buffer-size", "", "output buffer size, e.g. 64KiB")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after each run")
}

// apply copies explicitly set flags over cfg.
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Source.Inputs = storage.SplitPaths(f.inputs)
	}
	if flags.Changed("signals") {
		cfg.Source.Signals = storage.SplitPaths(f.signals)
	}
	if flags.Changed("base64") {
		cfg.Source.Base64 = f.base64
	}
	if flags.Changed("qmode") {
		cfg.Source.QueueMode = f.queueMode
	}
	if flags.Changed("expand") {
		cfg.Source.ExpandMode = f.expandMode
	}
	if flags.Changed("driver") {
		cfg.Source.Driver = f.driver
	}
}

// apply copies explicitly set flags over cfg.
func (f *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Export.Output = f.output
	}
	if flags.Changed("query") {
		cfg.Export.Mode = f.mode
	}
	if flags.Changed("densify-rows") {
		cfg.Export.LookAheadRows = f.lookAhead
	}
	if flags.Changed("densify-interval") {
		cfg.Export.OutputIntervalMs = f.interval
	}
	if flags.Changed("max-fraction-digits") {
		cfg.Export.MaxFractionDigits = f.maxFractionDigits
	}
	if flags.Changed("compress") {
		cfg.Export.Compression = f.compress
	}
	if flags.Changed("buffer-size") {
		cfg.Export.BufferSize = f.bufferSize
	}
	if flags.Changed("metrics-file") {
		cfg.Telemetry.Metrics.TextfilePath = f.metricsFile
	}
}

// positionalInputs appends positional arguments to the input list.
func positionalInputs(cfg *config.Config, args []string) {
	for _, arg := range args {
		cfg.Source.Inputs = append(cfg.Source.Inputs, storage.SplitPaths(arg)...)
	}
}

// layerConfig layers flags and positional inputs over a copy of base and
// validates the result. out may be nil for commands that write no CSV.
func layerConfig(cmd *cobra.Command, base *config.Config, args []string, src *sourceFlags, out *outputFlags) (*config.Config, error) {
	cfg := *base
	cfg.Source.Inputs = append([]string(nil), base.Source.Inputs...)
	cfg.Source.Signals = append([]string(nil), base.Source.Signals...)

	src.apply(cmd, &cfg)
	if out != nil {
		out.apply(cmd, &cfg)
	}
	positionalInputs(&cfg, args)

	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	if err := validateRunnable(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
