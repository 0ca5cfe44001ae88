package config

import "time"

// Config is the root configuration structure for vswcsv.
// It contains the export, source, watch and telemetry sections.
type Config struct {
	// Export controls the output file and how records are written.
	Export ExportConfig `yaml:"export"`

	// Source controls which inputs are read and how signals map to columns.
	Source SourceConfig `yaml:"source"`

	// Watch controls re-running exports on input changes or on a schedule.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ExportConfig contains configuration for the CSV export.
type ExportConfig struct {
	// Output is the destination file. "-" writes to stdout.
	// Default: "-"
	Output string `yaml:"output"`

	// Mode is the record retrieval strategy.
	// Options: "iterator", "objects", "object1s"
	// Default: "objects"
	Mode string `yaml:"mode"`

	// LookAheadRows back-fills leading nulls from values found within this
	// many following rows. 0 disables it.
	// Default: 0
	LookAheadRows int `yaml:"look_ahead_rows"`

	// OutputIntervalMs resamples records onto a fixed millisecond grid.
	// 0 disables it.
	// Default: 0
	OutputIntervalMs int `yaml:"output_interval_ms"`

	// MaxFractionDigits caps the fractional digits of floating point values.
	// Default: 10
	MaxFractionDigits int `yaml:"max_fraction_digits"`

	// Compression selects the output codec.
	// Options: "none", "lz4"; empty picks lz4 for outputs ending in ".lz4"
	// Default: ""
	Compression string `yaml:"compression"`

	// BufferSize is the output write buffer size, e.g. "64KiB" or "1MB".
	// Default: "64KiB"
	BufferSize string `yaml:"buffer_size"`
}

// SourceConfig contains configuration for the record source.
type SourceConfig struct {
	// Inputs are input files or directories.
	Inputs []string `yaml:"inputs"`

	// Signals is the column allowlist. Empty selects every signal.
	Signals []string `yaml:"signals"`

	// ExpandMode controls struct signal columns.
	// Options: "none", "flat", "full"
	// Default: "full"
	ExpandMode string `yaml:"expand_mode"`

	// QueueMode resolves several values for one column at one instant.
	// Options: "last", "first", "all"
	// Default: "last"
	QueueMode string `yaml:"queue_mode"`

	// Base64 accepts MIME base64 encoded JSON-lines inputs.
	// Default: false
	Base64 bool `yaml:"base64"`

	// Driver is the SQLite driver for .db inputs.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`
}

// WatchConfig contains configuration for the watch command.
type WatchConfig struct {
	// Debounce delays a re-export until input changes have settled.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is a standard 5-field cron expression. Empty disables
	// scheduled exports.
	// Default: ""
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// TextfilePath, when set, receives the run metrics in Prometheus text
	// format after every export.
	// Default: ""
	TextfilePath string `yaml:"textfile_path"`

	// Namespace is the metric name prefix.
	// Default: "vswcsv"
	Namespace string `yaml:"namespace"`
}
