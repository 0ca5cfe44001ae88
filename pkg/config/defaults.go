package config

import "time"

// Default values for configuration fields.
const (
	// Export defaults
	DefaultOutput            = "-"
	DefaultMode              = "objects"
	DefaultMaxFractionDigits = 10
	DefaultBufferSize        = "64KiB"

	// Source defaults
	DefaultExpandMode = "full"
	DefaultQueueMode  = "last"
	DefaultDriver     = "sqlite"

	// Watch defaults
	DefaultWatchDebounce = 500 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "vswcsv"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	if cfg.Export.Output == "" {
		cfg.Export.Output = DefaultOutput
	}
	if cfg.Export.Mode == "" {
		cfg.Export.Mode = DefaultMode
	}
	if cfg.Export.MaxFractionDigits == 0 {
		cfg.Export.MaxFractionDigits = DefaultMaxFractionDigits
	}
	if cfg.Export.BufferSize == "" {
		cfg.Export.BufferSize = DefaultBufferSize
	}

	if cfg.Source.ExpandMode == "" {
		cfg.Source.ExpandMode = DefaultExpandMode
	}
	if cfg.Source.QueueMode == "" {
		cfg.Source.QueueMode = DefaultQueueMode
	}
	if cfg.Source.Driver == "" {
		cfg.Source.Driver = DefaultDriver
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Default returns a configuration holding only default values.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
