package config

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"

	"vdatahq/vswcsv/pkg/vdata"
	"vdatahq/vswcsv/pkg/vdata/export"
)

// maxBufferSize bounds the output write buffer.
const maxBufferSize = 256 * 1024 * 1024

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "export.mode").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	if cfg.Output == "" {
		errs = append(errs, FieldError{
			Field:   "export.output",
			Message: "output path is required",
		})
	}
	if _, err := export.ParseMode(cfg.Mode); err != nil {
		errs = append(errs, FieldError{Field: "export.mode", Message: err.Error()})
	}
	if cfg.LookAheadRows < 0 {
		errs = append(errs, FieldError{
			Field:   "export.look_ahead_rows",
			Message: "look-ahead rows must not be negative",
		})
	}
	if cfg.OutputIntervalMs < 0 {
		errs = append(errs, FieldError{
			Field:   "export.output_interval_ms",
			Message: "output interval must not be negative",
		})
	}
	if cfg.MaxFractionDigits < 0 || cfg.MaxFractionDigits > 20 {
		errs = append(errs, FieldError{
			Field:   "export.max_fraction_digits",
			Message: "max fraction digits must be between 0 and 20",
		})
	}
	if _, err := export.ParseCompression(cfg.Compression); err != nil {
		errs = append(errs, FieldError{Field: "export.compression", Message: err.Error()})
	}
	if _, err := ParseBufferSize(cfg.BufferSize); err != nil {
		errs = append(errs, FieldError{Field: "export.buffer_size", Message: err.Error()})
	}

	return errs
}

func validateSource(cfg *SourceConfig) []FieldError {
	var errs []FieldError

	if _, err := vdata.ParseExpandMode(cfg.ExpandMode); err != nil {
		errs = append(errs, FieldError{Field: "source.expand_mode", Message: err.Error()})
	}
	if _, err := vdata.ParseQueueMode(cfg.QueueMode); err != nil {
		errs = append(errs, FieldError{Field: "source.queue_mode", Message: err.Error()})
	}

	validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
	if !validDrivers[cfg.Driver] {
		errs = append(errs, FieldError{
			Field:   "source.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.Driver),
		})
	}

	for i, s := range cfg.Signals {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("source.signals[%d]", i),
				Message: "signal name must not be empty",
			})
		}
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must not be negative",
		})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "metrics namespace is required",
		})
	}

	return errs
}

// ParseBufferSize parses a human readable byte size such as "64KiB".
func ParseBufferSize(s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid buffer size %q: %w", s, err)
	}
	if n == 0 || n > maxBufferSize {
		return 0, fmt.Errorf("buffer size %q must be between 1B and %s", s, humanize.IBytes(maxBufferSize))
	}
	return int(n), nil
}
