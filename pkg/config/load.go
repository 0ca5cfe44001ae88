package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when no explicit
// configuration path is given.
const DefaultConfigFile = "vswcsv.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VSWCSV_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention VSWCSV_SECTION_FIELD (e.g., VSWCSV_EXPORT_MODE).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return finishWithEnv(cfg)
}

// LoadConfigOrDefault loads the configuration used by the CLI. An explicit
// path must exist. With an empty path DefaultConfigFile is used when present,
// and defaults otherwise. Environment overrides apply in every case.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return LoadConfigWithEnvOverrides(DefaultConfigFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", DefaultConfigFile, err)
	}

	return finishWithEnv(Default())
}

func finishWithEnv(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format VSWCSV_SECTION_FIELD. Values that do
// not parse are reported as a ValidationError.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	envString := func(name string, dst *string) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			*dst = val
		}
	}
	envList := func(name string, dst *[]string) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			*dst = splitList(val)
		}
	}
	envInt := func(name string, dst *int) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid integer %q", val)})
				return
			}
			*dst = i
		}
	}
	envBool := func(name string, dst *bool) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid boolean %q", val)})
				return
			}
			*dst = b
		}
	}
	envDuration := func(name string, dst *time.Duration) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid duration %q", val)})
				return
			}
			*dst = d
		}
	}

	// Export overrides
	envString("EXPORT_OUTPUT", &cfg.Export.Output)
	envString("EXPORT_MODE", &cfg.Export.Mode)
	envInt("EXPORT_LOOK_AHEAD_ROWS", &cfg.Export.LookAheadRows)
	envInt("EXPORT_OUTPUT_INTERVAL_MS", &cfg.Export.OutputIntervalMs)
	envInt("EXPORT_MAX_FRACTION_DIGITS", &cfg.Export.MaxFractionDigits)
	envString("EXPORT_COMPRESSION", &cfg.Export.Compression)
	envString("EXPORT_BUFFER_SIZE", &cfg.Export.BufferSize)

	// Source overrides
	envList("SOURCE_INPUTS", &cfg.Source.Inputs)
	envList("SOURCE_SIGNALS", &cfg.Source.Signals)
	envString("SOURCE_EXPAND_MODE", &cfg.Source.ExpandMode)
	envString("SOURCE_QUEUE_MODE", &cfg.Source.QueueMode)
	envBool("SOURCE_BASE64", &cfg.Source.Base64)
	envString("SOURCE_DRIVER", &cfg.Source.Driver)

	// Watch overrides
	envDuration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	envString("WATCH_SCHEDULE", &cfg.Watch.Schedule)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	envString("TELEMETRY_METRICS_TEXTFILE_PATH", &cfg.Telemetry.Metrics.TextfilePath)
	envString("TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
