// Package config provides configuration management for vswcsv.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("vswcsv.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("vswcsv.yaml")
//
//  3. As the CLI does, tolerating a missing default file:
//     cfg, err := config.LoadConfigOrDefault("")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention VSWCSV_SECTION_FIELD:
//
//   - VSWCSV_EXPORT_MODE overrides export.mode
//   - VSWCSV_SOURCE_INPUTS overrides source.inputs (comma separated)
//   - VSWCSV_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Later sources override earlier ones:
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Command line flags (applied by the CLI)
//
// # Example Configuration
//
//	export:
//	  output: "out.csv"
//	  mode: "iterator"
//	  look_ahead_rows: 10
//	  output_interval_ms: 100
//
//	source:
//	  inputs: ["data/"]
//	  signals: ["speed", "gear"]
//	  expand_mode: "full"
//	  queue_mode: "last"
//
//	watch:
//	  debounce: "1s"
//	  schedule: "*/15 * * * *"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "text"
package config
