// Package logging provides structured logging for vswcsv.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with run IDs and command names
//   - Configurable log levels (debug, info, warn, error)
//
// Logs are written to stderr by default; stdout is reserved for CSV output
// when exporting to "-".
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "text",
//	})
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "export finished", "rows", 1200)
//	// level=INFO msg="export finished" run_id=... rows=1200
//
// Library packages accept a *slog.Logger; pass logger.Slog() to them.
package logging
