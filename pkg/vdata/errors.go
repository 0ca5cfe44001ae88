package vdata

import (
	"errors"
	"fmt"
)

// ErrNoInputs is returned when no usable input remains after discovery.
var ErrNoInputs = errors.New("no valid input files")

// SourceError represents an error opening or reading a record source.
type SourceError struct {
	Path      string // Input path, empty when not tied to one input
	Operation string // Operation that failed ("open", "decode", "query", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source error [path=%s, operation=%s]: %v", e.Path, e.Operation, e.Cause)
	}
	return fmt.Sprintf("source error [operation=%s]: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewSourceError creates a new SourceError.
func NewSourceError(path, operation string, cause error) *SourceError {
	return &SourceError{
		Path:      path,
		Operation: operation,
		Cause:     cause,
	}
}

// ExportError represents an error while writing exported records.
type ExportError struct {
	Format      string // Export format ("csv")
	RecordCount int    // Records written before the failure
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}
