package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatTable is a rendered table.
	FormatTable OutputFormat = "table"
)

// ParseOutputFormat parses a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unknown output format %q (want text, json or table)", s))
	}
}

// Summary describes a finished export run.
type Summary struct {
	RunID    string        `json:"run_id"`
	Mode     string        `json:"mode"`
	Output   string        `json:"output"`
	Inputs   int           `json:"inputs"`
	Columns  int           `json:"columns"`
	Rows     int           `json:"rows"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration_ns"`
}

// WriteSummary writes a human readable summary to w. Colors follow
// color.NoColor, which is set when w is not a terminal.
func WriteSummary(w io.Writer, s Summary) error {
	label := color.New(color.FgCyan)
	ok := color.New(color.FgGreen, color.Bold)

	if _, err := ok.Fprintf(w, "✓ Export complete (%s)\n", s.Mode); err != nil {
		return err
	}
	lines := []struct {
		key   string
		value string
	}{
		{"Run", s.RunID},
		{"Output", s.Output},
		{"Inputs", humanize.Comma(int64(s.Inputs))},
		{"Columns", humanize.Comma(int64(s.Columns))},
		{"Rows", humanize.Comma(int64(s.Rows))},
		{"Size", humanize.IBytes(uint64(s.Bytes))},
		{"Elapsed", s.Duration.Round(time.Millisecond).String()},
	}
	for _, line := range lines {
		if line.value == "" {
			continue
		}
		label.Fprintf(w, "  %-8s", line.key+":")
		if _, err := fmt.Fprintf(w, " %s\n", line.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummaryJSON writes the summary as a single JSON object.
func WriteSummaryJSON(w io.Writer, s Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// ColumnInfo describes one CSV column for the columns command.
type ColumnInfo struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Signal string `json:"signal,omitempty"`
	Field  string `json:"field,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// WriteColumns writes the column list in the requested format.
func WriteColumns(w io.Writer, columns []ColumnInfo, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(columns)
	case FormatTable:
		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"#", "Column", "Signal", "Field", "Kind"})
		for _, c := range columns {
			tbl.AppendRow(table.Row{c.Index, c.Name, c.Signal, c.Field, c.Kind})
		}
		tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d columns", len(columns))})
		tbl.Render()
		return nil
	default:
		for _, c := range columns {
			if _, err := fmt.Fprintln(w, c.Name); err != nil {
				return err
			}
		}
		return nil
	}
}
