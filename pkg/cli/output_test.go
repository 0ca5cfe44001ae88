package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"table", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	err := WriteSummary(buf, Summary{
		RunID:    "run-1",
		Mode:     "objects",
		Output:   "out.csv",
		Inputs:   2,
		Columns:  5,
		Rows:     12345,
		Bytes:    2048,
		Duration: 1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Export complete (objects)", "run-1", "Rows:", "12,345", "2.0 KiB", "1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummarySkipsEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteSummary(buf, Summary{Mode: "iterator"}); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if strings.Contains(buf.String(), "Run:") {
		t.Errorf("expected empty run id to be skipped:\n%s", buf.String())
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteSummaryJSON(buf, Summary{RunID: "r", Rows: 3}); err != nil {
		t.Fatalf("WriteSummaryJSON failed: %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.RunID != "r" || decoded.Rows != 3 {
		t.Errorf("unexpected summary %+v", decoded)
	}
}

func TestWriteColumns(t *testing.T) {
	columns := []ColumnInfo{
		{Index: 0, Name: "time"},
		{Index: 1, Name: "speed", Signal: "speed", Kind: "numeric"},
		{Index: 2, Name: "pos.x", Signal: "pos", Field: "x", Kind: "numeric"},
	}

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := WriteColumns(buf, columns, FormatText); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "time\nspeed\npos.x\n" {
			t.Errorf("unexpected text output %q", buf.String())
		}
	})

	t.Run("table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := WriteColumns(buf, columns, FormatTable); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "pos.x") || !strings.Contains(strings.ToLower(out), "total: 3 columns") {
			t.Errorf("unexpected table output:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := WriteColumns(buf, columns, FormatJSON); err != nil {
			t.Fatal(err)
		}
		var decoded []ColumnInfo
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 3 || decoded[2].Field != "x" {
			t.Errorf("unexpected columns %+v", decoded)
		}
	})
}
