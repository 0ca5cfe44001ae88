package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vdatahq/vswcsv/pkg/vdata"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path   string
		base64 bool
		want   Format
	}{
		{"run.jsonl", false, FormatJSONL},
		{"run.NDJSON", false, FormatJSONL},
		{"run.db", false, FormatSQLite},
		{"run.vsdb", true, FormatSQLite},
		{"run.sqlite", false, FormatSQLite},
		{"run.txt", false, FormatUnknown},
		{"run.txt", true, FormatJSONLBase64},
		{"run.kfk", true, FormatJSONLBase64},
		{"run.csv", true, FormatUnknown},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.path, tt.base64); got != tt.want {
			t.Errorf("DetectFormat(%q, %v) = %q, want %q", tt.path, tt.base64, got, tt.want)
		}
	}
}

func TestSplitPaths(t *testing.T) {
	got := SplitPaths(" a.jsonl, ,b.db,")
	want := []string{"a.jsonl", "b.db"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := SplitPaths(""); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.db", ".hidden.jsonl", "_tmp.db", "notes.md", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.jsonl"), 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	single := filepath.Join(dir, "b.jsonl")

	found, err := Discover([]string{dir, single, filepath.Join(dir, "missing.jsonl")}, false, nil)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []DiscoveredInput{
		{Path: filepath.Join(dir, "a.db"), Format: FormatSQLite},
		{Path: filepath.Join(dir, "b.jsonl"), Format: FormatJSONL},
	}
	if !reflect.DeepEqual(found, want) {
		t.Errorf("Expected %v, got %v", want, found)
	}

	found, err = Discover([]string{dir}, true, nil)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(found) != 3 {
		t.Errorf("Expected 3 inputs with base64 enabled, got %v", found)
	}
}

func TestDiscover_NothingFound(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "missing.jsonl")}, false, nil)
	if !errors.Is(err, vdata.ErrNoInputs) {
		t.Errorf("Expected ErrNoInputs, got %v", err)
	}
}
