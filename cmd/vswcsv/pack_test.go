package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"vdatahq/vswcsv/pkg/vdata/storage"
)

func TestPack_ThenExport(t *testing.T) {
	dir := writeTestInputs(t)
	tmp := t.TempDir()
	store := filepath.Join(tmp, "store.vsdb")

	output, err := executeCommand(t, "pack", "-o", store, "--batch", "2", dir)
	if err != nil {
		t.Fatalf("pack failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Packed 3 samples from 1 inputs") {
		t.Errorf("unexpected pack output:\n%s", output)
	}

	s, err := storage.OpenSQLiteStore(context.Background(), &storage.SQLiteConfig{Path: store})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	n, err := s.Count(context.Background())
	s.Close()
	if err != nil || n != 3 {
		t.Fatalf("Count() = %d, %v; want 3", n, err)
	}

	out := filepath.Join(tmp, "out.csv")
	if _, err := executeCommand(t, "export", "-i", store, "-o", out, "-p", "full", "-q", "--progress=false"); err != nil {
		t.Fatalf("export from store failed: %v", err)
	}
	if got := readFile(t, out); got != wantCSV {
		t.Errorf("CSV from store mismatch:\ngot:\n%s\nwant:\n%s", got, wantCSV)
	}
}

func TestPack_SkipsOutputStore(t *testing.T) {
	dir := writeTestInputs(t)
	store := filepath.Join(dir, "store.vsdb")

	if _, err := executeCommand(t, "pack", "-o", store, dir); err != nil {
		t.Fatalf("first pack failed: %v", err)
	}
	// The store now sits in the input directory; packing again must not
	// read it back into itself.
	output, err := executeCommand(t, "pack", "-o", store, dir)
	if err != nil {
		t.Fatalf("second pack failed: %v", err)
	}
	if !strings.Contains(output, "Packed 3 samples from 1 inputs") {
		t.Errorf("unexpected pack output:\n%s", output)
	}
}

func TestPack_Errors(t *testing.T) {
	dir := writeTestInputs(t)
	store := filepath.Join(t.TempDir(), "store.vsdb")

	if _, err := executeCommand(t, "pack", dir); err == nil {
		t.Error("expected error without --output")
	}
	if _, err := executeCommand(t, "pack", "-o", store, "--batch", "0", dir); err == nil {
		t.Error("expected error for zero batch size")
	}
	if _, err := executeCommand(t, "pack", "-o", store, "--driver", "postgres", dir); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
