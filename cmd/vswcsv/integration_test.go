//go:build integration

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// buildBinary builds vswcsv into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "vswcsv")
	t.Log("Building vswcsv binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build vswcsv: %v\nOutput: %s", err, output)
	}
	return binaryPath
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestBinaryExport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildBinary(t)
	dir := writeTestInputs(t)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binaryPath, "export", "-i", dir, "-q")
	cmd.Dir = t.TempDir()
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("export failed: %v\nStderr: %s", err, stderr.String())
	}
	if stdout.String() != wantCSV {
		t.Errorf("stdout = %q, want %q", stdout.String(), wantCSV)
	}
}

func TestBinaryExitCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildBinary(t)
	inputs := writeTestInputs(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"ok", []string{"export", "-i", inputs, "-o", filepath.Join(t.TempDir(), "out.csv"), "-q"}, 0},
		{"bad queue mode", []string{"export", "-i", inputs, "-m", "bogus"}, 2},
		{"no inputs", []string{"export", "-i", t.TempDir(), "-q"}, 3},
		{"missing input", []string{"export", "-i", filepath.Join(t.TempDir(), "absent"), "-q"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Dir = t.TempDir()
			output, err := cmd.CombinedOutput()
			if got := exitCode(err); got != tt.want {
				t.Errorf("exit code = %d, want %d\nOutput: %s", got, tt.want, output)
			}
		})
	}
}

func TestBinaryWatchShutdown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildBinary(t)
	inputs := writeTestInputs(t)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binaryPath, "watch", "-i", inputs, "-o", outPath)
	cmd.Dir = t.TempDir()
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start watch: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}()

	deadline := time.Now().Add(10 * time.Second)
	for {
		if data, err := os.ReadFile(outPath); err == nil && string(data) == wantCSV {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("initial export not written\nStderr: %s", stderr.String())
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("failed to send SIGINT: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		if got := exitCode(err); got != 0 && got != 130 {
			t.Errorf("unexpected exit code %d\nStderr: %s", got, stderr.String())
		}
	case <-time.After(5 * time.Second):
		t.Error("watch did not shut down within 5 seconds")
	}
}
