package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func TestOpenSink_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := OpenSink(SinkConfig{Path: path, BufferSize: 4})
	if err != nil {
		t.Fatalf("OpenSink failed: %v", err)
	}
	if _, err := io.WriteString(sink, "time,a\n1,2\n"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "time,a\n1,2\n" {
		t.Errorf("Unexpected content %q", data)
	}
}

func TestOpenSink_LZ4BySuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.lz4")
	body := strings.Repeat("1700000000000,1.5,D\n", 100)

	sink, err := OpenSink(SinkConfig{Path: path})
	if err != nil {
		t.Fatalf("OpenSink failed: %v", err)
	}
	if _, err := io.WriteString(sink, body); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if string(data) != body {
		t.Errorf("Decompressed content mismatch: got %d bytes, want %d", len(data), len(body))
	}
}

func TestOpenSink_Errors(t *testing.T) {
	if _, err := OpenSink(SinkConfig{}); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := OpenSink(SinkConfig{Path: filepath.Join(t.TempDir(), "missing", "out.csv")}); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestParseCompression(t *testing.T) {
	if c, err := ParseCompression("LZ4"); err != nil || c != CompressionLZ4 {
		t.Errorf("ParseCompression(LZ4) = %q, %v", c, err)
	}
	if c, err := ParseCompression(""); err != nil || c != "" {
		t.Errorf("ParseCompression(\"\") = %q, %v", c, err)
	}
	if _, err := ParseCompression("zstd"); err == nil {
		t.Error("Expected error for unknown compression")
	}
}
