package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// Compression names an output compression codec.
type Compression string

const (
	// CompressionNone writes plain text.
	CompressionNone Compression = "none"
	// CompressionLZ4 writes an LZ4 frame.
	CompressionLZ4 Compression = "lz4"
)

// StdoutPath selects standard output as the destination.
const StdoutPath = "-"

// DefaultSinkBufferSize is the write buffer size used when none is configured.
const DefaultSinkBufferSize = 64 * 1024

// SinkConfig configures an output sink.
type SinkConfig struct {
	// Path is the destination file, or "-" for stdout.
	Path string

	// Compression is the codec. Empty selects lz4 for paths ending in
	// ".lz4" and none otherwise.
	Compression Compression

	// BufferSize is the write buffer size in bytes.
	BufferSize int
}

// ParseCompression parses a compression name.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return "", nil
	case CompressionNone, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (supported: none, lz4)", s)
	}
}

// fileSink layers a buffer and an optional compressor over the destination.
// Close flushes each layer from the top down.
type fileSink struct {
	buf  *bufio.Writer
	zw   *lz4.Writer
	file *os.File
	own  bool
}

// OpenSink opens the destination described by cfg.
func OpenSink(cfg SinkConfig) (io.WriteCloser, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("output path is empty")
	}

	compression := cfg.Compression
	if compression == "" {
		compression = CompressionNone
		if strings.HasSuffix(strings.ToLower(cfg.Path), ".lz4") {
			compression = CompressionLZ4
		}
	}

	size := cfg.BufferSize
	if size <= 0 {
		size = DefaultSinkBufferSize
	}

	s := &fileSink{}
	if cfg.Path == StdoutPath {
		s.file = os.Stdout
	} else {
		f, err := os.Create(cfg.Path)
		if err != nil {
			return nil, err
		}
		s.file = f
		s.own = true
	}

	var dst io.Writer = s.file
	if compression == CompressionLZ4 {
		s.zw = lz4.NewWriter(s.file)
		dst = s.zw
	}
	s.buf = bufio.NewWriterSize(dst, size)
	return s, nil
}

// Write implements io.Writer.
func (s *fileSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Close flushes pending bytes and closes the destination. The first error
// encountered is returned; later layers are still closed.
func (s *fileSink) Close() error {
	var firstErr error
	if err := s.buf.Flush(); err != nil {
		firstErr = err
	}
	if s.zw != nil {
		if err := s.zw.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.own {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
