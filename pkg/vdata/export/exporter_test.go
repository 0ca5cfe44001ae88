package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vdatahq/vswcsv/pkg/vdata"
)

// stubSource serves fixed records. Densified and raw retrieval return the
// same records unless dense is set.
type stubSource struct {
	columns []string
	raw     []vdata.Record
	dense   []vdata.Record
	err     error
	closed  int

	lookAhead, interval int
}

func (s *stubSource) Columns(includeTime bool) []string {
	if includeTime {
		return append([]string{vdata.TimeColumn}, s.columns...)
	}
	return s.columns
}

func (s *stubSource) densified() []vdata.Record {
	if s.dense != nil {
		return s.dense
	}
	return s.raw
}

func (s *stubSource) Iterator(lookAheadRows, outputIntervalMs, offset int) (vdata.RecordIterator, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lookAhead, s.interval = lookAheadRows, outputIntervalMs
	return vdata.NewSliceIterator(s.densified()[offset:]), nil
}

func (s *stubSource) Objects(lookAheadRows, outputIntervalMs int) ([]vdata.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lookAhead, s.interval = lookAheadRows, outputIntervalMs
	return s.densified(), nil
}

func (s *stubSource) Object1s() ([]vdata.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}

func (s *stubSource) Close() error {
	s.closed++
	return nil
}

func newStubSource() *stubSource {
	return &stubSource{
		columns: []string{"speed", "gear"},
		raw: []vdata.Record{
			{Time: baseTime, Values: []vdata.Value{vdata.Float(1.5), vdata.Text("D")}},
			{Time: baseTime.Add(time.Second), Values: []vdata.Value{vdata.Null{}, vdata.Text("N,1")}},
		},
	}
}

const stubCSV = "time,speed,gear\n" +
	"1700000000000,1.5,D\n" +
	"1700000001000,,\"N,1\"\n"

func TestExporter_ModesProduceSameOutput(t *testing.T) {
	for _, mode := range []Mode{ModeIterator, ModeObjects, ModeObject1s} {
		t.Run(string(mode), func(t *testing.T) {
			src := newStubSource()
			var out bytes.Buffer

			res, err := NewExporter(Options{Mode: mode}).Export(context.Background(), src, &out)
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if out.String() != stubCSV {
				t.Errorf("Expected output:\n%s\ngot:\n%s", stubCSV, out.String())
			}
			if res.Rows != 2 {
				t.Errorf("Expected 2 rows, got %d", res.Rows)
			}
			if res.Columns != 3 {
				t.Errorf("Expected 3 columns, got %d", res.Columns)
			}
			if res.Bytes != int64(len(stubCSV)) {
				t.Errorf("Expected %d bytes, got %d", len(stubCSV), res.Bytes)
			}
			if res.Mode != mode {
				t.Errorf("Expected mode %s, got %s", mode, res.Mode)
			}
		})
	}
}

func TestExporter_PassesDensification(t *testing.T) {
	src := newStubSource()
	src.dense = src.raw[:1]

	var out bytes.Buffer
	exp := NewExporter(Options{Mode: ModeIterator, LookAheadRows: 3, OutputIntervalMs: 100})
	res, err := exp.Export(context.Background(), src, &out)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if src.lookAhead != 3 || src.interval != 100 {
		t.Errorf("Expected densification (3, 100), got (%d, %d)", src.lookAhead, src.interval)
	}
	if res.Rows != 1 {
		t.Errorf("Expected 1 row, got %d", res.Rows)
	}

	// object1s ignores densification.
	out.Reset()
	exp = NewExporter(Options{Mode: ModeObject1s, LookAheadRows: 3, OutputIntervalMs: 100})
	res, err = exp.Export(context.Background(), src, &out)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if res.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", res.Rows)
	}
}

func TestExporter_EmptySourceWritesHeader(t *testing.T) {
	src := &stubSource{columns: []string{"a"}}
	var out bytes.Buffer

	res, err := NewExporter(Options{}).Export(context.Background(), src, &out)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.String() != "time,a\n" {
		t.Errorf("Unexpected output %q", out.String())
	}
	if res.Rows != 0 {
		t.Errorf("Expected 0 rows, got %d", res.Rows)
	}
}

func TestExporter_SourceError(t *testing.T) {
	cause := errors.New("decode failed")
	src := newStubSource()
	src.err = cause

	_, err := NewExporter(Options{Mode: ModeObjects}).Export(context.Background(), src, io.Discard)
	if !errors.Is(err, cause) {
		t.Fatalf("Expected cause in error chain, got %v", err)
	}
	var srcErr *vdata.SourceError
	if !errors.As(err, &srcErr) {
		t.Errorf("Expected SourceError, got %T", err)
	}
}

type failingWriter struct {
	after int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n >= w.after {
		return 0, errors.New("disk full")
	}
	w.n++
	return len(p), nil
}

func TestExporter_WriteError(t *testing.T) {
	src := newStubSource()

	_, err := NewExporter(Options{}).Export(context.Background(), src, &failingWriter{after: 2})
	var expErr *vdata.ExportError
	if !errors.As(err, &expErr) {
		t.Fatalf("Expected ExportError, got %v", err)
	}
	if expErr.RecordCount != 1 {
		t.Errorf("Expected 1 record written before failure, got %d", expErr.RecordCount)
	}

	_, err = NewExporter(Options{}).Export(context.Background(), src, &failingWriter{after: 0})
	if !errors.As(err, &expErr) {
		t.Fatalf("Expected ExportError for header, got %v", err)
	}
	if !strings.Contains(err.Error(), "header") {
		t.Errorf("Expected header failure, got %v", err)
	}
}

func TestExporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExporter(Options{}).Export(ctx, newStubSource(), io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestExporter_PanicsOnArityMismatch(t *testing.T) {
	src := newStubSource()
	src.raw = []vdata.Record{{Time: baseTime, Values: []vdata.Value{vdata.Int(1)}}}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for short record")
		}
	}()
	NewExporter(Options{}).Export(context.Background(), src, io.Discard)
}

type recordingProgress struct {
	total    int64
	updates  []int64
	finished bool
}

func (p *recordingProgress) Start(total int64)    { p.total = total }
func (p *recordingProgress) Update(current int64) { p.updates = append(p.updates, current) }
func (p *recordingProgress) Finish()              { p.finished = true }

func TestExporter_Progress(t *testing.T) {
	progress := &recordingProgress{}
	_, err := NewExporter(Options{Progress: progress}).Export(context.Background(), newStubSource(), io.Discard)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if progress.total != 2 {
		t.Errorf("Expected total 2, got %d", progress.total)
	}
	if len(progress.updates) != 2 || progress.updates[1] != 2 {
		t.Errorf("Unexpected updates %v", progress.updates)
	}
	if !progress.finished {
		t.Error("Expected Finish to be called")
	}
}

func TestExporter_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	src := newStubSource()

	res, err := NewExporter(Options{}).Run(context.Background(),
		func(ctx context.Context) (vdata.Source, error) { return src, nil },
		func() (io.WriteCloser, error) { return OpenSink(SinkConfig{Path: path}) },
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", res.Rows)
	}
	if src.closed != 1 {
		t.Errorf("Expected source closed once, got %d", src.closed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != stubCSV {
		t.Errorf("Unexpected file content %q", data)
	}
}

func TestExporter_RunSourceFailureSkipsSink(t *testing.T) {
	cause := errors.New("no inputs")
	opened := false

	_, err := NewExporter(Options{}).Run(context.Background(),
		func(ctx context.Context) (vdata.Source, error) { return nil, cause },
		func() (io.WriteCloser, error) {
			opened = true
			return nil, errors.New("unexpected")
		},
	)
	if !errors.Is(err, cause) {
		t.Errorf("Expected source error, got %v", err)
	}
	if opened {
		t.Error("Expected sink not to be opened")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"iterator": ModeIterator,
		"Objects":  ModeObjects,
		"OBJECT1S": ModeObject1s,
	} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("batch"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
