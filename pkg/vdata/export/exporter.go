package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"vdatahq/vswcsv/pkg/vdata"
)

// Mode selects how records are pulled from the source.
type Mode string

const (
	// ModeIterator streams records lazily, one at a time.
	ModeIterator Mode = "iterator"
	// ModeObjects materializes all densified records first.
	ModeObjects Mode = "objects"
	// ModeObject1s materializes all records without densification.
	ModeObject1s Mode = "object1s"
)

// ParseMode parses a query method name. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeIterator, ModeObjects, ModeObject1s:
		return m, nil
	default:
		return "", fmt.Errorf("unknown query method %q (supported: iterator, objects, object1s)", s)
	}
}

// Progress receives row progress during an export. cli.ProgressReporter
// satisfies it.
type Progress interface {
	Start(total int64)
	Update(current int64)
	Finish()
}

// Options configures an Exporter.
type Options struct {
	// Mode is the retrieval strategy. Default: objects.
	Mode Mode

	// LookAheadRows is passed to the source for leading-value densification.
	// Ignored by ModeObject1s.
	LookAheadRows int

	// OutputIntervalMs is passed to the source for resampling.
	// Ignored by ModeObject1s.
	OutputIntervalMs int

	// Numbers is the number format. Default: 10 fractional digits.
	Numbers *NumberFormat

	// Progress, when set, is updated after every written row.
	Progress Progress

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result summarizes a completed export.
type Result struct {
	Mode     Mode
	Columns  int
	Rows     int
	Bytes    int64
	Duration time.Duration
}

// Exporter writes the records of a source as CSV: one header line followed
// by one line per record, in the order the source yields them.
type Exporter struct {
	opts    Options
	encoder *CSVEncoder
	logger  *slog.Logger
}

// NewExporter creates a new exporter.
func NewExporter(opts Options) *Exporter {
	if opts.Mode == "" {
		opts.Mode = ModeObjects
	}
	numbers := DefaultNumberFormat()
	if opts.Numbers != nil {
		numbers = *opts.Numbers
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Exporter{
		opts:    opts,
		encoder: NewCSVEncoder(numbers),
		logger:  logger.With("component", "vdata.export"),
	}
}

// SourceOpener opens the record source for a run.
type SourceOpener func(ctx context.Context) (vdata.Source, error)

// SinkOpener opens the destination for a run.
type SinkOpener func() (io.WriteCloser, error)

// Run opens the source, then the sink, exports, and releases both in reverse
// order on every path. The sink is only opened once the source is usable, so
// a source failure leaves no output file behind.
func (e *Exporter) Run(ctx context.Context, openSource SourceOpener, openSink SinkOpener) (res *Result, err error) {
	src, err := openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			e.logger.Warn("failed to close source", "error", cerr)
		}
	}()

	sink, err := openSink()
	if err != nil {
		return nil, vdata.NewExportError("csv", 0, fmt.Errorf("failed to open output: %w", err))
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			rows := 0
			if res != nil {
				rows = res.Rows
			}
			err = vdata.NewExportError("csv", rows, fmt.Errorf("failed to close output: %w", cerr))
		}
	}()

	return e.Export(ctx, src, sink)
}

// Export writes the header and every record of src to w. It does not close
// src or w.
func (e *Exporter) Export(ctx context.Context, src vdata.Source, w io.Writer) (*Result, error) {
	start := time.Now()
	res := &Result{Mode: e.opts.Mode}

	columns := src.Columns(true)
	res.Columns = len(columns)

	buf := make([]byte, 0, 4096)
	buf = e.encoder.AppendHeader(buf, columns)
	n, err := w.Write(buf)
	res.Bytes += int64(n)
	if err != nil {
		return res, vdata.NewExportError("csv", 0, fmt.Errorf("failed to write header: %w", err))
	}

	records, err := e.open(src)
	if err != nil {
		return res, err
	}

	if e.opts.Progress != nil {
		total := int64(0)
		if sized, ok := records.(interface{ Len() int }); ok {
			total = int64(sized.Len())
		}
		e.opts.Progress.Start(total)
	}

	for records.Next() {
		if err := ctx.Err(); err != nil {
			return res, vdata.NewExportError("csv", res.Rows, err)
		}

		rec := records.Record()
		if len(rec.Values) != len(columns)-1 {
			panic(fmt.Sprintf("export: record has %d values for %d data columns", len(rec.Values), len(columns)-1))
		}

		buf = e.encoder.AppendRecord(buf, rec)
		n, err := w.Write(buf)
		res.Bytes += int64(n)
		if err != nil {
			return res, vdata.NewExportError("csv", res.Rows, err)
		}
		res.Rows++

		if e.opts.Progress != nil {
			e.opts.Progress.Update(int64(res.Rows))
		}
	}
	if err := records.Err(); err != nil {
		return res, vdata.NewExportError("csv", res.Rows, err)
	}

	if e.opts.Progress != nil {
		e.opts.Progress.Finish()
	}

	res.Duration = time.Since(start)
	e.logger.Debug("export finished",
		"mode", res.Mode,
		"columns", res.Columns,
		"rows", res.Rows,
		"bytes", res.Bytes,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// open resolves the retrieval strategy to a single iterator so that the
// write loop is shared by every mode.
func (e *Exporter) open(src vdata.Source) (vdata.RecordIterator, error) {
	switch e.opts.Mode {
	case ModeIterator:
		it, err := src.Iterator(e.opts.LookAheadRows, e.opts.OutputIntervalMs, 0)
		if err != nil {
			return nil, wrapSourceErr("iterator", err)
		}
		return it, nil
	case ModeObjects:
		records, err := src.Objects(e.opts.LookAheadRows, e.opts.OutputIntervalMs)
		if err != nil {
			return nil, wrapSourceErr("objects", err)
		}
		return vdata.NewSliceIterator(records), nil
	case ModeObject1s:
		records, err := src.Object1s()
		if err != nil {
			return nil, wrapSourceErr("object1s", err)
		}
		return vdata.NewSliceIterator(records), nil
	default:
		return nil, fmt.Errorf("unknown export mode %q", e.opts.Mode)
	}
}

func wrapSourceErr(operation string, err error) error {
	var srcErr *vdata.SourceError
	if errors.As(err, &srcErr) {
		return err
	}
	return vdata.NewSourceError("", operation, err)
}
