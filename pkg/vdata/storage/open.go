package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"vdatahq/vswcsv/pkg/vdata"
)

// OpenOptions configures Open.
type OpenOptions struct {
	// Paths are input files or directories.
	Paths []string

	// Signals is the column allowlist. Nil selects every signal.
	Signals []string

	ExpandMode vdata.ExpandMode
	QueueMode  vdata.QueueMode

	// Base64 accepts MIME base64 encoded JSON-lines inputs.
	Base64 bool

	// Driver is the SQLite driver name. Default: "sqlite".
	Driver string

	Logger *slog.Logger

	// OnInputError is called for each input that fails to open and is
	// skipped. Optional.
	OnInputError func(d DiscoveredInput, err error)
}

// Open discovers the inputs named by opts, opens each one and joins them in
// a Frame. Inputs that fail to open are logged and skipped; Open fails with
// vdata.ErrNoInputs, joined with the per-input causes, when none remain.
func Open(ctx context.Context, opts OpenOptions) (*Frame, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	found, err := Discover(opts.Paths, opts.Base64, logger)
	if err != nil {
		return nil, err
	}

	inputs := make([]Input, 0, len(found))
	var failed []error
	for _, d := range found {
		if err := ctx.Err(); err != nil {
			for _, open := range inputs {
				open.Close()
			}
			return nil, err
		}
		in, err := OpenInput(ctx, d, opts.Driver)
		if err != nil {
			logger.Warn("skipping input", "path", d.Path, "format", d.Format, "error", err)
			if opts.OnInputError != nil {
				opts.OnInputError(d, err)
			}
			failed = append(failed, err)
			continue
		}
		logger.Debug("input opened", "path", d.Path, "format", d.Format, "signals", len(in.Signals()))
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: %w", vdata.ErrNoInputs, errors.Join(failed...))
	}

	frame, err := NewFrame(ctx, inputs, FrameOptions{
		Signals:    opts.Signals,
		ExpandMode: opts.ExpandMode,
		QueueMode:  opts.QueueMode,
		Logger:     logger,
	})
	if err != nil {
		for _, in := range inputs {
			in.Close()
		}
		return nil, err
	}
	return frame, nil
}

// OpenInput opens one discovered input.
func OpenInput(ctx context.Context, d DiscoveredInput, driver string) (Input, error) {
	switch d.Format {
	case FormatSQLite:
		cfg := DefaultSQLiteConfig()
		cfg.Path = d.Path
		if driver != "" {
			cfg.Driver = driver
		}
		store, err := OpenSQLiteStore(ctx, cfg)
		if err != nil {
			var srcErr *vdata.SourceError
			if errors.As(err, &srcErr) {
				return nil, err
			}
			return nil, vdata.NewSourceError(d.Path, "open", err)
		}
		return store, nil

	case FormatJSONL, FormatJSONLBase64:
		data, err := os.ReadFile(d.Path)
		if err != nil {
			return nil, vdata.NewSourceError(d.Path, "read", err)
		}
		in, err := LoadJSONLInput(d.Path, data, d.Format == FormatJSONLBase64)
		if err != nil {
			return nil, vdata.NewSourceError(d.Path, "decode", err)
		}
		return in, nil

	default:
		return nil, vdata.NewSourceError(d.Path, "open", fmt.Errorf("unsupported input format"))
	}
}
