package main

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"vdatahq/vswcsv/pkg/cli"
	"vdatahq/vswcsv/pkg/config"
	"vdatahq/vswcsv/pkg/telemetry/logging"
	"vdatahq/vswcsv/pkg/telemetry/metrics"
	"vdatahq/vswcsv/pkg/vdata"
	"vdatahq/vswcsv/pkg/vdata/export"
	"vdatahq/vswcsv/pkg/vdata/storage"
)

// exportJob runs one export per call against the current configuration.
// The watch command swaps the configuration between runs.
type exportJob struct {
	mu  sync.Mutex
	cfg *config.Config

	logger   *logging.Logger
	metrics  *metrics.Collector
	progress export.Progress

	// summary receives a summary after each successful run; nil disables it.
	summary       io.Writer
	summaryFormat cli.OutputFormat
}

func newExportJob(cfg *config.Config, logger *logging.Logger) *exportJob {
	return &exportJob{
		cfg:           cfg,
		logger:        logger,
		metrics:       metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		summaryFormat: cli.FormatText,
	}
}

func (j *exportJob) config() *config.Config {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cfg
}

func (j *exportJob) setConfig(cfg *config.Config) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cfg = cfg
}

// validateRunnable checks what the configuration layer leaves optional but
// an export requires.
func validateRunnable(cfg *config.Config) error {
	if len(cfg.Source.Inputs) == 0 {
		return cli.NewConfigError("source.inputs", "input path parameter empty (use -i or source.inputs)")
	}
	return nil
}

// run performs one export and reports it to the logs, the metrics textfile
// and the summary writer.
func (j *exportJob) run(ctx context.Context, trigger string) (*export.Result, error) {
	cfg := j.config()
	if err := validateRunnable(cfg); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	if trigger != "" {
		ctx = logging.WithTrigger(ctx, trigger)
	}
	log := j.logger.WithContext(ctx)

	// Values were validated when the configuration was loaded.
	mode, _ := export.ParseMode(cfg.Export.Mode)
	compression, _ := export.ParseCompression(cfg.Export.Compression)
	bufferSize, _ := config.ParseBufferSize(cfg.Export.BufferSize)
	expand, _ := vdata.ParseExpandMode(cfg.Source.ExpandMode)
	queue, _ := vdata.ParseQueueMode(cfg.Source.QueueMode)

	exporter := export.NewExporter(export.Options{
		Mode:             mode,
		LookAheadRows:    cfg.Export.LookAheadRows,
		OutputIntervalMs: cfg.Export.OutputIntervalMs,
		Numbers:          &export.NumberFormat{MaxFractionDigits: cfg.Export.MaxFractionDigits},
		Progress:         j.progress,
		Logger:           log.Slog(),
	})

	inputs := 0
	openSource := func(ctx context.Context) (vdata.Source, error) {
		skipped := 0
		frame, err := storage.Open(ctx, storage.OpenOptions{
			Paths:      cfg.Source.Inputs,
			Signals:    cfg.Source.Signals,
			ExpandMode: expand,
			QueueMode:  queue,
			Base64:     cfg.Source.Base64,
			Driver:     cfg.Source.Driver,
			Logger:     log.Slog(),
			OnInputError: func(d storage.DiscoveredInput, _ error) {
				skipped++
				j.metrics.RecordSourceError(string(d.Format))
			},
		})
		if err != nil {
			if skipped == 0 {
				j.metrics.RecordSourceError(sourceFormat(err, cfg.Source.Base64))
			}
			return nil, err
		}
		inputs = frame.InputCount()
		j.metrics.RecordInputs(inputs, len(frame.Columns(false)))
		return frame, nil
	}
	openSink := func() (io.WriteCloser, error) {
		return export.OpenSink(export.SinkConfig{
			Path:        cfg.Export.Output,
			Compression: compression,
			BufferSize:  bufferSize,
		})
	}

	log.Info("export started",
		"inputs", cfg.Source.Inputs,
		"output", cfg.Export.Output,
		"mode", mode,
	)

	res, err := exporter.Run(ctx, openSource, openSink)

	recorded := export.Result{Mode: mode}
	if res != nil {
		recorded = *res
	}
	j.metrics.RecordExport(recorded, err)
	if werr := j.metrics.WriteTextfile(cfg.Telemetry.Metrics.TextfilePath); werr != nil {
		log.Warn("metrics textfile not written", "error", werr)
	}

	if err != nil {
		if j.progress != nil {
			if reporter, ok := j.progress.(cli.ProgressReporter); ok {
				reporter.Error(err)
			}
		}
		return res, err
	}

	log.Info("export finished",
		"rows", res.Rows,
		"columns", res.Columns,
		"bytes", res.Bytes,
		"duration_ms", res.Duration.Milliseconds(),
	)

	if j.summary != nil {
		summary := cli.Summary{
			RunID:    runID,
			Mode:     string(res.Mode),
			Output:   cfg.Export.Output,
			Inputs:   inputs,
			Columns:  res.Columns,
			Rows:     res.Rows,
			Bytes:    res.Bytes,
			Duration: res.Duration,
		}
		var serr error
		if j.summaryFormat == cli.FormatJSON {
			serr = cli.WriteSummaryJSON(j.summary, summary)
		} else {
			serr = cli.WriteSummary(j.summary, summary)
		}
		if serr != nil {
			log.Warn("summary not written", "error", serr)
		}
	}

	return res, nil
}

// sourceFormat labels a source failure by the input format involved.
func sourceFormat(err error, base64 bool) string {
	var srcErr *vdata.SourceError
	if errors.As(err, &srcErr) && srcErr.Path != "" {
		return string(storage.DetectFormat(srcErr.Path, base64))
	}
	return ""
}
