package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vdatahq/vswcsv/pkg/config"
	"vdatahq/vswcsv/pkg/vdata/export"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for recorded runs.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Collector owns a Prometheus registry and the export metrics registered
// on it. Each vswcsv process uses its own registry so that the textfile
// only ever contains vswcsv series.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	export *ExportMetrics
	source *SourceMetrics
}

// NewCollector creates a collector. If registry is nil a fresh registry is
// created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Namespace: "vswcsv"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		export:   NewExportMetrics(cfg, registry),
		source:   NewSourceMetrics(cfg, registry),
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordExport records a finished export run. err is the error returned by
// the exporter, nil on success.
func (c *Collector) RecordExport(res export.Result, err error) {
	mode := string(res.Mode)
	if mode == "" {
		mode = string(export.ModeObjects)
	}

	outcome := OutcomeSuccess
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = OutcomeCanceled
	case err != nil:
		outcome = OutcomeError
	}

	c.export.runsTotal.WithLabelValues(mode, outcome).Inc()
	c.export.rowsTotal.WithLabelValues(mode).Add(float64(res.Rows))
	c.export.bytesTotal.WithLabelValues(mode).Add(float64(res.Bytes))
	if err == nil {
		c.export.duration.WithLabelValues(mode).Observe(res.Duration.Seconds())
		c.export.columns.Set(float64(res.Columns))
		c.export.lastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordInputs records how many inputs and signals a frame was opened over.
func (c *Collector) RecordInputs(inputs, signals int) {
	c.source.inputs.Set(float64(inputs))
	c.source.signals.Set(float64(signals))
}

// RecordSourceError counts a failure to open or read inputs.
func (c *Collector) RecordSourceError(format string) {
	if format == "" {
		format = "unknown"
	}
	c.source.errorsTotal.WithLabelValues(format).Inc()
}

// WriteTextfile writes all gathered metrics to path in the Prometheus text
// exposition format, for collection by node_exporter's textfile collector.
// An empty path is a no-op.
func (c *Collector) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("metrics textfile directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
