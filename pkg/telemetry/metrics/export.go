package metrics

import (
	"vdatahq/vswcsv/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks metrics for CSV export runs.
//
// Metrics:
//   - vswcsv_export_runs_total: Runs by mode and outcome
//   - vswcsv_export_rows_total: Data rows written
//   - vswcsv_export_bytes_total: Bytes written including the header
//   - vswcsv_export_duration_seconds: Duration of successful runs
//   - vswcsv_export_columns: Column count of the last successful run
//   - vswcsv_export_last_success_timestamp_seconds: Unix time of the last success
type ExportMetrics struct {
	runsTotal   *prometheus.CounterVec
	rowsTotal   *prometheus.CounterVec
	bytesTotal  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	columns     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "runs_total",
				Help:      "Total number of export runs",
			},
			[]string{"mode", "outcome"},
		),

		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "rows_total",
				Help:      "Total number of CSV data rows written",
			},
			[]string{"mode"},
		),

		bytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "bytes_total",
				Help:      "Total number of CSV bytes written",
			},
			[]string{"mode"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "duration_seconds",
				Help:      "Duration of successful export runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8), // 10ms to ~164s
			},
			[]string{"mode"},
		),

		columns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "columns",
				Help:      "Number of CSV columns in the last successful export",
			},
		),

		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful export",
			},
		),
	}

	registry.MustRegister(
		em.runsTotal,
		em.rowsTotal,
		em.bytesTotal,
		em.duration,
		em.columns,
		em.lastSuccess,
	)

	return em
}

// SourceMetrics tracks the inputs an export reads from.
type SourceMetrics struct {
	inputs      prometheus.Gauge
	signals     prometheus.Gauge
	errorsTotal *prometheus.CounterVec
}

// NewSourceMetrics creates and registers source metrics with the provided registry.
func NewSourceMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SourceMetrics {
	sm := &SourceMetrics{
		inputs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "source",
				Name:      "inputs",
				Help:      "Number of inputs opened by the last run",
			},
		),

		signals: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "source",
				Name:      "signals",
				Help:      "Number of signals selected by the last run",
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "source",
				Name:      "errors_total",
				Help:      "Total number of input open or read failures",
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(sm.inputs, sm.signals, sm.errorsTotal)

	return sm
}
