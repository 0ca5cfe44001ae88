// Package telemetry groups the observability packages used by vswcsv.
//
// # Components
//
//   - logging: structured logging over log/slog, written to stderr
//   - metrics: Prometheus counters and histograms for export runs,
//     flushed to a node_exporter textfile after each run
//
// # Usage
//
//	cfg := config.GetConfig()
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordExport(res, err)
//	_ = collector.WriteTextfile(cfg.Telemetry.Metrics.TextfilePath)
package telemetry
