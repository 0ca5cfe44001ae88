// Package metrics provides Prometheus metrics for vswcsv export runs.
//
// A CLI process has no scrape endpoint, so the collector is flushed to a
// file in the Prometheus text format after each run. Point node_exporter's
// textfile collector at the directory to pick it up.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordInputs(len(inputs), len(frame.Columns())-1)
//
//	res, err := exporter.Run(ctx, openSource, openSink)
//	collector.RecordExport(res, err)
//
//	if err := collector.WriteTextfile("/var/lib/node_exporter/vswcsv.prom"); err != nil {
//		logger.Warn("metrics textfile not written", "error", err)
//	}
package metrics
