/*
Package cli provides command-line interface utilities for vswcsv.

The cli package includes the export summary, column listings, a row
progress reporter, and common CLI helpers used by the vswcsv command.

Output Formatting:

Export summaries and column listings support text, JSON, and table output:

	cli.WriteSummary(os.Stderr, cli.Summary{RunID: runID, Rows: res.Rows})
	cli.WriteColumns(os.Stdout, columns, cli.FormatTable)

Progress Reporting:

The progress reporter satisfies export.Progress and writes to stderr:

	progress := cli.NewProgressReporter(nil)
	exporter := export.NewExporter(export.Options{Progress: progress})

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown

Exit Codes:

ExitCode maps command errors to process exit codes: 2 for configuration
errors, 3 when no inputs were found, 130 on cancellation.
*/
package cli
