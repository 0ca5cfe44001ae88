package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"vdatahq/vswcsv/pkg/cli"
)

var exportFlags struct {
	source   sourceFlags
	output   outputFlags
	progress bool
	quiet    bool
	format   string
}

var exportCmd = &cobra.Command{
	Use:   "export [inputs...]",
	Short: "Export signal samples as CSV",
	Long: `Export decoded signal samples as CSV.

Inputs are files or directories (expanded one level). JSON-lines logs
(.jsonl, .ndjson) and SQLite sample stores (.db, .sqlite, .vsdb) are read;
with --base64, .txt, .json, .kfk and .b64 files are decoded first. Inputs
are merged by time. An input that cannot be read is logged and skipped; the
export fails only when no input remains.

The CSV has one "time" column (Unix epoch milliseconds, with a ".uuu"
microsecond suffix when the sample time has one) followed by one column per
selected signal, or per struct field with --expand flat|full.

Examples:
  # Export a directory of logs
  vswcsv export -i ./logs -o out.csv

  # Only two signals, first value wins on repeated samples
  vswcsv export -i run.jsonl -s speed,rpm -m first -o out.csv

  # Fill initial nulls from the next 10 rows and resample to 100ms
  vswcsv export -i ./logs -d 10 -e 100 -o out.csv

  # Stream lz4-compressed CSV to stdout
  vswcsv export -i store.vsdb -o - --compress lz4 > out.csv.lz4`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportFlags.source.register(exportCmd)
	exportFlags.output.register(exportCmd)
	exportCmd.Flags().BoolVar(&exportFlags.progress, "progress", false, "show row progress on stderr (default: when stderr is a terminal)")
	exportCmd.Flags().BoolVarP(&exportFlags.quiet, "quiet", "q", false, "do not print the summary")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "text", "summary format: text, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig("export")
	if err != nil {
		return err
	}

	cfg, err = layerConfig(cmd, cfg, args, &exportFlags.source, &exportFlags.output)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	format, err := cli.ParseOutputFormat(exportFlags.format)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	job := newExportJob(cfg, logger)
	if !exportFlags.quiet {
		job.summary = cmd.ErrOrStderr()
		job.summaryFormat = format
	}
	if showProgress(cmd) {
		job.progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	if _, err := job.run(commandContext(cmd), ""); err != nil {
		return cli.NewCommandError("export", err)
	}
	return nil
}

func showProgress(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("progress") {
		return exportFlags.progress
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}
