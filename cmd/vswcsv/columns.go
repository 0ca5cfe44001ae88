package main

import (
	"github.com/spf13/cobra"
	"vdatahq/vswcsv/pkg/cli"
	"vdatahq/vswcsv/pkg/vdata"
	"vdatahq/vswcsv/pkg/vdata/storage"
)

var columnsFlags struct {
	source sourceFlags
	format string
}

var columnsCmd = &cobra.Command{
	Use:   "columns [inputs...]",
	Short: "List the CSV columns an export would produce",
	Long: `Open the inputs and print the resolved columns without reading samples.

The same selection flags as export apply, so the output shows exactly the
header an export would write.

Examples:
  vswcsv columns -i ./logs
  vswcsv columns -i ./logs -s pos,speed -p flat --format json`,
	RunE: listColumns,
}

func init() {
	rootCmd.AddCommand(columnsCmd)

	columnsFlags.source.register(columnsCmd)
	columnsCmd.Flags().StringVar(&columnsFlags.format, "format", "table", "output format: text, table, json")
}

func listColumns(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig("columns")
	if err != nil {
		return err
	}

	cfg, err = layerConfig(cmd, cfg, args, &columnsFlags.source, nil)
	if err != nil {
		return cli.NewCommandError("columns", err)
	}

	format, err := cli.ParseOutputFormat(columnsFlags.format)
	if err != nil {
		return cli.NewCommandError("columns", err)
	}

	expand, _ := vdata.ParseExpandMode(cfg.Source.ExpandMode)
	queue, _ := vdata.ParseQueueMode(cfg.Source.QueueMode)

	frame, err := storage.Open(commandContext(cmd), storage.OpenOptions{
		Paths:      cfg.Source.Inputs,
		Signals:    cfg.Source.Signals,
		ExpandMode: expand,
		QueueMode:  queue,
		Base64:     cfg.Source.Base64,
		Driver:     cfg.Source.Driver,
		Logger:     logger.Slog(),
	})
	if err != nil {
		return cli.NewCommandError("columns", err)
	}
	defer frame.Close()

	return cli.WriteColumns(cmd.OutOrStdout(), columnInfos(frame.Describe()), format)
}

// columnInfos lists the time column followed by the data columns.
func columnInfos(descs []storage.ColumnDesc) []cli.ColumnInfo {
	out := make([]cli.ColumnInfo, 0, len(descs)+1)
	out = append(out, cli.ColumnInfo{Index: 0, Name: vdata.TimeColumn, Kind: "time"})
	for i, d := range descs {
		kind := "signal"
		if d.Field != "" {
			kind = "field"
		}
		out = append(out, cli.ColumnInfo{
			Index:  i + 1,
			Name:   d.Name,
			Signal: d.Signal,
			Field:  d.Field,
			Kind:   kind,
		})
	}
	return out
}
