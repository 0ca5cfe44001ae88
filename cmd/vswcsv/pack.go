package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"vdatahq/vswcsv/pkg/cli"
	"vdatahq/vswcsv/pkg/telemetry/logging"
	"vdatahq/vswcsv/pkg/vdata/storage"
)

// defaultPackBatch is the number of samples written per transaction.
const defaultPackBatch = 5000

var packFlags struct {
	output string
	base64 bool
	driver string
	batch  int
	wal    bool
}

var packCmd = &cobra.Command{
	Use:   "pack [inputs...]",
	Short: "Pack sample logs into a SQLite sample store",
	Long: `Read JSON-lines sample logs (or other sample stores) and append their samples
to a SQLite sample store, creating it when missing.

Inputs follow the same discovery rules as export. The output store itself is
never read as an input.

Examples:
  vswcsv pack -o store.vsdb ./logs
  vswcsv pack -o store.vsdb -b ./captures --driver sqlite3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringVarP(&packFlags.output, "output", "o", "", "sample store to write (required)")
	packCmd.Flags().BoolVarP(&packFlags.base64, "base64", "b", false, "inputs are MIME base64 encoded")
	packCmd.Flags().StringVar(&packFlags.driver, "driver", "", "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")
	packCmd.Flags().IntVar(&packFlags.batch, "batch", defaultPackBatch, "samples per transaction")
	packCmd.Flags().BoolVar(&packFlags.wal, "wal", true, "enable WAL journal mode on the store")
	packCmd.MarkFlagRequired("output")
}

type packOptions struct {
	paths  []string
	output string
	driver string
	base64 bool
	batch  int
	wal    bool
}

type packResult struct {
	inputs  int
	samples int64
	signals int
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig("pack")
	if err != nil {
		return err
	}

	driver := cfg.Source.Driver
	if cmd.Flags().Changed("driver") {
		driver = packFlags.driver
	}
	if packFlags.batch <= 0 {
		return cli.NewCommandError("pack", cli.NewConfigError("batch", "batch size must be positive"))
	}

	var paths []string
	for _, arg := range args {
		paths = append(paths, storage.SplitPaths(arg)...)
	}

	ctx := logging.WithCommand(commandContext(cmd), "pack")
	res, err := packInputs(ctx, logger, packOptions{
		paths:  paths,
		output: packFlags.output,
		driver: driver,
		base64: packFlags.base64,
		batch:  packFlags.batch,
		wal:    packFlags.wal,
	})
	if err != nil {
		return cli.NewCommandError("pack", err)
	}

	size := ""
	if info, err := os.Stat(packFlags.output); err == nil {
		size = humanize.IBytes(uint64(info.Size()))
	}
	out := cmd.ErrOrStderr()
	color.New(color.FgGreen, color.Bold).Fprintf(out, "✓ Packed %s samples from %d inputs into %s\n",
		humanize.Comma(res.samples), res.inputs, packFlags.output)
	if size != "" {
		fmt.Fprintf(out, "  Signals: %d, Size: %s\n", res.signals, size)
	}
	return nil
}

// packInputs appends every sample of the discovered inputs to the store at
// output. Each input is copied in time order, in batches.
func packInputs(ctx context.Context, logger *logging.Logger, opts packOptions) (*packResult, error) {
	found, err := storage.Discover(opts.paths, opts.base64, logger.Slog())
	if err != nil {
		return nil, err
	}

	outAbs, _ := filepath.Abs(opts.output)
	var inputs []storage.DiscoveredInput
	for _, d := range found {
		if abs, _ := filepath.Abs(d.Path); abs == outAbs {
			logger.DebugContext(ctx, "skipping output store as input", "path", d.Path)
			continue
		}
		inputs = append(inputs, d)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("nothing to pack besides %s", opts.output)
	}

	storeCfg := storage.DefaultSQLiteConfig()
	storeCfg.Path = opts.output
	storeCfg.WALMode = opts.wal
	if opts.driver != "" {
		storeCfg.Driver = opts.driver
	}
	store, err := storage.CreateSQLiteStore(ctx, storeCfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	res := &packResult{}
	for _, d := range inputs {
		n, err := packInput(ctx, store, d, opts.driver, opts.batch)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "input packed", "path", d.Path, "samples", n)
		res.inputs++
		res.samples += n
	}
	res.signals = len(store.Signals())
	return res, nil
}

func packInput(ctx context.Context, store *storage.SQLiteStore, d storage.DiscoveredInput, driver string, batchSize int) (int64, error) {
	in, err := storage.OpenInput(ctx, d, driver)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	cursor, err := in.Cursor(nil)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	var total int64
	batch := make([]storage.Sample, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.Append(ctx, batch); err != nil {
			return err
		}
		total += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for cursor.Next() {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		batch = append(batch, cursor.Sample())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return total, err
	}
	return total, flush()
}
