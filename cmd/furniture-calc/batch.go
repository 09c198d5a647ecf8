package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/furniture-charges/internal/core/async"
	"github.com/joseph-ayodele/furniture-charges/internal/ingest"
)

var (
	batchDir        string
	batchOutDir     string
	batchMonths     int
	batchSave       bool
	batchSkipHidden bool
)

var batchCmd = &cobra.Command{
	Use:   "batch --dir DIR [--out-dir OUT]",
	Short: "Process every inventory file under a directory",
	Long: `Walks DIR for .xls, .xlsx and .docx files, processes them on a worker pool,
and writes one <name>.charges.xlsx per file into OUT (default: next to each source).`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory to scan (required)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for results workbooks")
	batchCmd.Flags().IntVar(&batchMonths, "months", 0, "storage duration in months")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "archive each quote")
	batchCmd.Flags().BoolVar(&batchSkipHidden, "skip-hidden", true, "skip dot-files and office lock files")
	_ = batchCmd.MarkFlagRequired("dir")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, batchMonths)
	if err != nil {
		return err
	}
	defer a.close()

	uc := ingest.NewUsecase(a.processor, a.exporter, nil, batchOutDir, a.logger)
	if batchSave {
		if uc.Quotes = a.quotes(); uc.Quotes == nil {
			return errors.New("--save needs DB_URL, SQLITE_PATH or --inmem")
		}
	}

	results, stats, err := uc.RunDirectory(ctx, batchDir, batchSkipHidden,
		async.WithWorkers(a.cfg.Worker.Workers),
		async.WithQueueSize(a.cfg.Worker.QueueSize),
		async.WithProcessTimeout(a.cfg.Worker.ProcessTimeout),
	)
	renderBatch(cmd.OutOrStdout(), results, stats)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return errors.New("some files failed")
	}
	return nil
}
