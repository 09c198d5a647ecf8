package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/furniture-charges/internal/ingest"
)

var (
	watchDirs        []string
	watchOutDir      string
	watchMonths      int
	watchDebounce    time.Duration
	watchInitialScan bool
	watchSave        bool
)

var watchCmd = &cobra.Command{
	Use:   "watch --dir DIR --out-dir OUT",
	Short: "Process inventory files as they arrive in a directory",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchDirs, "dir", nil, "directory to watch, recursively (repeatable)")
	watchCmd.Flags().StringVar(&watchOutDir, "out-dir", "", "directory for results workbooks (required)")
	watchCmd.Flags().IntVar(&watchMonths, "months", 0, "storage duration in months")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "coalesce write bursts (default WATCH_DEBOUNCE)")
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", false, "also process files already present")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "archive each quote")
	_ = watchCmd.MarkFlagRequired("dir")
	_ = watchCmd.MarkFlagRequired("out-dir")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, watchMonths)
	if err != nil {
		return err
	}
	defer a.close()

	uc := ingest.NewUsecase(a.processor, a.exporter, nil, watchOutDir, a.logger)
	if watchSave {
		if uc.Quotes = a.quotes(); uc.Quotes == nil {
			return errors.New("--save needs DB_URL, SQLITE_PATH or --inmem")
		}
	}

	debounce := watchDebounce
	if debounce <= 0 {
		debounce = a.cfg.Worker.Debounce
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %v, writing results to %s (Ctrl+C to stop)\n", watchDirs, watchOutDir)

	err = ingest.Watch(ctx, ingest.WatchConfig{
		Roots:       watchDirs,
		InitialScan: watchInitialScan,
		Debounce:    debounce,
		SkipHidden:  true,
	}, uc, a.logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
