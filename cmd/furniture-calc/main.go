package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/core"
	"github.com/joseph-ayodele/furniture-charges/internal/export"
	"github.com/joseph-ayodele/furniture-charges/internal/repository"
)

var (
	verbose    bool
	pricesPath string
	inmem      bool
)

var rootCmd = &cobra.Command{
	Use:           "furniture-calc",
	Short:         "Compute receiving and storage charges for furniture inventories",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&pricesPath, "prices", "", "YAML price sheet overriding the built-in prices")
	rootCmd.PersistentFlags().BoolVar(&inmem, "inmem", false, "archive quotes in an in-memory SQLite database")

	rootCmd.AddCommand(calcCmd, batchCmd, watchCmd, priceSheetCmd)
}

// app is what every subcommand is built from.
type app struct {
	cfg       *common.Config
	logger    *slog.Logger
	processor *core.Processor
	exporter  *export.Service
	archive   *repository.Archive
}

func newApp(ctx context.Context, months int) (*app, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if pricesPath != "" {
		cfg.Pricing.PriceSheetPath = pricesPath
	}
	if months > 0 {
		cfg.Pricing.DefaultDurationMonths = months
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	table, err := cfg.LoadPriceTable()
	if err != nil {
		return nil, fmt.Errorf("load price sheet: %w", err)
	}
	archive, err := repository.InitArchive(ctx, cfg.Database, inmem, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		processor: core.NewProcessor(logger, table, cfg.Pricing.DefaultDurationMonths),
		exporter:  export.NewService(logger),
		archive:   archive,
	}, nil
}

func (a *app) quotes() repository.QuoteRepository {
	if a.archive == nil {
		return nil
	}
	return a.archive.Quotes
}

func (a *app) close() {
	a.archive.Cleanup()
}

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
