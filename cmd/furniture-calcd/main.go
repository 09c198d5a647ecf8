package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/core"
	"github.com/joseph-ayodele/furniture-charges/internal/export"
	"github.com/joseph-ayodele/furniture-charges/internal/observability/metrics"
	"github.com/joseph-ayodele/furniture-charges/internal/repository"
	"github.com/joseph-ayodele/furniture-charges/internal/server"
)

func main() {
	inmem := flag.Bool("inmem", false, "archive quotes in an in-memory SQLite database")
	debug := flag.Bool("debug", false, "enable debug logging and gin debug mode")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	table, err := cfg.LoadPriceTable()
	if err != nil {
		logger.Error("failed to load price sheet", "path", cfg.Pricing.PriceSheetPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archive, err := repository.InitArchive(ctx, cfg.Database, *inmem, logger)
	if err != nil {
		logger.Error("failed to initialize quote archive", "error", err)
		os.Exit(1)
	}
	defer archive.Cleanup()

	metrics.Init()
	logger.Info("starting furniture-calcd",
		"addr", cfg.Server.HTTPAddr,
		"archive", cfg.ArchiveEnabled() || *inmem,
		"price_sheet", cfg.Pricing.PriceSheetPath,
	)

	deps := server.Deps{
		Processor: core.NewProcessor(logger, table, cfg.Pricing.DefaultDurationMonths),
		Exporter:  export.NewService(logger),
		Config:    cfg.Server,
		Logger:    logger,
	}
	if archive != nil {
		deps.DB = archive.DB
		deps.Quotes = archive.Quotes
	}

	if err := server.ListenAndServe(ctx, cfg.Server.HTTPAddr, server.NewRouter(deps), 10*time.Second, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
