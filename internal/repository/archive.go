package repository

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/furniture-charges/internal/common"
)

// Archive is an opened quote archive plus its cleanup.
type Archive struct {
	DB     *DB
	Quotes QuoteRepository
	close  func()
}

// Cleanup closes the underlying database. Safe on a nil Archive.
func (a *Archive) Cleanup() {
	if a != nil && a.close != nil {
		a.close()
	}
}

// InitArchive opens the quote archive described by cfg. inmem forces a
// throwaway SQLite database. It returns (nil, nil) when nothing is configured.
func InitArchive(ctx context.Context, cfg common.DatabaseConfig, inmem bool, logger *slog.Logger) (*Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dbCfg := Config{
		DSN:             cfg.DSN,
		SQLitePath:      cfg.SQLitePath,
		MaxConns:        cfg.MaxConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
		DialTimeout:     cfg.DialTimeout,
	}
	if inmem {
		dbCfg.DSN, dbCfg.SQLitePath = "", InMemory
	}
	if dbCfg.DSN == "" && dbCfg.SQLitePath == "" {
		logger.Info("quote archive disabled")
		return nil, nil
	}

	db, err := Open(ctx, dbCfg, logger)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "open quote archive", err)
	}
	return &Archive{
		DB:     db,
		Quotes: NewQuoteRepository(db, logger),
		close:  func() { Close(db, logger) },
	}, nil
}
