package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL backend behind a DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// InMemory is the SQLitePath value for a throwaway archive.
const InMemory = ":memory:"

type Config struct {
	DSN             string // postgres URL; wins over SQLitePath
	SQLitePath      string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// DB bundles the database handle with its dialect and, for postgres, the pool.
type DB struct {
	SQL     *sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// Open connects to postgres (pgx pool wrapped as *sql.DB) when DSN is set,
// otherwise to SQLite at SQLitePath, and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db  *DB
		err error
	)
	switch {
	case cfg.DSN != "":
		db, err = openPostgres(ctx, cfg, logger)
	case cfg.SQLitePath != "":
		db, err = openSQLite(cfg, logger)
	default:
		return nil, errors.New("repository: no DSN or SQLite path configured")
	}
	if err != nil {
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		Close(db, logger)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("successfully connected to database", "dialect", db.Dialect)
	return db, nil
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "dialect", DialectPostgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database url", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "furniture-charges"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	return &DB{SQL: stdlib.OpenDBFromPool(pool), Dialect: DialectPostgres, pool: pool}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("opening sqlite archive", "path", cfg.SQLitePath)
	sqlDB, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open sqlite", "error", err)
		return nil, err
	}
	// one connection: every new :memory: connection would be a fresh database
	sqlDB.SetMaxOpenConns(1)
	return &DB{SQL: sqlDB, Dialect: DialectSQLite}, nil
}

// Close closes the database connections gracefully
func Close(db *DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("closing database connections")
	if err := db.SQL.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the database with an optional timeout.
func HealthCheck(ctx context.Context, db *DB, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	logger.Debug("pinging database")
	if err := db.SQL.PingContext(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id              TEXT PRIMARY KEY,
	source          TEXT NOT NULL,
	rows_json       TEXT NOT NULL,
	receiving_total TEXT NOT NULL,
	storage_total   TEXT NOT NULL,
	created_at      TEXT NOT NULL
)`

func migrate(ctx context.Context, db *DB) error {
	_, err := db.SQL.ExecContext(ctx, schema)
	return err
}

// placeholder returns the n-th (1-based) bind parameter for the dialect.
func (db *DB) placeholder(n int) string {
	if db.Dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
