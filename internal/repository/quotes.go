package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

// createdLayout is fixed-width so created_at sorts correctly as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

type QuoteRepository interface {
	Save(ctx context.Context, source string, res charges.Result) (*entity.Quote, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Quote, error)
	List(ctx context.Context, limit int) ([]*entity.Quote, error)
}

type quoteRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewQuoteRepository(db *DB, logger *slog.Logger) QuoteRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &quoteRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *quoteRepository) Save(ctx context.Context, source string, res charges.Result) (*entity.Quote, error) {
	rows := res.Rows
	if rows == nil {
		rows = []entity.ChargedLine{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal rows: %w", err)
	}

	q := &entity.Quote{
		ID:        uuid.New(),
		Source:    source,
		Rows:      rows,
		Totals:    res.Totals,
		CreatedAt: r.now(),
	}
	query := fmt.Sprintf(`INSERT INTO quotes (id, source, rows_json, receiving_total, storage_total, created_at)
VALUES (%s, %s, %s, %s, %s, %s)`,
		r.db.placeholder(1), r.db.placeholder(2), r.db.placeholder(3),
		r.db.placeholder(4), r.db.placeholder(5), r.db.placeholder(6))

	if _, err := r.db.SQL.ExecContext(ctx, query,
		q.ID.String(), q.Source, string(raw),
		q.Totals.Receiving.String(), q.Totals.Storage.String(),
		q.CreatedAt.Format(createdLayout),
	); err != nil {
		r.logger.Error("quote.save.failed", "error", err)
		return nil, common.NewAppError("DB_ERROR", "save quote", errors.Join(common.ErrDatabase, err))
	}

	r.logger.Info("quote.save.ok", "quote_id", q.ID.String(), "rows", len(rows))
	return q, nil
}

func (r *quoteRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	query := fmt.Sprintf(`SELECT id, source, rows_json, receiving_total, storage_total, created_at
FROM quotes WHERE id = %s`, r.db.placeholder(1))

	q, err := scanQuote(r.db.SQL.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", "quote "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("quote.get.failed", "quote_id", id.String(), "error", err)
		return nil, err
	}
	return q, nil
}

func (r *quoteRepository) List(ctx context.Context, limit int) ([]*entity.Quote, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, source, rows_json, receiving_total, storage_total, created_at
FROM quotes ORDER BY created_at DESC LIMIT %s`, r.db.placeholder(1))

	rows, err := r.db.SQL.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(s scanner) (*entity.Quote, error) {
	var (
		id, source, rowsJSON, receiving, storage, created string
	)
	if err := s.Scan(&id, &source, &rowsJSON, &receiving, &storage, &created); err != nil {
		return nil, err
	}

	q := &entity.Quote{Source: source}
	var err error
	if q.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("quote id: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &q.Rows); err != nil {
		return nil, fmt.Errorf("quote rows: %w", err)
	}
	if q.Totals.Receiving, err = decimal.NewFromString(receiving); err != nil {
		return nil, fmt.Errorf("receiving total: %w", err)
	}
	if q.Totals.Storage, err = decimal.NewFromString(storage); err != nil {
		return nil, fmt.Errorf("storage total: %w", err)
	}
	if q.CreatedAt, err = time.Parse(createdLayout, created); err != nil {
		return nil, fmt.Errorf("created at: %w", err)
	}
	return q, nil
}
