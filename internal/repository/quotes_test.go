package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(context.Background(), Config{SQLitePath: InMemory}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db, logger) })
	require.NoError(t, HealthCheck(context.Background(), db, time.Second, logger))
	return db
}

func TestQuoteRepository_SaveGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuoteRepository(db, nil)
	ctx := context.Background()

	res := charges.Calculate([]entity.LineItem{{
		Name: "SOFA 9", Quantity: 2, Category: constants.Sofa9,
		UnitPrice: decimal.RequireFromString("125"), StorageDurationMonths: 2,
	}})
	saved, err := repo.Save(ctx, "move.docx", res)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "move.docx", got.Source)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "SOFA 9", got.Rows[0].Name)
	assert.Equal(t, constants.Sofa9, got.Rows[0].Category)
	assert.True(t, decimal.NewFromInt(500).Equal(got.Rows[0].StorageTotal))
	assert.Equal(t, "250", got.Totals.Receiving.String())
	assert.Equal(t, "500", got.Totals.Storage.String())
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestQuoteRepository_NotFound(t *testing.T) {
	repo := NewQuoteRepository(openTestDB(t), nil)
	_, err := repo.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestQuoteRepository_List(t *testing.T) {
	repo := NewQuoteRepository(openTestDB(t), nil)
	ctx := context.Background()

	for _, src := range []string{"a.xlsx", "b.xlsx", "c.docx"} {
		_, err := repo.Save(ctx, src, charges.Calculate(nil))
		require.NoError(t, err)
	}
	quotes, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Empty(t, quotes[0].Rows)
}

func TestOpen_NoBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	assert.Error(t, err)
}

func TestInitArchive(t *testing.T) {
	a, err := InitArchive(context.Background(), common.DatabaseConfig{}, false, nil)
	require.NoError(t, err)
	assert.Nil(t, a)
	a.Cleanup()

	a, err = InitArchive(context.Background(), common.DatabaseConfig{DSN: "postgres://ignored"}, true, nil)
	require.NoError(t, err)
	require.NotNil(t, a)
	defer a.Cleanup()
	assert.Equal(t, DialectSQLite, a.DB.Dialect)
}
