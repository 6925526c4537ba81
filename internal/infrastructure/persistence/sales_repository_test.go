package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRecordedSaleRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRecordedSaleRepository(db)
	ctx := context.Background()

	recordID := uuid.New()
	variantID := uuid.New()
	sale, err := sales.NewRecordedSale(recordID, variantID, 3, decimal.RequireFromString("3.50"), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sale))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, variantID, found.VariantID)
		assert.Equal(t, int64(3), found.Quantity)
		assert.True(t, found.Revenue().Equal(decimal.RequireFromString("10.50")))
		assert.False(t, found.IsVoided())
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("voided state survives the roundtrip", func(t *testing.T) {
		require.NoError(t, sale.MarkVoided("entry error", "fat fingers"))
		require.NoError(t, repo.Save(ctx, sale))

		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.True(t, found.IsVoided())
		assert.Equal(t, "entry error", found.Void.Reason)
		assert.NotNil(t, found.Void.At)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("day listing includes voided rows", func(t *testing.T) {
		listed, err := repo.FindByDailyRecord(ctx, recordID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.True(t, listed[0].IsVoided())
	})
}

func TestGormCalculatedSaleRepository_ReplaceForRecord(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCalculatedSaleRepository(db)
	ctx := context.Background()

	recordID := uuid.New()
	variantID := uuid.New()

	makeRow := func(quantity int64, revenue string) sales.CalculatedSale {
		return sales.CalculatedSale{
			ID:            uuid.New(),
			DailyRecordID: recordID,
			VariantID:     variantID,
			Quantity:      quantity,
			Revenue:       decimal.RequireFromString(revenue),
			CreatedAt:     time.Now(),
		}
	}

	require.NoError(t, repo.ReplaceForRecord(ctx, recordID, []sales.CalculatedSale{makeRow(200, "700.00")}))

	rows, err := repo.FindByDailyRecord(ctx, recordID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(200), rows[0].Quantity)

	// replaying replaces, never merges
	require.NoError(t, repo.ReplaceForRecord(ctx, recordID, []sales.CalculatedSale{makeRow(100, "350.00")}))

	rows, err = repo.FindByDailyRecord(ctx, recordID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(100), rows[0].Quantity)
	assert.True(t, rows[0].Revenue.Equal(decimal.RequireFromString("350.00")))

	// replacing with an empty set clears the day
	require.NoError(t, repo.ReplaceForRecord(ctx, recordID, nil))
	rows, err = repo.FindByDailyRecord(ctx, recordID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
