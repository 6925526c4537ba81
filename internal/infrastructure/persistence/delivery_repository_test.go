package persistence

import (
	"context"
	"testing"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDelivery(t *testing.T, repo *GormDeliveryRepository, recordID, flourID, sugarID uuid.UUID) *inventory.Delivery {
	t.Helper()
	delivery, err := inventory.NewDelivery(recordID, "Miller & Co", decimal.RequireFromString("45.50"), inventory.LocationShop, testDate(t, "2026-01-05"))
	require.NoError(t, err)
	unitCost := decimal.RequireFromString("1.50")
	require.NoError(t, delivery.AddItem(flourID, decimal.RequireFromString("20"), &unitCost, nil))
	require.NoError(t, delivery.AddItem(sugarID, decimal.RequireFromString("5.5"), nil, nil))
	require.NoError(t, repo.Save(context.Background(), delivery))
	return delivery
}

func TestGormDeliveryRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDeliveryRepository(db)
	ctx := context.Background()

	recordID := uuid.New()
	flourID := uuid.New()
	sugarID := uuid.New()
	delivery := seedDelivery(t, repo, recordID, flourID, sugarID)

	t.Run("loads delivery with items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, delivery.ID)
		require.NoError(t, err)
		assert.Equal(t, "Miller & Co", found.Supplier)
		assert.Equal(t, inventory.LocationShop, found.Destination)
		require.Len(t, found.Items, 2)
		assert.True(t, found.QuantityFor(flourID).Equal(decimal.RequireFromString("20")))
		for _, item := range found.Items {
			if item.IngredientID == flourID {
				require.NotNil(t, item.UnitCost)
				assert.True(t, item.UnitCost.Equal(decimal.RequireFromString("1.50")))
			}
		}
	})

	t.Run("lists by daily record", func(t *testing.T) {
		deliveries, err := repo.FindByDailyRecord(ctx, recordID)
		require.NoError(t, err)
		require.Len(t, deliveries, 1)
		assert.Len(t, deliveries[0].Items, 2)
	})

	t.Run("sums quantities per ingredient", func(t *testing.T) {
		quantities, err := repo.QuantitiesByDailyRecord(ctx, recordID)
		require.NoError(t, err)
		require.Len(t, quantities, 2)
		assert.True(t, quantities[flourID].Equal(decimal.RequireFromString("20")))
		assert.True(t, quantities[sugarID].Equal(decimal.RequireFromString("5.5")))
	})

	t.Run("sums invoice costs", func(t *testing.T) {
		total, err := repo.TotalCostByDailyRecord(ctx, recordID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("45.50")))
	})

	t.Run("total cost is zero for a day without deliveries", func(t *testing.T) {
		total, err := repo.TotalCostByDailyRecord(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestGormDeliveryRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDeliveryRepository(db)
	ctx := context.Background()

	recordID := uuid.New()
	delivery := seedDelivery(t, repo, recordID, uuid.New(), uuid.New())

	require.NoError(t, repo.Delete(ctx, delivery.ID))

	_, err := repo.FindByID(ctx, delivery.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	quantities, err := repo.QuantitiesByDailyRecord(ctx, recordID)
	require.NoError(t, err)
	assert.Empty(t, quantities)

	assert.ErrorIs(t, repo.Delete(ctx, delivery.ID), shared.ErrNotFound)
}
