package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/foodshop/backend/internal/domain/catalog"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	domainops "github.com/foodshop/backend/internal/domain/operations"
	domainsales "github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dayFixture struct {
	repos       *memRepos
	ingredients *memIngredients
	variants    *memVariants
	service     *DailyRecordService
}

func newDayFixture() *dayFixture {
	repos := newMemRepos()
	ingredients := newMemIngredients()
	variants := newMemVariants()
	service := NewDailyRecordService(
		&NoOpTransactionScope{Repos: repos},
		repos.dailyRecords,
		repos.snapshots,
		repos.deliveries,
		repos.transfers,
		repos.spoilages,
		repos.batches,
		repos.recorded,
		repos.calculated,
		ingredients,
		variants,
		nil,
		zap.NewNop(),
	)
	return &dayFixture{repos: repos, ingredients: ingredients, variants: variants, service: service}
}

func (f *dayFixture) addIngredient(name, unit string, active bool) catalog.Ingredient {
	ingredient, err := catalog.NewIngredient(name, unit)
	if err != nil {
		panic(err)
	}
	ingredient.Active = active
	f.ingredients.items[ingredient.ID] = *ingredient
	return *ingredient
}

func (f *dayFixture) addVariant(name, price string, recipe map[uuid.UUID]string, primary uuid.UUID) catalog.ProductVariant {
	variant, err := catalog.NewProductVariant(name, decimal.RequireFromString(price))
	if err != nil {
		panic(err)
	}
	for ingredientID, qty := range recipe {
		if err := variant.AddRecipeLine(ingredientID, decimal.RequireFromString(qty), ingredientID == primary); err != nil {
			panic(err)
		}
	}
	f.variants.items[variant.ID] = *variant
	return *variant
}

func TestDailyRecordServiceOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a day with opening snapshots", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)

		resp, err := f.service.Open(ctx, OpenDayRequest{
			Date: mustDate("2026-01-05"),
			OpeningCounts: []IngredientCount{
				{IngredientID: flour.ID, Quantity: decimal.RequireFromString("50")},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "OPEN", resp.Status)
		assert.Equal(t, "2026-01-05", resp.Date)

		snapshots, err := f.repos.snapshots.FindByRecordAndKind(ctx, resp.ID, domainops.SnapshotKindOpen)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)
		assert.True(t, snapshots[0].Quantity.Equal(decimal.RequireFromString("50")))
		assert.Equal(t, domaininv.LocationShop, snapshots[0].Location)
	})

	t.Run("rejects a second record for the same date", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)
		counts := []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.NewFromInt(10)}}

		_, err := f.service.Open(ctx, OpenDayRequest{Date: mustDate("2026-01-05"), OpeningCounts: counts})
		require.NoError(t, err)

		_, err = f.service.Open(ctx, OpenDayRequest{Date: mustDate("2026-01-05"), OpeningCounts: counts})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("allows opening while an earlier day is still open", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)
		counts := []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.NewFromInt(10)}}

		_, err := f.service.Open(ctx, OpenDayRequest{Date: mustDate("2026-01-04"), OpeningCounts: counts})
		require.NoError(t, err)

		resp, err := f.service.Open(ctx, OpenDayRequest{Date: mustDate("2026-01-05"), OpeningCounts: counts})
		require.NoError(t, err)
		assert.Equal(t, "OPEN", resp.Status)
	})

	t.Run("rejects inactive ingredients", func(t *testing.T) {
		f := newDayFixture()
		retired := f.addIngredient("Old Spice Mix", "kg", false)

		_, err := f.service.Open(ctx, OpenDayRequest{
			Date:          mustDate("2026-01-05"),
			OpeningCounts: []IngredientCount{{IngredientID: retired.ID, Quantity: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_INGREDIENT", domainErr.Code)
	})

	t.Run("rejects unknown ingredients", func(t *testing.T) {
		f := newDayFixture()
		_, err := f.service.Open(ctx, OpenDayRequest{
			Date:          mustDate("2026-01-05"),
			OpeningCounts: []IngredientCount{{IngredientID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects empty opening counts", func(t *testing.T) {
		f := newDayFixture()
		_, err := f.service.Open(ctx, OpenDayRequest{Date: mustDate("2026-01-05")})
		require.Error(t, err)
	})
}

func TestDailyRecordServiceClose(t *testing.T) {
	ctx := context.Background()

	t.Run("derives sales and financials from counted usage", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)
		pie := f.addVariant("Meat Pie", "3.50", map[uuid.UUID]string{flour.ID: "0.15"}, flour.ID)

		opened, err := f.service.Open(ctx, OpenDayRequest{
			Date:          mustDate("2026-01-05"),
			OpeningCounts: []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.RequireFromString("50")}},
		})
		require.NoError(t, err)

		// One delivery of 20 kg and 2 kg spoilage during the day.
		delivery, err := domaininv.NewDelivery(opened.ID, "Miller & Co", decimal.RequireFromString("30.00"), domaininv.LocationShop, mustDate("2026-01-05"))
		require.NoError(t, err)
		require.NoError(t, delivery.AddItem(flour.ID, decimal.RequireFromString("20"), nil, nil))
		require.NoError(t, f.repos.deliveries.Save(ctx, delivery))

		spoilage, err := domaininv.NewSpoilage(opened.ID, flour.ID, nil, decimal.RequireFromString("2"), domaininv.SpoilageReasonDamaged, "")
		require.NoError(t, err)
		require.NoError(t, f.repos.spoilages.Save(ctx, spoilage))

		closed, err := f.service.Close(ctx, CloseDayRequest{
			RecordID:      opened.ID,
			ClosingCounts: []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.RequireFromString("38")}},
			Notes:         "normal day",
		})
		require.NoError(t, err)
		assert.Equal(t, "CLOSED", closed.Status)
		require.NotNil(t, closed.ClosedAt)

		// usage 50+20-2-38 = 30 kg, 30/0.15 = 200 pies at 3.50
		assert.True(t, closed.TotalIncome.Equal(decimal.RequireFromString("700.00")), closed.TotalIncome.String())
		assert.True(t, closed.DeliveryCost.Equal(decimal.RequireFromString("30.00")))
		assert.True(t, closed.CalculatedRevenue.Equal(decimal.RequireFromString("700.00")))

		derived, err := f.repos.calculated.FindByDailyRecord(ctx, opened.ID)
		require.NoError(t, err)
		require.Len(t, derived, 1)
		assert.Equal(t, pie.ID, derived[0].VariantID)
		assert.Equal(t, int64(200), derived[0].Quantity)
	})

	t.Run("includes recorded revenue and spoilage cost", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)
		pie := f.addVariant("Meat Pie", "3.50", map[uuid.UUID]string{flour.ID: "0.15"}, flour.ID)

		opened, err := f.service.Open(ctx, OpenDayRequest{
			Date:          mustDate("2026-01-05"),
			OpeningCounts: []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.RequireFromString("10")}},
		})
		require.NoError(t, err)

		unitCost := decimal.RequireFromString("1.50")
		batch, err := domaininv.NewIngredientBatch("B-20260105-001", flour.ID, nil, nil, decimal.RequireFromString("20"), &unitCost, domaininv.LocationShop)
		require.NoError(t, err)
		require.NoError(t, f.repos.batches.Save(ctx, batch))

		spoilage, err := domaininv.NewSpoilage(opened.ID, flour.ID, &batch.ID, decimal.RequireFromString("2"), domaininv.SpoilageReasonExpired, "")
		require.NoError(t, err)
		require.NoError(t, f.repos.spoilages.Save(ctx, spoilage))

		sale, err := domainsales.NewRecordedSale(opened.ID, pie.ID, 3, decimal.RequireFromString("3.50"), nil)
		require.NoError(t, err)
		require.NoError(t, f.repos.recorded.Save(ctx, sale))

		voided, err := domainsales.NewRecordedSale(opened.ID, pie.ID, 100, decimal.RequireFromString("3.50"), nil)
		require.NoError(t, err)
		require.NoError(t, voided.MarkVoided("MISTAKE", ""))
		require.NoError(t, f.repos.recorded.Save(ctx, voided))

		closed, err := f.service.Close(ctx, CloseDayRequest{
			RecordID:      opened.ID,
			ClosingCounts: []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.RequireFromString("7.55")}},
		})
		require.NoError(t, err)

		// 3 pies at 3.50; the voided 100-unit sale stays out
		assert.True(t, closed.RecordedRevenue.Equal(decimal.RequireFromString("10.50")), closed.RecordedRevenue.String())
		// 2 kg at 1.50 batch unit cost
		assert.True(t, closed.SpoilageCost.Equal(decimal.RequireFromString("3.00")), closed.SpoilageCost.String())
		assert.True(t, closed.DiscrepancyRevenue.Equal(closed.RecordedRevenue.Sub(closed.CalculatedRevenue)))
	})

	t.Run("fails when the day is already closed", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)
		counts := []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.NewFromInt(10)}}

		opened, err := f.service.Open(ctx, OpenDayRequest{Date: mustDate("2026-01-05"), OpeningCounts: counts})
		require.NoError(t, err)

		_, err = f.service.Close(ctx, CloseDayRequest{RecordID: opened.ID, ClosingCounts: counts})
		require.NoError(t, err)

		_, err = f.service.Close(ctx, CloseDayRequest{RecordID: opened.ID, ClosingCounts: counts})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("fails for an unknown record", func(t *testing.T) {
		f := newDayFixture()
		_, err := f.service.Close(ctx, CloseDayRequest{RecordID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDailyRecordServiceEditClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("replays the close with corrected counts", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)
		f.addVariant("Meat Pie", "3.50", map[uuid.UUID]string{flour.ID: "0.15"}, flour.ID)

		opened, err := f.service.Open(ctx, OpenDayRequest{
			Date:          mustDate("2026-01-05"),
			OpeningCounts: []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.RequireFromString("50")}},
		})
		require.NoError(t, err)

		_, err = f.service.Close(ctx, CloseDayRequest{
			RecordID:      opened.ID,
			ClosingCounts: []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.RequireFromString("38")}},
		})
		require.NoError(t, err)

		// The counter misread the scale; actual closing stock was 35 kg.
		edited, err := f.service.EditClosed(ctx, EditClosedDayRequest{
			RecordID:      opened.ID,
			ClosingCounts: []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.RequireFromString("35")}},
			Notes:         "corrected closing count",
		})
		require.NoError(t, err)
		assert.Equal(t, "CLOSED", edited.Status)
		// usage 15/0.15 = 100 pies at 3.50
		assert.True(t, edited.TotalIncome.Equal(decimal.RequireFromString("350.00")), edited.TotalIncome.String())

		// exactly one closing snapshot set and one derived row remain
		closeSnaps, err := f.repos.snapshots.FindByRecordAndKind(ctx, opened.ID, domainops.SnapshotKindClose)
		require.NoError(t, err)
		require.Len(t, closeSnaps, 1)
		assert.True(t, closeSnaps[0].Quantity.Equal(decimal.RequireFromString("35")))

		derived, err := f.repos.calculated.FindByDailyRecord(ctx, opened.ID)
		require.NoError(t, err)
		require.Len(t, derived, 1)
		assert.Equal(t, int64(100), derived[0].Quantity)
	})

	t.Run("rejects editing an open day", func(t *testing.T) {
		f := newDayFixture()
		flour := f.addIngredient("Flour", "kg", true)
		counts := []IngredientCount{{IngredientID: flour.ID, Quantity: decimal.NewFromInt(10)}}

		opened, err := f.service.Open(ctx, OpenDayRequest{Date: mustDate("2026-01-05"), OpeningCounts: counts})
		require.NoError(t, err)

		_, err = f.service.EditClosed(ctx, EditClosedDayRequest{RecordID: opened.ID, ClosingCounts: counts})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestDailyRecordServiceSummary(t *testing.T) {
	ctx := context.Background()

	f := newDayFixture()
	flour := f.addIngredient("Flour", "kg", true)
	sugar := f.addIngredient("Sugar", "kg", true)
	f.addVariant("Meat Pie", "3.50", map[uuid.UUID]string{flour.ID: "0.15"}, flour.ID)

	opened, err := f.service.Open(ctx, OpenDayRequest{
		Date: mustDate("2026-01-05"),
		OpeningCounts: []IngredientCount{
			{IngredientID: flour.ID, Quantity: decimal.RequireFromString("50")},
			{IngredientID: sugar.ID, Quantity: decimal.RequireFromString("10")},
		},
	})
	require.NoError(t, err)

	_, err = f.service.Close(ctx, CloseDayRequest{
		RecordID: opened.ID,
		ClosingCounts: []IngredientCount{
			{IngredientID: flour.ID, Quantity: decimal.RequireFromString("38")},
			// sugar drifted 20 percent, should raise an alert
			{IngredientID: sugar.ID, Quantity: decimal.RequireFromString("8")},
		},
	})
	require.NoError(t, err)

	summary, err := f.service.Summary(ctx, opened.ID)
	require.NoError(t, err)

	require.Len(t, summary.Usage, 2)
	byName := make(map[string]UsageRow)
	for _, row := range summary.Usage {
		byName[row.IngredientName] = row
	}
	assert.True(t, byName["Flour"].Usage.Equal(decimal.RequireFromString("12")))
	assert.Equal(t, "kg", byName["Flour"].Unit)
	assert.Equal(t, string(domainops.DiscrepancyLevelCritical), byName["Flour"].Level)

	require.Len(t, summary.CalculatedSales, 1)
	assert.Equal(t, "Meat Pie", summary.CalculatedSales[0].VariantName)
	assert.Equal(t, int64(80), summary.CalculatedSales[0].Quantity)

	require.NotEmpty(t, summary.DiscrepancyAlerts)
	names := make([]string, 0, len(summary.DiscrepancyAlerts))
	for _, alert := range summary.DiscrepancyAlerts {
		names = append(names, alert.IngredientName)
	}
	assert.Contains(t, names, "Sugar")
}
