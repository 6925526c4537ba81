package sales

import (
	"sort"
	"time"

	"github.com/foodshop/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DerivationResult is the outcome of back-deriving a day's sales from
// ingredient usage.
type DerivationResult struct {
	Sales       []CalculatedSale
	TotalIncome decimal.Decimal
}

// DeriveSales estimates units sold per product variant from ingredient
// usage. For each active variant with exactly one primary recipe line:
//
//	rawQty       = usage(primaryIngredient) / recipeQtyPerUnit
//	quantitySold = ceil(rawQty)
//	revenue      = quantitySold × price
//
// Variants without a primary line, with a non-positive recipe quantity, or
// whose primary ingredient's usage is non-positive produce no row. Rows are
// ordered by variant ID for determinism.
func DeriveSales(dailyRecordID uuid.UUID, usage map[uuid.UUID]decimal.Decimal, variants []catalog.ProductVariant) DerivationResult {
	result := DerivationResult{
		Sales:       make([]CalculatedSale, 0),
		TotalIncome: decimal.Zero,
	}

	sorted := make([]catalog.ProductVariant, len(variants))
	copy(sorted, variants)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	for _, variant := range sorted {
		if !variant.Active {
			continue
		}
		primary, ok := variant.PrimaryLine()
		if !ok || primary.QuantityPerUnit.Sign() <= 0 {
			continue
		}
		used, ok := usage[primary.IngredientID]
		if !ok || used.Sign() <= 0 {
			continue
		}

		rawQty := used.Div(primary.QuantityPerUnit)
		quantitySold := rawQty.Ceil().IntPart()
		revenue := variant.Price.Mul(decimal.NewFromInt(quantitySold))

		result.Sales = append(result.Sales, CalculatedSale{
			ID:            uuid.New(),
			DailyRecordID: dailyRecordID,
			VariantID:     variant.ID,
			Quantity:      quantitySold,
			Revenue:       revenue,
			CreatedAt:     time.Now(),
		})
		result.TotalIncome = result.TotalIncome.Add(revenue)
	}

	return result
}
