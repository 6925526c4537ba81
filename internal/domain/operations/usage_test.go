package operations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateUsage_AccountingIdentity(t *testing.T) {
	flour := uuid.New()
	policy := DefaultInventoryDiscrepancyPolicy()

	ledger := DayLedger{
		Opening:    map[uuid.UUID]decimal.Decimal{flour: dec("50")},
		Deliveries: map[uuid.UUID]decimal.Decimal{flour: dec("20")},
		Transfers:  map[uuid.UUID]decimal.Decimal{flour: dec("0")},
		Spoilage:   map[uuid.UUID]decimal.Decimal{flour: dec("2")},
		Closing:    map[uuid.UUID]decimal.Decimal{flour: dec("38")},
	}

	rows := CalculateUsage(ledger, policy)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, flour, row.IngredientID)
	assert.True(t, row.ExpectedClosing.Equal(dec("68")))
	assert.True(t, row.Usage.Equal(dec("30")))

	// usage == opening + deliveries + transfers − spoilage − closing, exactly
	identity := row.Opening.Add(row.Deliveries).Add(row.Transfers).Sub(row.Spoilage).Sub(row.ActualClosing)
	assert.True(t, row.Usage.Equal(identity))

	// 30/68*100 ≈ 44.1% → critical under the 5/10 policy
	assert.Equal(t, DiscrepancyLevelCritical, row.Level)
	assert.True(t, row.DiscrepancyPercent.GreaterThan(dec("44")))
	assert.True(t, row.DiscrepancyPercent.LessThan(dec("45")))
}

func TestCalculateUsage_MissingEventsContributeZero(t *testing.T) {
	milk := uuid.New()
	ledger := DayLedger{
		Opening: map[uuid.UUID]decimal.Decimal{milk: dec("10")},
		Closing: map[uuid.UUID]decimal.Decimal{milk: dec("4")},
	}

	rows := CalculateUsage(ledger, DefaultInventoryDiscrepancyPolicy())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Deliveries.IsZero())
	assert.True(t, rows[0].Transfers.IsZero())
	assert.True(t, rows[0].Spoilage.IsZero())
	assert.True(t, rows[0].Usage.Equal(dec("6")))
}

func TestCalculateUsage_MissingOpeningTreatedAsZero(t *testing.T) {
	// A delivery arrived for an ingredient that had no opening count; the
	// ingredient still appears with opening 0 instead of being dropped.
	butter := uuid.New()
	ledger := DayLedger{
		Deliveries: map[uuid.UUID]decimal.Decimal{butter: dec("5")},
		Closing:    map[uuid.UUID]decimal.Decimal{butter: dec("3")},
	}

	rows := CalculateUsage(ledger, DefaultInventoryDiscrepancyPolicy())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Opening.IsZero())
	assert.True(t, rows[0].ExpectedClosing.Equal(dec("5")))
	assert.True(t, rows[0].Usage.Equal(dec("2")))
}

func TestCalculateUsage_DecimalExactness(t *testing.T) {
	sugar := uuid.New()
	ledger := DayLedger{
		Opening:  map[uuid.UUID]decimal.Decimal{sugar: dec("0.1")},
		Closing:  map[uuid.UUID]decimal.Decimal{sugar: dec("0.0")},
		Spoilage: map[uuid.UUID]decimal.Decimal{sugar: dec("0.03")},
	}

	rows := CalculateUsage(ledger, DefaultInventoryDiscrepancyPolicy())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Usage.Equal(dec("0.07")), "got %s", rows[0].Usage)
}

func TestCalculateUsage_ZeroExpectedClosing(t *testing.T) {
	salt := uuid.New()

	t.Run("no drift is ok", func(t *testing.T) {
		ledger := DayLedger{
			Opening: map[uuid.UUID]decimal.Decimal{salt: dec("0")},
			Closing: map[uuid.UUID]decimal.Decimal{salt: dec("0")},
		}
		rows := CalculateUsage(ledger, DefaultInventoryDiscrepancyPolicy())
		require.Len(t, rows, 1)
		assert.True(t, rows[0].DiscrepancyPercent.IsZero())
		assert.Equal(t, DiscrepancyLevelOK, rows[0].Level)
	})

	t.Run("drift against zero expectation is critical", func(t *testing.T) {
		ledger := DayLedger{
			Opening: map[uuid.UUID]decimal.Decimal{salt: dec("0")},
			Closing: map[uuid.UUID]decimal.Decimal{salt: dec("3")},
		}
		rows := CalculateUsage(ledger, DefaultInventoryDiscrepancyPolicy())
		require.Len(t, rows, 1)
		assert.True(t, rows[0].DiscrepancyPercent.Equal(dec("100")))
		assert.Equal(t, DiscrepancyLevelCritical, rows[0].Level)
	})
}

func TestInventoryDiscrepancyPolicy_Classify(t *testing.T) {
	policy := DefaultInventoryDiscrepancyPolicy()

	tests := []struct {
		name    string
		percent string
		want    DiscrepancyLevel
	}{
		{"zero", "0", DiscrepancyLevelOK},
		{"at ok threshold", "5", DiscrepancyLevelOK},
		{"just above ok", "5.01", DiscrepancyLevelWarning},
		{"at warning threshold", "10", DiscrepancyLevelWarning},
		{"above warning", "10.5", DiscrepancyLevelCritical},
		{"negative uses absolute value", "-7", DiscrepancyLevelWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Classify(dec(tt.percent)))
		})
	}
}

func TestUsageByIngredient(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	ledger := DayLedger{
		Opening: map[uuid.UUID]decimal.Decimal{a: dec("5"), b: dec("8")},
		Closing: map[uuid.UUID]decimal.Decimal{a: dec("1"), b: dec("8")},
	}

	usage := UsageByIngredient(CalculateUsage(ledger, DefaultInventoryDiscrepancyPolicy()))
	assert.True(t, usage[a].Equal(dec("4")))
	assert.True(t, usage[b].IsZero())
}
