package operations

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscrepancyLevel classifies how far an actual closing count drifted from
// the expected one.
type DiscrepancyLevel string

const (
	DiscrepancyLevelOK       DiscrepancyLevel = "ok"
	DiscrepancyLevelWarning  DiscrepancyLevel = "warning"
	DiscrepancyLevelCritical DiscrepancyLevel = "critical"
)

// InventoryDiscrepancyPolicy classifies physical count discrepancies.
// Distinct from sales.ReconciliationPolicy: this one measures count drift
// against recipe-expected stock, the other measures the sales channel; the
// two threshold sets are intentionally different and must stay separate.
type InventoryDiscrepancyPolicy struct {
	OKThreshold      decimal.Decimal // at or below: ok
	WarningThreshold decimal.Decimal // above ok, at or below: warning; above: critical
}

// DefaultInventoryDiscrepancyPolicy returns the 5%/10% policy
func DefaultInventoryDiscrepancyPolicy() InventoryDiscrepancyPolicy {
	return InventoryDiscrepancyPolicy{
		OKThreshold:      decimal.NewFromInt(5),
		WarningThreshold: decimal.NewFromInt(10),
	}
}

// Classify buckets an absolute discrepancy percentage
func (p InventoryDiscrepancyPolicy) Classify(percent decimal.Decimal) DiscrepancyLevel {
	abs := percent.Abs()
	switch {
	case abs.LessThanOrEqual(p.OKThreshold):
		return DiscrepancyLevelOK
	case abs.LessThanOrEqual(p.WarningThreshold):
		return DiscrepancyLevelWarning
	default:
		return DiscrepancyLevelCritical
	}
}

// DayLedger is the per-ingredient raw material for one day's usage
// calculation: opening and closing SHOP snapshots plus the summed mid-day
// events. Ingredients absent from a map contribute zero.
type DayLedger struct {
	Opening    map[uuid.UUID]decimal.Decimal
	Closing    map[uuid.UUID]decimal.Decimal
	Deliveries map[uuid.UUID]decimal.Decimal
	Transfers  map[uuid.UUID]decimal.Decimal
	Spoilage   map[uuid.UUID]decimal.Decimal
}

// IngredientUsage is one row of a day's usage report
type IngredientUsage struct {
	IngredientID       uuid.UUID
	Opening            decimal.Decimal
	Deliveries         decimal.Decimal
	Transfers          decimal.Decimal
	Spoilage           decimal.Decimal
	ExpectedClosing    decimal.Decimal
	ActualClosing      decimal.Decimal
	Usage              decimal.Decimal // expected − actual closing
	DiscrepancyPercent decimal.Decimal
	Level              DiscrepancyLevel
}

// CalculateUsage derives per-ingredient consumption for one day:
//
//	expectedClosing = opening + deliveries + transfers − spoilage
//	usage           = expectedClosing − actualClosing
//
// Every ingredient appearing in any of the ledger maps is included;
// a missing opening snapshot counts as zero rather than excluding the
// ingredient. Rows are ordered by ingredient ID for determinism.
func CalculateUsage(ledger DayLedger, policy InventoryDiscrepancyPolicy) []IngredientUsage {
	ids := collectIngredientIDs(ledger)

	rows := make([]IngredientUsage, 0, len(ids))
	for _, id := range ids {
		opening := valueOrZero(ledger.Opening, id)
		deliveries := valueOrZero(ledger.Deliveries, id)
		transfers := valueOrZero(ledger.Transfers, id)
		spoilage := valueOrZero(ledger.Spoilage, id)
		actual := valueOrZero(ledger.Closing, id)

		expected := opening.Add(deliveries).Add(transfers).Sub(spoilage)
		usage := expected.Sub(actual)

		percent := discrepancyPercent(expected, usage)

		rows = append(rows, IngredientUsage{
			IngredientID:       id,
			Opening:            opening,
			Deliveries:         deliveries,
			Transfers:          transfers,
			Spoilage:           spoilage,
			ExpectedClosing:    expected,
			ActualClosing:      actual,
			Usage:              usage,
			DiscrepancyPercent: percent,
			Level:              policy.Classify(percent),
		})
	}
	return rows
}

// UsageByIngredient flattens usage rows into an ingredient → usage map
func UsageByIngredient(rows []IngredientUsage) map[uuid.UUID]decimal.Decimal {
	usage := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		usage[row.IngredientID] = row.Usage
	}
	return usage
}

// discrepancyPercent computes usage/expected × 100. An expected closing of
// zero with non-zero drift counts as 100%; zero drift is 0%.
func discrepancyPercent(expected, usage decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		if usage.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return usage.Div(expected).Mul(decimal.NewFromInt(100))
}

func collectIngredientIDs(ledger DayLedger) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	for _, m := range []map[uuid.UUID]decimal.Decimal{ledger.Opening, ledger.Closing, ledger.Deliveries, ledger.Transfers, ledger.Spoilage} {
		for id := range m {
			seen[id] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

func valueOrZero(m map[uuid.UUID]decimal.Decimal, id uuid.UUID) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	if v, ok := m[id]; ok {
		return v
	}
	return decimal.Zero
}
