package sales

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxSuggestions caps the suggestion list of a reconciliation report
const MaxSuggestions = 5

// ReconciliationPolicy classifies the overall recorded-vs-calculated
// revenue discrepancy. It measures the sales channel, not physical counts;
// keep it separate from operations.InventoryDiscrepancyPolicy.
type ReconciliationPolicy struct {
	WarningThreshold  decimal.Decimal // absolute percent at or above: warning
	CriticalThreshold decimal.Decimal // absolute percent at or above: critical
}

// DefaultReconciliationPolicy returns the 10%/30% policy
func DefaultReconciliationPolicy() ReconciliationPolicy {
	return ReconciliationPolicy{
		WarningThreshold:  decimal.NewFromInt(10),
		CriticalThreshold: decimal.NewFromInt(30),
	}
}

// Classify buckets a discrepancy percentage
func (p ReconciliationPolicy) Classify(percent decimal.Decimal) DiscrepancyFlag {
	abs := percent.Abs()
	switch {
	case abs.GreaterThanOrEqual(p.CriticalThreshold):
		return DiscrepancyFlagCritical
	case abs.GreaterThanOrEqual(p.WarningThreshold):
		return DiscrepancyFlagWarning
	default:
		return DiscrepancyFlagOK
	}
}

// DiscrepancyFlag is the reconciliation verdict for a day
type DiscrepancyFlag string

const (
	DiscrepancyFlagOK       DiscrepancyFlag = "ok"
	DiscrepancyFlagWarning  DiscrepancyFlag = "warning"
	DiscrepancyFlagCritical DiscrepancyFlag = "critical"
)

// VariantComparison is one per-variant row of a reconciliation report
type VariantComparison struct {
	VariantID         uuid.UUID
	VariantName       string
	RecordedQty       int64
	CalculatedQty     int64
	RecordedRevenue   decimal.Decimal
	CalculatedRevenue decimal.Decimal
	QtyDifference     int64           // recorded − calculated
	RevenueDifference decimal.Decimal // recorded − calculated
}

// Suggestion proposes recording sales the derivation says happened but the
// manual log missed.
type Suggestion struct {
	VariantID   uuid.UUID
	VariantName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Revenue     decimal.Decimal
}

// ReconciliationReport compares manually recorded sales against
// usage-derived ones for a day.
type ReconciliationReport struct {
	RecordedTotal      decimal.Decimal
	CalculatedTotal    decimal.Decimal
	DiscrepancyPercent decimal.Decimal
	Flag               DiscrepancyFlag
	Critical           bool
	Rows               []VariantComparison
	Suggestions        []Suggestion
}

// Reconcile aggregates recorded (voided rows excluded) and calculated sales
// per variant and produces the comparison report. Overall discrepancy is
// (recorded − calculated) / calculated × 100, special-cased to 100% when
// only the recorded side is non-zero and 0% when both are zero.
func Reconcile(recorded []RecordedSale, calculated []CalculatedSale, variantNames map[uuid.UUID]string, policy ReconciliationPolicy) ReconciliationReport {
	type bucket struct {
		recordedQty       int64
		calculatedQty     int64
		recordedRevenue   decimal.Decimal
		calculatedRevenue decimal.Decimal
	}
	buckets := make(map[uuid.UUID]*bucket)
	get := func(id uuid.UUID) *bucket {
		b, ok := buckets[id]
		if !ok {
			b = &bucket{recordedRevenue: decimal.Zero, calculatedRevenue: decimal.Zero}
			buckets[id] = b
		}
		return b
	}

	for _, sale := range recorded {
		if sale.IsVoided() {
			continue
		}
		b := get(sale.VariantID)
		b.recordedQty += sale.Quantity
		b.recordedRevenue = b.recordedRevenue.Add(sale.Revenue())
	}
	for _, sale := range calculated {
		b := get(sale.VariantID)
		b.calculatedQty += sale.Quantity
		b.calculatedRevenue = b.calculatedRevenue.Add(sale.Revenue)
	}

	report := ReconciliationReport{
		RecordedTotal:   decimal.Zero,
		CalculatedTotal: decimal.Zero,
		Rows:            make([]VariantComparison, 0, len(buckets)),
		Suggestions:     make([]Suggestion, 0),
	}

	ids := make([]uuid.UUID, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		b := buckets[id]
		report.RecordedTotal = report.RecordedTotal.Add(b.recordedRevenue)
		report.CalculatedTotal = report.CalculatedTotal.Add(b.calculatedRevenue)

		report.Rows = append(report.Rows, VariantComparison{
			VariantID:         id,
			VariantName:       variantNames[id],
			RecordedQty:       b.recordedQty,
			CalculatedQty:     b.calculatedQty,
			RecordedRevenue:   b.recordedRevenue,
			CalculatedRevenue: b.calculatedRevenue,
			QtyDifference:     b.recordedQty - b.calculatedQty,
			RevenueDifference: b.recordedRevenue.Sub(b.calculatedRevenue),
		})

		if suggestion, ok := buildSuggestion(id, variantNames[id], b.recordedQty, b.calculatedQty, b.recordedRevenue, b.calculatedRevenue); ok {
			report.Suggestions = append(report.Suggestions, suggestion)
		}
	}

	report.DiscrepancyPercent = overallDiscrepancy(report.RecordedTotal, report.CalculatedTotal)
	report.Flag = policy.Classify(report.DiscrepancyPercent)
	report.Critical = report.Flag == DiscrepancyFlagCritical

	sort.SliceStable(report.Suggestions, func(i, j int) bool {
		return report.Suggestions[i].Revenue.GreaterThan(report.Suggestions[j].Revenue)
	})
	if len(report.Suggestions) > MaxSuggestions {
		report.Suggestions = report.Suggestions[:MaxSuggestions]
	}

	return report
}

// buildSuggestion proposes adding the missing quantity when the derivation
// saw more sales than were recorded. The unit price is inferred from
// whichever side has a usable quantity, preferring the recorded one.
func buildSuggestion(variantID uuid.UUID, name string, recordedQty, calculatedQty int64, recordedRevenue, calculatedRevenue decimal.Decimal) (Suggestion, bool) {
	if calculatedQty <= recordedQty {
		return Suggestion{}, false
	}

	var unitPrice decimal.Decimal
	switch {
	case recordedQty > 0:
		unitPrice = recordedRevenue.Div(decimal.NewFromInt(recordedQty))
	case calculatedQty > 0:
		unitPrice = calculatedRevenue.Div(decimal.NewFromInt(calculatedQty))
	default:
		return Suggestion{}, false
	}

	missing := calculatedQty - recordedQty
	return Suggestion{
		VariantID:   variantID,
		VariantName: name,
		Quantity:    missing,
		UnitPrice:   unitPrice,
		Revenue:     unitPrice.Mul(decimal.NewFromInt(missing)),
	}, true
}

func overallDiscrepancy(recorded, calculated decimal.Decimal) decimal.Decimal {
	if calculated.IsZero() {
		if recorded.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return recorded.Sub(calculated).Div(calculated).Mul(decimal.NewFromInt(100))
}
