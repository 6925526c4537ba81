package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultExpiryHorizonDays is the default lookahead for expiry alerts
const DefaultExpiryHorizonDays = 7

// ExpirySeverity buckets a batch by how close it is to expiry
type ExpirySeverity string

const (
	ExpirySeverityExpired  ExpirySeverity = "expired"  // already past expiry
	ExpirySeverityCritical ExpirySeverity = "critical" // 0-2 days left
	ExpirySeverityWarning  ExpirySeverity = "warning"  // 3 days up to the horizon
)

// ClassifyExpiry buckets a days-until-expiry value. Batches beyond the
// horizon are not alerts at all; ok is false for those.
func ClassifyExpiry(daysUntil, horizonDays int) (ExpirySeverity, bool) {
	switch {
	case daysUntil < 0:
		return ExpirySeverityExpired, true
	case daysUntil <= 2:
		return ExpirySeverityCritical, true
	case daysUntil <= horizonDays:
		return ExpirySeverityWarning, true
	default:
		return "", false
	}
}

// ExpiryAlert is one batch nearing or past its expiry date
type ExpiryAlert struct {
	BatchID        uuid.UUID
	BatchNumber    string
	IngredientID   uuid.UUID
	IngredientName string
	Remaining      decimal.Decimal
	ExpiryDate     time.Time
	DaysUntil      int
	Severity       ExpirySeverity
}

// ExpiryReport is the alert feed consumed by dashboards
type ExpiryReport struct {
	HorizonDays   int
	ExpiredCount  int
	CriticalCount int
	WarningCount  int
	Alerts        []ExpiryAlert
}

// BuildExpiryReport classifies the given active batches against the horizon
// and produces the alert feed, ascending by expiry date. Batches without an
// expiry date never alert.
func BuildExpiryReport(batches []IngredientBatch, ingredientNames map[uuid.UUID]string, horizonDays int, now time.Time) ExpiryReport {
	if horizonDays <= 0 {
		horizonDays = DefaultExpiryHorizonDays
	}

	report := ExpiryReport{
		HorizonDays: horizonDays,
		Alerts:      make([]ExpiryAlert, 0),
	}

	for _, batch := range batches {
		if !batch.Active {
			continue
		}
		daysUntil, hasExpiry := batch.DaysUntilExpiry(now)
		if !hasExpiry {
			continue
		}
		severity, alerting := ClassifyExpiry(daysUntil, horizonDays)
		if !alerting {
			continue
		}

		switch severity {
		case ExpirySeverityExpired:
			report.ExpiredCount++
		case ExpirySeverityCritical:
			report.CriticalCount++
		case ExpirySeverityWarning:
			report.WarningCount++
		}

		report.Alerts = append(report.Alerts, ExpiryAlert{
			BatchID:        batch.ID,
			BatchNumber:    batch.BatchNumber,
			IngredientID:   batch.IngredientID,
			IngredientName: ingredientNames[batch.IngredientID],
			Remaining:      batch.Remaining,
			ExpiryDate:     *batch.ExpiryDate,
			DaysUntil:      daysUntil,
			Severity:       severity,
		})
	}

	sort.SliceStable(report.Alerts, func(i, j int) bool {
		return report.Alerts[i].ExpiryDate.Before(report.Alerts[j].ExpiryDate)
	})

	return report
}
