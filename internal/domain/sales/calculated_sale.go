package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculatedSale is a per (day, variant) sale inferred from ingredient
// usage. The set of rows for a day is a materialized view: recomputation
// deletes the day's rows and reinserts, never merges.
type CalculatedSale struct {
	ID            uuid.UUID
	DailyRecordID uuid.UUID
	VariantID     uuid.UUID
	Quantity      int64
	Revenue       decimal.Decimal
	CreatedAt     time.Time
}
