package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordSaleRequest logs a manual sale against an open day. SoldAt is the
// moment used for shift attribution; zero means now.
type RecordSaleRequest struct {
	DailyRecordID uuid.UUID
	VariantID     uuid.UUID
	Quantity      int64
	SoldAt        time.Time
}

// VoidSaleRequest voids a recorded sale, keeping the row for audit
type VoidSaleRequest struct {
	SaleID uuid.UUID
	Reason string
	Notes  string
}

// RecordedSaleResponse is the external view of a recorded sale
type RecordedSaleResponse struct {
	ID         uuid.UUID       `json:"id"`
	VariantID  uuid.UUID       `json:"variant_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Revenue    decimal.Decimal `json:"revenue"`
	ShiftID    *uuid.UUID      `json:"shift_id,omitempty"`
	Voided     bool            `json:"voided"`
	VoidReason string          `json:"void_reason,omitempty"`
}
