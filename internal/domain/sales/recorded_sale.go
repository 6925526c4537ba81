package sales

import (
	"time"

	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoidState is the tagged void status of a recorded sale. A sale is either
// active or voided with a timestamp and reason; it is never hard-deleted.
type VoidState struct {
	Voided bool
	At     *time.Time
	Reason string
	Notes  string
}

// ActiveState returns the not-voided state
func ActiveState() VoidState {
	return VoidState{}
}

// VoidedState returns a voided state stamped now
func VoidedState(reason, notes string) VoidState {
	now := time.Now()
	return VoidState{
		Voided: true,
		At:     &now,
		Reason: reason,
		Notes:  notes,
	}
}

// RecordedSale is a manually logged sale with the unit price captured at
// sale time.
type RecordedSale struct {
	shared.BaseAggregateRoot
	DailyRecordID uuid.UUID
	VariantID     uuid.UUID
	Quantity      int64
	UnitPrice     decimal.Decimal
	ShiftID       *uuid.UUID // shift attribution, when scheduling knows one
	Void          VoidState
}

// NewRecordedSale logs a sale against an open day
func NewRecordedSale(dailyRecordID, variantID uuid.UUID, quantity int64, unitPrice decimal.Decimal, shiftID *uuid.UUID) (*RecordedSale, error) {
	if dailyRecordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DAILY_RECORD", "Daily record ID cannot be empty")
	}
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &RecordedSale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DailyRecordID:     dailyRecordID,
		VariantID:         variantID,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		ShiftID:           shiftID,
		Void:              ActiveState(),
	}, nil
}

// IsVoided reports whether the sale has been voided
func (s *RecordedSale) IsVoided() bool {
	return s.Void.Voided
}

// MarkVoided voids the sale. Voiding twice is a conflict.
func (s *RecordedSale) MarkVoided(reason, notes string) error {
	if s.IsVoided() {
		return shared.ErrSaleAlreadyVoided
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}
	s.Void = VoidedState(reason, notes)
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleVoidedEvent(s))
	return nil
}

// Revenue is the money taken for this sale
func (s *RecordedSale) Revenue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(s.Quantity))
}
