package sales

import (
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types emitted by the sales domain
const (
	EventTypeSaleRecorded = "sales.sale_recorded"
	EventTypeSaleVoided   = "sales.sale_voided"
)

// SaleRecordedEvent is emitted when a sale is logged
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int64     `json:"quantity"`
}

// NewSaleRecordedEvent creates a SaleRecordedEvent
func NewSaleRecordedEvent(s *RecordedSale) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, s.ID, "RecordedSale"),
		VariantID:       s.VariantID,
		Quantity:        s.Quantity,
	}
}

// SaleVoidedEvent is emitted when a sale is voided
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	VariantID uuid.UUID `json:"variant_id"`
	Reason    string    `json:"reason"`
}

// NewSaleVoidedEvent creates a SaleVoidedEvent
func NewSaleVoidedEvent(s *RecordedSale) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, s.ID, "RecordedSale"),
		VariantID:       s.VariantID,
		Reason:          s.Void.Reason,
	}
}
