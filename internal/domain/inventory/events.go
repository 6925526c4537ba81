package inventory

import (
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types emitted by the inventory domain
const (
	EventTypeDeliveryAccepted = "inventory.delivery_accepted"
	EventTypeBatchDepleted    = "inventory.batch_depleted"
	EventTypeSpoilageRecorded = "inventory.spoilage_recorded"
)

// DeliveryAcceptedEvent is emitted when a delivery is booked
type DeliveryAcceptedEvent struct {
	shared.BaseDomainEvent
	Supplier  string          `json:"supplier"`
	TotalCost decimal.Decimal `json:"total_cost"`
	ItemCount int             `json:"item_count"`
}

// NewDeliveryAcceptedEvent creates a DeliveryAcceptedEvent
func NewDeliveryAcceptedEvent(d *Delivery) *DeliveryAcceptedEvent {
	return &DeliveryAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryAccepted, d.ID, "Delivery"),
		Supplier:        d.Supplier,
		TotalCost:       d.TotalCost,
		ItemCount:       len(d.Items),
	}
}

// BatchDepletedEvent is emitted when a deduction empties a batch
type BatchDepletedEvent struct {
	shared.BaseDomainEvent
	BatchNumber  string    `json:"batch_number"`
	IngredientID uuid.UUID `json:"ingredient_id"`
}

// NewBatchDepletedEvent creates a BatchDepletedEvent
func NewBatchDepletedEvent(b *IngredientBatch) *BatchDepletedEvent {
	return &BatchDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchDepleted, b.ID, "IngredientBatch"),
		BatchNumber:     b.BatchNumber,
		IngredientID:    b.IngredientID,
	}
}

// SpoilageRecordedEvent is emitted when spoilage is booked
type SpoilageRecordedEvent struct {
	shared.BaseDomainEvent
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       SpoilageReason  `json:"reason"`
}

// NewSpoilageRecordedEvent creates a SpoilageRecordedEvent
func NewSpoilageRecordedEvent(s *Spoilage) *SpoilageRecordedEvent {
	return &SpoilageRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSpoilageRecorded, s.ID, "Spoilage"),
		IngredientID:    s.IngredientID,
		Quantity:        s.Quantity,
		Reason:          s.Reason,
	}
}
