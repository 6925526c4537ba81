package inventory

import (
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SpoilageReason classifies why stock was lost
type SpoilageReason string

const (
	SpoilageReasonExpired   SpoilageReason = "EXPIRED"
	SpoilageReasonDamaged   SpoilageReason = "DAMAGED"
	SpoilageReasonPrepWaste SpoilageReason = "PREP_WASTE"
	SpoilageReasonOther     SpoilageReason = "OTHER"
)

// IsValid checks if the reason is a valid SpoilageReason
func (r SpoilageReason) IsValid() bool {
	switch r {
	case SpoilageReasonExpired, SpoilageReasonDamaged, SpoilageReasonPrepWaste, SpoilageReasonOther:
		return true
	}
	return false
}

// String returns the string representation of SpoilageReason
func (r SpoilageReason) String() string {
	return string(r)
}

// Spoilage records a lost quantity of an ingredient. When tied to a batch
// the recording also deducts the same quantity from that batch.
type Spoilage struct {
	shared.BaseEntity
	DailyRecordID uuid.UUID
	IngredientID  uuid.UUID
	BatchID       *uuid.UUID
	Quantity      decimal.Decimal
	Reason        SpoilageReason
	Notes         string
}

// NewSpoilage creates a spoilage record
func NewSpoilage(dailyRecordID, ingredientID uuid.UUID, batchID *uuid.UUID, quantity decimal.Decimal, reason SpoilageReason, notes string) (*Spoilage, error) {
	if dailyRecordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DAILY_RECORD", "Daily record ID cannot be empty")
	}
	if ingredientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if quantity.Sign() <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Spoilage quantity must be positive")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown spoilage reason")
	}
	return &Spoilage{
		BaseEntity:    shared.NewBaseEntity(),
		DailyRecordID: dailyRecordID,
		IngredientID:  ingredientID,
		BatchID:       batchID,
		Quantity:      quantity,
		Reason:        reason,
		Notes:         notes,
	}, nil
}
