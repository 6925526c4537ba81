package inventory

import (
	"fmt"
	"time"

	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLocation identifies where stock physically sits
type StockLocation string

const (
	LocationShop    StockLocation = "SHOP"
	LocationStorage StockLocation = "STORAGE"
)

// IsValid checks if the location is a valid StockLocation
func (l StockLocation) IsValid() bool {
	return l == LocationShop || l == LocationStorage
}

// String returns the string representation of StockLocation
func (l StockLocation) String() string {
	return string(l)
}

// DeductionReason classifies why quantity left a batch
type DeductionReason string

const (
	DeductionReasonSales      DeductionReason = "SALES"
	DeductionReasonSpoilage   DeductionReason = "SPOILAGE"
	DeductionReasonTransfer   DeductionReason = "TRANSFER"
	DeductionReasonAdjustment DeductionReason = "ADJUSTMENT"
)

// IsValid checks if the reason is a valid DeductionReason
func (r DeductionReason) IsValid() bool {
	switch r {
	case DeductionReasonSales, DeductionReasonSpoilage, DeductionReasonTransfer, DeductionReasonAdjustment:
		return true
	}
	return false
}

// FormatBatchNumber builds a batch number for the given date and per-day
// sequence: B-20260105-001, B-20260105-002, ...
func FormatBatchNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("B-%s-%03d", date.Format("20060102"), sequence)
}

// BatchNumberDatePrefix returns the prefix shared by all batch numbers
// created on the given date.
func BatchNumberDatePrefix(date time.Time) string {
	return fmt.Sprintf("B-%s-", date.Format("20060102"))
}

// IngredientBatch is a traceable lot of an ingredient. Remaining quantity
// never goes below zero and the batch becomes inactive exactly when it
// reaches zero.
type IngredientBatch struct {
	shared.BaseEntity
	BatchNumber     string
	IngredientID    uuid.UUID
	DeliveryItemID  *uuid.UUID // source delivery line, if any
	ExpiryDate      *time.Time
	InitialQuantity decimal.Decimal
	Remaining       decimal.Decimal
	UnitCost        *decimal.Decimal // carried from the source delivery item, if priced
	Location        StockLocation
	Active          bool
}

// NewIngredientBatch creates a new active batch
func NewIngredientBatch(batchNumber string, ingredientID uuid.UUID, deliveryItemID *uuid.UUID, expiryDate *time.Time, quantity decimal.Decimal, unitCost *decimal.Decimal, location StockLocation) (*IngredientBatch, error) {
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if ingredientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if quantity.Sign() <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if unitCost != nil && unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Batch unit cost cannot be negative")
	}
	if !location.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Unknown stock location")
	}
	return &IngredientBatch{
		BaseEntity:      shared.NewBaseEntity(),
		BatchNumber:     batchNumber,
		IngredientID:    ingredientID,
		DeliveryItemID:  deliveryItemID,
		ExpiryDate:      expiryDate,
		InitialQuantity: quantity,
		Remaining:       quantity,
		UnitCost:        unitCost,
		Location:        location,
		Active:          true,
	}, nil
}

// Deduct removes quantity from the batch and returns the resulting
// immutable deduction record. The whole requested quantity must be
// available; partial deduction is not performed.
func (b *IngredientBatch) Deduct(quantity decimal.Decimal, reason DeductionReason, referenceID *uuid.UUID) (*BatchDeduction, error) {
	if quantity.Sign() <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown deduction reason")
	}
	if !b.Active {
		return nil, shared.ErrBatchDepleted
	}
	if quantity.GreaterThan(b.Remaining) {
		return nil, shared.ErrInsufficientStock
	}

	b.Remaining = b.Remaining.Sub(quantity)
	if b.Remaining.IsZero() {
		b.Active = false
	}
	b.Touch()

	return &BatchDeduction{
		BaseEntity:  shared.NewBaseEntity(),
		BatchID:     b.ID,
		Quantity:    quantity,
		Reason:      reason,
		ReferenceID: referenceID,
	}, nil
}

// IsExpired returns true if the batch has an expiry date in the past
func (b *IngredientBatch) IsExpired(now time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(now)
}

// DaysUntilExpiry returns whole days until expiry measured from the start
// of the given day; negative when already expired. ok is false when the
// batch has no expiry date.
func (b *IngredientBatch) DaysUntilExpiry(now time.Time) (days int, ok bool) {
	if b.ExpiryDate == nil {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	expiry := time.Date(b.ExpiryDate.Year(), b.ExpiryDate.Month(), b.ExpiryDate.Day(), 0, 0, 0, 0, now.Location())
	return int(expiry.Sub(today).Hours() / 24), true
}

// BatchDeduction is an append-only audit row recording quantity removed
// from a batch. It is never updated or deleted.
type BatchDeduction struct {
	shared.BaseEntity
	BatchID     uuid.UUID
	Quantity    decimal.Decimal
	Reason      DeductionReason
	ReferenceID *uuid.UUID // id of the causing record (spoilage, sale, ...)
}
