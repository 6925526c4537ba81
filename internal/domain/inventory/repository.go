package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientBatchRepository provides access to ingredient batches and their
// deduction audit trail.
type IngredientBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*IngredientBatch, error)
	// FindByIDForUpdate loads a batch under a row lock so remaining-quantity
	// checks and decrements are serialized across requests.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*IngredientBatch, error)
	// FindByIngredient returns all batches of an ingredient in FIFO order
	// (ascending by creation time). The ordering is advisory; callers pick
	// the batch to deduct from explicitly.
	FindByIngredient(ctx context.Context, ingredientID uuid.UUID) ([]IngredientBatch, error)
	// FindActiveWithExpiry returns active batches carrying an expiry date
	// no later than the given bound.
	FindActiveWithExpiry(ctx context.Context, until time.Time) ([]IngredientBatch, error)
	// NextSequence returns the next per-day batch sequence number for the
	// given date, serialized against concurrent callers.
	NextSequence(ctx context.Context, date time.Time) (int, error)
	Save(ctx context.Context, batch *IngredientBatch) error
	// AppendDeduction persists an immutable deduction row
	AppendDeduction(ctx context.Context, deduction *BatchDeduction) error
	FindDeductionsByBatch(ctx context.Context, batchID uuid.UUID) ([]BatchDeduction, error)
	CountDeductionsByDelivery(ctx context.Context, deliveryID uuid.UUID) (int64, error)
	DeleteByDelivery(ctx context.Context, deliveryID uuid.UUID) error
}

// DeliveryRepository provides access to deliveries and their items
type DeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]Delivery, error)
	// QuantitiesByDailyRecord sums delivered quantities per ingredient for a day
	QuantitiesByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	// TotalCostByDailyRecord sums invoice-level delivery costs for a day
	TotalCostByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, delivery *Delivery) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StorageTransferRepository provides access to storage-to-shop transfers
type StorageTransferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StorageTransfer, error)
	FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]StorageTransfer, error)
	QuantitiesByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	Save(ctx context.Context, transfer *StorageTransfer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StorageInventoryRepository maintains the per-ingredient aggregate storage
// quantity. Withdraw is a conditional decrement: it fails with
// shared.ErrInsufficientStock instead of ever driving the quantity negative.
type StorageInventoryRepository interface {
	FindByIngredient(ctx context.Context, ingredientID uuid.UUID) (*StorageInventory, error)
	FindAll(ctx context.Context) ([]StorageInventory, error)
	Withdraw(ctx context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error
	Restore(ctx context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error
	// Deposit adds delivered quantity, creating the row when absent
	Deposit(ctx context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error
}

// SpoilageRepository provides access to spoilage records
type SpoilageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Spoilage, error)
	FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]Spoilage, error)
	QuantitiesByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	Save(ctx context.Context, spoilage *Spoilage) error
}

// ExpenseCategory classifies a booked expense
type ExpenseCategory string

const (
	ExpenseCategorySupplies ExpenseCategory = "SUPPLIES"
)

// ExpenseEntry is the expense booked when a delivery is accepted. General
// expense management lives outside this core; only the booking side effect
// is modelled here.
type ExpenseEntry struct {
	ID          uuid.UUID
	Category    ExpenseCategory
	Amount      decimal.Decimal
	Description string
	DeliveryID  *uuid.UUID
	BookedAt    time.Time
	CreatedAt   time.Time
}

// ExpenseRepository books and queries expense entries
type ExpenseRepository interface {
	Save(ctx context.Context, entry *ExpenseEntry) error
	FindByDelivery(ctx context.Context, deliveryID uuid.UUID) (*ExpenseEntry, error)
	DeleteByDelivery(ctx context.Context, deliveryID uuid.UUID) error
}
