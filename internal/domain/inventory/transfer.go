package inventory

import (
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StorageTransfer moves a quantity of one ingredient from storage to the
// shop for a given day. Creating a transfer decrements the aggregate
// storage inventory; deleting it restores the quantity.
type StorageTransfer struct {
	shared.BaseEntity
	DailyRecordID uuid.UUID
	IngredientID  uuid.UUID
	Quantity      decimal.Decimal
}

// NewStorageTransfer creates a new storage-to-shop transfer
func NewStorageTransfer(dailyRecordID, ingredientID uuid.UUID, quantity decimal.Decimal) (*StorageTransfer, error) {
	if dailyRecordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DAILY_RECORD", "Daily record ID cannot be empty")
	}
	if ingredientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if quantity.Sign() <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	return &StorageTransfer{
		BaseEntity:    shared.NewBaseEntity(),
		DailyRecordID: dailyRecordID,
		IngredientID:  ingredientID,
		Quantity:      quantity,
	}, nil
}

// StorageInventory is the aggregate quantity of one ingredient held in
// storage. One row per ingredient.
type StorageInventory struct {
	shared.BaseEntity
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
}

// NewStorageInventory creates a storage inventory row for an ingredient
func NewStorageInventory(ingredientID uuid.UUID, quantity decimal.Decimal) (*StorageInventory, error) {
	if ingredientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Storage quantity cannot be negative")
	}
	return &StorageInventory{
		BaseEntity:   shared.NewBaseEntity(),
		IngredientID: ingredientID,
		Quantity:     quantity,
	}, nil
}

// CanFulfil reports whether the requested quantity is available in storage
func (s *StorageInventory) CanFulfil(quantity decimal.Decimal) bool {
	return quantity.LessThanOrEqual(s.Quantity)
}

// Withdraw removes quantity from storage for a transfer
func (s *StorageInventory) Withdraw(quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Withdrawal quantity must be positive")
	}
	if !s.CanFulfil(quantity) {
		return shared.ErrInsufficientStock
	}
	s.Quantity = s.Quantity.Sub(quantity)
	s.Touch()
	return nil
}

// Restore puts quantity back into storage after a transfer is deleted
func (s *StorageInventory) Restore(quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}
	s.Quantity = s.Quantity.Add(quantity)
	s.Touch()
	return nil
}
