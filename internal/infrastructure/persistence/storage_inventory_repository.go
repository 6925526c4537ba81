package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorageInventoryRepository implements StorageInventoryRepository using
// GORM. Withdraw and Restore are conditional single-statement updates so the
// stored quantity can never be driven negative, regardless of concurrency.
type GormStorageInventoryRepository struct {
	db *gorm.DB
}

// NewGormStorageInventoryRepository creates a new GormStorageInventoryRepository
func NewGormStorageInventoryRepository(db *gorm.DB) *GormStorageInventoryRepository {
	return &GormStorageInventoryRepository{db: db}
}

// FindByIngredient finds the storage row for an ingredient
func (r *GormStorageInventoryRepository) FindByIngredient(ctx context.Context, ingredientID uuid.UUID) (*inventory.StorageInventory, error) {
	var model models.StorageInventoryModel
	if err := r.db.WithContext(ctx).
		Where("ingredient_id = ?", ingredientID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all storage rows
func (r *GormStorageInventoryRepository) FindAll(ctx context.Context) ([]inventory.StorageInventory, error) {
	var modelList []models.StorageInventoryModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	rows := make([]inventory.StorageInventory, len(modelList))
	for i := range modelList {
		rows[i] = *modelList[i].ToDomain()
	}
	return rows, nil
}

// Withdraw decrements the storage quantity only when enough is available.
// A guarded zero-row update means insufficient stock, a missing row included.
func (r *GormStorageInventoryRepository) Withdraw(ctx context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Withdrawal quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&models.StorageInventoryModel{}).
		Where("ingredient_id = ? AND quantity >= ?", ingredientID, quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// Restore puts quantity back after a transfer is deleted
func (r *GormStorageInventoryRepository) Restore(ctx context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&models.StorageInventoryModel{}).
		Where("ingredient_id = ?", ingredientID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Deposit adds delivered quantity, creating the row when absent
func (r *GormStorageInventoryRepository) Deposit(ctx context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.Sign() <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Deposit quantity must be positive")
	}
	row, err := inventory.NewStorageInventory(ingredientID, quantity)
	if err != nil {
		return err
	}
	model := models.StorageInventoryModelFromDomain(row)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ingredient_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("storage_inventories.quantity + excluded.quantity"),
				"updated_at": time.Now(),
			}),
		}).
		Create(model).Error
}

// Ensure GormStorageInventoryRepository implements StorageInventoryRepository
var _ inventory.StorageInventoryRepository = (*GormStorageInventoryRepository)(nil)
