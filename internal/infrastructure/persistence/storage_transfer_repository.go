package persistence

import (
	"context"
	"errors"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStorageTransferRepository implements StorageTransferRepository using GORM
type GormStorageTransferRepository struct {
	db *gorm.DB
}

// NewGormStorageTransferRepository creates a new GormStorageTransferRepository
func NewGormStorageTransferRepository(db *gorm.DB) *GormStorageTransferRepository {
	return &GormStorageTransferRepository{db: db}
}

// FindByID finds a transfer by its ID
func (r *GormStorageTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StorageTransfer, error) {
	var model models.StorageTransferModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDailyRecord finds all transfers of a day
func (r *GormStorageTransferRepository) FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]inventory.StorageTransfer, error) {
	var modelList []models.StorageTransferModel
	if err := r.db.WithContext(ctx).
		Where("daily_record_id = ?", dailyRecordID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	transfers := make([]inventory.StorageTransfer, len(modelList))
	for i := range modelList {
		transfers[i] = *modelList[i].ToDomain()
	}
	return transfers, nil
}

// QuantitiesByDailyRecord sums transferred quantities per ingredient for a day
func (r *GormStorageTransferRepository) QuantitiesByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []ingredientQuantityRow
	if err := r.db.WithContext(ctx).
		Model(&models.StorageTransferModel{}).
		Select("ingredient_id AS ingredient_id, SUM(quantity) AS quantity").
		Where("daily_record_id = ?", dailyRecordID).
		Group("ingredient_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toQuantityMap(rows), nil
}

// Save creates or updates a transfer
func (r *GormStorageTransferRepository) Save(ctx context.Context, transfer *inventory.StorageTransfer) error {
	return r.db.WithContext(ctx).Save(models.StorageTransferModelFromDomain(transfer)).Error
}

// Delete removes a transfer
func (r *GormStorageTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StorageTransferModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStorageTransferRepository implements StorageTransferRepository
var _ inventory.StorageTransferRepository = (*GormStorageTransferRepository)(nil)
