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

// GormSpoilageRepository implements SpoilageRepository using GORM
type GormSpoilageRepository struct {
	db *gorm.DB
}

// NewGormSpoilageRepository creates a new GormSpoilageRepository
func NewGormSpoilageRepository(db *gorm.DB) *GormSpoilageRepository {
	return &GormSpoilageRepository{db: db}
}

// FindByID finds a spoilage record by its ID
func (r *GormSpoilageRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Spoilage, error) {
	var model models.SpoilageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDailyRecord finds all spoilages of a day
func (r *GormSpoilageRepository) FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]inventory.Spoilage, error) {
	var modelList []models.SpoilageModel
	if err := r.db.WithContext(ctx).
		Where("daily_record_id = ?", dailyRecordID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	spoilages := make([]inventory.Spoilage, len(modelList))
	for i := range modelList {
		spoilages[i] = *modelList[i].ToDomain()
	}
	return spoilages, nil
}

// QuantitiesByDailyRecord sums spoiled quantities per ingredient for a day
func (r *GormSpoilageRepository) QuantitiesByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []ingredientQuantityRow
	if err := r.db.WithContext(ctx).
		Model(&models.SpoilageModel{}).
		Select("ingredient_id AS ingredient_id, SUM(quantity) AS quantity").
		Where("daily_record_id = ?", dailyRecordID).
		Group("ingredient_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toQuantityMap(rows), nil
}

// Save creates or updates a spoilage record
func (r *GormSpoilageRepository) Save(ctx context.Context, spoilage *inventory.Spoilage) error {
	return r.db.WithContext(ctx).Save(models.SpoilageModelFromDomain(spoilage)).Error
}

// Ensure GormSpoilageRepository implements SpoilageRepository
var _ inventory.SpoilageRepository = (*GormSpoilageRepository)(nil)
