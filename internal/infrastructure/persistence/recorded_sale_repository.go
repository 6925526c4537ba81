package persistence

import (
	"context"
	"errors"

	"github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecordedSaleRepository implements RecordedSaleRepository using GORM
type GormRecordedSaleRepository struct {
	db *gorm.DB
}

// NewGormRecordedSaleRepository creates a new GormRecordedSaleRepository
func NewGormRecordedSaleRepository(db *gorm.DB) *GormRecordedSaleRepository {
	return &GormRecordedSaleRepository{db: db}
}

// FindByID finds a recorded sale by its ID
func (r *GormRecordedSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.RecordedSale, error) {
	var model models.RecordedSaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDailyRecord finds a day's sales, voided rows included
func (r *GormRecordedSaleRepository) FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]sales.RecordedSale, error) {
	var modelList []models.RecordedSaleModel
	if err := r.db.WithContext(ctx).
		Where("daily_record_id = ?", dailyRecordID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	salesList := make([]sales.RecordedSale, len(modelList))
	for i := range modelList {
		salesList[i] = *modelList[i].ToDomain()
	}
	return salesList, nil
}

// Save creates or updates a recorded sale
func (r *GormRecordedSaleRepository) Save(ctx context.Context, sale *sales.RecordedSale) error {
	return r.db.WithContext(ctx).Save(models.RecordedSaleModelFromDomain(sale)).Error
}

// Ensure GormRecordedSaleRepository implements RecordedSaleRepository
var _ sales.RecordedSaleRepository = (*GormRecordedSaleRepository)(nil)
