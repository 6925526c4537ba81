package persistence

import (
	"context"

	"github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCalculatedSaleRepository implements CalculatedSaleRepository using
// GORM. The table is a materialized view of the derivation: a day's rows
// are always replaced wholesale, never merged.
type GormCalculatedSaleRepository struct {
	db *gorm.DB
}

// NewGormCalculatedSaleRepository creates a new GormCalculatedSaleRepository
func NewGormCalculatedSaleRepository(db *gorm.DB) *GormCalculatedSaleRepository {
	return &GormCalculatedSaleRepository{db: db}
}

// FindByDailyRecord finds a day's derived sales
func (r *GormCalculatedSaleRepository) FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]sales.CalculatedSale, error) {
	var modelList []models.CalculatedSaleModel
	if err := r.db.WithContext(ctx).
		Where("daily_record_id = ?", dailyRecordID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	salesList := make([]sales.CalculatedSale, len(modelList))
	for i := range modelList {
		salesList[i] = modelList[i].ToDomain()
	}
	return salesList, nil
}

// ReplaceForRecord deletes the day's rows and inserts the new set atomically
func (r *GormCalculatedSaleRepository) ReplaceForRecord(ctx context.Context, dailyRecordID uuid.UUID, salesList []sales.CalculatedSale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("daily_record_id = ?", dailyRecordID).
			Delete(&models.CalculatedSaleModel{}).Error; err != nil {
			return err
		}
		if len(salesList) == 0 {
			return nil
		}
		modelList := make([]models.CalculatedSaleModel, len(salesList))
		for i, sale := range salesList {
			modelList[i] = models.CalculatedSaleModelFromDomain(sale)
		}
		return tx.Create(&modelList).Error
	})
}

// DeleteByRecord removes a day's derived sales
func (r *GormCalculatedSaleRepository) DeleteByRecord(ctx context.Context, dailyRecordID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("daily_record_id = ?", dailyRecordID).
		Delete(&models.CalculatedSaleModel{}).Error
}

// Ensure GormCalculatedSaleRepository implements CalculatedSaleRepository
var _ sales.CalculatedSaleRepository = (*GormCalculatedSaleRepository)(nil)
