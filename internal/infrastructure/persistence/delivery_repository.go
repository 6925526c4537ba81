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

// GormDeliveryRepository implements DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery with its items by ID
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Delivery, error) {
	var model models.DeliveryModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDailyRecord finds all deliveries of a day with their items
func (r *GormDeliveryRepository) FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]inventory.Delivery, error) {
	var modelList []models.DeliveryModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("daily_record_id = ?", dailyRecordID).
		Order("delivered_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	deliveries := make([]inventory.Delivery, len(modelList))
	for i := range modelList {
		deliveries[i] = *modelList[i].ToDomain()
	}
	return deliveries, nil
}

// QuantitiesByDailyRecord sums delivered quantities per ingredient for a day
func (r *GormDeliveryRepository) QuantitiesByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []ingredientQuantityRow
	if err := r.db.WithContext(ctx).
		Model(&models.DeliveryItemModel{}).
		Select("delivery_items.ingredient_id AS ingredient_id, SUM(delivery_items.quantity) AS quantity").
		Joins("JOIN deliveries ON deliveries.id = delivery_items.delivery_id").
		Where("deliveries.daily_record_id = ?", dailyRecordID).
		Group("delivery_items.ingredient_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toQuantityMap(rows), nil
}

// TotalCostByDailyRecord sums invoice-level delivery costs for a day
func (r *GormDeliveryRepository) TotalCostByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.DeliveryModel{}).
		Select("SUM(total_cost)").
		Where("daily_record_id = ?", dailyRecordID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates a delivery together with its items
func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *inventory.Delivery) error {
	model := models.DeliveryModelFromDomain(delivery)
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// Delete removes a delivery and its items
func (r *GormDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("delivery_id = ?", id).
		Delete(&models.DeliveryItemModel{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.DeliveryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ingredientQuantityRow is the scan target for per-ingredient sums
type ingredientQuantityRow struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
}

func toQuantityMap(rows []ingredientQuantityRow) map[uuid.UUID]decimal.Decimal {
	quantities := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		quantities[row.IngredientID] = row.Quantity
	}
	return quantities
}

// Ensure GormDeliveryRepository implements DeliveryRepository
var _ inventory.DeliveryRepository = (*GormDeliveryRepository)(nil)
