package persistence

import (
	"context"
	"errors"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Save creates an expense entry
func (r *GormExpenseRepository) Save(ctx context.Context, entry *inventory.ExpenseEntry) error {
	return r.db.WithContext(ctx).Create(models.ExpenseEntryModelFromDomain(entry)).Error
}

// FindByDelivery finds the expense booked for a delivery
func (r *GormExpenseRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) (*inventory.ExpenseEntry, error) {
	var model models.ExpenseEntryModel
	if err := r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DeleteByDelivery removes the expense booked for a delivery
func (r *GormExpenseRepository) DeleteByDelivery(ctx context.Context, deliveryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID).
		Delete(&models.ExpenseEntryModel{}).Error
}

// Ensure GormExpenseRepository implements ExpenseRepository
var _ inventory.ExpenseRepository = (*GormExpenseRepository)(nil)
