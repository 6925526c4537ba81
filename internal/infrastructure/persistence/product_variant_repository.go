package persistence

import (
	"context"
	"errors"

	"github.com/foodshop/backend/internal/domain/catalog"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductVariantRepository implements ProductVariantRepository using
// GORM. Recipes are always preloaded; a variant without its recipe is
// useless to the derivation.
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewGormProductVariantRepository creates a new GormProductVariantRepository
func NewGormProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// FindByID finds a variant with its recipe by ID
func (r *GormProductVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	var model models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Preload("Recipe").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active variants with their recipes
func (r *GormProductVariantRepository) FindActive(ctx context.Context) ([]catalog.ProductVariant, error) {
	var modelList []models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("active = ?", true).
		Order("name ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	variants := make([]catalog.ProductVariant, len(modelList))
	for i := range modelList {
		variants[i] = *modelList[i].ToDomain()
	}
	return variants, nil
}

// Ensure GormProductVariantRepository implements ProductVariantRepository
var _ catalog.ProductVariantRepository = (*GormProductVariantRepository)(nil)
