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

// GormIngredientRepository implements IngredientRepository using GORM
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GormIngredientRepository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// FindByID finds an ingredient by its ID
func (r *GormIngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	var model models.IngredientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds ingredients by a set of IDs
func (r *GormIngredientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var modelList []models.IngredientModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toIngredients(modelList), nil
}

// FindActive finds all active ingredients
func (r *GormIngredientRepository) FindActive(ctx context.Context) ([]catalog.Ingredient, error) {
	var modelList []models.IngredientModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toIngredients(modelList), nil
}

func toIngredients(modelList []models.IngredientModel) []catalog.Ingredient {
	ingredients := make([]catalog.Ingredient, len(modelList))
	for i := range modelList {
		ingredients[i] = *modelList[i].ToDomain()
	}
	return ingredients
}

// Ensure GormIngredientRepository implements IngredientRepository
var _ catalog.IngredientRepository = (*GormIngredientRepository)(nil)
