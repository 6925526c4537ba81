package catalog

import (
	"context"

	"github.com/google/uuid"
)

// IngredientRepository provides access to the ingredient catalog.
// Ingredient maintenance itself is handled elsewhere; this core only reads.
type IngredientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ingredient, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Ingredient, error)
	FindActive(ctx context.Context) ([]Ingredient, error)
}

// ProductVariantRepository provides access to the product catalog with
// recipes preloaded.
type ProductVariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)
	FindActive(ctx context.Context) ([]ProductVariant, error)
}
