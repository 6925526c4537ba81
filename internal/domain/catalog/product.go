package catalog

import (
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine is one ingredient of a product variant's bill-of-ingredients.
// Exactly one line per variant may be flagged primary; that line is the one
// used to back-derive how many units were sold from ingredient usage.
type RecipeLine struct {
	ID              uuid.UUID
	VariantID       uuid.UUID
	IngredientID    uuid.UUID
	QuantityPerUnit decimal.Decimal // ingredient quantity consumed per unit sold
	Primary         bool
}

// ProductVariant is a sellable unit with a price and a recipe.
type ProductVariant struct {
	shared.BaseEntity
	Name   string
	Price  decimal.Decimal
	Active bool
	Recipe []RecipeLine
}

// NewProductVariant creates a new active product variant
func NewProductVariant(name string, price decimal.Decimal) (*ProductVariant, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Variant name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	return &ProductVariant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Active:     true,
		Recipe:     make([]RecipeLine, 0),
	}, nil
}

// AddRecipeLine adds an ingredient line to the variant's recipe
func (v *ProductVariant) AddRecipeLine(ingredientID uuid.UUID, quantityPerUnit decimal.Decimal, primary bool) error {
	if ingredientID == uuid.Nil {
		return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if quantityPerUnit.Sign() <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Recipe quantity per unit must be positive")
	}
	for _, line := range v.Recipe {
		if line.IngredientID == ingredientID {
			return shared.NewDomainError("DUPLICATE_INGREDIENT", "Ingredient already present in recipe")
		}
		if primary && line.Primary {
			return shared.NewDomainError("DUPLICATE_PRIMARY", "Variant already has a primary ingredient")
		}
	}

	v.Recipe = append(v.Recipe, RecipeLine{
		ID:              uuid.New(),
		VariantID:       v.ID,
		IngredientID:    ingredientID,
		QuantityPerUnit: quantityPerUnit,
		Primary:         primary,
	})
	v.Touch()
	return nil
}

// PrimaryLine returns the recipe line flagged primary, if any
func (v *ProductVariant) PrimaryLine() (RecipeLine, bool) {
	for _, line := range v.Recipe {
		if line.Primary {
			return line, true
		}
	}
	return RecipeLine{}, false
}

// Deactivate removes the variant from sale
func (v *ProductVariant) Deactivate() {
	v.Active = false
	v.Touch()
}
