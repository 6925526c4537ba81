package catalog

import (
	"github.com/foodshop/backend/internal/domain/shared"
)

// Ingredient is a raw material tracked by the shop. Quantities elsewhere in
// the system are always expressed in the ingredient's native unit.
type Ingredient struct {
	shared.BaseEntity
	Name   string
	Unit   string // native unit label, e.g. "kg", "l", "pcs"
	Active bool
}

// NewIngredient creates a new active ingredient
func NewIngredient(name, unit string) (*Ingredient, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Ingredient name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Ingredient unit cannot be empty")
	}
	return &Ingredient{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Unit:       unit,
		Active:     true,
	}, nil
}

// Deactivate marks the ingredient inactive. Inactive ingredients are
// rejected by all stock-moving operations.
func (i *Ingredient) Deactivate() {
	i.Active = false
	i.Touch()
}

// Activate marks the ingredient active again
func (i *Ingredient) Activate() {
	i.Active = true
	i.Touch()
}
