package models

import (
	"github.com/foodshop/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientModel is the persistence model for catalog ingredients.
type IngredientModel struct {
	BaseModel
	Name   string `gorm:"size:255;not null"`
	Unit   string `gorm:"size:32;not null"`
	Active bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (IngredientModel) TableName() string {
	return "ingredients"
}

// ToDomain converts the persistence model to a domain Ingredient.
func (m *IngredientModel) ToDomain() *catalog.Ingredient {
	return &catalog.Ingredient{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Unit:       m.Unit,
		Active:     m.Active,
	}
}

// FromDomain populates the model from a domain Ingredient.
func (m *IngredientModel) FromDomain(i *catalog.Ingredient) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.Name = i.Name
	m.Unit = i.Unit
	m.Active = i.Active
}

// IngredientModelFromDomain creates a model from a domain Ingredient.
func IngredientModelFromDomain(i *catalog.Ingredient) *IngredientModel {
	m := &IngredientModel{}
	m.FromDomain(i)
	return m
}

// ProductVariantModel is the persistence model for sellable product variants.
type ProductVariantModel struct {
	BaseModel
	Name   string          `gorm:"size:255;not null"`
	Price  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active bool            `gorm:"not null;default:true;index"`
	// Associations
	Recipe []RecipeLineModel `gorm:"foreignKey:VariantID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain ProductVariant.
func (m *ProductVariantModel) ToDomain() *catalog.ProductVariant {
	variant := &catalog.ProductVariant{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Price:      m.Price,
		Active:     m.Active,
		Recipe:     make([]catalog.RecipeLine, len(m.Recipe)),
	}
	for i, line := range m.Recipe {
		variant.Recipe[i] = line.ToDomain()
	}
	return variant
}

// FromDomain populates the model from a domain ProductVariant.
func (m *ProductVariantModel) FromDomain(v *catalog.ProductVariant) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.Name = v.Name
	m.Price = v.Price
	m.Active = v.Active
	m.Recipe = make([]RecipeLineModel, len(v.Recipe))
	for i, line := range v.Recipe {
		m.Recipe[i] = RecipeLineModelFromDomain(line)
	}
}

// ProductVariantModelFromDomain creates a model from a domain ProductVariant.
func ProductVariantModelFromDomain(v *catalog.ProductVariant) *ProductVariantModel {
	m := &ProductVariantModel{}
	m.FromDomain(v)
	return m
}

// RecipeLineModel is one ingredient line of a variant's recipe.
type RecipeLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_variant_ingredient,priority:1"`
	IngredientID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_variant_ingredient,priority:2"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsPrimary       bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RecipeLineModel) TableName() string {
	return "recipe_lines"
}

// ToDomain converts the persistence model to a domain RecipeLine.
func (m *RecipeLineModel) ToDomain() catalog.RecipeLine {
	return catalog.RecipeLine{
		ID:              m.ID,
		VariantID:       m.VariantID,
		IngredientID:    m.IngredientID,
		QuantityPerUnit: m.QuantityPerUnit,
		Primary:         m.IsPrimary,
	}
}

// RecipeLineModelFromDomain creates a model from a domain RecipeLine.
func RecipeLineModelFromDomain(line catalog.RecipeLine) RecipeLineModel {
	return RecipeLineModel{
		ID:              line.ID,
		VariantID:       line.VariantID,
		IngredientID:    line.IngredientID,
		QuantityPerUnit: line.QuantityPerUnit,
		IsPrimary:       line.Primary,
	}
}
