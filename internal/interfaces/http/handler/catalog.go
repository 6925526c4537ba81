package handler

import (
	"github.com/foodshop/backend/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogHandler handles read-only ingredient and product variant endpoints.
// The catalog is reference data maintained out of band; the API only serves
// it to clients.
type CatalogHandler struct {
	BaseHandler
	ingredients catalog.IngredientRepository
	variants    catalog.ProductVariantRepository
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(ingredients catalog.IngredientRepository, variants catalog.ProductVariantRepository) *CatalogHandler {
	return &CatalogHandler{ingredients: ingredients, variants: variants}
}

// IngredientResponse is an ingredient in API responses
type IngredientResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Unit   string    `json:"unit"`
	Active bool      `json:"active"`
}

// RecipeLineResponse is one recipe line of a product variant
type RecipeLineResponse struct {
	IngredientID    uuid.UUID       `json:"ingredient_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Primary         bool            `json:"primary"`
}

// ProductVariantResponse is a sellable variant with its recipe
type ProductVariantResponse struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Price  decimal.Decimal      `json:"price"`
	Active bool                 `json:"active"`
	Recipe []RecipeLineResponse `json:"recipe"`
}

func toVariantResponse(v *catalog.ProductVariant) ProductVariantResponse {
	recipe := make([]RecipeLineResponse, 0, len(v.Recipe))
	for _, line := range v.Recipe {
		recipe = append(recipe, RecipeLineResponse{
			IngredientID:    line.IngredientID,
			QuantityPerUnit: line.QuantityPerUnit,
			Primary:         line.Primary,
		})
	}
	return ProductVariantResponse{
		ID:     v.ID,
		Name:   v.Name,
		Price:  v.Price,
		Active: v.Active,
		Recipe: recipe,
	}
}

// ListIngredients lists active ingredients ordered by name
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.FindActive(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		responses = append(responses, IngredientResponse{
			ID:     ing.ID,
			Name:   ing.Name,
			Unit:   ing.Unit,
			Active: ing.Active,
		})
	}
	h.Success(c, responses)
}

// ListVariants lists active product variants with their recipes
func (h *CatalogHandler) ListVariants(c *gin.Context) {
	variants, err := h.variants.FindActive(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]ProductVariantResponse, 0, len(variants))
	for i := range variants {
		responses = append(responses, toVariantResponse(&variants[i]))
	}
	h.Success(c, responses)
}

// GetVariant retrieves one product variant with its recipe
func (h *CatalogHandler) GetVariant(c *gin.Context) {
	variantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	variant, err := h.variants.FindByID(c.Request.Context(), variantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toVariantResponse(variant))
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalogGroup := rg.Group("/catalog")
	{
		catalogGroup.GET("/ingredients", h.ListIngredients)
		catalogGroup.GET("/variants", h.ListVariants)
		catalogGroup.GET("/variants/:id", h.GetVariant)
	}
}
