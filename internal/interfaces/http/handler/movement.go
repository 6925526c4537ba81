package handler

import (
	"strings"

	invapp "github.com/foodshop/backend/internal/application/inventory"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementHandler handles storage transfer, spoilage and storage level
// API endpoints
type MovementHandler struct {
	BaseHandler
	movementService *invapp.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *invapp.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

// CreateTransferRequest represents a request to move stock from storage to
// the shop floor
type CreateTransferRequest struct {
	DailyRecordID string  `json:"daily_record_id" binding:"required,uuid"`
	IngredientID  string  `json:"ingredient_id" binding:"required,uuid"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
}

// RecordSpoilageRequest represents a request to book spoiled stock
type RecordSpoilageRequest struct {
	DailyRecordID string  `json:"daily_record_id" binding:"required,uuid"`
	IngredientID  string  `json:"ingredient_id" binding:"required,uuid"`
	BatchID       string  `json:"batch_id" binding:"omitempty,uuid"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	Reason        string  `json:"reason" binding:"required,oneof=EXPIRED DAMAGED PREP_WASTE OTHER"`
	Notes         string  `json:"notes" binding:"max=1000"`
}

// CreateTransfer moves stock from storage to the shop floor
func (h *MovementHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recordID, err := uuid.Parse(req.DailyRecordID)
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}
	ingredientID, err := uuid.Parse(req.IngredientID)
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID format")
		return
	}

	transfer, err := h.movementService.CreateTransfer(c.Request.Context(), invapp.CreateTransferRequest{
		DailyRecordID: recordID,
		IngredientID:  ingredientID,
		Quantity:      decimal.NewFromFloat(req.Quantity),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transfer)
}

// DeleteTransfer removes a mistaken transfer and returns the stock to storage
func (h *MovementHandler) DeleteTransfer(c *gin.Context) {
	transferID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	if err := h.movementService.DeleteTransfer(c.Request.Context(), transferID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RecordSpoilage books spoiled stock against an open day
func (h *MovementHandler) RecordSpoilage(c *gin.Context) {
	var req RecordSpoilageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recordID, err := uuid.Parse(req.DailyRecordID)
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}
	ingredientID, err := uuid.Parse(req.IngredientID)
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID format")
		return
	}

	spoilageReq := invapp.RecordSpoilageRequest{
		DailyRecordID: recordID,
		IngredientID:  ingredientID,
		Quantity:      decimal.NewFromFloat(req.Quantity),
		Reason:        domaininv.SpoilageReason(req.Reason),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.BatchID != "" {
		batchID, err := uuid.Parse(req.BatchID)
		if err != nil {
			h.BadRequest(c, "Invalid batch ID format")
			return
		}
		spoilageReq.BatchID = &batchID
	}

	spoilage, err := h.movementService.RecordSpoilage(c.Request.Context(), spoilageReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, spoilage)
}

// StorageLevels lists per-ingredient storage quantities
func (h *MovementHandler) StorageLevels(c *gin.Context) {
	levels, err := h.movementService.StorageLevels(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, levels)
}

// RegisterRoutes registers all stock movement routes
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.CreateTransfer)
		transfers.DELETE("/:id", h.DeleteTransfer)
	}

	spoilages := rg.Group("/spoilages")
	{
		spoilages.POST("", h.RecordSpoilage)
	}

	rg.GET("/storage/levels", h.StorageLevels)
}
