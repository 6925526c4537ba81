package handler

import (
	"strings"
	"time"

	invapp "github.com/foodshop/backend/internal/application/inventory"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryHandler handles supplier delivery API endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *invapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *invapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// DeliveryItemLineRequest is one ingredient line of an incoming delivery
type DeliveryItemLineRequest struct {
	IngredientID string   `json:"ingredient_id" binding:"required,uuid"`
	Quantity     float64  `json:"quantity" binding:"required,gt=0"`
	UnitCost     *float64 `json:"unit_cost" binding:"omitempty,gte=0"`
	ExpiryDate   string   `json:"expiry_date"`
}

// CreateDeliveryRequest represents a request to accept a supplier delivery
type CreateDeliveryRequest struct {
	DailyRecordID string                    `json:"daily_record_id" binding:"required,uuid"`
	Supplier      string                    `json:"supplier" binding:"required,min=1,max=255"`
	TotalCost     float64                   `json:"total_cost" binding:"gte=0"`
	Destination   string                    `json:"destination" binding:"required,oneof=SHOP STORAGE"`
	DeliveredAt   string                    `json:"delivered_at"`
	Items         []DeliveryItemLineRequest `json:"items" binding:"required,min=1,dive"`
}

// DeliveryItemLineResponse is one item line of a delivery in API responses
type DeliveryItemLineResponse struct {
	ID           uuid.UUID        `json:"id"`
	IngredientID uuid.UUID        `json:"ingredient_id"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
}

// DeliveryDetailsResponse is a full delivery with its item lines
type DeliveryDetailsResponse struct {
	ID          uuid.UUID                  `json:"id"`
	Supplier    string                     `json:"supplier"`
	TotalCost   decimal.Decimal            `json:"total_cost"`
	Destination string                     `json:"destination"`
	DeliveredAt time.Time                  `json:"delivered_at"`
	Items       []DeliveryItemLineResponse `json:"items"`
}

func toDeliveryDetails(d *domaininv.Delivery) DeliveryDetailsResponse {
	items := make([]DeliveryItemLineResponse, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, DeliveryItemLineResponse{
			ID:           item.ID,
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
			UnitCost:     item.UnitCost,
			ExpiryDate:   item.ExpiryDate,
		})
	}
	return DeliveryDetailsResponse{
		ID:          d.ID,
		Supplier:    d.Supplier,
		TotalCost:   d.TotalCost,
		Destination: string(d.Destination),
		DeliveredAt: d.DeliveredAt,
		Items:       items,
	}
}

// Create accepts a supplier delivery into an open day
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recordID, err := uuid.Parse(req.DailyRecordID)
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}

	deliveredAt := time.Now()
	if req.DeliveredAt != "" {
		deliveredAt, err = parseDate(req.DeliveredAt)
		if err != nil {
			h.BadRequest(c, "Invalid delivered_at format")
			return
		}
	}

	items := make([]invapp.DeliveryItemRequest, 0, len(req.Items))
	for _, line := range req.Items {
		ingredientID, err := uuid.Parse(line.IngredientID)
		if err != nil {
			h.BadRequest(c, "Invalid ingredient ID format")
			return
		}
		item := invapp.DeliveryItemRequest{
			IngredientID: ingredientID,
			Quantity:     decimal.NewFromFloat(line.Quantity),
		}
		if line.UnitCost != nil {
			cost := decimal.NewFromFloat(*line.UnitCost)
			item.UnitCost = &cost
		}
		if line.ExpiryDate != "" {
			expiry, err := parseDate(line.ExpiryDate)
			if err != nil {
				h.BadRequest(c, "Invalid expiry_date format")
				return
			}
			item.ExpiryDate = &expiry
		}
		items = append(items, item)
	}

	delivery, err := h.deliveryService.Create(c.Request.Context(), invapp.CreateDeliveryRequest{
		DailyRecordID: recordID,
		Supplier:      strings.TrimSpace(req.Supplier),
		TotalCost:     decimal.NewFromFloat(req.TotalCost),
		Destination:   domaininv.StockLocation(req.Destination),
		DeliveredAt:   deliveredAt,
		Items:         items,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, delivery)
}

// ListByDay lists the deliveries accepted into a trading day
func (h *DeliveryHandler) ListByDay(c *gin.Context) {
	recordID, err := uuid.Parse(c.Query("daily_record_id"))
	if err != nil {
		h.BadRequest(c, "daily_record_id query parameter is required")
		return
	}

	deliveries, err := h.deliveryService.ListByDay(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]DeliveryDetailsResponse, 0, len(deliveries))
	for i := range deliveries {
		responses = append(responses, toDeliveryDetails(&deliveries[i]))
	}
	h.Success(c, responses)
}

// Delete removes a mistaken delivery and unwinds its batches and expense
func (h *DeliveryHandler) Delete(c *gin.Context) {
	deliveryID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID format")
		return
	}

	if err := h.deliveryService.Delete(c.Request.Context(), deliveryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all delivery routes
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/deliveries")
	{
		deliveries.POST("", h.Create)
		deliveries.GET("", h.ListByDay)
		deliveries.DELETE("/:id", h.Delete)
	}
}
