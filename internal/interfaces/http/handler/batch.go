package handler

import (
	invapp "github.com/foodshop/backend/internal/application/inventory"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchHandler handles ingredient batch API endpoints
type BatchHandler struct {
	BaseHandler
	batchService *invapp.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *invapp.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// ExpiryAlertResponse is one batch line of the expiry alert feed
type ExpiryAlertResponse struct {
	BatchID        uuid.UUID       `json:"batch_id"`
	BatchNumber    string          `json:"batch_number"`
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Remaining      decimal.Decimal `json:"remaining"`
	ExpiryDate     string          `json:"expiry_date"`
	DaysUntil      int             `json:"days_until"`
	Severity       string          `json:"severity"`
}

// ExpiryReportResponse is the expiry alert feed in API responses
type ExpiryReportResponse struct {
	HorizonDays   int                   `json:"horizon_days"`
	ExpiredCount  int                   `json:"expired_count"`
	CriticalCount int                   `json:"critical_count"`
	WarningCount  int                   `json:"warning_count"`
	Alerts        []ExpiryAlertResponse `json:"alerts"`
}

func toExpiryReportResponse(report *domaininv.ExpiryReport) ExpiryReportResponse {
	alerts := make([]ExpiryAlertResponse, 0, len(report.Alerts))
	for _, alert := range report.Alerts {
		alerts = append(alerts, ExpiryAlertResponse{
			BatchID:        alert.BatchID,
			BatchNumber:    alert.BatchNumber,
			IngredientID:   alert.IngredientID,
			IngredientName: alert.IngredientName,
			Remaining:      alert.Remaining,
			ExpiryDate:     alert.ExpiryDate.Format("2006-01-02"),
			DaysUntil:      alert.DaysUntil,
			Severity:       string(alert.Severity),
		})
	}
	return ExpiryReportResponse{
		HorizonDays:   report.HorizonDays,
		ExpiredCount:  report.ExpiredCount,
		CriticalCount: report.CriticalCount,
		WarningCount:  report.WarningCount,
		Alerts:        alerts,
	}
}

// DeductBatchRequest represents a request to remove quantity from a batch
type DeductBatchRequest struct {
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Reason      string  `json:"reason" binding:"required,oneof=SALES SPOILAGE TRANSFER ADJUSTMENT"`
	ReferenceID string  `json:"reference_id" binding:"omitempty,uuid"`
}

// ListByIngredient lists the batches of an ingredient in FIFO order
func (h *BatchHandler) ListByIngredient(c *gin.Context) {
	ingredientID, err := uuid.Parse(c.Query("ingredient_id"))
	if err != nil {
		h.BadRequest(c, "ingredient_id query parameter is required")
		return
	}

	batches, err := h.batchService.ListByIngredient(c.Request.Context(), ingredientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batches)
}

// Deduct removes quantity from a specific batch
func (h *BatchHandler) Deduct(c *gin.Context) {
	batchID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req DeductBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	deductReq := invapp.DeductBatchRequest{
		BatchID:  batchID,
		Quantity: decimal.NewFromFloat(req.Quantity),
		Reason:   domaininv.DeductionReason(req.Reason),
	}
	if req.ReferenceID != "" {
		referenceID, err := uuid.Parse(req.ReferenceID)
		if err != nil {
			h.BadRequest(c, "Invalid reference ID format")
			return
		}
		deductReq.ReferenceID = &referenceID
	}

	batch, err := h.batchService.Deduct(c.Request.Context(), deductReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// ExpiryReport retrieves the expiry alert feed for active batches
func (h *BatchHandler) ExpiryReport(c *gin.Context) {
	report, err := h.batchService.ExpiryReport(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toExpiryReportResponse(report))
}

// RegisterRoutes registers all batch routes
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	{
		batches.GET("", h.ListByIngredient)
		batches.GET("/expiry-report", h.ExpiryReport)
		batches.POST("/:id/deduct", h.Deduct)
	}
}
