package handler

import (
	"strings"
	"time"

	salesapp "github.com/foodshop/backend/internal/application/sales"
	domainsales "github.com/foodshop/backend/internal/domain/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesHandler handles recorded sale and reconciliation API endpoints
type SalesHandler struct {
	BaseHandler
	salesService          *salesapp.SalesService
	reconciliationService *salesapp.ReconciliationService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(salesService *salesapp.SalesService, reconciliationService *salesapp.ReconciliationService) *SalesHandler {
	return &SalesHandler{
		salesService:          salesService,
		reconciliationService: reconciliationService,
	}
}

// RecordSaleRequest represents a request to log a manual sale
type RecordSaleRequest struct {
	DailyRecordID string `json:"daily_record_id" binding:"required,uuid"`
	VariantID     string `json:"variant_id" binding:"required,uuid"`
	Quantity      int64  `json:"quantity" binding:"required,gt=0"`
	SoldAt        string `json:"sold_at"`
}

// VoidSaleRequest represents a request to void a recorded sale
type VoidSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=255"`
	Notes  string `json:"notes" binding:"max=1000"`
}

// VariantComparisonResponse is one per-variant row of a reconciliation report
type VariantComparisonResponse struct {
	VariantID         uuid.UUID       `json:"variant_id"`
	VariantName       string          `json:"variant_name"`
	RecordedQty       int64           `json:"recorded_qty"`
	CalculatedQty     int64           `json:"calculated_qty"`
	RecordedRevenue   decimal.Decimal `json:"recorded_revenue"`
	CalculatedRevenue decimal.Decimal `json:"calculated_revenue"`
	QtyDifference     int64           `json:"qty_difference"`
	RevenueDifference decimal.Decimal `json:"revenue_difference"`
}

// SuggestionResponse proposes a sale the manual log appears to have missed
type SuggestionResponse struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	VariantName string          `json:"variant_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ReconciliationReportResponse compares recorded against calculated sales
type ReconciliationReportResponse struct {
	RecordedTotal      decimal.Decimal             `json:"recorded_total"`
	CalculatedTotal    decimal.Decimal             `json:"calculated_total"`
	DiscrepancyPercent decimal.Decimal             `json:"discrepancy_percent"`
	Flag               string                      `json:"flag"`
	Critical           bool                        `json:"critical"`
	Rows               []VariantComparisonResponse `json:"rows"`
	Suggestions        []SuggestionResponse        `json:"suggestions"`
}

func toReconciliationResponse(report *domainsales.ReconciliationReport) ReconciliationReportResponse {
	rows := make([]VariantComparisonResponse, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, VariantComparisonResponse{
			VariantID:         row.VariantID,
			VariantName:       row.VariantName,
			RecordedQty:       row.RecordedQty,
			CalculatedQty:     row.CalculatedQty,
			RecordedRevenue:   row.RecordedRevenue,
			CalculatedRevenue: row.CalculatedRevenue,
			QtyDifference:     row.QtyDifference,
			RevenueDifference: row.RevenueDifference,
		})
	}
	suggestions := make([]SuggestionResponse, 0, len(report.Suggestions))
	for _, s := range report.Suggestions {
		suggestions = append(suggestions, SuggestionResponse{
			VariantID:   s.VariantID,
			VariantName: s.VariantName,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			Revenue:     s.Revenue,
		})
	}
	return ReconciliationReportResponse{
		RecordedTotal:      report.RecordedTotal,
		CalculatedTotal:    report.CalculatedTotal,
		DiscrepancyPercent: report.DiscrepancyPercent,
		Flag:               string(report.Flag),
		Critical:           report.Critical,
		Rows:               rows,
		Suggestions:        suggestions,
	}
}

// Record logs a manual sale against an open day
func (h *SalesHandler) Record(c *gin.Context) {
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recordID, err := uuid.Parse(req.DailyRecordID)
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	var soldAt time.Time
	if req.SoldAt != "" {
		soldAt, err = time.Parse(time.RFC3339, req.SoldAt)
		if err != nil {
			h.BadRequest(c, "Invalid sold_at format, expected RFC3339")
			return
		}
	}

	sale, err := h.salesService.Record(c.Request.Context(), salesapp.RecordSaleRequest{
		DailyRecordID: recordID,
		VariantID:     variantID,
		Quantity:      req.Quantity,
		SoldAt:        soldAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// Void voids a recorded sale, keeping the row for audit
func (h *SalesHandler) Void(c *gin.Context) {
	saleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req VoidSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.salesService.Void(c.Request.Context(), salesapp.VoidSaleRequest{
		SaleID: saleID,
		Reason: strings.TrimSpace(req.Reason),
		Notes:  strings.TrimSpace(req.Notes),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListByDay lists the recorded sales of a trading day, voided rows included
func (h *SalesHandler) ListByDay(c *gin.Context) {
	recordID, err := uuid.Parse(c.Query("daily_record_id"))
	if err != nil {
		h.BadRequest(c, "daily_record_id query parameter is required")
		return
	}

	sales, err := h.salesService.ListByDay(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sales)
}

// Reconciliation retrieves the recorded-versus-calculated comparison for a day
func (h *SalesHandler) Reconciliation(c *gin.Context) {
	recordID, err := uuid.Parse(c.Query("daily_record_id"))
	if err != nil {
		h.BadRequest(c, "daily_record_id query parameter is required")
		return
	}

	report, err := h.reconciliationService.Report(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toReconciliationResponse(report))
}

// RegisterRoutes registers all sales routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Record)
		sales.GET("", h.ListByDay)
		sales.POST("/:id/void", h.Void)
		sales.GET("/reconciliation", h.Reconciliation)
	}
}
