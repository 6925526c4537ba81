package handler

import (
	"strconv"

	opsapp "github.com/foodshop/backend/internal/application/operations"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyRecordHandler handles trading day lifecycle API endpoints
type DailyRecordHandler struct {
	BaseHandler
	dayService *opsapp.DailyRecordService
}

// NewDailyRecordHandler creates a new DailyRecordHandler
func NewDailyRecordHandler(dayService *opsapp.DailyRecordService) *DailyRecordHandler {
	return &DailyRecordHandler{dayService: dayService}
}

// IngredientCountRequest is one (ingredient, quantity) pair of a count
type IngredientCountRequest struct {
	IngredientID string  `json:"ingredient_id" binding:"required,uuid"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
}

// OpenDayRequest represents a request to open a trading day
type OpenDayRequest struct {
	Date          string                   `json:"date" binding:"required"`
	OpeningCounts []IngredientCountRequest `json:"opening_counts" binding:"required,min=1,dive"`
}

// CloseDayRequest represents a request to close a trading day
type CloseDayRequest struct {
	ClosingCounts []IngredientCountRequest `json:"closing_counts" binding:"required,min=1,dive"`
	Notes         string                   `json:"notes" binding:"max=2000"`
}

// EditDayRequest represents a request to rework a closed day's counts
type EditDayRequest struct {
	ClosingCounts []IngredientCountRequest `json:"closing_counts" binding:"required,min=1,dive"`
	Notes         string                   `json:"notes" binding:"max=2000"`
}

func toIngredientCounts(reqs []IngredientCountRequest) ([]opsapp.IngredientCount, error) {
	counts := make([]opsapp.IngredientCount, 0, len(reqs))
	for _, r := range reqs {
		id, err := uuid.Parse(r.IngredientID)
		if err != nil {
			return nil, err
		}
		counts = append(counts, opsapp.IngredientCount{
			IngredientID: id,
			Quantity:     decimal.NewFromFloat(r.Quantity),
		})
	}
	return counts, nil
}

// Open opens a trading day with opening shop counts
func (h *DailyRecordHandler) Open(c *gin.Context) {
	var req OpenDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	counts, err := toIngredientCounts(req.OpeningCounts)
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID format")
		return
	}

	record, err := h.dayService.Open(c.Request.Context(), opsapp.OpenDayRequest{
		Date:          date,
		OpeningCounts: counts,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// Close closes a trading day with closing shop counts
func (h *DailyRecordHandler) Close(c *gin.Context) {
	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}

	var req CloseDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	counts, err := toIngredientCounts(req.ClosingCounts)
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID format")
		return
	}

	record, err := h.dayService.Close(c.Request.Context(), opsapp.CloseDayRequest{
		RecordID:      recordID,
		ClosingCounts: counts,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Edit replays the close of an already closed day with corrected counts
func (h *DailyRecordHandler) Edit(c *gin.Context) {
	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}

	var req EditDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	counts, err := toIngredientCounts(req.ClosingCounts)
	if err != nil {
		h.BadRequest(c, "Invalid ingredient ID format")
		return
	}

	record, err := h.dayService.EditClosed(c.Request.Context(), opsapp.EditClosedDayRequest{
		RecordID:      recordID,
		ClosingCounts: counts,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByID retrieves a daily record by its ID
func (h *DailyRecordHandler) GetByID(c *gin.Context) {
	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}

	record, err := h.dayService.GetByID(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByDate retrieves the daily record for a calendar date
func (h *DailyRecordHandler) GetByDate(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		h.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	record, err := h.dayService.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// List retrieves the most recent daily records, newest first
func (h *DailyRecordHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.dayService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// Summary retrieves the full day report with usage rows, calculated sales
// and discrepancy alerts
func (h *DailyRecordHandler) Summary(c *gin.Context) {
	recordID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid daily record ID format")
		return
	}

	summary, err := h.dayService.Summary(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// RegisterRoutes registers all daily record routes
func (h *DailyRecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	days := rg.Group("/days")
	{
		days.POST("", h.Open)
		days.GET("", h.List)
		days.GET("/date/:date", h.GetByDate)
		days.GET("/:id", h.GetByID)
		days.GET("/:id/summary", h.Summary)
		days.POST("/:id/close", h.Close)
		days.PUT("/:id", h.Edit)
	}
}
