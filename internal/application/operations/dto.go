package operations

import (
	"time"

	domainops "github.com/foodshop/backend/internal/domain/operations"
	"github.com/foodshop/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientCount is one (ingredient, quantity) pair of an opening or
// closing count.
type IngredientCount struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
}

// OpenDayRequest opens a trading day with opening SHOP counts
type OpenDayRequest struct {
	Date          time.Time
	OpeningCounts []IngredientCount
}

// CloseDayRequest closes a trading day with closing SHOP counts
type CloseDayRequest struct {
	RecordID      uuid.UUID
	ClosingCounts []IngredientCount
	Notes         string
}

// EditClosedDayRequest replays the close of an already closed day
type EditClosedDayRequest struct {
	RecordID      uuid.UUID
	ClosingCounts []IngredientCount
	Notes         string
}

// DailyRecordResponse is the external view of a daily record
type DailyRecordResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Date               string          `json:"date"`
	Status             string          `json:"status"`
	OpenedAt           time.Time       `json:"opened_at"`
	ClosedAt           *time.Time      `json:"closed_at,omitempty"`
	TotalIncome        decimal.Decimal `json:"total_income"`
	DeliveryCost       decimal.Decimal `json:"delivery_cost"`
	SpoilageCost       decimal.Decimal `json:"spoilage_cost"`
	RecordedRevenue    decimal.Decimal `json:"recorded_revenue"`
	CalculatedRevenue  decimal.Decimal `json:"calculated_revenue"`
	DiscrepancyRevenue decimal.Decimal `json:"discrepancy_revenue"`
	Notes              string          `json:"notes,omitempty"`
}

// ToDailyRecordResponse maps a domain record to its response
func ToDailyRecordResponse(r *domainops.DailyRecord) DailyRecordResponse {
	return DailyRecordResponse{
		ID:                 r.ID,
		Date:               r.Date.Format("2006-01-02"),
		Status:             r.Status.String(),
		OpenedAt:           r.OpenedAt,
		ClosedAt:           r.ClosedAt,
		TotalIncome:        r.Financials.TotalIncome,
		DeliveryCost:       r.Financials.DeliveryCost,
		SpoilageCost:       r.Financials.SpoilageCost,
		RecordedRevenue:    r.Financials.RecordedRevenue,
		CalculatedRevenue:  r.Financials.CalculatedRevenue,
		DiscrepancyRevenue: r.Financials.DiscrepancyRevenue,
		Notes:              r.Notes,
	}
}

// UsageRow is one ingredient line of a day summary
type UsageRow struct {
	IngredientID       uuid.UUID       `json:"ingredient_id"`
	IngredientName     string          `json:"ingredient_name"`
	Unit               string          `json:"unit"`
	Opening            decimal.Decimal `json:"opening"`
	Deliveries         decimal.Decimal `json:"deliveries"`
	Transfers          decimal.Decimal `json:"transfers"`
	Spoilage           decimal.Decimal `json:"spoilage"`
	ExpectedClosing    decimal.Decimal `json:"expected_closing"`
	ActualClosing      decimal.Decimal `json:"actual_closing"`
	Usage              decimal.Decimal `json:"usage"`
	DiscrepancyPercent decimal.Decimal `json:"discrepancy_percent"`
	Level              string          `json:"level"`
}

// CalculatedSaleRow is one derived-sale line of a day summary
type CalculatedSaleRow struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	VariantName string          `json:"variant_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ToCalculatedSaleRows maps calculated sales with their variant names
func ToCalculatedSaleRows(items []sales.CalculatedSale, names map[uuid.UUID]string) []CalculatedSaleRow {
	rows := make([]CalculatedSaleRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, CalculatedSaleRow{
			VariantID:   item.VariantID,
			VariantName: names[item.VariantID],
			Quantity:    item.Quantity,
			Revenue:     item.Revenue,
		})
	}
	return rows
}

// DiscrepancyAlert flags an ingredient whose count drifted beyond ok
type DiscrepancyAlert struct {
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Percent        decimal.Decimal `json:"percent"`
	Level          string          `json:"level"`
}

// DaySummaryResponse is the full day report consumed by reporting and UI
type DaySummaryResponse struct {
	Record            DailyRecordResponse `json:"record"`
	Usage             []UsageRow          `json:"usage"`
	CalculatedSales   []CalculatedSaleRow `json:"calculated_sales"`
	DiscrepancyAlerts []DiscrepancyAlert  `json:"discrepancy_alerts"`
}
