package inventory

import (
	"time"

	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryItemRequest is one ingredient line of an incoming delivery
type DeliveryItemRequest struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
	UnitCost     *decimal.Decimal
	ExpiryDate   *time.Time
}

// CreateDeliveryRequest accepts a supplier delivery into an open day
type CreateDeliveryRequest struct {
	DailyRecordID uuid.UUID
	Supplier      string
	TotalCost     decimal.Decimal
	Destination   domaininv.StockLocation
	DeliveredAt   time.Time
	Items         []DeliveryItemRequest
}

// DeliveryResponse is the external view of an accepted delivery
type DeliveryResponse struct {
	ID           uuid.UUID       `json:"id"`
	Supplier     string          `json:"supplier"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Destination  string          `json:"destination"`
	DeliveredAt  time.Time       `json:"delivered_at"`
	BatchNumbers []string        `json:"batch_numbers"`
}

// CreateTransferRequest moves stock from storage to the shop floor
type CreateTransferRequest struct {
	DailyRecordID uuid.UUID
	IngredientID  uuid.UUID
	Quantity      decimal.Decimal
}

// TransferResponse is the external view of a storage transfer
type TransferResponse struct {
	ID           uuid.UUID       `json:"id"`
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// RecordSpoilageRequest books spoiled stock against an open day
type RecordSpoilageRequest struct {
	DailyRecordID uuid.UUID
	IngredientID  uuid.UUID
	BatchID       *uuid.UUID
	Quantity      decimal.Decimal
	Reason        domaininv.SpoilageReason
	Notes         string
}

// SpoilageResponse is the external view of a spoilage record
type SpoilageResponse struct {
	ID           uuid.UUID       `json:"id"`
	IngredientID uuid.UUID       `json:"ingredient_id"`
	BatchID      *uuid.UUID      `json:"batch_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
}

// DeductBatchRequest removes quantity from a specific batch
type DeductBatchRequest struct {
	BatchID     uuid.UUID
	Quantity    decimal.Decimal
	Reason      domaininv.DeductionReason
	ReferenceID *uuid.UUID
}

// BatchResponse is the external view of an ingredient batch
type BatchResponse struct {
	ID              uuid.UUID       `json:"id"`
	BatchNumber     string          `json:"batch_number"`
	IngredientID    uuid.UUID       `json:"ingredient_id"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	Remaining       decimal.Decimal `json:"remaining"`
	Location        string          `json:"location"`
	Active          bool            `json:"active"`
}

// ToBatchResponse maps a domain batch to its response
func ToBatchResponse(b *domaininv.IngredientBatch) BatchResponse {
	return BatchResponse{
		ID:              b.ID,
		BatchNumber:     b.BatchNumber,
		IngredientID:    b.IngredientID,
		ExpiryDate:      b.ExpiryDate,
		InitialQuantity: b.InitialQuantity,
		Remaining:       b.Remaining,
		Location:        string(b.Location),
		Active:          b.Active,
	}
}

// StorageLevelResponse is one per-ingredient storage quantity row
type StorageLevelResponse struct {
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Quantity       decimal.Decimal `json:"quantity"`
}
