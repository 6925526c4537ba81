package inventory

import (
	"time"

	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryItem is one ingredient line of a delivery invoice
type DeliveryItem struct {
	ID           uuid.UUID
	DeliveryID   uuid.UUID
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
	UnitCost     *decimal.Decimal // optional per-item cost
	ExpiryDate   *time.Time
}

// Delivery is an invoice-level stock inflow. Accepting a delivery books an
// expense for its total cost and creates one ingredient batch per item.
type Delivery struct {
	shared.BaseAggregateRoot
	DailyRecordID uuid.UUID
	Supplier      string
	TotalCost     decimal.Decimal
	Destination   StockLocation
	DeliveredAt   time.Time
	Items         []DeliveryItem
}

// NewDelivery creates a delivery for an open day
func NewDelivery(dailyRecordID uuid.UUID, supplier string, totalCost decimal.Decimal, destination StockLocation, deliveredAt time.Time) (*Delivery, error) {
	if dailyRecordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DAILY_RECORD", "Daily record ID cannot be empty")
	}
	if supplier == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if totalCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Delivery cost cannot be negative")
	}
	if !destination.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Unknown stock location")
	}
	return &Delivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DailyRecordID:     dailyRecordID,
		Supplier:          supplier,
		TotalCost:         totalCost,
		Destination:       destination,
		DeliveredAt:       deliveredAt,
		Items:             make([]DeliveryItem, 0),
	}, nil
}

// AddItem appends an ingredient line to the delivery
func (d *Delivery) AddItem(ingredientID uuid.UUID, quantity decimal.Decimal, unitCost *decimal.Decimal, expiryDate *time.Time) error {
	if ingredientID == uuid.Nil {
		return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if quantity.Sign() <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Delivery item quantity must be positive")
	}
	if unitCost != nil && unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Delivery item cost cannot be negative")
	}

	d.Items = append(d.Items, DeliveryItem{
		ID:           uuid.New(),
		DeliveryID:   d.ID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		UnitCost:     unitCost,
		ExpiryDate:   expiryDate,
	})
	d.Touch()
	return nil
}

// Validate checks the delivery is ready to be accepted
func (d *Delivery) Validate() error {
	if len(d.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Delivery must contain at least one item")
	}
	return nil
}

// QuantityFor sums the delivered quantity of one ingredient across items
func (d *Delivery) QuantityFor(ingredientID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		if item.IngredientID == ingredientID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}
