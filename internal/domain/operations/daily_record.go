package operations

import (
	"fmt"
	"time"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyRecordStatus represents the lifecycle state of a trading day
type DailyRecordStatus string

const (
	DailyRecordStatusOpen   DailyRecordStatus = "OPEN"
	DailyRecordStatusClosed DailyRecordStatus = "CLOSED"
)

// IsValid checks if the status is a valid DailyRecordStatus
func (s DailyRecordStatus) IsValid() bool {
	return s == DailyRecordStatusOpen || s == DailyRecordStatusClosed
}

// String returns the string representation of DailyRecordStatus
func (s DailyRecordStatus) String() string {
	return string(s)
}

// SnapshotKind tags an inventory snapshot as opening or closing count
type SnapshotKind string

const (
	SnapshotKindOpen  SnapshotKind = "OPEN"
	SnapshotKindClose SnapshotKind = "CLOSE"
)

// IsValid checks if the kind is a valid SnapshotKind
func (k SnapshotKind) IsValid() bool {
	return k == SnapshotKindOpen || k == SnapshotKindClose
}

// InventorySnapshot is a point-in-time ingredient count for a day. At most
// one snapshot exists per (record, ingredient, kind, location).
type InventorySnapshot struct {
	ID            uuid.UUID
	DailyRecordID uuid.UUID
	IngredientID  uuid.UUID
	Kind          SnapshotKind
	Location      inventory.StockLocation
	Quantity      decimal.Decimal
	CreatedAt     time.Time
}

// NewInventorySnapshot creates a snapshot row
func NewInventorySnapshot(dailyRecordID, ingredientID uuid.UUID, kind SnapshotKind, location inventory.StockLocation, quantity decimal.Decimal) (*InventorySnapshot, error) {
	if dailyRecordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DAILY_RECORD", "Daily record ID cannot be empty")
	}
	if ingredientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown snapshot kind")
	}
	if !location.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Unknown stock location")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Snapshot quantity cannot be negative")
	}
	return &InventorySnapshot{
		ID:            uuid.New(),
		DailyRecordID: dailyRecordID,
		IngredientID:  ingredientID,
		Kind:          kind,
		Location:      location,
		Quantity:      quantity,
		CreatedAt:     time.Now(),
	}, nil
}

// DayFinancials are the accumulated money totals of one trading day
type DayFinancials struct {
	TotalIncome        decimal.Decimal
	DeliveryCost       decimal.Decimal
	SpoilageCost       decimal.Decimal
	RecordedRevenue    decimal.Decimal
	CalculatedRevenue  decimal.Decimal
	DiscrepancyRevenue decimal.Decimal // recorded − calculated
}

// DailyRecord is the unit-of-work for one calendar date of shop operation.
// It is the aggregate root of the day lifecycle: OPEN on creation, CLOSED on
// close, editable in place afterwards. One record exists per date.
type DailyRecord struct {
	shared.BaseAggregateRoot
	Date       time.Time // calendar date, time part zeroed
	Status     DailyRecordStatus
	OpenedAt   time.Time
	ClosedAt   *time.Time
	Financials DayFinancials
	Notes      string
}

// NewDailyRecord opens a new trading day
func NewDailyRecord(date time.Time) (*DailyRecord, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Date cannot be empty")
	}

	record := &DailyRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              truncateToDate(date),
		Status:            DailyRecordStatusOpen,
		OpenedAt:          time.Now(),
	}
	record.AddDomainEvent(NewDayOpenedEvent(record))
	return record, nil
}

// IsOpen reports whether mid-day mutations are allowed
func (r *DailyRecord) IsOpen() bool {
	return r.Status == DailyRecordStatusOpen
}

// EnsureOpen returns ErrDayNotOpen unless the record is OPEN. Mid-day event
// APIs (delivery, transfer, spoilage, recorded sale) are gated on this.
func (r *DailyRecord) EnsureOpen() error {
	if !r.IsOpen() {
		return shared.ErrDayNotOpen
	}
	return nil
}

// Close transitions the day to CLOSED and stores the accumulated totals.
// Closing an already closed day fails; use Reconcile/edit flows instead.
func (r *DailyRecord) Close(financials DayFinancials, notes string) error {
	if r.Status == DailyRecordStatusClosed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Daily record for %s is already closed", r.Date.Format("2006-01-02")))
	}

	now := time.Now()
	r.Status = DailyRecordStatusClosed
	r.ClosedAt = &now
	r.Financials = financials
	if notes != "" {
		r.Notes = notes
	}
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewDayClosedEvent(r))
	return nil
}

// ApplyEdit replays a close on an already CLOSED record with new totals.
// Editing an open day fails; it has nothing to replay.
func (r *DailyRecord) ApplyEdit(financials DayFinancials, notes string) error {
	if r.Status != DailyRecordStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Only a closed daily record can be edited")
	}

	r.Financials = financials
	if notes != "" {
		r.Notes = notes
	}
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewDayEditedEvent(r))
	return nil
}

// AddDeliveryCost accumulates a delivery's invoice cost onto the day
func (r *DailyRecord) AddDeliveryCost(cost decimal.Decimal) {
	r.Financials.DeliveryCost = r.Financials.DeliveryCost.Add(cost)
	r.Touch()
}

// truncateToDate zeroes the time part, keeping the location
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
