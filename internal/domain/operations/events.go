package operations

import (
	"time"

	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types emitted by the operations domain
const (
	EventTypeDayOpened = "operations.day_opened"
	EventTypeDayClosed = "operations.day_closed"
	EventTypeDayEdited = "operations.day_edited"
)

// DayOpenedEvent is emitted when a trading day is opened
type DayOpenedEvent struct {
	shared.BaseDomainEvent
	Date time.Time `json:"date"`
}

// NewDayOpenedEvent creates a DayOpenedEvent
func NewDayOpenedEvent(r *DailyRecord) *DayOpenedEvent {
	return &DayOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDayOpened, r.ID, "DailyRecord"),
		Date:            r.Date,
	}
}

// DayClosedEvent is emitted when a trading day is closed
type DayClosedEvent struct {
	shared.BaseDomainEvent
	Date        time.Time       `json:"date"`
	TotalIncome decimal.Decimal `json:"total_income"`
}

// NewDayClosedEvent creates a DayClosedEvent
func NewDayClosedEvent(r *DailyRecord) *DayClosedEvent {
	return &DayClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDayClosed, r.ID, "DailyRecord"),
		Date:            r.Date,
		TotalIncome:     r.Financials.TotalIncome,
	}
}

// DayEditedEvent is emitted when a closed day's counts are replayed
type DayEditedEvent struct {
	shared.BaseDomainEvent
	Date time.Time `json:"date"`
}

// NewDayEditedEvent creates a DayEditedEvent
func NewDayEditedEvent(r *DailyRecord) *DayEditedEvent {
	return &DayEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDayEdited, r.ID, "DailyRecord"),
		Date:            r.Date,
	}
}
