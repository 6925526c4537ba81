package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecordedSaleRepository provides access to manually logged sales
type RecordedSaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RecordedSale, error)
	// FindByDailyRecord returns a day's sales, voided rows included;
	// callers filter via IsVoided where it matters.
	FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]RecordedSale, error)
	Save(ctx context.Context, sale *RecordedSale) error
}

// CalculatedSaleRepository holds the derived-sales materialized view.
// ReplaceForRecord implements the clear-then-recompute semantics: it
// deletes the day's rows and inserts the new set in one call.
type CalculatedSaleRepository interface {
	FindByDailyRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]CalculatedSale, error)
	ReplaceForRecord(ctx context.Context, dailyRecordID uuid.UUID, sales []CalculatedSale) error
	DeleteByRecord(ctx context.Context, dailyRecordID uuid.UUID) error
}

// ShiftAssignment is the scheduling collaborator's answer to "who was on
// shift at this moment". Consumed for sale attribution only.
type ShiftAssignment struct {
	ShiftID    uuid.UUID
	EmployeeID uuid.UUID
}

// ShiftProvider is the EmployeeScheduling collaborator interface
type ShiftProvider interface {
	// ShiftAt returns the confirmed shift covering the given timestamp of a
	// day, or ok=false when none is scheduled.
	ShiftAt(ctx context.Context, dailyRecordID uuid.UUID, at time.Time) (ShiftAssignment, bool, error)
}
