package operations

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailyRecordRepository provides access to daily records. A unique
// constraint on the record date backs the one-record-per-date rule; Save of
// a fresh record surfaces a duplicate-key violation as a domain conflict.
type DailyRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DailyRecord, error)
	FindByDate(ctx context.Context, date time.Time) (*DailyRecord, error)
	// FindOpenBefore returns open records dated strictly before the given
	// date, oldest first. Used to warn about forgotten days on open.
	FindOpenBefore(ctx context.Context, date time.Time) ([]DailyRecord, error)
	FindRecent(ctx context.Context, limit int) ([]DailyRecord, error)
	Save(ctx context.Context, record *DailyRecord) error
}

// SnapshotRepository provides access to opening/closing inventory counts
type SnapshotRepository interface {
	FindByRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]InventorySnapshot, error)
	FindByRecordAndKind(ctx context.Context, dailyRecordID uuid.UUID, kind SnapshotKind) ([]InventorySnapshot, error)
	Save(ctx context.Context, snapshot *InventorySnapshot) error
	// DeleteByRecordAndKind removes a day's snapshots of one kind; used by
	// the closed-day edit flow before re-persisting closing counts.
	DeleteByRecordAndKind(ctx context.Context, dailyRecordID uuid.UUID, kind SnapshotKind) error
}
