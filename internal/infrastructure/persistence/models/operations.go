package models

import (
	"time"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/operations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyRecordModel is the persistence model for the DailyRecord aggregate
// root. The unique index on record_date enforces one record per calendar
// date at the database level.
type DailyRecordModel struct {
	AggregateModel
	RecordDate         time.Time       `gorm:"type:date;not null;uniqueIndex"`
	Status             string          `gorm:"size:16;not null;index"`
	OpenedAt           time.Time       `gorm:"not null"`
	ClosedAt           *time.Time      `gorm:""`
	TotalIncome        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeliveryCost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SpoilageCost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	RecordedRevenue    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CalculatedRevenue  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscrepancyRevenue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes              string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DailyRecordModel) TableName() string {
	return "daily_records"
}

// ToDomain converts the persistence model to a domain DailyRecord.
func (m *DailyRecordModel) ToDomain() *operations.DailyRecord {
	record := &operations.DailyRecord{
		Date:     m.RecordDate,
		Status:   operations.DailyRecordStatus(m.Status),
		OpenedAt: m.OpenedAt,
		ClosedAt: m.ClosedAt,
		Financials: operations.DayFinancials{
			TotalIncome:        m.TotalIncome,
			DeliveryCost:       m.DeliveryCost,
			SpoilageCost:       m.SpoilageCost,
			RecordedRevenue:    m.RecordedRevenue,
			CalculatedRevenue:  m.CalculatedRevenue,
			DiscrepancyRevenue: m.DiscrepancyRevenue,
		},
		Notes: m.Notes,
	}
	m.PopulateAggregateRoot(&record.BaseAggregateRoot)
	return record
}

// FromDomain populates the model from a domain DailyRecord.
func (m *DailyRecordModel) FromDomain(r *operations.DailyRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.RecordDate = r.Date
	m.Status = r.Status.String()
	m.OpenedAt = r.OpenedAt
	m.ClosedAt = r.ClosedAt
	m.TotalIncome = r.Financials.TotalIncome
	m.DeliveryCost = r.Financials.DeliveryCost
	m.SpoilageCost = r.Financials.SpoilageCost
	m.RecordedRevenue = r.Financials.RecordedRevenue
	m.CalculatedRevenue = r.Financials.CalculatedRevenue
	m.DiscrepancyRevenue = r.Financials.DiscrepancyRevenue
	m.Notes = r.Notes
}

// DailyRecordModelFromDomain creates a model from a domain DailyRecord.
func DailyRecordModelFromDomain(r *operations.DailyRecord) *DailyRecordModel {
	m := &DailyRecordModel{}
	m.FromDomain(r)
	return m
}

// InventorySnapshotModel is the persistence model for opening and closing
// counts. The composite unique index enforces at most one snapshot per
// (record, ingredient, kind, location).
type InventorySnapshotModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DailyRecordID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_record_ingredient,priority:1"`
	IngredientID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_record_ingredient,priority:2"`
	Kind          string          `gorm:"size:16;not null;uniqueIndex:idx_snapshot_record_ingredient,priority:3"`
	Location      string          `gorm:"size:16;not null;uniqueIndex:idx_snapshot_record_ingredient,priority:4"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventorySnapshotModel) TableName() string {
	return "inventory_snapshots"
}

// ToDomain converts the persistence model to a domain InventorySnapshot.
func (m *InventorySnapshotModel) ToDomain() *operations.InventorySnapshot {
	return &operations.InventorySnapshot{
		ID:            m.ID,
		DailyRecordID: m.DailyRecordID,
		IngredientID:  m.IngredientID,
		Kind:          operations.SnapshotKind(m.Kind),
		Location:      inventory.StockLocation(m.Location),
		Quantity:      m.Quantity,
		CreatedAt:     m.CreatedAt,
	}
}

// InventorySnapshotModelFromDomain creates a model from a domain snapshot.
func InventorySnapshotModelFromDomain(s *operations.InventorySnapshot) *InventorySnapshotModel {
	return &InventorySnapshotModel{
		ID:            s.ID,
		DailyRecordID: s.DailyRecordID,
		IngredientID:  s.IngredientID,
		Kind:          string(s.Kind),
		Location:      s.Location.String(),
		Quantity:      s.Quantity,
		CreatedAt:     s.CreatedAt,
	}
}
