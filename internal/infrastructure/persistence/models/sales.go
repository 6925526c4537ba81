package models

import (
	"time"

	"github.com/foodshop/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordedSaleModel is the persistence model for manually logged sales.
// Void state is flattened: voided sales keep their row forever.
type RecordedSaleModel struct {
	AggregateModel
	DailyRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity      int64           `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShiftID       *uuid.UUID      `gorm:"type:uuid;index"`
	Voided        bool            `gorm:"not null;default:false"`
	VoidedAt      *time.Time      `gorm:""`
	VoidReason    string          `gorm:"size:255"`
	VoidNotes     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RecordedSaleModel) TableName() string {
	return "recorded_sales"
}

// ToDomain converts the persistence model to a domain RecordedSale.
func (m *RecordedSaleModel) ToDomain() *sales.RecordedSale {
	sale := &sales.RecordedSale{
		DailyRecordID: m.DailyRecordID,
		VariantID:     m.VariantID,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		ShiftID:       m.ShiftID,
		Void: sales.VoidState{
			Voided: m.Voided,
			At:     m.VoidedAt,
			Reason: m.VoidReason,
			Notes:  m.VoidNotes,
		},
	}
	m.PopulateAggregateRoot(&sale.BaseAggregateRoot)
	return sale
}

// FromDomain populates the model from a domain RecordedSale.
func (m *RecordedSaleModel) FromDomain(s *sales.RecordedSale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.DailyRecordID = s.DailyRecordID
	m.VariantID = s.VariantID
	m.Quantity = s.Quantity
	m.UnitPrice = s.UnitPrice
	m.ShiftID = s.ShiftID
	m.Voided = s.Void.Voided
	m.VoidedAt = s.Void.At
	m.VoidReason = s.Void.Reason
	m.VoidNotes = s.Void.Notes
}

// RecordedSaleModelFromDomain creates a model from a domain RecordedSale.
func RecordedSaleModelFromDomain(s *sales.RecordedSale) *RecordedSaleModel {
	m := &RecordedSaleModel{}
	m.FromDomain(s)
	return m
}

// CalculatedSaleModel is the persistence model for derived sales. A day's
// rows form a materialized view and are replaced wholesale on recompute.
type CalculatedSaleModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DailyRecordID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_calculated_sale_record_variant,priority:1"`
	VariantID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_calculated_sale_record_variant,priority:2"`
	Quantity      int64           `gorm:"not null"`
	Revenue       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CalculatedSaleModel) TableName() string {
	return "calculated_sales"
}

// ToDomain converts the persistence model to a domain CalculatedSale.
func (m *CalculatedSaleModel) ToDomain() sales.CalculatedSale {
	return sales.CalculatedSale{
		ID:            m.ID,
		DailyRecordID: m.DailyRecordID,
		VariantID:     m.VariantID,
		Quantity:      m.Quantity,
		Revenue:       m.Revenue,
		CreatedAt:     m.CreatedAt,
	}
}

// CalculatedSaleModelFromDomain creates a model from a domain row.
func CalculatedSaleModelFromDomain(s sales.CalculatedSale) CalculatedSaleModel {
	return CalculatedSaleModel{
		ID:            s.ID,
		DailyRecordID: s.DailyRecordID,
		VariantID:     s.VariantID,
		Quantity:      s.Quantity,
		Revenue:       s.Revenue,
		CreatedAt:     s.CreatedAt,
	}
}
