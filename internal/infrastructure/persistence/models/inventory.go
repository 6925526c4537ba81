package models

import (
	"time"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryModel is the persistence model for the Delivery aggregate root.
type DeliveryModel struct {
	AggregateModel
	DailyRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Supplier      string          `gorm:"size:255;not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Destination   string          `gorm:"size:16;not null"`
	DeliveredAt   time.Time       `gorm:"not null"`
	// Associations
	Items []DeliveryItemModel `gorm:"foreignKey:DeliveryID;references:ID"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// ToDomain converts the persistence model to a domain Delivery.
func (m *DeliveryModel) ToDomain() *inventory.Delivery {
	delivery := &inventory.Delivery{
		DailyRecordID: m.DailyRecordID,
		Supplier:      m.Supplier,
		TotalCost:     m.TotalCost,
		Destination:   inventory.StockLocation(m.Destination),
		DeliveredAt:   m.DeliveredAt,
		Items:         make([]inventory.DeliveryItem, len(m.Items)),
	}
	m.PopulateAggregateRoot(&delivery.BaseAggregateRoot)
	for i, item := range m.Items {
		delivery.Items[i] = item.ToDomain()
	}
	return delivery
}

// FromDomain populates the model from a domain Delivery.
func (m *DeliveryModel) FromDomain(d *inventory.Delivery) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.DailyRecordID = d.DailyRecordID
	m.Supplier = d.Supplier
	m.TotalCost = d.TotalCost
	m.Destination = d.Destination.String()
	m.DeliveredAt = d.DeliveredAt
	m.Items = make([]DeliveryItemModel, len(d.Items))
	for i, item := range d.Items {
		m.Items[i] = DeliveryItemModelFromDomain(item)
	}
}

// DeliveryModelFromDomain creates a model from a domain Delivery.
func DeliveryModelFromDomain(d *inventory.Delivery) *DeliveryModel {
	m := &DeliveryModel{}
	m.FromDomain(d)
	return m
}

// DeliveryItemModel is one ingredient line of a delivery invoice.
type DeliveryItemModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	DeliveryID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	IngredientID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitCost     *decimal.Decimal `gorm:"type:decimal(12,4)"`
	ExpiryDate   *time.Time       `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (DeliveryItemModel) TableName() string {
	return "delivery_items"
}

// ToDomain converts the persistence model to a domain DeliveryItem.
func (m *DeliveryItemModel) ToDomain() inventory.DeliveryItem {
	return inventory.DeliveryItem{
		ID:           m.ID,
		DeliveryID:   m.DeliveryID,
		IngredientID: m.IngredientID,
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		ExpiryDate:   m.ExpiryDate,
	}
}

// DeliveryItemModelFromDomain creates a model from a domain DeliveryItem.
func DeliveryItemModelFromDomain(item inventory.DeliveryItem) DeliveryItemModel {
	return DeliveryItemModel{
		ID:           item.ID,
		DeliveryID:   item.DeliveryID,
		IngredientID: item.IngredientID,
		Quantity:     item.Quantity,
		UnitCost:     item.UnitCost,
		ExpiryDate:   item.ExpiryDate,
	}
}

// IngredientBatchModel is the persistence model for traceable ingredient
// lots. Batch numbers are unique across all time.
type IngredientBatchModel struct {
	BaseModel
	BatchNumber     string           `gorm:"size:32;not null;uniqueIndex"`
	IngredientID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	DeliveryItemID  *uuid.UUID       `gorm:"type:uuid;index"`
	ExpiryDate      *time.Time       `gorm:"type:date;index"`
	InitialQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Remaining       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitCost        *decimal.Decimal `gorm:"type:decimal(12,4)"`
	Location        string           `gorm:"size:16;not null"`
	Active          bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (IngredientBatchModel) TableName() string {
	return "ingredient_batches"
}

// ToDomain converts the persistence model to a domain IngredientBatch.
func (m *IngredientBatchModel) ToDomain() *inventory.IngredientBatch {
	return &inventory.IngredientBatch{
		BaseEntity:      m.BaseModel.ToDomain(),
		BatchNumber:     m.BatchNumber,
		IngredientID:    m.IngredientID,
		DeliveryItemID:  m.DeliveryItemID,
		ExpiryDate:      m.ExpiryDate,
		InitialQuantity: m.InitialQuantity,
		Remaining:       m.Remaining,
		UnitCost:        m.UnitCost,
		Location:        inventory.StockLocation(m.Location),
		Active:          m.Active,
	}
}

// FromDomain populates the model from a domain IngredientBatch.
func (m *IngredientBatchModel) FromDomain(b *inventory.IngredientBatch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.BatchNumber = b.BatchNumber
	m.IngredientID = b.IngredientID
	m.DeliveryItemID = b.DeliveryItemID
	m.ExpiryDate = b.ExpiryDate
	m.InitialQuantity = b.InitialQuantity
	m.Remaining = b.Remaining
	m.UnitCost = b.UnitCost
	m.Location = b.Location.String()
	m.Active = b.Active
}

// IngredientBatchModelFromDomain creates a model from a domain batch.
func IngredientBatchModelFromDomain(b *inventory.IngredientBatch) *IngredientBatchModel {
	m := &IngredientBatchModel{}
	m.FromDomain(b)
	return m
}

// BatchDeductionModel is the append-only audit row for batch deductions.
type BatchDeductionModel struct {
	BaseModel
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason      string          `gorm:"size:16;not null"`
	ReferenceID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (BatchDeductionModel) TableName() string {
	return "batch_deductions"
}

// ToDomain converts the persistence model to a domain BatchDeduction.
func (m *BatchDeductionModel) ToDomain() *inventory.BatchDeduction {
	return &inventory.BatchDeduction{
		BaseEntity:  m.BaseModel.ToDomain(),
		BatchID:     m.BatchID,
		Quantity:    m.Quantity,
		Reason:      inventory.DeductionReason(m.Reason),
		ReferenceID: m.ReferenceID,
	}
}

// BatchDeductionModelFromDomain creates a model from a domain deduction.
func BatchDeductionModelFromDomain(d *inventory.BatchDeduction) *BatchDeductionModel {
	m := &BatchDeductionModel{}
	m.FromDomainBaseEntity(d.BaseEntity)
	m.BatchID = d.BatchID
	m.Quantity = d.Quantity
	m.Reason = string(d.Reason)
	m.ReferenceID = d.ReferenceID
	return m
}

// BatchSequenceModel holds the per-day batch numbering counter. The row is
// read under a row lock so concurrent deliveries never share a sequence.
type BatchSequenceModel struct {
	Day   string `gorm:"primaryKey;size:8"`
	Value int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BatchSequenceModel) TableName() string {
	return "batch_sequences"
}

// StorageTransferModel is the persistence model for storage-to-shop moves.
type StorageTransferModel struct {
	BaseModel
	DailyRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (StorageTransferModel) TableName() string {
	return "storage_transfers"
}

// ToDomain converts the persistence model to a domain StorageTransfer.
func (m *StorageTransferModel) ToDomain() *inventory.StorageTransfer {
	return &inventory.StorageTransfer{
		BaseEntity:    m.BaseModel.ToDomain(),
		DailyRecordID: m.DailyRecordID,
		IngredientID:  m.IngredientID,
		Quantity:      m.Quantity,
	}
}

// StorageTransferModelFromDomain creates a model from a domain transfer.
func StorageTransferModelFromDomain(t *inventory.StorageTransfer) *StorageTransferModel {
	m := &StorageTransferModel{}
	m.FromDomainBaseEntity(t.BaseEntity)
	m.DailyRecordID = t.DailyRecordID
	m.IngredientID = t.IngredientID
	m.Quantity = t.Quantity
	return m
}

// StorageInventoryModel is the aggregate storage quantity per ingredient.
type StorageInventoryModel struct {
	BaseModel
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StorageInventoryModel) TableName() string {
	return "storage_inventories"
}

// ToDomain converts the persistence model to a domain StorageInventory.
func (m *StorageInventoryModel) ToDomain() *inventory.StorageInventory {
	return &inventory.StorageInventory{
		BaseEntity:   m.BaseModel.ToDomain(),
		IngredientID: m.IngredientID,
		Quantity:     m.Quantity,
	}
}

// StorageInventoryModelFromDomain creates a model from a domain row.
func StorageInventoryModelFromDomain(s *inventory.StorageInventory) *StorageInventoryModel {
	m := &StorageInventoryModel{}
	m.FromDomainBaseEntity(s.BaseEntity)
	m.IngredientID = s.IngredientID
	m.Quantity = s.Quantity
	return m
}

// SpoilageModel is the persistence model for spoilage records.
type SpoilageModel struct {
	BaseModel
	DailyRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID       *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        string          `gorm:"size:16;not null"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SpoilageModel) TableName() string {
	return "spoilages"
}

// ToDomain converts the persistence model to a domain Spoilage.
func (m *SpoilageModel) ToDomain() *inventory.Spoilage {
	return &inventory.Spoilage{
		BaseEntity:    m.BaseModel.ToDomain(),
		DailyRecordID: m.DailyRecordID,
		IngredientID:  m.IngredientID,
		BatchID:       m.BatchID,
		Quantity:      m.Quantity,
		Reason:        inventory.SpoilageReason(m.Reason),
		Notes:         m.Notes,
	}
}

// SpoilageModelFromDomain creates a model from a domain Spoilage.
func SpoilageModelFromDomain(s *inventory.Spoilage) *SpoilageModel {
	m := &SpoilageModel{}
	m.FromDomainBaseEntity(s.BaseEntity)
	m.DailyRecordID = s.DailyRecordID
	m.IngredientID = s.IngredientID
	m.BatchID = s.BatchID
	m.Quantity = s.Quantity
	m.Reason = s.Reason.String()
	m.Notes = s.Notes
	return m
}

// ExpenseEntryModel is the persistence model for booked expenses.
type ExpenseEntryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	Category    string          `gorm:"size:32;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"size:512"`
	DeliveryID  *uuid.UUID      `gorm:"type:uuid;index"`
	BookedAt    time.Time       `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExpenseEntryModel) TableName() string {
	return "expense_entries"
}

// ToDomain converts the persistence model to a domain ExpenseEntry.
func (m *ExpenseEntryModel) ToDomain() *inventory.ExpenseEntry {
	return &inventory.ExpenseEntry{
		ID:          m.ID,
		Category:    inventory.ExpenseCategory(m.Category),
		Amount:      m.Amount,
		Description: m.Description,
		DeliveryID:  m.DeliveryID,
		BookedAt:    m.BookedAt,
		CreatedAt:   m.CreatedAt,
	}
}

// ExpenseEntryModelFromDomain creates a model from a domain ExpenseEntry.
func ExpenseEntryModelFromDomain(e *inventory.ExpenseEntry) *ExpenseEntryModel {
	return &ExpenseEntryModel{
		ID:          e.ID,
		Category:    string(e.Category),
		Amount:      e.Amount,
		Description: e.Description,
		DeliveryID:  e.DeliveryID,
		BookedAt:    e.BookedAt,
		CreatedAt:   e.CreatedAt,
	}
}
