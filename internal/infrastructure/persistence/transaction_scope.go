package persistence

import (
	"context"

	appops "github.com/foodshop/backend/internal/application/operations"
	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/operations"
	"github.com/foodshop/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appops.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// DailyRecords returns the daily record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) DailyRecords() operations.DailyRecordRepository {
	return NewGormDailyRecordRepository(r.tx)
}

// Snapshots returns the snapshot repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Snapshots() operations.SnapshotRepository {
	return NewGormSnapshotRepository(r.tx)
}

// Deliveries returns the delivery repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Deliveries() inventory.DeliveryRepository {
	return NewGormDeliveryRepository(r.tx)
}

// Transfers returns the storage transfer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Transfers() inventory.StorageTransferRepository {
	return NewGormStorageTransferRepository(r.tx)
}

// StorageInventory returns the storage inventory repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StorageInventory() inventory.StorageInventoryRepository {
	return NewGormStorageInventoryRepository(r.tx)
}

// Spoilages returns the spoilage repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Spoilages() inventory.SpoilageRepository {
	return NewGormSpoilageRepository(r.tx)
}

// Batches returns the ingredient batch repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Batches() inventory.IngredientBatchRepository {
	return NewGormIngredientBatchRepository(r.tx)
}

// Expenses returns the expense repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Expenses() inventory.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

// RecordedSales returns the recorded sale repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RecordedSales() sales.RecordedSaleRepository {
	return NewGormRecordedSaleRepository(r.tx)
}

// CalculatedSales returns the calculated sale repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CalculatedSales() sales.CalculatedSaleRepository {
	return NewGormCalculatedSaleRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appops.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appops.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
