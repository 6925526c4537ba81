package operations

import (
	"context"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/operations"
	"github.com/foodshop/backend/internal/domain/sales"
)

// TransactionScope runs a function against a transactional set of
// repositories. Every operation of the day lifecycle is all-or-nothing:
// if the function returns an error the transaction is rolled back,
// otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes all repositories the daily operations
// core mutates, scoped to one database transaction.
type TransactionalRepositories interface {
	DailyRecords() operations.DailyRecordRepository
	Snapshots() operations.SnapshotRepository
	Deliveries() inventory.DeliveryRepository
	Transfers() inventory.StorageTransferRepository
	StorageInventory() inventory.StorageInventoryRepository
	Spoilages() inventory.SpoilageRepository
	Batches() inventory.IngredientBatchRepository
	Expenses() inventory.ExpenseRepository
	RecordedSales() sales.RecordedSaleRepository
	CalculatedSales() sales.CalculatedSaleRepository
}

// NoOpTransactionScope executes the function without a real transaction.
// Used in tests with in-memory repositories.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs the function against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
