package inventory

import (
	"context"
	"time"

	appops "github.com/foodshop/backend/internal/application/operations"
	"github.com/foodshop/backend/internal/domain/catalog"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	domainops "github.com/foodshop/backend/internal/domain/operations"
	domainsales "github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories for the inventory service tests. Only the
// behavior these services touch is modelled.

type stubDailyRecords struct {
	records map[uuid.UUID]*domainops.DailyRecord
}

func (r *stubDailyRecords) FindByID(_ context.Context, id uuid.UUID) (*domainops.DailyRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *stubDailyRecords) FindByDate(_ context.Context, _ time.Time) (*domainops.DailyRecord, error) {
	return nil, shared.ErrNotFound
}

func (r *stubDailyRecords) FindOpenBefore(_ context.Context, _ time.Time) ([]domainops.DailyRecord, error) {
	return nil, nil
}

func (r *stubDailyRecords) FindRecent(_ context.Context, _ int) ([]domainops.DailyRecord, error) {
	return nil, nil
}

func (r *stubDailyRecords) Save(_ context.Context, record *domainops.DailyRecord) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

type stubSnapshots struct{}

func (stubSnapshots) FindByRecord(_ context.Context, _ uuid.UUID) ([]domainops.InventorySnapshot, error) {
	return nil, nil
}
func (stubSnapshots) FindByRecordAndKind(_ context.Context, _ uuid.UUID, _ domainops.SnapshotKind) ([]domainops.InventorySnapshot, error) {
	return nil, nil
}
func (stubSnapshots) Save(_ context.Context, _ *domainops.InventorySnapshot) error { return nil }
func (stubSnapshots) DeleteByRecordAndKind(_ context.Context, _ uuid.UUID, _ domainops.SnapshotKind) error {
	return nil
}

type fakeDeliveries struct {
	items map[uuid.UUID]*domaininv.Delivery
}

func (r *fakeDeliveries) FindByID(_ context.Context, id uuid.UUID) (*domaininv.Delivery, error) {
	delivery, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *delivery
	return &copied, nil
}

func (r *fakeDeliveries) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domaininv.Delivery, error) {
	var out []domaininv.Delivery
	for _, delivery := range r.items {
		if delivery.DailyRecordID == dailyRecordID {
			out = append(out, *delivery)
		}
	}
	return out, nil
}

func (r *fakeDeliveries) QuantitiesByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, delivery := range r.items {
		if delivery.DailyRecordID != dailyRecordID {
			continue
		}
		for _, item := range delivery.Items {
			out[item.IngredientID] = out[item.IngredientID].Add(item.Quantity)
		}
	}
	return out, nil
}

func (r *fakeDeliveries) TotalCostByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, delivery := range r.items {
		if delivery.DailyRecordID == dailyRecordID {
			total = total.Add(delivery.TotalCost)
		}
	}
	return total, nil
}

func (r *fakeDeliveries) Save(_ context.Context, delivery *domaininv.Delivery) error {
	copied := *delivery
	r.items[delivery.ID] = &copied
	return nil
}

func (r *fakeDeliveries) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type fakeTransfers struct {
	items map[uuid.UUID]*domaininv.StorageTransfer
}

func (r *fakeTransfers) FindByID(_ context.Context, id uuid.UUID) (*domaininv.StorageTransfer, error) {
	transfer, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *transfer
	return &copied, nil
}

func (r *fakeTransfers) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domaininv.StorageTransfer, error) {
	var out []domaininv.StorageTransfer
	for _, transfer := range r.items {
		if transfer.DailyRecordID == dailyRecordID {
			out = append(out, *transfer)
		}
	}
	return out, nil
}

func (r *fakeTransfers) QuantitiesByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, transfer := range r.items {
		if transfer.DailyRecordID == dailyRecordID {
			out[transfer.IngredientID] = out[transfer.IngredientID].Add(transfer.Quantity)
		}
	}
	return out, nil
}

func (r *fakeTransfers) Save(_ context.Context, transfer *domaininv.StorageTransfer) error {
	copied := *transfer
	r.items[transfer.ID] = &copied
	return nil
}

func (r *fakeTransfers) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type fakeStorage struct {
	quantities map[uuid.UUID]decimal.Decimal
}

func (r *fakeStorage) FindByIngredient(_ context.Context, ingredientID uuid.UUID) (*domaininv.StorageInventory, error) {
	qty, ok := r.quantities[ingredientID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &domaininv.StorageInventory{IngredientID: ingredientID, Quantity: qty}, nil
}

func (r *fakeStorage) FindAll(_ context.Context) ([]domaininv.StorageInventory, error) {
	var out []domaininv.StorageInventory
	for id, qty := range r.quantities {
		out = append(out, domaininv.StorageInventory{IngredientID: id, Quantity: qty})
	}
	return out, nil
}

func (r *fakeStorage) Withdraw(_ context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	current := r.quantities[ingredientID]
	if current.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	r.quantities[ingredientID] = current.Sub(quantity)
	return nil
}

func (r *fakeStorage) Restore(_ context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	r.quantities[ingredientID] = r.quantities[ingredientID].Add(quantity)
	return nil
}

func (r *fakeStorage) Deposit(_ context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	r.quantities[ingredientID] = r.quantities[ingredientID].Add(quantity)
	return nil
}

type fakeSpoilages struct {
	items map[uuid.UUID]*domaininv.Spoilage
}

func (r *fakeSpoilages) FindByID(_ context.Context, id uuid.UUID) (*domaininv.Spoilage, error) {
	spoilage, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *spoilage
	return &copied, nil
}

func (r *fakeSpoilages) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domaininv.Spoilage, error) {
	var out []domaininv.Spoilage
	for _, spoilage := range r.items {
		if spoilage.DailyRecordID == dailyRecordID {
			out = append(out, *spoilage)
		}
	}
	return out, nil
}

func (r *fakeSpoilages) QuantitiesByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, spoilage := range r.items {
		if spoilage.DailyRecordID == dailyRecordID {
			out[spoilage.IngredientID] = out[spoilage.IngredientID].Add(spoilage.Quantity)
		}
	}
	return out, nil
}

func (r *fakeSpoilages) Save(_ context.Context, spoilage *domaininv.Spoilage) error {
	copied := *spoilage
	r.items[spoilage.ID] = &copied
	return nil
}

type fakeBatches struct {
	items          map[uuid.UUID]*domaininv.IngredientBatch
	deductions     []domaininv.BatchDeduction
	sequences      map[string]int
	deliveryByItem map[uuid.UUID]uuid.UUID
}

func (r *fakeBatches) FindByID(_ context.Context, id uuid.UUID) (*domaininv.IngredientBatch, error) {
	batch, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *batch
	return &copied, nil
}

func (r *fakeBatches) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domaininv.IngredientBatch, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBatches) FindByIngredient(_ context.Context, ingredientID uuid.UUID) ([]domaininv.IngredientBatch, error) {
	var out []domaininv.IngredientBatch
	for _, batch := range r.items {
		if batch.IngredientID == ingredientID {
			out = append(out, *batch)
		}
	}
	return out, nil
}

func (r *fakeBatches) FindActiveWithExpiry(_ context.Context, until time.Time) ([]domaininv.IngredientBatch, error) {
	var out []domaininv.IngredientBatch
	for _, batch := range r.items {
		if batch.Active && batch.ExpiryDate != nil && !batch.ExpiryDate.After(until) {
			out = append(out, *batch)
		}
	}
	return out, nil
}

func (r *fakeBatches) NextSequence(_ context.Context, date time.Time) (int, error) {
	key := date.Format("20060102")
	r.sequences[key]++
	return r.sequences[key], nil
}

func (r *fakeBatches) Save(_ context.Context, batch *domaininv.IngredientBatch) error {
	copied := *batch
	r.items[batch.ID] = &copied
	return nil
}

func (r *fakeBatches) AppendDeduction(_ context.Context, deduction *domaininv.BatchDeduction) error {
	r.deductions = append(r.deductions, *deduction)
	return nil
}

func (r *fakeBatches) FindDeductionsByBatch(_ context.Context, batchID uuid.UUID) ([]domaininv.BatchDeduction, error) {
	var out []domaininv.BatchDeduction
	for _, deduction := range r.deductions {
		if deduction.BatchID == batchID {
			out = append(out, deduction)
		}
	}
	return out, nil
}

func (r *fakeBatches) CountDeductionsByDelivery(_ context.Context, deliveryID uuid.UUID) (int64, error) {
	var count int64
	for _, deduction := range r.deductions {
		batch, ok := r.items[deduction.BatchID]
		if !ok || batch.DeliveryItemID == nil {
			continue
		}
		if r.deliveryByItem[*batch.DeliveryItemID] == deliveryID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBatches) DeleteByDelivery(_ context.Context, deliveryID uuid.UUID) error {
	for id, batch := range r.items {
		if batch.DeliveryItemID != nil && r.deliveryByItem[*batch.DeliveryItemID] == deliveryID {
			delete(r.items, id)
		}
	}
	return nil
}

type fakeExpenses struct {
	items map[uuid.UUID]*domaininv.ExpenseEntry
}

func (r *fakeExpenses) Save(_ context.Context, entry *domaininv.ExpenseEntry) error {
	copied := *entry
	r.items[entry.ID] = &copied
	return nil
}

func (r *fakeExpenses) FindByDelivery(_ context.Context, deliveryID uuid.UUID) (*domaininv.ExpenseEntry, error) {
	for _, entry := range r.items {
		if entry.DeliveryID != nil && *entry.DeliveryID == deliveryID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeExpenses) DeleteByDelivery(_ context.Context, deliveryID uuid.UUID) error {
	for id, entry := range r.items {
		if entry.DeliveryID != nil && *entry.DeliveryID == deliveryID {
			delete(r.items, id)
		}
	}
	return nil
}

type stubRecordedSales struct{}

func (stubRecordedSales) FindByID(_ context.Context, _ uuid.UUID) (*domainsales.RecordedSale, error) {
	return nil, shared.ErrNotFound
}
func (stubRecordedSales) FindByDailyRecord(_ context.Context, _ uuid.UUID) ([]domainsales.RecordedSale, error) {
	return nil, nil
}
func (stubRecordedSales) Save(_ context.Context, _ *domainsales.RecordedSale) error { return nil }

type stubCalculatedSales struct{}

func (stubCalculatedSales) FindByDailyRecord(_ context.Context, _ uuid.UUID) ([]domainsales.CalculatedSale, error) {
	return nil, nil
}
func (stubCalculatedSales) ReplaceForRecord(_ context.Context, _ uuid.UUID, _ []domainsales.CalculatedSale) error {
	return nil
}
func (stubCalculatedSales) DeleteByRecord(_ context.Context, _ uuid.UUID) error { return nil }

type fakeIngredients struct {
	items map[uuid.UUID]catalog.Ingredient
}

func (r *fakeIngredients) FindByID(_ context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	ingredient, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &ingredient, nil
}

func (r *fakeIngredients) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Ingredient, error) {
	out := make([]catalog.Ingredient, 0, len(ids))
	for _, id := range ids {
		if ingredient, ok := r.items[id]; ok {
			out = append(out, ingredient)
		}
	}
	return out, nil
}

func (r *fakeIngredients) FindActive(_ context.Context) ([]catalog.Ingredient, error) {
	var out []catalog.Ingredient
	for _, ingredient := range r.items {
		if ingredient.Active {
			out = append(out, ingredient)
		}
	}
	return out, nil
}

// fakeRepos bundles the fakes behind TransactionalRepositories
type fakeRepos struct {
	dailyRecords *stubDailyRecords
	deliveries   *fakeDeliveries
	transfers    *fakeTransfers
	storage      *fakeStorage
	spoilages    *fakeSpoilages
	batches      *fakeBatches
	expenses     *fakeExpenses
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		dailyRecords: &stubDailyRecords{records: make(map[uuid.UUID]*domainops.DailyRecord)},
		deliveries:   &fakeDeliveries{items: make(map[uuid.UUID]*domaininv.Delivery)},
		transfers:    &fakeTransfers{items: make(map[uuid.UUID]*domaininv.StorageTransfer)},
		storage:      &fakeStorage{quantities: make(map[uuid.UUID]decimal.Decimal)},
		spoilages:    &fakeSpoilages{items: make(map[uuid.UUID]*domaininv.Spoilage)},
		batches: &fakeBatches{
			items:          make(map[uuid.UUID]*domaininv.IngredientBatch),
			sequences:      make(map[string]int),
			deliveryByItem: make(map[uuid.UUID]uuid.UUID),
		},
		expenses: &fakeExpenses{items: make(map[uuid.UUID]*domaininv.ExpenseEntry)},
	}
}

func (f *fakeRepos) DailyRecords() domainops.DailyRecordRepository          { return f.dailyRecords }
func (f *fakeRepos) Snapshots() domainops.SnapshotRepository                { return stubSnapshots{} }
func (f *fakeRepos) Deliveries() domaininv.DeliveryRepository               { return f.deliveries }
func (f *fakeRepos) Transfers() domaininv.StorageTransferRepository         { return f.transfers }
func (f *fakeRepos) StorageInventory() domaininv.StorageInventoryRepository { return f.storage }
func (f *fakeRepos) Spoilages() domaininv.SpoilageRepository                { return f.spoilages }
func (f *fakeRepos) Batches() domaininv.IngredientBatchRepository           { return f.batches }
func (f *fakeRepos) Expenses() domaininv.ExpenseRepository                  { return f.expenses }
func (f *fakeRepos) RecordedSales() domainsales.RecordedSaleRepository      { return stubRecordedSales{} }
func (f *fakeRepos) CalculatedSales() domainsales.CalculatedSaleRepository  { return stubCalculatedSales{} }

var _ appops.TransactionalRepositories = (*fakeRepos)(nil)
