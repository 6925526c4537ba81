package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/foodshop/backend/internal/domain/catalog"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	domainops "github.com/foodshop/backend/internal/domain/operations"
	domainsales "github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository set backing the service tests through
// NoOpTransactionScope.

type memDailyRecords struct {
	records map[uuid.UUID]*domainops.DailyRecord
}

func newMemDailyRecords() *memDailyRecords {
	return &memDailyRecords{records: make(map[uuid.UUID]*domainops.DailyRecord)}
}

func (r *memDailyRecords) FindByID(_ context.Context, id uuid.UUID) (*domainops.DailyRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *memDailyRecords) FindByDate(_ context.Context, date time.Time) (*domainops.DailyRecord, error) {
	key := date.Format("2006-01-02")
	for _, record := range r.records {
		if record.Date.Format("2006-01-02") == key {
			copied := *record
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memDailyRecords) FindOpenBefore(_ context.Context, date time.Time) ([]domainops.DailyRecord, error) {
	var out []domainops.DailyRecord
	for _, record := range r.records {
		if record.Status == domainops.DailyRecordStatusOpen && record.Date.Before(date) {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *memDailyRecords) FindRecent(_ context.Context, limit int) ([]domainops.DailyRecord, error) {
	var out []domainops.DailyRecord
	for _, record := range r.records {
		out = append(out, *record)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memDailyRecords) Save(_ context.Context, record *domainops.DailyRecord) error {
	key := record.Date.Format("2006-01-02")
	for id, existing := range r.records {
		if id != record.ID && existing.Date.Format("2006-01-02") == key {
			return shared.NewDomainError("ALREADY_EXISTS", "duplicate record date")
		}
	}
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

type memSnapshots struct {
	items []domainops.InventorySnapshot
}

func (r *memSnapshots) FindByRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domainops.InventorySnapshot, error) {
	var out []domainops.InventorySnapshot
	for _, item := range r.items {
		if item.DailyRecordID == dailyRecordID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memSnapshots) FindByRecordAndKind(_ context.Context, dailyRecordID uuid.UUID, kind domainops.SnapshotKind) ([]domainops.InventorySnapshot, error) {
	var out []domainops.InventorySnapshot
	for _, item := range r.items {
		if item.DailyRecordID == dailyRecordID && item.Kind == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memSnapshots) Save(_ context.Context, snapshot *domainops.InventorySnapshot) error {
	for _, item := range r.items {
		if item.DailyRecordID == snapshot.DailyRecordID && item.IngredientID == snapshot.IngredientID &&
			item.Kind == snapshot.Kind && item.Location == snapshot.Location {
			return shared.NewDomainError("ALREADY_EXISTS", "duplicate snapshot")
		}
	}
	r.items = append(r.items, *snapshot)
	return nil
}

func (r *memSnapshots) DeleteByRecordAndKind(_ context.Context, dailyRecordID uuid.UUID, kind domainops.SnapshotKind) error {
	kept := r.items[:0]
	for _, item := range r.items {
		if item.DailyRecordID == dailyRecordID && item.Kind == kind {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return nil
}

type memDeliveries struct {
	items map[uuid.UUID]*domaininv.Delivery
}

func newMemDeliveries() *memDeliveries {
	return &memDeliveries{items: make(map[uuid.UUID]*domaininv.Delivery)}
}

func (r *memDeliveries) FindByID(_ context.Context, id uuid.UUID) (*domaininv.Delivery, error) {
	delivery, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *delivery
	return &copied, nil
}

func (r *memDeliveries) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domaininv.Delivery, error) {
	var out []domaininv.Delivery
	for _, delivery := range r.items {
		if delivery.DailyRecordID == dailyRecordID {
			out = append(out, *delivery)
		}
	}
	return out, nil
}

func (r *memDeliveries) QuantitiesByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
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

func (r *memDeliveries) TotalCostByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, delivery := range r.items {
		if delivery.DailyRecordID == dailyRecordID {
			total = total.Add(delivery.TotalCost)
		}
	}
	return total, nil
}

func (r *memDeliveries) Save(_ context.Context, delivery *domaininv.Delivery) error {
	copied := *delivery
	r.items[delivery.ID] = &copied
	return nil
}

func (r *memDeliveries) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type memTransfers struct {
	items map[uuid.UUID]*domaininv.StorageTransfer
}

func newMemTransfers() *memTransfers {
	return &memTransfers{items: make(map[uuid.UUID]*domaininv.StorageTransfer)}
}

func (r *memTransfers) FindByID(_ context.Context, id uuid.UUID) (*domaininv.StorageTransfer, error) {
	transfer, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *transfer
	return &copied, nil
}

func (r *memTransfers) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domaininv.StorageTransfer, error) {
	var out []domaininv.StorageTransfer
	for _, transfer := range r.items {
		if transfer.DailyRecordID == dailyRecordID {
			out = append(out, *transfer)
		}
	}
	return out, nil
}

func (r *memTransfers) QuantitiesByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, transfer := range r.items {
		if transfer.DailyRecordID == dailyRecordID {
			out[transfer.IngredientID] = out[transfer.IngredientID].Add(transfer.Quantity)
		}
	}
	return out, nil
}

func (r *memTransfers) Save(_ context.Context, transfer *domaininv.StorageTransfer) error {
	copied := *transfer
	r.items[transfer.ID] = &copied
	return nil
}

func (r *memTransfers) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type memStorageInventory struct {
	quantities map[uuid.UUID]decimal.Decimal
}

func newMemStorageInventory() *memStorageInventory {
	return &memStorageInventory{quantities: make(map[uuid.UUID]decimal.Decimal)}
}

func (r *memStorageInventory) FindByIngredient(_ context.Context, ingredientID uuid.UUID) (*domaininv.StorageInventory, error) {
	qty, ok := r.quantities[ingredientID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &domaininv.StorageInventory{IngredientID: ingredientID, Quantity: qty}, nil
}

func (r *memStorageInventory) FindAll(_ context.Context) ([]domaininv.StorageInventory, error) {
	var out []domaininv.StorageInventory
	for id, qty := range r.quantities {
		out = append(out, domaininv.StorageInventory{IngredientID: id, Quantity: qty})
	}
	return out, nil
}

func (r *memStorageInventory) Withdraw(_ context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	current := r.quantities[ingredientID]
	if current.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	r.quantities[ingredientID] = current.Sub(quantity)
	return nil
}

func (r *memStorageInventory) Restore(_ context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	r.quantities[ingredientID] = r.quantities[ingredientID].Add(quantity)
	return nil
}

func (r *memStorageInventory) Deposit(_ context.Context, ingredientID uuid.UUID, quantity decimal.Decimal) error {
	r.quantities[ingredientID] = r.quantities[ingredientID].Add(quantity)
	return nil
}

type memSpoilages struct {
	items map[uuid.UUID]*domaininv.Spoilage
}

func newMemSpoilages() *memSpoilages {
	return &memSpoilages{items: make(map[uuid.UUID]*domaininv.Spoilage)}
}

func (r *memSpoilages) FindByID(_ context.Context, id uuid.UUID) (*domaininv.Spoilage, error) {
	spoilage, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *spoilage
	return &copied, nil
}

func (r *memSpoilages) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domaininv.Spoilage, error) {
	var out []domaininv.Spoilage
	for _, spoilage := range r.items {
		if spoilage.DailyRecordID == dailyRecordID {
			out = append(out, *spoilage)
		}
	}
	return out, nil
}

func (r *memSpoilages) QuantitiesByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, spoilage := range r.items {
		if spoilage.DailyRecordID == dailyRecordID {
			out[spoilage.IngredientID] = out[spoilage.IngredientID].Add(spoilage.Quantity)
		}
	}
	return out, nil
}

func (r *memSpoilages) Save(_ context.Context, spoilage *domaininv.Spoilage) error {
	copied := *spoilage
	r.items[spoilage.ID] = &copied
	return nil
}

type memBatches struct {
	items      map[uuid.UUID]*domaininv.IngredientBatch
	deductions []domaininv.BatchDeduction
	sequences  map[string]int
}

func newMemBatches() *memBatches {
	return &memBatches{
		items:     make(map[uuid.UUID]*domaininv.IngredientBatch),
		sequences: make(map[string]int),
	}
}

func (r *memBatches) FindByID(_ context.Context, id uuid.UUID) (*domaininv.IngredientBatch, error) {
	batch, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *batch
	return &copied, nil
}

func (r *memBatches) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domaininv.IngredientBatch, error) {
	return r.FindByID(ctx, id)
}

func (r *memBatches) FindByIngredient(_ context.Context, ingredientID uuid.UUID) ([]domaininv.IngredientBatch, error) {
	var out []domaininv.IngredientBatch
	for _, batch := range r.items {
		if batch.IngredientID == ingredientID {
			out = append(out, *batch)
		}
	}
	return out, nil
}

func (r *memBatches) FindActiveWithExpiry(_ context.Context, until time.Time) ([]domaininv.IngredientBatch, error) {
	var out []domaininv.IngredientBatch
	for _, batch := range r.items {
		if batch.Active && batch.ExpiryDate != nil && !batch.ExpiryDate.After(until) {
			out = append(out, *batch)
		}
	}
	return out, nil
}

func (r *memBatches) NextSequence(_ context.Context, date time.Time) (int, error) {
	key := date.Format("20060102")
	r.sequences[key]++
	return r.sequences[key], nil
}

func (r *memBatches) Save(_ context.Context, batch *domaininv.IngredientBatch) error {
	copied := *batch
	r.items[batch.ID] = &copied
	return nil
}

func (r *memBatches) AppendDeduction(_ context.Context, deduction *domaininv.BatchDeduction) error {
	r.deductions = append(r.deductions, *deduction)
	return nil
}

func (r *memBatches) FindDeductionsByBatch(_ context.Context, batchID uuid.UUID) ([]domaininv.BatchDeduction, error) {
	var out []domaininv.BatchDeduction
	for _, deduction := range r.deductions {
		if deduction.BatchID == batchID {
			out = append(out, deduction)
		}
	}
	return out, nil
}

func (r *memBatches) CountDeductionsByDelivery(_ context.Context, deliveryID uuid.UUID) (int64, error) {
	var count int64
	for _, batch := range r.items {
		if batch.DeliveryItemID == nil {
			continue
		}
		for _, deduction := range r.deductions {
			if deduction.BatchID == batch.ID && r.deliveryOf(batch) == deliveryID {
				count++
			}
		}
	}
	return count, nil
}

// deliveryOf resolves the delivery a batch belongs to via the test-side
// deliveryByItem index.
func (r *memBatches) deliveryOf(batch *domaininv.IngredientBatch) uuid.UUID {
	if batch.DeliveryItemID == nil {
		return uuid.Nil
	}
	return deliveryByItem[*batch.DeliveryItemID]
}

func (r *memBatches) DeleteByDelivery(_ context.Context, deliveryID uuid.UUID) error {
	for id, batch := range r.items {
		if batch.DeliveryItemID != nil && deliveryByItem[*batch.DeliveryItemID] == deliveryID {
			delete(r.items, id)
		}
	}
	return nil
}

// deliveryByItem maps delivery item IDs to their delivery for the fake
// batch repository. Tests register entries when they seed deliveries.
var deliveryByItem = make(map[uuid.UUID]uuid.UUID)

type memExpenses struct {
	items map[uuid.UUID]*domaininv.ExpenseEntry
}

func newMemExpenses() *memExpenses {
	return &memExpenses{items: make(map[uuid.UUID]*domaininv.ExpenseEntry)}
}

func (r *memExpenses) Save(_ context.Context, entry *domaininv.ExpenseEntry) error {
	copied := *entry
	r.items[entry.ID] = &copied
	return nil
}

func (r *memExpenses) FindByDelivery(_ context.Context, deliveryID uuid.UUID) (*domaininv.ExpenseEntry, error) {
	for _, entry := range r.items {
		if entry.DeliveryID != nil && *entry.DeliveryID == deliveryID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memExpenses) DeleteByDelivery(_ context.Context, deliveryID uuid.UUID) error {
	for id, entry := range r.items {
		if entry.DeliveryID != nil && *entry.DeliveryID == deliveryID {
			delete(r.items, id)
		}
	}
	return nil
}

type memRecordedSales struct {
	items map[uuid.UUID]*domainsales.RecordedSale
}

func newMemRecordedSales() *memRecordedSales {
	return &memRecordedSales{items: make(map[uuid.UUID]*domainsales.RecordedSale)}
}

func (r *memRecordedSales) FindByID(_ context.Context, id uuid.UUID) (*domainsales.RecordedSale, error) {
	sale, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *sale
	return &copied, nil
}

func (r *memRecordedSales) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domainsales.RecordedSale, error) {
	var out []domainsales.RecordedSale
	for _, sale := range r.items {
		if sale.DailyRecordID == dailyRecordID {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (r *memRecordedSales) Save(_ context.Context, sale *domainsales.RecordedSale) error {
	copied := *sale
	r.items[sale.ID] = &copied
	return nil
}

type memCalculatedSales struct {
	items []domainsales.CalculatedSale
}

func (r *memCalculatedSales) FindByDailyRecord(_ context.Context, dailyRecordID uuid.UUID) ([]domainsales.CalculatedSale, error) {
	var out []domainsales.CalculatedSale
	for _, sale := range r.items {
		if sale.DailyRecordID == dailyRecordID {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (r *memCalculatedSales) ReplaceForRecord(ctx context.Context, dailyRecordID uuid.UUID, sales []domainsales.CalculatedSale) error {
	if err := r.DeleteByRecord(ctx, dailyRecordID); err != nil {
		return err
	}
	r.items = append(r.items, sales...)
	return nil
}

func (r *memCalculatedSales) DeleteByRecord(_ context.Context, dailyRecordID uuid.UUID) error {
	kept := r.items[:0]
	for _, sale := range r.items {
		if sale.DailyRecordID == dailyRecordID {
			continue
		}
		kept = append(kept, sale)
	}
	r.items = kept
	return nil
}

type memIngredients struct {
	items map[uuid.UUID]catalog.Ingredient
}

func newMemIngredients() *memIngredients {
	return &memIngredients{items: make(map[uuid.UUID]catalog.Ingredient)}
}

func (r *memIngredients) FindByID(_ context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	ingredient, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &ingredient, nil
}

func (r *memIngredients) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Ingredient, error) {
	out := make([]catalog.Ingredient, 0, len(ids))
	for _, id := range ids {
		if ingredient, ok := r.items[id]; ok {
			out = append(out, ingredient)
		}
	}
	return out, nil
}

func (r *memIngredients) FindActive(_ context.Context) ([]catalog.Ingredient, error) {
	var out []catalog.Ingredient
	for _, ingredient := range r.items {
		if ingredient.Active {
			out = append(out, ingredient)
		}
	}
	return out, nil
}

type memVariants struct {
	items map[uuid.UUID]catalog.ProductVariant
}

func newMemVariants() *memVariants {
	return &memVariants{items: make(map[uuid.UUID]catalog.ProductVariant)}
}

func (r *memVariants) FindByID(_ context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	variant, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &variant, nil
}

func (r *memVariants) FindActive(_ context.Context) ([]catalog.ProductVariant, error) {
	var out []catalog.ProductVariant
	for _, variant := range r.items {
		if variant.Active {
			out = append(out, variant)
		}
	}
	return out, nil
}

// memRepos bundles the fakes behind the TransactionalRepositories interface
type memRepos struct {
	dailyRecords *memDailyRecords
	snapshots    *memSnapshots
	deliveries   *memDeliveries
	transfers    *memTransfers
	storage      *memStorageInventory
	spoilages    *memSpoilages
	batches      *memBatches
	expenses     *memExpenses
	recorded     *memRecordedSales
	calculated   *memCalculatedSales
}

func newMemRepos() *memRepos {
	return &memRepos{
		dailyRecords: newMemDailyRecords(),
		snapshots:    &memSnapshots{},
		deliveries:   newMemDeliveries(),
		transfers:    newMemTransfers(),
		storage:      newMemStorageInventory(),
		spoilages:    newMemSpoilages(),
		batches:      newMemBatches(),
		expenses:     newMemExpenses(),
		recorded:     newMemRecordedSales(),
		calculated:   &memCalculatedSales{},
	}
}

func (m *memRepos) DailyRecords() domainops.DailyRecordRepository         { return m.dailyRecords }
func (m *memRepos) Snapshots() domainops.SnapshotRepository               { return m.snapshots }
func (m *memRepos) Deliveries() domaininv.DeliveryRepository              { return m.deliveries }
func (m *memRepos) Transfers() domaininv.StorageTransferRepository        { return m.transfers }
func (m *memRepos) StorageInventory() domaininv.StorageInventoryRepository { return m.storage }
func (m *memRepos) Spoilages() domaininv.SpoilageRepository               { return m.spoilages }
func (m *memRepos) Batches() domaininv.IngredientBatchRepository          { return m.batches }
func (m *memRepos) Expenses() domaininv.ExpenseRepository                 { return m.expenses }
func (m *memRepos) RecordedSales() domainsales.RecordedSaleRepository     { return m.recorded }
func (m *memRepos) CalculatedSales() domainsales.CalculatedSaleRepository { return m.calculated }

var _ TransactionalRepositories = (*memRepos)(nil)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("bad test date %q: %v", s, err))
	}
	return t
}
