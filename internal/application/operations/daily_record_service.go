package operations

import (
	"context"
	"errors"
	"time"

	"github.com/foodshop/backend/internal/domain/catalog"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	domainops "github.com/foodshop/backend/internal/domain/operations"
	domainsales "github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DailyRecordService orchestrates the day lifecycle: open, close, edit of a
// closed day, and the day summary report.
type DailyRecordService struct {
	txScope        TransactionScope
	dailyRecords   domainops.DailyRecordRepository
	snapshots      domainops.SnapshotRepository
	deliveries     domaininv.DeliveryRepository
	transfers      domaininv.StorageTransferRepository
	spoilages      domaininv.SpoilageRepository
	batches        domaininv.IngredientBatchRepository
	recordedSales  domainsales.RecordedSaleRepository
	calculated     domainsales.CalculatedSaleRepository
	ingredients    catalog.IngredientRepository
	variants       catalog.ProductVariantRepository
	policy         domainops.InventoryDiscrepancyPolicy
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDailyRecordService creates a DailyRecordService
func NewDailyRecordService(
	txScope TransactionScope,
	dailyRecords domainops.DailyRecordRepository,
	snapshots domainops.SnapshotRepository,
	deliveries domaininv.DeliveryRepository,
	transfers domaininv.StorageTransferRepository,
	spoilages domaininv.SpoilageRepository,
	batches domaininv.IngredientBatchRepository,
	recordedSales domainsales.RecordedSaleRepository,
	calculated domainsales.CalculatedSaleRepository,
	ingredients catalog.IngredientRepository,
	variants catalog.ProductVariantRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *DailyRecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyRecordService{
		txScope:        txScope,
		dailyRecords:   dailyRecords,
		snapshots:      snapshots,
		deliveries:     deliveries,
		transfers:      transfers,
		spoilages:      spoilages,
		batches:        batches,
		recordedSales:  recordedSales,
		calculated:     calculated,
		ingredients:    ingredients,
		variants:       variants,
		policy:         domainops.DefaultInventoryDiscrepancyPolicy(),
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Open opens a trading day. A record already existing for the date is a
// conflict; an older day still open produces a warning, not a failure.
func (s *DailyRecordService) Open(ctx context.Context, req OpenDayRequest) (*DailyRecordResponse, error) {
	if len(req.OpeningCounts) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Opening counts are required")
	}
	if err := s.validateIngredients(ctx, req.OpeningCounts); err != nil {
		return nil, err
	}

	record, err := domainops.NewDailyRecord(req.Date)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.DailyRecords().FindByDate(ctx, record.Date)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "A daily record already exists for this date")
		}

		stillOpen, err := repos.DailyRecords().FindOpenBefore(ctx, record.Date)
		if err != nil {
			return err
		}
		for _, older := range stillOpen {
			s.logger.Warn("earlier daily record still open",
				zap.String("open_date", older.Date.Format("2006-01-02")),
				zap.String("new_date", record.Date.Format("2006-01-02")),
			)
		}

		// The unique constraint on record_date backs this up: a concurrent
		// open for the same date fails on Save and rolls back.
		if err := repos.DailyRecords().Save(ctx, record); err != nil {
			return err
		}

		for _, count := range req.OpeningCounts {
			snapshot, err := domainops.NewInventorySnapshot(record.ID, count.IngredientID, domainops.SnapshotKindOpen, domaininv.LocationShop, count.Quantity)
			if err != nil {
				return err
			}
			if err := repos.Snapshots().Save(ctx, snapshot); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)
	s.logger.Info("daily record opened",
		zap.String("record_id", record.ID.String()),
		zap.String("date", record.Date.Format("2006-01-02")),
		zap.Int("opening_counts", len(req.OpeningCounts)),
	)

	response := ToDailyRecordResponse(record)
	return &response, nil
}

// Close closes a trading day: persists closing snapshots, derives usage and
// sales, stores the day's financial totals and stamps the record CLOSED.
// The whole close commits or rolls back as one transaction.
func (s *DailyRecordService) Close(ctx context.Context, req CloseDayRequest) (*DailyRecordResponse, error) {
	if err := s.validateIngredients(ctx, req.ClosingCounts); err != nil {
		return nil, err
	}

	var record *domainops.DailyRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		record, err = repos.DailyRecords().FindByID(ctx, req.RecordID)
		if err != nil {
			return err
		}
		if record.Status == domainops.DailyRecordStatusClosed {
			return shared.NewDomainError("INVALID_STATE", "Daily record is already closed")
		}

		financials, err := s.replayClose(ctx, repos, record, req.ClosingCounts, false)
		if err != nil {
			return err
		}
		if err := record.Close(financials, req.Notes); err != nil {
			return err
		}
		return repos.DailyRecords().Save(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)
	s.logger.Info("daily record closed",
		zap.String("record_id", record.ID.String()),
		zap.String("total_income", record.Financials.TotalIncome.String()),
	)

	response := ToDailyRecordResponse(record)
	return &response, nil
}

// EditClosed replays the close of an already closed day with new counts.
// Prior closing snapshots and calculated sales are replaced, never
// duplicated, so the operation is idempotent.
func (s *DailyRecordService) EditClosed(ctx context.Context, req EditClosedDayRequest) (*DailyRecordResponse, error) {
	if err := s.validateIngredients(ctx, req.ClosingCounts); err != nil {
		return nil, err
	}

	var record *domainops.DailyRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		record, err = repos.DailyRecords().FindByID(ctx, req.RecordID)
		if err != nil {
			return err
		}
		if record.Status != domainops.DailyRecordStatusClosed {
			return shared.NewDomainError("INVALID_STATE", "Only a closed daily record can be edited")
		}

		financials, err := s.replayClose(ctx, repos, record, req.ClosingCounts, true)
		if err != nil {
			return err
		}
		if err := record.ApplyEdit(financials, req.Notes); err != nil {
			return err
		}
		return repos.DailyRecords().Save(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)
	s.logger.Info("closed daily record edited", zap.String("record_id", record.ID.String()))

	response := ToDailyRecordResponse(record)
	return &response, nil
}

// replayClose persists closing snapshots and recomputes everything derived
// from the day's ledger: usage, calculated sales and the financial totals.
// When replace is true the previous closing snapshots are dropped first.
func (s *DailyRecordService) replayClose(ctx context.Context, repos TransactionalRepositories, record *domainops.DailyRecord, closingCounts []IngredientCount, replace bool) (domainops.DayFinancials, error) {
	if replace {
		if err := repos.Snapshots().DeleteByRecordAndKind(ctx, record.ID, domainops.SnapshotKindClose); err != nil {
			return domainops.DayFinancials{}, err
		}
	}

	for _, count := range closingCounts {
		snapshot, err := domainops.NewInventorySnapshot(record.ID, count.IngredientID, domainops.SnapshotKindClose, domaininv.LocationShop, count.Quantity)
		if err != nil {
			return domainops.DayFinancials{}, err
		}
		if err := repos.Snapshots().Save(ctx, snapshot); err != nil {
			return domainops.DayFinancials{}, err
		}
	}

	ledger, err := s.buildLedger(ctx, repos, record.ID)
	if err != nil {
		return domainops.DayFinancials{}, err
	}
	usageRows := domainops.CalculateUsage(ledger, s.policy)
	usage := domainops.UsageByIngredient(usageRows)

	variants, err := s.variants.FindActive(ctx)
	if err != nil {
		return domainops.DayFinancials{}, err
	}
	derivation := domainsales.DeriveSales(record.ID, usage, variants)

	// Derived sales are a materialized view: replace, never merge.
	if err := repos.CalculatedSales().ReplaceForRecord(ctx, record.ID, derivation.Sales); err != nil {
		return domainops.DayFinancials{}, err
	}

	deliveryCost, err := repos.Deliveries().TotalCostByDailyRecord(ctx, record.ID)
	if err != nil {
		return domainops.DayFinancials{}, err
	}
	spoilageCost, err := s.spoilageCost(ctx, repos, record.ID)
	if err != nil {
		return domainops.DayFinancials{}, err
	}
	recordedRevenue, err := s.recordedRevenue(ctx, repos, record.ID)
	if err != nil {
		return domainops.DayFinancials{}, err
	}

	return domainops.DayFinancials{
		TotalIncome:        derivation.TotalIncome,
		DeliveryCost:       deliveryCost,
		SpoilageCost:       spoilageCost,
		RecordedRevenue:    recordedRevenue,
		CalculatedRevenue:  derivation.TotalIncome,
		DiscrepancyRevenue: recordedRevenue.Sub(derivation.TotalIncome),
	}, nil
}

// buildLedger assembles the per-ingredient day accounting input from
// snapshots and the summed mid-day events.
func (s *DailyRecordService) buildLedger(ctx context.Context, repos TransactionalRepositories, recordID uuid.UUID) (domainops.DayLedger, error) {
	snapshots, err := repos.Snapshots().FindByRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}

	opening := make(map[uuid.UUID]decimal.Decimal)
	closing := make(map[uuid.UUID]decimal.Decimal)
	for _, snap := range snapshots {
		if snap.Location != domaininv.LocationShop {
			continue
		}
		switch snap.Kind {
		case domainops.SnapshotKindOpen:
			opening[snap.IngredientID] = snap.Quantity
		case domainops.SnapshotKindClose:
			closing[snap.IngredientID] = snap.Quantity
		}
	}

	deliveries, err := repos.Deliveries().QuantitiesByDailyRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}
	transfers, err := repos.Transfers().QuantitiesByDailyRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}
	spoilage, err := repos.Spoilages().QuantitiesByDailyRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}

	return domainops.DayLedger{
		Opening:    opening,
		Closing:    closing,
		Deliveries: deliveries,
		Transfers:  transfers,
		Spoilage:   spoilage,
	}, nil
}

// spoilageCost prices a day's spoilage using the unit cost of the batch a
// spoilage was booked against; spoilage without a priced batch counts zero.
func (s *DailyRecordService) spoilageCost(ctx context.Context, repos TransactionalRepositories, recordID uuid.UUID) (decimal.Decimal, error) {
	entries, err := repos.Spoilages().FindByDailyRecord(ctx, recordID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		if entry.BatchID == nil {
			continue
		}
		batch, err := repos.Batches().FindByID(ctx, *entry.BatchID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return decimal.Zero, err
		}
		if batch.UnitCost == nil {
			continue
		}
		total = total.Add(entry.Quantity.Mul(*batch.UnitCost))
	}
	return total, nil
}

func (s *DailyRecordService) recordedRevenue(ctx context.Context, repos TransactionalRepositories, recordID uuid.UUID) (decimal.Decimal, error) {
	salesList, err := repos.RecordedSales().FindByDailyRecord(ctx, recordID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, sale := range salesList {
		if sale.IsVoided() {
			continue
		}
		total = total.Add(sale.Revenue())
	}
	return total, nil
}

// GetByID returns a daily record
func (s *DailyRecordService) GetByID(ctx context.Context, id uuid.UUID) (*DailyRecordResponse, error) {
	record, err := s.dailyRecords.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDailyRecordResponse(record)
	return &response, nil
}

// GetByDate returns the daily record for a calendar date
func (s *DailyRecordService) GetByDate(ctx context.Context, date time.Time) (*DailyRecordResponse, error) {
	record, err := s.dailyRecords.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	response := ToDailyRecordResponse(record)
	return &response, nil
}

// ListRecent returns the most recent daily records, newest first
func (s *DailyRecordService) ListRecent(ctx context.Context, limit int) ([]DailyRecordResponse, error) {
	records, err := s.dailyRecords.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]DailyRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToDailyRecordResponse(&records[i]))
	}
	return responses, nil
}

// Summary builds the day report: per-ingredient usage rows, calculated
// sales, financial totals and discrepancy alerts.
func (s *DailyRecordService) Summary(ctx context.Context, id uuid.UUID) (*DaySummaryResponse, error) {
	record, err := s.dailyRecords.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ledger, err := s.buildLedgerDirect(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	usageRows := domainops.CalculateUsage(ledger, s.policy)

	ingredientIDs := make([]uuid.UUID, 0, len(usageRows))
	for _, row := range usageRows {
		ingredientIDs = append(ingredientIDs, row.IngredientID)
	}
	ingredientList, err := s.ingredients.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	ingredientByID := make(map[uuid.UUID]catalog.Ingredient, len(ingredientList))
	for _, ing := range ingredientList {
		ingredientByID[ing.ID] = ing
	}

	calculatedList, err := s.calculated.FindByDailyRecord(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	variantNames, err := s.variantNames(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DaySummaryResponse{
		Record:            ToDailyRecordResponse(record),
		Usage:             make([]UsageRow, 0, len(usageRows)),
		CalculatedSales:   ToCalculatedSaleRows(calculatedList, variantNames),
		DiscrepancyAlerts: make([]DiscrepancyAlert, 0),
	}

	for _, row := range usageRows {
		ing := ingredientByID[row.IngredientID]
		summary.Usage = append(summary.Usage, UsageRow{
			IngredientID:       row.IngredientID,
			IngredientName:     ing.Name,
			Unit:               ing.Unit,
			Opening:            row.Opening,
			Deliveries:         row.Deliveries,
			Transfers:          row.Transfers,
			Spoilage:           row.Spoilage,
			ExpectedClosing:    row.ExpectedClosing,
			ActualClosing:      row.ActualClosing,
			Usage:              row.Usage,
			DiscrepancyPercent: row.DiscrepancyPercent,
			Level:              string(row.Level),
		})
		if row.Level != domainops.DiscrepancyLevelOK {
			summary.DiscrepancyAlerts = append(summary.DiscrepancyAlerts, DiscrepancyAlert{
				IngredientID:   row.IngredientID,
				IngredientName: ing.Name,
				Percent:        row.DiscrepancyPercent,
				Level:          string(row.Level),
			})
		}
	}

	return summary, nil
}

// buildLedgerDirect is the read-path twin of buildLedger, using the
// service's own repositories outside a transaction.
func (s *DailyRecordService) buildLedgerDirect(ctx context.Context, recordID uuid.UUID) (domainops.DayLedger, error) {
	snapshots, err := s.snapshots.FindByRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}

	opening := make(map[uuid.UUID]decimal.Decimal)
	closing := make(map[uuid.UUID]decimal.Decimal)
	for _, snap := range snapshots {
		if snap.Location != domaininv.LocationShop {
			continue
		}
		switch snap.Kind {
		case domainops.SnapshotKindOpen:
			opening[snap.IngredientID] = snap.Quantity
		case domainops.SnapshotKindClose:
			closing[snap.IngredientID] = snap.Quantity
		}
	}

	deliveries, err := s.deliveries.QuantitiesByDailyRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}
	transfers, err := s.transfers.QuantitiesByDailyRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}
	spoilage, err := s.spoilages.QuantitiesByDailyRecord(ctx, recordID)
	if err != nil {
		return domainops.DayLedger{}, err
	}

	return domainops.DayLedger{
		Opening:    opening,
		Closing:    closing,
		Deliveries: deliveries,
		Transfers:  transfers,
		Spoilage:   spoilage,
	}, nil
}

func (s *DailyRecordService) variantNames(ctx context.Context) (map[uuid.UUID]string, error) {
	variants, err := s.variants.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(variants))
	for _, variant := range variants {
		names[variant.ID] = variant.Name
	}
	return names, nil
}

// validateIngredients rejects counts referencing unknown or inactive
// ingredients.
func (s *DailyRecordService) validateIngredients(ctx context.Context, counts []IngredientCount) error {
	seen := make(map[uuid.UUID]struct{}, len(counts))
	ids := make([]uuid.UUID, 0, len(counts))
	for _, count := range counts {
		if count.IngredientID == uuid.Nil {
			return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
		}
		if count.Quantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Count quantity cannot be negative")
		}
		if _, dup := seen[count.IngredientID]; dup {
			return shared.NewDomainError("INVALID_INPUT", "Duplicate ingredient in counts")
		}
		seen[count.IngredientID] = struct{}{}
		ids = append(ids, count.IngredientID)
	}

	found, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	active := make(map[uuid.UUID]bool, len(found))
	for _, ing := range found {
		active[ing.ID] = ing.Active
	}
	for _, id := range ids {
		isActive, ok := active[id]
		if !ok {
			return shared.ErrNotFound
		}
		if !isActive {
			return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient is inactive")
		}
	}
	return nil
}

func (s *DailyRecordService) publishEvents(ctx context.Context, record *domainops.DailyRecord) {
	if s.eventPublisher == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	record.ClearDomainEvents()
}
