package sales

import (
	"context"

	"github.com/foodshop/backend/internal/domain/catalog"
	domainsales "github.com/foodshop/backend/internal/domain/sales"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconciliationService compares a day's recorded sales against the sales
// calculated from inventory usage.
type ReconciliationService struct {
	recordedSales domainsales.RecordedSaleRepository
	calculated    domainsales.CalculatedSaleRepository
	variants      catalog.ProductVariantRepository
	policy        domainsales.ReconciliationPolicy
	logger        *zap.Logger
}

// NewReconciliationService creates a ReconciliationService
func NewReconciliationService(
	recordedSales domainsales.RecordedSaleRepository,
	calculated domainsales.CalculatedSaleRepository,
	variants catalog.ProductVariantRepository,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		recordedSales: recordedSales,
		calculated:    calculated,
		variants:      variants,
		policy:        domainsales.DefaultReconciliationPolicy(),
		logger:        logger,
	}
}

// Report builds the reconciliation report for a day
func (s *ReconciliationService) Report(ctx context.Context, dailyRecordID uuid.UUID) (*domainsales.ReconciliationReport, error) {
	recorded, err := s.recordedSales.FindByDailyRecord(ctx, dailyRecordID)
	if err != nil {
		return nil, err
	}
	calculated, err := s.calculated.FindByDailyRecord(ctx, dailyRecordID)
	if err != nil {
		return nil, err
	}

	variants, err := s.variants.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(variants))
	for _, variant := range variants {
		names[variant.ID] = variant.Name
	}

	report := domainsales.Reconcile(recorded, calculated, names, s.policy)
	if report.Critical {
		s.logger.Warn("critical sales discrepancy",
			zap.String("daily_record_id", dailyRecordID.String()),
			zap.String("recorded_total", report.RecordedTotal.String()),
			zap.String("calculated_total", report.CalculatedTotal.String()),
			zap.String("discrepancy_percent", report.DiscrepancyPercent.String()),
		)
	}
	return &report, nil
}
