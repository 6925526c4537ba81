package inventory

import (
	"context"
	"time"

	appops "github.com/foodshop/backend/internal/application/operations"
	"github.com/foodshop/backend/internal/domain/catalog"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpiryFeedCache caches the assembled expiry report. The report is read on
// every dashboard load but only changes when batches do, so a short TTL
// cache in front of it is enough.
type ExpiryFeedCache interface {
	Get(ctx context.Context) (*domaininv.ExpiryReport, bool)
	Set(ctx context.Context, report *domaininv.ExpiryReport)
	Invalidate(ctx context.Context)
}

// BatchService exposes batch queries, manual deductions and the expiry
// report.
type BatchService struct {
	txScope        appops.TransactionScope
	batches        domaininv.IngredientBatchRepository
	ingredients    catalog.IngredientRepository
	cache          ExpiryFeedCache
	horizonDays    int
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewBatchService creates a BatchService. A nil cache disables caching.
func NewBatchService(
	txScope appops.TransactionScope,
	batches domaininv.IngredientBatchRepository,
	ingredients catalog.IngredientRepository,
	cache ExpiryFeedCache,
	horizonDays int,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonDays <= 0 {
		horizonDays = domaininv.DefaultExpiryHorizonDays
	}
	return &BatchService{
		txScope:        txScope,
		batches:        batches,
		ingredients:    ingredients,
		cache:          cache,
		horizonDays:    horizonDays,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

// ListByIngredient returns an ingredient's batches in FIFO order
func (s *BatchService) ListByIngredient(ctx context.Context, ingredientID uuid.UUID) ([]BatchResponse, error) {
	batches, err := s.batches.FindByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	out := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		out = append(out, ToBatchResponse(&batches[i]))
	}
	return out, nil
}

// Deduct removes quantity from one batch under a row lock. The caller picks
// the batch; FIFO ordering from ListByIngredient is advisory.
func (s *BatchService) Deduct(ctx context.Context, req DeductBatchRequest) (*BatchResponse, error) {
	var batch *domaininv.IngredientBatch
	err := s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		var err error
		batch, err = repos.Batches().FindByIDForUpdate(ctx, req.BatchID)
		if err != nil {
			return err
		}
		deduction, err := batch.Deduct(req.Quantity, req.Reason, req.ReferenceID)
		if err != nil {
			return err
		}
		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}
		return repos.Batches().AppendDeduction(ctx, deduction)
	})
	if err != nil {
		return nil, err
	}

	if !batch.Active && s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, domaininv.NewBatchDepletedEvent(batch))
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.logger.Info("batch deducted",
		zap.String("batch_number", batch.BatchNumber),
		zap.String("quantity", req.Quantity.String()),
		zap.String("reason", string(req.Reason)),
		zap.Bool("depleted", !batch.Active),
	)

	response := ToBatchResponse(batch)
	return &response, nil
}

// ExpiryReport assembles the expired and soon-to-expire batch feed
func (s *BatchService) ExpiryReport(ctx context.Context) (*domaininv.ExpiryReport, error) {
	if s.cache != nil {
		if report, ok := s.cache.Get(ctx); ok {
			return report, nil
		}
	}

	now := s.now()
	until := now.AddDate(0, 0, s.horizonDays)
	batches, err := s.batches.FindActiveWithExpiry(ctx, until)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(batches))
	seen := make(map[uuid.UUID]struct{}, len(batches))
	for _, batch := range batches {
		if _, ok := seen[batch.IngredientID]; ok {
			continue
		}
		seen[batch.IngredientID] = struct{}{}
		ids = append(ids, batch.IngredientID)
	}
	ingredients, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(ingredients))
	for _, ing := range ingredients {
		names[ing.ID] = ing.Name
	}

	report := domaininv.BuildExpiryReport(batches, names, s.horizonDays, now)
	if s.cache != nil {
		s.cache.Set(ctx, &report)
	}
	return &report, nil
}
