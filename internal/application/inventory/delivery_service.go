package inventory

import (
	"context"
	"fmt"
	"time"

	appops "github.com/foodshop/backend/internal/application/operations"
	"github.com/foodshop/backend/internal/domain/catalog"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryService accepts and removes supplier deliveries. Accepting a
// delivery creates one batch per item, books the invoice as a supplies
// expense, and tops up storage when the goods go there.
type DeliveryService struct {
	txScope        appops.TransactionScope
	deliveries     domaininv.DeliveryRepository
	ingredients    catalog.IngredientRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDeliveryService creates a DeliveryService
func NewDeliveryService(
	txScope appops.TransactionScope,
	deliveries domaininv.DeliveryRepository,
	ingredients catalog.IngredientRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *DeliveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryService{
		txScope:        txScope,
		deliveries:     deliveries,
		ingredients:    ingredients,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create accepts a delivery into an open day
func (s *DeliveryService) Create(ctx context.Context, req CreateDeliveryRequest) (*DeliveryResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Delivery must have at least one item")
	}
	if err := s.validateIngredients(ctx, req.Items); err != nil {
		return nil, err
	}

	deliveredAt := req.DeliveredAt
	if deliveredAt.IsZero() {
		deliveredAt = time.Now()
	}

	var delivery *domaininv.Delivery
	batchNumbers := make([]string, 0, len(req.Items))

	err := s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		record, err := repos.DailyRecords().FindByID(ctx, req.DailyRecordID)
		if err != nil {
			return err
		}
		if err := record.EnsureOpen(); err != nil {
			return err
		}

		delivery, err = domaininv.NewDelivery(req.DailyRecordID, req.Supplier, req.TotalCost, req.Destination, deliveredAt)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := delivery.AddItem(item.IngredientID, item.Quantity, item.UnitCost, item.ExpiryDate); err != nil {
				return err
			}
		}
		if err := delivery.Validate(); err != nil {
			return err
		}
		if err := repos.Deliveries().Save(ctx, delivery); err != nil {
			return err
		}

		for i := range delivery.Items {
			item := &delivery.Items[i]
			seq, err := repos.Batches().NextSequence(ctx, record.Date)
			if err != nil {
				return err
			}
			batch, err := domaininv.NewIngredientBatch(
				domaininv.FormatBatchNumber(record.Date, seq),
				item.IngredientID,
				&item.ID,
				item.ExpiryDate,
				item.Quantity,
				item.UnitCost,
				req.Destination,
			)
			if err != nil {
				return err
			}
			if err := repos.Batches().Save(ctx, batch); err != nil {
				return err
			}
			batchNumbers = append(batchNumbers, batch.BatchNumber)

			if req.Destination == domaininv.LocationStorage {
				if err := repos.StorageInventory().Deposit(ctx, item.IngredientID, item.Quantity); err != nil {
					return err
				}
			}
		}

		expense := &domaininv.ExpenseEntry{
			ID:          uuid.New(),
			Category:    domaininv.ExpenseCategorySupplies,
			Amount:      req.TotalCost,
			Description: fmt.Sprintf("Delivery from %s", req.Supplier),
			DeliveryID:  &delivery.ID,
			BookedAt:    deliveredAt,
			CreatedAt:   time.Now(),
		}
		if err := repos.Expenses().Save(ctx, expense); err != nil {
			return err
		}

		// Keep a running delivery cost visible while the day is open.
		// Close recomputes financials wholesale, so this never double
		// counts.
		record.AddDeliveryCost(req.TotalCost)
		return repos.DailyRecords().Save(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, domaininv.NewDeliveryAcceptedEvent(delivery))
	}
	s.logger.Info("delivery accepted",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("supplier", delivery.Supplier),
		zap.Int("items", len(delivery.Items)),
		zap.Strings("batch_numbers", batchNumbers),
	)

	return &DeliveryResponse{
		ID:           delivery.ID,
		Supplier:     delivery.Supplier,
		TotalCost:    delivery.TotalCost,
		Destination:  string(delivery.Destination),
		DeliveredAt:  delivery.DeliveredAt,
		BatchNumbers: batchNumbers,
	}, nil
}

// Delete removes a delivery along with its batches and booked expense.
// A delivery whose batches already have deductions cannot be removed.
func (s *DeliveryService) Delete(ctx context.Context, deliveryID uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		delivery, err := repos.Deliveries().FindByID(ctx, deliveryID)
		if err != nil {
			return err
		}
		record, err := repos.DailyRecords().FindByID(ctx, delivery.DailyRecordID)
		if err != nil {
			return err
		}
		if err := record.EnsureOpen(); err != nil {
			return err
		}

		deductions, err := repos.Batches().CountDeductionsByDelivery(ctx, deliveryID)
		if err != nil {
			return err
		}
		if deductions > 0 {
			return shared.NewDomainError("DELIVERY_IN_USE", "Delivery batches already have deductions")
		}

		if delivery.Destination == domaininv.LocationStorage {
			for _, item := range delivery.Items {
				if err := repos.StorageInventory().Withdraw(ctx, item.IngredientID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := repos.Batches().DeleteByDelivery(ctx, deliveryID); err != nil {
			return err
		}
		if err := repos.Expenses().DeleteByDelivery(ctx, deliveryID); err != nil {
			return err
		}
		if err := repos.Deliveries().Delete(ctx, deliveryID); err != nil {
			return err
		}

		record.AddDeliveryCost(delivery.TotalCost.Neg())
		return repos.DailyRecords().Save(ctx, record)
	})
	if err != nil {
		return err
	}

	s.logger.Info("delivery removed", zap.String("delivery_id", deliveryID.String()))
	return nil
}

// ListByDay returns a day's deliveries
func (s *DeliveryService) ListByDay(ctx context.Context, dailyRecordID uuid.UUID) ([]domaininv.Delivery, error) {
	return s.deliveries.FindByDailyRecord(ctx, dailyRecordID)
}

func (s *DeliveryService) validateIngredients(ctx context.Context, items []DeliveryItemRequest) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.IngredientID == uuid.Nil {
			return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
		}
		ids = append(ids, item.IngredientID)
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
