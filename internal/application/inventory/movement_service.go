package inventory

import (
	"context"

	appops "github.com/foodshop/backend/internal/application/operations"
	"github.com/foodshop/backend/internal/domain/catalog"
	domaininv "github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MovementService handles the mid-day stock movements: storage-to-shop
// transfers and spoilage.
type MovementService struct {
	txScope        appops.TransactionScope
	transfers      domaininv.StorageTransferRepository
	storage        domaininv.StorageInventoryRepository
	spoilages      domaininv.SpoilageRepository
	ingredients    catalog.IngredientRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMovementService creates a MovementService
func NewMovementService(
	txScope appops.TransactionScope,
	transfers domaininv.StorageTransferRepository,
	storage domaininv.StorageInventoryRepository,
	spoilages domaininv.SpoilageRepository,
	ingredients catalog.IngredientRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *MovementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovementService{
		txScope:        txScope,
		transfers:      transfers,
		storage:        storage,
		spoilages:      spoilages,
		ingredients:    ingredients,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateTransfer withdraws from storage and books the transfer against the
// open day. The storage decrement is conditional so concurrent transfers
// can never drive a quantity negative.
func (s *MovementService) CreateTransfer(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	if err := s.requireActiveIngredient(ctx, req.IngredientID); err != nil {
		return nil, err
	}

	var transfer *domaininv.StorageTransfer
	err := s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		record, err := repos.DailyRecords().FindByID(ctx, req.DailyRecordID)
		if err != nil {
			return err
		}
		if err := record.EnsureOpen(); err != nil {
			return err
		}

		transfer, err = domaininv.NewStorageTransfer(req.DailyRecordID, req.IngredientID, req.Quantity)
		if err != nil {
			return err
		}
		if err := repos.StorageInventory().Withdraw(ctx, req.IngredientID, req.Quantity); err != nil {
			return err
		}
		return repos.Transfers().Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("storage transfer recorded",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("ingredient_id", req.IngredientID.String()),
		zap.String("quantity", req.Quantity.String()),
	)
	return &TransferResponse{ID: transfer.ID, IngredientID: transfer.IngredientID, Quantity: transfer.Quantity}, nil
}

// DeleteTransfer removes a transfer and restores the withdrawn quantity to
// storage. Only allowed while the day is still open.
func (s *MovementService) DeleteTransfer(ctx context.Context, transferID uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		transfer, err := repos.Transfers().FindByID(ctx, transferID)
		if err != nil {
			return err
		}
		record, err := repos.DailyRecords().FindByID(ctx, transfer.DailyRecordID)
		if err != nil {
			return err
		}
		if err := record.EnsureOpen(); err != nil {
			return err
		}

		if err := repos.StorageInventory().Restore(ctx, transfer.IngredientID, transfer.Quantity); err != nil {
			return err
		}
		return repos.Transfers().Delete(ctx, transferID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("storage transfer removed", zap.String("transfer_id", transferID.String()))
	return nil
}

// RecordSpoilage books spoiled stock against the open day. When a batch is
// named the quantity is also deducted from it under a row lock, keeping
// batch remainders and the day ledger in step.
func (s *MovementService) RecordSpoilage(ctx context.Context, req RecordSpoilageRequest) (*SpoilageResponse, error) {
	if err := s.requireActiveIngredient(ctx, req.IngredientID); err != nil {
		return nil, err
	}

	var spoilage *domaininv.Spoilage
	var depleted *domaininv.IngredientBatch

	err := s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		record, err := repos.DailyRecords().FindByID(ctx, req.DailyRecordID)
		if err != nil {
			return err
		}
		if err := record.EnsureOpen(); err != nil {
			return err
		}

		spoilage, err = domaininv.NewSpoilage(req.DailyRecordID, req.IngredientID, req.BatchID, req.Quantity, req.Reason, req.Notes)
		if err != nil {
			return err
		}
		if err := repos.Spoilages().Save(ctx, spoilage); err != nil {
			return err
		}

		if req.BatchID != nil {
			batch, err := repos.Batches().FindByIDForUpdate(ctx, *req.BatchID)
			if err != nil {
				return err
			}
			if batch.IngredientID != req.IngredientID {
				return shared.NewDomainError("INVALID_BATCH", "Batch belongs to a different ingredient")
			}
			deduction, err := batch.Deduct(req.Quantity, domaininv.DeductionReasonSpoilage, &spoilage.ID)
			if err != nil {
				return err
			}
			if err := repos.Batches().Save(ctx, batch); err != nil {
				return err
			}
			if err := repos.Batches().AppendDeduction(ctx, deduction); err != nil {
				return err
			}
			if !batch.Active {
				depleted = batch
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, domaininv.NewSpoilageRecordedEvent(spoilage))
		if depleted != nil {
			_ = s.eventPublisher.Publish(ctx, domaininv.NewBatchDepletedEvent(depleted))
		}
	}
	s.logger.Info("spoilage recorded",
		zap.String("spoilage_id", spoilage.ID.String()),
		zap.String("ingredient_id", req.IngredientID.String()),
		zap.String("reason", string(req.Reason)),
	)

	return &SpoilageResponse{
		ID:           spoilage.ID,
		IngredientID: spoilage.IngredientID,
		BatchID:      spoilage.BatchID,
		Quantity:     spoilage.Quantity,
		Reason:       string(spoilage.Reason),
	}, nil
}

// StorageLevels returns current per-ingredient storage quantities with
// ingredient names resolved.
func (s *MovementService) StorageLevels(ctx context.Context) ([]StorageLevelResponse, error) {
	levels, err := s.storage.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(levels))
	for _, level := range levels {
		ids = append(ids, level.IngredientID)
	}
	ingredients, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(ingredients))
	for _, ing := range ingredients {
		names[ing.ID] = ing.Name
	}

	out := make([]StorageLevelResponse, 0, len(levels))
	for _, level := range levels {
		out = append(out, StorageLevelResponse{
			IngredientID:   level.IngredientID,
			IngredientName: names[level.IngredientID],
			Quantity:       level.Quantity,
		})
	}
	return out, nil
}

func (s *MovementService) requireActiveIngredient(ctx context.Context, ingredientID uuid.UUID) error {
	if ingredientID == uuid.Nil {
		return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	ingredient, err := s.ingredients.FindByID(ctx, ingredientID)
	if err != nil {
		return err
	}
	if !ingredient.Active {
		return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient is inactive")
	}
	return nil
}
