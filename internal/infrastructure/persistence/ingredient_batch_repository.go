package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodshop/backend/internal/domain/inventory"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormIngredientBatchRepository implements IngredientBatchRepository using
// GORM. Remaining-quantity checks go through FindByIDForUpdate so deductions
// against the same batch are serialized by a row lock.
type GormIngredientBatchRepository struct {
	db *gorm.DB
}

// NewGormIngredientBatchRepository creates a new GormIngredientBatchRepository
func NewGormIngredientBatchRepository(db *gorm.DB) *GormIngredientBatchRepository {
	return &GormIngredientBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormIngredientBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.IngredientBatch, error) {
	var model models.IngredientBatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a batch under SELECT ... FOR UPDATE
func (r *GormIngredientBatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.IngredientBatch, error) {
	var model models.IngredientBatchModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIngredient finds all batches of an ingredient in FIFO order
func (r *GormIngredientBatchRepository) FindByIngredient(ctx context.Context, ingredientID uuid.UUID) ([]inventory.IngredientBatch, error) {
	var modelList []models.IngredientBatchModel
	if err := r.db.WithContext(ctx).
		Where("ingredient_id = ?", ingredientID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toBatches(modelList), nil
}

// FindActiveWithExpiry finds active batches whose expiry date falls on or
// before the given bound, soonest first
func (r *GormIngredientBatchRepository) FindActiveWithExpiry(ctx context.Context, until time.Time) ([]inventory.IngredientBatch, error) {
	var modelList []models.IngredientBatchModel
	if err := r.db.WithContext(ctx).
		Where("active = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", true, until).
		Order("expiry_date ASC, created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toBatches(modelList), nil
}

// NextSequence returns the next per-day batch sequence number. The counter
// row is read under a row lock; the first caller of a day creates it. When
// two transactions race on that first insert the loser surfaces the
// duplicate key as a conflict and the caller retries the delivery.
func (r *GormIngredientBatchRepository) NextSequence(ctx context.Context, date time.Time) (int, error) {
	day := date.Format("20060102")
	tx := r.db.WithContext(ctx)

	var seq models.BatchSequenceModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&seq, "day = ?", day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.BatchSequenceModel{Day: day, Value: 1}
		if createErr := tx.Create(&seq).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return 0, shared.NewDomainError("SEQUENCE_CONFLICT", "Concurrent batch numbering conflict, retry the operation")
			}
			return 0, createErr
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	seq.Value++
	if err := tx.Model(&models.BatchSequenceModel{}).
		Where("day = ?", day).
		Update("value", seq.Value).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// Save creates or updates a batch
func (r *GormIngredientBatchRepository) Save(ctx context.Context, batch *inventory.IngredientBatch) error {
	model := models.IngredientBatchModelFromDomain(batch)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "A batch with this batch number already exists")
		}
		return err
	}
	return nil
}

// AppendDeduction persists an immutable deduction row
func (r *GormIngredientBatchRepository) AppendDeduction(ctx context.Context, deduction *inventory.BatchDeduction) error {
	return r.db.WithContext(ctx).Create(models.BatchDeductionModelFromDomain(deduction)).Error
}

// FindDeductionsByBatch finds a batch's deductions, oldest first
func (r *GormIngredientBatchRepository) FindDeductionsByBatch(ctx context.Context, batchID uuid.UUID) ([]inventory.BatchDeduction, error) {
	var modelList []models.BatchDeductionModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	deductions := make([]inventory.BatchDeduction, len(modelList))
	for i := range modelList {
		deductions[i] = *modelList[i].ToDomain()
	}
	return deductions, nil
}

// CountDeductionsByDelivery counts deductions against any batch created from
// the given delivery
func (r *GormIngredientBatchRepository) CountDeductionsByDelivery(ctx context.Context, deliveryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BatchDeductionModel{}).
		Joins("JOIN ingredient_batches ON ingredient_batches.id = batch_deductions.batch_id").
		Joins("JOIN delivery_items ON delivery_items.id = ingredient_batches.delivery_item_id").
		Where("delivery_items.delivery_id = ?", deliveryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteByDelivery removes the batches created from a delivery's items
func (r *GormIngredientBatchRepository) DeleteByDelivery(ctx context.Context, deliveryID uuid.UUID) error {
	itemIDs := r.db.Model(&models.DeliveryItemModel{}).
		Select("id").
		Where("delivery_id = ?", deliveryID)
	return r.db.WithContext(ctx).
		Where("delivery_item_id IN (?)", itemIDs).
		Delete(&models.IngredientBatchModel{}).Error
}

func toBatches(modelList []models.IngredientBatchModel) []inventory.IngredientBatch {
	batches := make([]inventory.IngredientBatch, len(modelList))
	for i := range modelList {
		batches[i] = *modelList[i].ToDomain()
	}
	return batches
}

// Ensure GormIngredientBatchRepository implements IngredientBatchRepository
var _ inventory.IngredientBatchRepository = (*GormIngredientBatchRepository)(nil)
