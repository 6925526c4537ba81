package persistence

import (
	"context"
	"errors"

	"github.com/foodshop/backend/internal/domain/operations"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSnapshotRepository implements SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// FindByRecord finds all snapshots of a daily record
func (r *GormSnapshotRepository) FindByRecord(ctx context.Context, dailyRecordID uuid.UUID) ([]operations.InventorySnapshot, error) {
	var modelList []models.InventorySnapshotModel
	if err := r.db.WithContext(ctx).
		Where("daily_record_id = ?", dailyRecordID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toSnapshots(modelList), nil
}

// FindByRecordAndKind finds a daily record's snapshots of one kind
func (r *GormSnapshotRepository) FindByRecordAndKind(ctx context.Context, dailyRecordID uuid.UUID, kind operations.SnapshotKind) ([]operations.InventorySnapshot, error) {
	var modelList []models.InventorySnapshotModel
	if err := r.db.WithContext(ctx).
		Where("daily_record_id = ? AND kind = ?", dailyRecordID, string(kind)).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toSnapshots(modelList), nil
}

// Save creates a snapshot row. The composite unique index rejects a second
// count for the same (record, ingredient, kind, location).
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *operations.InventorySnapshot) error {
	model := models.InventorySnapshotModelFromDomain(snapshot)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "A snapshot already exists for this ingredient and kind")
		}
		return err
	}
	return nil
}

// DeleteByRecordAndKind removes a day's snapshots of one kind
func (r *GormSnapshotRepository) DeleteByRecordAndKind(ctx context.Context, dailyRecordID uuid.UUID, kind operations.SnapshotKind) error {
	return r.db.WithContext(ctx).
		Where("daily_record_id = ? AND kind = ?", dailyRecordID, string(kind)).
		Delete(&models.InventorySnapshotModel{}).Error
}

func toSnapshots(modelList []models.InventorySnapshotModel) []operations.InventorySnapshot {
	snapshots := make([]operations.InventorySnapshot, len(modelList))
	for i := range modelList {
		snapshots[i] = *modelList[i].ToDomain()
	}
	return snapshots
}

// Ensure GormSnapshotRepository implements SnapshotRepository
var _ operations.SnapshotRepository = (*GormSnapshotRepository)(nil)
