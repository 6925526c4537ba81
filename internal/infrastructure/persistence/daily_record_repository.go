package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodshop/backend/internal/domain/operations"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDailyRecordRepository implements DailyRecordRepository using GORM
type GormDailyRecordRepository struct {
	db *gorm.DB
}

// NewGormDailyRecordRepository creates a new GormDailyRecordRepository
func NewGormDailyRecordRepository(db *gorm.DB) *GormDailyRecordRepository {
	return &GormDailyRecordRepository{db: db}
}

// FindByID finds a daily record by its ID
func (r *GormDailyRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*operations.DailyRecord, error) {
	var model models.DailyRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDate finds the daily record for a calendar date
func (r *GormDailyRecordRepository) FindByDate(ctx context.Context, date time.Time) (*operations.DailyRecord, error) {
	var model models.DailyRecordModel
	if err := r.db.WithContext(ctx).
		Where("record_date = ?", truncateToDate(date)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenBefore finds open records dated strictly before the given date,
// oldest first
func (r *GormDailyRecordRepository) FindOpenBefore(ctx context.Context, date time.Time) ([]operations.DailyRecord, error) {
	var modelList []models.DailyRecordModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND record_date < ?", operations.DailyRecordStatusOpen.String(), truncateToDate(date)).
		Order("record_date ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	records := make([]operations.DailyRecord, len(modelList))
	for i := range modelList {
		records[i] = *modelList[i].ToDomain()
	}
	return records, nil
}

// FindRecent finds the most recently dated records
func (r *GormDailyRecordRepository) FindRecent(ctx context.Context, limit int) ([]operations.DailyRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	var modelList []models.DailyRecordModel
	if err := r.db.WithContext(ctx).
		Order("record_date DESC").
		Limit(limit).
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	records := make([]operations.DailyRecord, len(modelList))
	for i := range modelList {
		records[i] = *modelList[i].ToDomain()
	}
	return records, nil
}

// Save creates or updates a daily record. A second record on the same date
// trips the unique index on record_date and surfaces as a domain conflict.
func (r *GormDailyRecordRepository) Save(ctx context.Context, record *operations.DailyRecord) error {
	model := models.DailyRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("ALREADY_EXISTS", "A daily record already exists for this date")
		}
		return err
	}
	return nil
}

// truncateToDate zeroes the time part, keeping the location
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Ensure GormDailyRecordRepository implements DailyRecordRepository
var _ operations.DailyRecordRepository = (*GormDailyRecordRepository)(nil)
