package persistence

import (
	"testing"
	"time"

	"github.com/foodshop/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// SQLite ignores row-locking clauses, which is fine for single-connection
// tests; locking behavior itself is asserted against the postgres dialect.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.IngredientModel{},
		&models.ProductVariantModel{},
		&models.RecipeLineModel{},
		&models.DailyRecordModel{},
		&models.InventorySnapshotModel{},
		&models.DeliveryModel{},
		&models.DeliveryItemModel{},
		&models.IngredientBatchModel{},
		&models.BatchDeductionModel{},
		&models.BatchSequenceModel{},
		&models.StorageTransferModel{},
		&models.StorageInventoryModel{},
		&models.SpoilageModel{},
		&models.ExpenseEntryModel{},
		&models.RecordedSaleModel{},
		&models.CalculatedSaleModel{},
	)
	require.NoError(t, err)

	return db
}

func testDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}
