package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tracepulse/backend/internal/infrastructure/persistence/models"
)

// newTestDB opens an in-memory SQLite database with the full schema.
// SQLite's loose typing accepts the postgres column types in the model
// tags, so the production models migrate as-is.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SubscriptionTierModel{},
		&models.UserModel{},
		&models.IngestTokenModel{},
		&models.ResourceModel{},
		&models.ResourceAttributeModel{},
		&models.TraceModel{},
		&models.SpanModel{},
		&models.SpanAttributeModel{},
		&models.SpanEventModel{},
		&models.SpanEventAttributeModel{},
		&models.SpanLinkModel{},
		&models.SpanLinkAttributeModel{},
		&models.MetricModel{},
		&models.MetricAttributeModel{},
		&models.HistogramBucketModel{},
	)
	require.NoError(t, err)

	return db
}
