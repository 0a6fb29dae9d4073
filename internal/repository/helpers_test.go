package repository_test

import (
	"path/filepath"
	"testing"

	"erp/internal/database"
	"erp/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a migrated SQLite database private to the test. Row locks are
// not enforced by SQLite, so a single connection serialises the statements instead.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "erp.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func ptr[T any](v T) *T { return &v }

func seedCategory(t *testing.T, db *gorm.DB, c model.NumberingCategory) *model.NumberingCategory {
	t.Helper()
	if c.Kind == "" {
		c.Kind = model.CategoryKindBilling
	}
	if c.CompanyID == uuid.Nil {
		c.CompanyID = uuid.New()
	}
	require.NoError(t, db.Create(&c).Error)
	return &c
}
