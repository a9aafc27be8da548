package unit_tests

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reportforge/internal/database"
)

// openTestDB opens a fresh migrated and seeded database in a temp dir.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(database.Config{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
