package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasktracker/internal/db"
	"tasktracker/internal/model"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewSQLite(":memory:", &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gormDB
}

func createUser(t *testing.T, gormDB *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, PasswordHash: "hash", IsActive: true}
	require.NoError(t, gormDB.Create(user).Error)
	return user
}
