package repos

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MilBia/Suchar-Overflow/internal/db"
	"github.com/MilBia/Suchar-Overflow/internal/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Each pooled connection to :memory: is its own database; pin the pool
	// to one so every query sees the migrated schema.
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gormDB
}

func createTestUser(t *testing.T, gormDB *gorm.DB) uuid.UUID {
	t.Helper()
	user := &types.User{Username: "user-" + uuid.NewString()}
	if err := gormDB.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}
