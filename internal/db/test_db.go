package db

import (
	"fmt"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database with the full schema.
// Each call returns an isolated database, so tests never share state.
func SetupTestDB() (*gorm.DB, error) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	err = testDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Item{},
		&model.ItemImage{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.ReviewImage{},
		&model.ReviewUpvote{},
		&model.Promotion{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return testDB, nil
}

// CleanupTestDB closes the underlying connection
func CleanupTestDB(testDB *gorm.DB) {
	if testDB == nil {
		return
	}
	if sqlDB, err := testDB.DB(); err == nil {
		sqlDB.Close()
	}
}
