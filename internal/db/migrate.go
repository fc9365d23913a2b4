package db

import (
	"fmt"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs schema migrations for all models
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations", nil)

	err := db.AutoMigrate(
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
		logger.Error("Database migration failed", err, nil)
		return fmt.Errorf("database migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully", nil)
	return nil
}
