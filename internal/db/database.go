package db

import (
	"fmt"
	"time"

	"github.com/bazaarhq/bazaar-backend/config"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var database *gorm.DB

// Initialize opens the database connection and configures the pool
func Initialize(cfg *config.DatabaseConfig) error {
	logger.Info("Initializing database connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"name": cfg.DBName,
	})

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var err error
	database, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		logger.Error("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		logger.Error("Failed to get database instance", err, nil)
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("Database connection established successfully", nil)
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return database
}

// Close closes the database connection
func Close() error {
	if database == nil {
		return nil
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	logger.Info("Closing database connection", nil)
	return sqlDB.Close()
}
