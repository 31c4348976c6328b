// Package db opens and migrates the development backend's sqlite database.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mschlachter/ocis-app-tokens/internal/config"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the sqlite database and configures the pool.
func InitDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dbDir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	database, err := gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql db: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return database, nil
}

// AutoMigrate migrates all persisted models.
func AutoMigrate(database *gorm.DB) error {
	if err := database.AutoMigrate(&models.AppToken{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// CloseDatabase closes the underlying connection.
func CloseDatabase(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("access sql db: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
