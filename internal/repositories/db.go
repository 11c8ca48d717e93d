// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"fmt"
	"log"
	"os"
	"time"

	"advance/internal/config"
	"advance/internal/models"
	"advance/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB
var CacheService *cache.CacheService

// InitDB opens the postgres connection, applies the pool settings, runs
// migrations and connects the Redis cache.
func InitDB(settings config.Settings) error {
	if err := initPostgres(settings.Database); err != nil {
		return err
	}

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     settings.Redis.Host,
		Port:     settings.Redis.Port,
		Password: settings.Redis.Password,
		DB:       settings.Redis.DB,
	})
	CacheService = cache.NewCacheService(redisClient, 24*time.Hour)

	return Migrate(DB)
}

// Migrate creates or updates the schema, including the partial unique index
// that enforces one active deposit per owner per month.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Deposit{},
		&models.InterestCalculation{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.DeliveryRecord{},
	)
}

func initPostgres(cfg config.DatabaseConfig) error {
	// Configure GORM logger to ignore "record not found" errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(),
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: newLogger})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	DB = db
	return nil
}

// Close releases the database and Redis connections opened by InitDB.
func Close() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}
	}
	if CacheService != nil {
		if err := CacheService.Close(); err != nil {
			log.Printf("Failed to close Redis connection: %v", err)
		}
	}
}
