package config

import (
	"fmt"
	"time"

	"hardware-distribution-backend/db/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// allModels defines all models that should be migrated.
// This is the only place you need to add new models
var allModels = []interface{}{
	&models.User{},
	&models.EmailLog{},

	// Store catalog
	&models.HardwareStore{},

	// Bulk import
	&models.ImportSession{},
	&models.FileImportResult{},
	&models.ImportRowError{},

	// Achievements
	&models.UserAchievementProgress{},
	&models.ImportAchievement{},
	&models.ImportAccuracyMetrics{},
}

func ConfigureDatabase() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		GetEnvOrDefault("DB_HOST", "localhost"),
		GetEnv("POSTGRES_USER"),
		GetEnv("POSTGRES_PASSWORD"),
		GetEnv("POSTGRES_DB"),
		GetEnvOrDefault("DB_PORT", "5432"),
		GetEnvOrDefault("DB_TIMEZONE", "UTC"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		Logger.Fatal("[DB-CONNECT] Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		Logger.Fatal("failed to migrate tables", zap.Error(err))
	}
	Logger.Info("Tables migrated successfully")

	if err := CreateActiveStoreCodePartialIndex(db); err != nil {
		Logger.Error("Failed to create store code partial index", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		Logger.Fatal("[DB-POOL] Failed to get underlying DB connection", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	Logger.Info("[DB-STATUS] Database setup complete")
	return db
}
