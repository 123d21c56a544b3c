package migrations

import (
	"fmt"
	"time"

	"github.com/fitterhq/fitter-backend/internal/domain/activity"
	"github.com/fitterhq/fitter-backend/internal/domain/gamification"
	"github.com/fitterhq/fitter-backend/internal/infrastructure/persistence/postgres/connection"
	"go.uber.org/zap"
)

// MigrationRecord tracks the migration history
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for migration records
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *connection.Database, logger *zap.Logger) error {
	logger.Info("Starting automatic database migration...")

	// Enable UUID extension for PostgreSQL
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		logger.Error("Failed to create UUID extension", zap.Error(err))
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	models := []interface{}{
		&MigrationRecord{},
		&activity.FoodEntry{},
		&activity.ExerciseEntry{},
		&activity.WaterEntry{},
		&activity.FastingSession{},
		&gamification.ProgressionRecord{},
		&gamification.XPEvent{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Auto migration failed", zap.Error(err))
		return fmt.Errorf("auto migration failed: %w", err)
	}

	logger.Info("Database migration completed")
	return nil
}
