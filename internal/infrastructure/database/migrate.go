package database

import (
	"github.com/wekeepgrowing/billing-sync/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	// Create custom types BEFORE auto-migrate
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.Subscription{},
		&model.CustomerMapping{},
		&model.ConnectedAccountMapping{},
		&model.ProviderWebhookEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomTypes creates enum types that GORM models reference
func createCustomTypes(db *gorm.DB) error {
	if err := db.Exec(`DO $$ BEGIN
		CREATE TYPE subscription_type AS ENUM ('limit_date', 'pay_amount', 'usage_count');
	EXCEPTION WHEN duplicate_object THEN null; END $$`).Error; err != nil {
		return err
	}
	if err := db.Exec(`DO $$ BEGIN
		CREATE TYPE webhook_status AS ENUM ('pending', 'completed', 'failed');
	EXCEPTION WHEN duplicate_object THEN null; END $$`).Error; err != nil {
		return err
	}
	return nil
}

// createCustomIndexes creates indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Failed deliveries are scanned for operational review
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_unprocessed ON provider_webhook_events (created_at) WHERE status IN ('pending', 'failed')`).Error; err != nil {
		return err
	}
	return nil
}
