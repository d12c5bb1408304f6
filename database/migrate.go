package database

import (
	"memberflow_backend/internal/logger"
	"memberflow_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate applies the schema. AutoMigrate is additive only; destructive
// changes go through hand-written SQL.
func Migrate(db *gorm.DB) error {
	logger.Info("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.OnboardingResponse{},
	)
	if err != nil {
		return err
	}

	logger.Info("database migrations completed")
	return nil
}
