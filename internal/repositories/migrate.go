package repositories

import (
	"fmt"

	"tyrezone/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table owned by the repositories.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.ContactMessage{}, &CartSlot{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
