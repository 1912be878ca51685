package database

import (
	"fmt"

	"book-catalog/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for the catalog collections.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Author{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
