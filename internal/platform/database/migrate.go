// File: internal/platform/database/migrate.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"roommate_finder_backend/internal/application"
	"roommate_finder_backend/internal/chat"
	"roommate_finder_backend/internal/listing"
	"roommate_finder_backend/internal/review"
	"roommate_finder_backend/internal/session"
	"roommate_finder_backend/internal/user"
)

// AutoMigrate creates or updates the schema for every model in the service.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&listing.Listing{},
		&application.Application{},
		&chat.Message{},
		&review.Review{},
		&session.Session{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
