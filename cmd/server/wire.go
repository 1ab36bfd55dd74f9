// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"log"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roommate_finder_backend/internal/app"
	"roommate_finder_backend/internal/application"
	"roommate_finder_backend/internal/chat"
	"roommate_finder_backend/internal/config"
	"roommate_finder_backend/internal/firebase"
	"roommate_finder_backend/internal/jobs"
	"roommate_finder_backend/internal/listing"
	"roommate_finder_backend/internal/platform/database"
	"roommate_finder_backend/internal/platform/elasticsearch"
	"roommate_finder_backend/internal/platform/logger"
	"roommate_finder_backend/internal/review"
	"roommate_finder_backend/internal/session"
	"roommate_finder_backend/internal/user"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		elasticsearch.NewClient,
		provideCleanup,

		firebase.NewFirebaseService,

		// Users
		user.NewGORMRepository,
		user.NewService,
		user.NewHandler,

		// Listings
		listing.NewGORMRepository,
		listing.NewService,
		listing.NewHandler,

		// Applications
		application.NewGORMRepository,
		application.NewService,
		application.NewHandler,

		// Messaging
		chat.NewGORMRepository,
		chat.NewService,
		chat.NewHub,
		chat.NewHandler,

		// Reviews
		review.NewGORMRepository,
		review.NewService,
		review.NewHandler,

		// Session maintenance
		session.NewGORMRepository,
		jobs.NewSessionCleanupJob,

		// Application layer
		app.NewServer,
	)
	return nil, nil, nil
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
