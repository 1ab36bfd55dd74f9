// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roommate_finder_backend/internal/application"
	"roommate_finder_backend/internal/chat"
	"roommate_finder_backend/internal/config"
	"roommate_finder_backend/internal/firebase"
	"roommate_finder_backend/internal/jobs"
	"roommate_finder_backend/internal/listing"
	"roommate_finder_backend/internal/middleware"
	platformES "roommate_finder_backend/internal/platform/elasticsearch"
	"roommate_finder_backend/internal/review"
	"roommate_finder_backend/internal/user"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	userHandler        *user.Handler
	listingHandler     *listing.Handler
	applicationHandler *application.Handler
	chatHandler        *chat.Handler
	reviewHandler      *review.Handler

	// Background workers
	hub               *chat.Hub
	sessionCleanupJob *jobs.SessionCleanupJob

	// Exposed for startup hooks in main.
	AppLogger *zap.Logger
	ESClient  *platformES.ESClientWrapper
	DB        *gorm.DB
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	listingHandler *listing.Handler,
	applicationHandler *application.Handler,
	chatHandler *chat.Handler,
	reviewHandler *review.Handler,
	hub *chat.Hub,
	sessionCleanupJob *jobs.SessionCleanupJob,
	db *gorm.DB,
	esClient *platformES.ESClientWrapper,
	firebaseService *firebase.FirebaseService,
	userService user.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))
	optionalAuthMW := middleware.OptionalAuthMiddleware(firebaseService, userService, logger.Named("OptionalAuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Roommate Finder API is healthy!"})
	})

	api := router.Group("/api")

	userHandler.RegisterRoutes(api, authMW, optionalAuthMW)
	listingHandler.RegisterRoutes(api, authMW)
	applicationHandler.RegisterRoutes(api, authMW)
	chatHandler.RegisterRoutes(api, authMW)
	reviewHandler.RegisterRoutes(api, authMW)

	// The broadcast channel lives outside /api; auth happens at the
	// application level inside envelopes, not at the handshake.
	chatHandler.RegisterWebsocket(router)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:         httpServer,
		router:             router,
		cfg:                cfg,
		logger:             logger,
		userHandler:        userHandler,
		listingHandler:     listingHandler,
		applicationHandler: applicationHandler,
		chatHandler:        chatHandler,
		reviewHandler:      reviewHandler,
		hub:                hub,
		sessionCleanupJob:  sessionCleanupJob,
		AppLogger:          logger,
		ESClient:           esClient,
		DB:                 db,
	}, nil
}

// Start runs the broadcast hub, the cleanup job and the HTTP listener.
// It blocks until the listener stops.
func (s *Server) Start() error {
	go s.hub.Run()

	if s.sessionCleanupJob != nil {
		if err := s.sessionCleanupJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start session cleanup job", zap.Error(err))
		}
	} else {
		s.logger.Info("Session cleanup job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

// Shutdown stops the background workers and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.sessionCleanupJob != nil {
		s.sessionCleanupJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
