// File: internal/application/service.go
package application

import (
	"context"

	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/listing"
)

// Service defines the interface for application business logic.
type Service interface {
	Create(ctx context.Context, seekerID string, req CreateApplicationRequest) (*Application, error)
	UpdateStatus(ctx context.Context, id int64, callerID string, req UpdateStatusRequest) (*Application, error)
	ListSent(ctx context.Context, seekerID string) ([]Application, error)
	ListReceived(ctx context.Context, ownerID string) ([]Application, error)
	ListForListing(ctx context.Context, listingID int64, callerID string) ([]Application, error)
}

type service struct {
	repo        Repository
	listingRepo listing.Repository
	logger      *zap.Logger
}

// NewService creates a new application service.
func NewService(repo Repository, listingRepo listing.Repository, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		listingRepo: listingRepo,
		logger:      logger.Named("application_service"),
	}
}

// Create records a seeker's application against an existing listing.
func (s *service) Create(ctx context.Context, seekerID string, req CreateApplicationRequest) (*Application, error) {
	l, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID == seekerID {
		return nil, common.ErrBadRequest.WithDetails("You cannot apply to your own listing.")
	}

	app := &Application{
		SeekerID:  seekerID,
		ListingID: req.ListingID,
		Message:   req.Message,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		s.logger.Error("Failed to create application",
			zap.Error(err), zap.String("seekerID", seekerID), zap.Int64("listingID", req.ListingID))
		return nil, err
	}

	app.Listing = l
	s.logger.Info("Application created",
		zap.Int64("applicationID", app.ID), zap.Int64("listingID", req.ListingID))
	return app, nil
}

// UpdateStatus decides a pending application. Only the owner of the listing
// the application targets may decide it, and only once.
func (s *service) UpdateStatus(ctx context.Context, id int64, callerID string, req UpdateStatusRequest) (*Application, error) {
	if req.Status != StatusAccepted && req.Status != StatusRejected {
		return nil, common.ErrBadRequest.WithDetails("Status must be ACCEPTED or REJECTED.")
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Listing == nil || app.Listing.OwnerID != callerID {
		s.logger.Warn("Application decision denied: caller does not own the listing",
			zap.Int64("applicationID", id), zap.String("callerID", callerID))
		return nil, common.ErrForbidden.WithDetails("Only the listing owner can decide this application.")
	}
	if app.Status != StatusPending {
		return nil, common.ErrConflict.WithDetails("Application has already been decided.")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("Failed to update application status", zap.Error(err), zap.Int64("applicationID", id))
		return nil, err
	}

	app.Status = req.Status
	s.logger.Info("Application decided",
		zap.Int64("applicationID", id), zap.String("status", req.Status))
	return app, nil
}

// ListSent returns applications the seeker has sent.
func (s *service) ListSent(ctx context.Context, seekerID string) ([]Application, error) {
	return s.repo.FindBySeeker(ctx, seekerID)
}

// ListReceived returns applications across every listing the caller owns.
func (s *service) ListReceived(ctx context.Context, ownerID string) ([]Application, error) {
	return s.repo.FindByListingOwner(ctx, ownerID)
}

// ListForListing returns the applications for one listing, owner only.
func (s *service) ListForListing(ctx context.Context, listingID int64, callerID string) ([]Application, error) {
	l, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != callerID {
		return nil, common.ErrForbidden.WithDetails("Only the listing owner can view its applications.")
	}
	return s.repo.FindByListing(ctx, listingID)
}
