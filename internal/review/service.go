// File: internal/review/service.go
package review

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/listing"
	"roommate_finder_backend/internal/user"
)

// Service defines the interface for review business logic.
type Service interface {
	Create(ctx context.Context, authorID string, req CreateReviewRequest) (*Review, error)
	ListByTarget(ctx context.Context, targetID string) ([]Review, error)
	ListByListing(ctx context.Context, listingID int64) ([]Review, error)
}

type service struct {
	repo        Repository
	userRepo    user.Repository
	listingRepo listing.Repository
	logger      *zap.Logger
}

// NewService creates a new review service.
func NewService(repo Repository, userRepo user.Repository, listingRepo listing.Repository, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		logger:      logger.Named("review_service"),
	}
}

// Create appends a review authored by authorID. The target user must exist,
// and when a listing is referenced it must exist too.
func (s *service) Create(ctx context.Context, authorID string, req CreateReviewRequest) (*Review, error) {
	if req.TargetID == authorID {
		return nil, common.ErrBadRequest.WithDetails("You cannot review yourself.")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, common.ErrBadRequest.WithDetails("Rating must be between 1 and 5.")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, common.ErrBadRequest.WithDetails("Comment cannot be empty.")
	}

	exists, err := s.userRepo.Exists(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrNotFound.WithDetails("Target user not found.")
	}

	if req.ListingID != nil {
		if _, err := s.listingRepo.FindByID(ctx, *req.ListingID); err != nil {
			return nil, err
		}
	}

	review := &Review{
		AuthorID:  authorID,
		TargetID:  req.TargetID,
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		s.logger.Error("Failed to create review",
			zap.Error(err), zap.String("authorID", authorID), zap.String("targetID", req.TargetID))
		return nil, err
	}

	s.logger.Info("Review created",
		zap.Int64("reviewID", review.ID), zap.String("targetID", req.TargetID))
	return review, nil
}

// ListByTarget returns reviews about a user.
func (s *service) ListByTarget(ctx context.Context, targetID string) ([]Review, error) {
	return s.repo.FindByTarget(ctx, targetID)
}

// ListByListing returns reviews for a listing.
func (s *service) ListByListing(ctx context.Context, listingID int64) ([]Review, error) {
	return s.repo.FindByListing(ctx, listingID)
}
