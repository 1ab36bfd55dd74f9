// File: internal/review/repository.go
package review

import (
	"context"

	"gorm.io/gorm"
)

// Repository defines the interface for review data operations. Reviews are
// append-only; there is no update or delete.
type Repository interface {
	Create(ctx context.Context, review *Review) error
	FindByTarget(ctx context.Context, targetID string) ([]Review, error)
	FindByListing(ctx context.Context, listingID int64) ([]Review, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM review repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new review record into the database.
func (r *gormRepository) Create(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByTarget retrieves reviews about a user, newest first.
func (r *gormRepository) FindByTarget(ctx context.Context, targetID string) ([]Review, error) {
	reviews := make([]Review, 0)
	err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByListing retrieves reviews for a listing, newest first.
func (r *gormRepository) FindByListing(ctx context.Context, listingID int64) ([]Review, error) {
	reviews := make([]Review, 0)
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
