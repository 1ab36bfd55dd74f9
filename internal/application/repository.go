// File: internal/application/repository.go
package application

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"roommate_finder_backend/internal/common"
)

// Repository defines the interface for application data operations.
type Repository interface {
	Create(ctx context.Context, app *Application) error
	FindByID(ctx context.Context, id int64) (*Application, error)
	FindBySeeker(ctx context.Context, seekerID string) ([]Application, error)
	FindByListingOwner(ctx context.Context, ownerID string) ([]Application, error)
	FindByListing(ctx context.Context, listingID int64) ([]Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM application repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new application record into the database.
func (r *gormRepository) Create(ctx context.Context, app *Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// FindByID retrieves an application with its listing preloaded.
func (r *gormRepository) FindByID(ctx context.Context, id int64) (*Application, error) {
	var app Application
	err := r.db.WithContext(ctx).Preload("Listing").Where("id = ?", id).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Application not found.")
		}
		return nil, err
	}
	return &app, nil
}

// FindBySeeker retrieves applications sent by a seeker, newest first.
func (r *gormRepository) FindBySeeker(ctx context.Context, seekerID string) ([]Application, error) {
	var apps []Application
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("seeker_id = ?", seekerID).
		Order("created_at DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// FindByListingOwner retrieves applications across every listing the given
// user owns, newest first.
func (r *gormRepository) FindByListingOwner(ctx context.Context, ownerID string) ([]Application, error) {
	var apps []Application
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Joins("JOIN listings ON listings.id = applications.listing_id").
		Where("listings.owner_id = ?", ownerID).
		Order("applications.created_at DESC, applications.id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// FindByListing retrieves applications for one listing, newest first.
func (r *gormRepository) FindByListing(ctx context.Context, listingID int64) ([]Application, error) {
	var apps []Application
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateStatus sets the application status. The write is conditioned on the
// row still being PENDING so two concurrent decisions cannot both win; a
// zero-row result is disambiguated into missing versus already decided.
func (r *gormRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res := r.db.WithContext(ctx).Model(&Application{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&Application{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return common.ErrNotFound.WithDetails("Application not found.")
		}
		return common.ErrConflict.WithDetails("Application has already been decided.")
	}
	return nil
}
