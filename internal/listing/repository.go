// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"roommate_finder_backend/internal/common"
)

// Repository defines the interface for listing data operations.
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id int64) (*Listing, error)
	FindBySlug(ctx context.Context, slug string) (*Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Listing, error)
	Search(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error)
	UpdateOwned(ctx context.Context, listing *Listing, ownerID string) (int64, error)
	DeleteOwned(ctx context.Context, id int64, ownerID string) (int64, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	FindAll(ctx context.Context) ([]Listing, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new listing record into the database.
func (r *gormRepository) Create(ctx context.Context, listing *Listing) error {
	err := r.db.WithContext(ctx).Create(listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A listing with this slug already exists.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a listing by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id int64) (*Listing, error) {
	var l Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Listing not found.")
		}
		return nil, err
	}
	return &l, nil
}

// FindBySlug retrieves a listing by its slug.
func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Listing, error) {
	var l Listing
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Listing not found.")
		}
		return nil, err
	}
	return &l, nil
}

// FindByOwner retrieves all listings owned by the given user, newest first.
func (r *gormRepository) FindByOwner(ctx context.Context, ownerID string) ([]Listing, error) {
	var listings []Listing
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Search retrieves listings matching the given filters, newest first.
// Only available listings are returned unless the query targets a specific owner.
func (r *gormRepository) Search(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error) {
	dbQuery := r.db.WithContext(ctx).Model(&Listing{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		dbQuery = dbQuery.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}
	if query.MinRent != nil {
		dbQuery = dbQuery.Where("rent >= ?", *query.MinRent)
	}
	if query.MaxRent != nil {
		dbQuery = dbQuery.Where("rent <= ?", *query.MaxRent)
	}
	if query.Location != "" {
		dbQuery = dbQuery.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(query.Location)+"%")
	}
	if query.RoomType != "" {
		dbQuery = dbQuery.Where("room_type = ?", query.RoomType)
	}
	if query.OwnerID != "" {
		dbQuery = dbQuery.Where("owner_id = ?", query.OwnerID)
	} else {
		dbQuery = dbQuery.Where("available = ?", true)
	}

	var totalItems int64
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, err
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)

	var listings []Listing
	err := dbQuery.
		Order("created_at DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&listings).Error
	if err != nil {
		return nil, nil, err
	}

	return listings, pagination, nil
}

// UpdateOwned persists the listing's mutable columns, but only when the row
// still belongs to ownerID. Returns the number of rows affected so callers can
// tell a missing row from an ownership mismatch.
func (r *gormRepository) UpdateOwned(ctx context.Context, listing *Listing, ownerID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ? AND owner_id = ?", listing.ID, ownerID).
		Select("title", "slug", "description", "rent", "currency", "location",
			"room_type", "available", "images", "amenities", "preferences", "updated_at").
		Updates(listing)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) || strings.Contains(res.Error.Error(), "unique constraint") {
			return 0, common.ErrConflict.WithDetails("A listing with this slug already exists.")
		}
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteOwned removes the listing only when it belongs to ownerID.
func (r *gormRepository) DeleteOwned(ctx context.Context, id int64, ownerID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&Listing{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SlugExists reports whether any listing other than excludeID already uses
// the given slug. Pass zero to check against every row.
func (r *gormRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&Listing{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns every listing. Used by the search index sync job.
func (r *gormRepository) FindAll(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	err := r.db.WithContext(ctx).Order("id ASC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
