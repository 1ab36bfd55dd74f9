// File: internal/session/repository.go
package session

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository defines the interface for session store maintenance.
type Repository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM session repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// DeleteExpired removes every session whose expiry is at or before now and
// returns the number of rows purged.
func (r *gormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expire <= ?", now).Delete(&Session{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
