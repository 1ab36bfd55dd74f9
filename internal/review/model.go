// File: internal/review/model.go
package review

import (
	"time"
)

// Review represents an append-only rating left by one user about another,
// optionally tied to a listing.
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AuthorID  string    `gorm:"type:varchar(255);not null;index"`
	TargetID  string    `gorm:"type:varchar(255);not null;index"`
	ListingID *int64    `gorm:"index"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for the Review model.
func (Review) TableName() string {
	return "reviews"
}

// --- DTOs ---

// CreateReviewRequest defines the payload for appending a review.
type CreateReviewRequest struct {
	TargetID  string `json:"target_id" binding:"required"`
	ListingID *int64 `json:"listing_id,omitempty" binding:"omitempty,gt=0"`
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment" binding:"required,max=4000"`
}

// ReviewResponse defines the structure for review data in API responses.
type ReviewResponse struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"author_id"`
	TargetID  string    `json:"target_id"`
	ListingID *int64    `json:"listing_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ToReviewResponse converts a Review model to its response DTO.
func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		TargetID:  r.TargetID,
		ListingID: r.ListingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
