// File: internal/application/model.go
package application

import (
	"time"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/listing"
)

// Application statuses. PENDING is the only state that may transition.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Application represents a seeker's request to move into a listing.
type Application struct {
	common.BaseModel
	SeekerID  string           `gorm:"type:varchar(255);not null;index"`
	ListingID int64            `gorm:"not null;index"`
	Message   *string          `gorm:"type:text"`
	Status    string           `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Listing   *listing.Listing `gorm:"foreignKey:ListingID"`
}

// TableName specifies the table name for the Application model.
func (Application) TableName() string {
	return "applications"
}

// --- DTOs ---

// CreateApplicationRequest defines the payload for applying to a listing.
type CreateApplicationRequest struct {
	ListingID int64   `json:"listing_id" binding:"required,gt=0"`
	Message   *string `json:"message,omitempty" binding:"omitempty,max=2000"`
}

// UpdateStatusRequest defines the payload for deciding an application.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACCEPTED REJECTED"`
}

// ApplicationResponse defines the structure for application data in API responses.
type ApplicationResponse struct {
	ID        int64                    `json:"id"`
	SeekerID  string                   `json:"seeker_id"`
	ListingID int64                    `json:"listing_id"`
	Message   *string                  `json:"message,omitempty"`
	Status    string                   `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
	Listing   *listing.ListingResponse `json:"listing,omitempty"`
}

// ToApplicationResponse converts an Application model to its response DTO.
func ToApplicationResponse(a *Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:        a.ID,
		SeekerID:  a.SeekerID,
		ListingID: a.ListingID,
		Message:   a.Message,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
	if a.Listing != nil {
		lr := listing.ToListingResponse(a.Listing)
		resp.Listing = &lr
	}
	return resp
}
