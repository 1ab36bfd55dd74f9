// File: internal/listing/model.go
package listing

import (
	"time"

	"github.com/lib/pq"

	"roommate_finder_backend/internal/common"
)

// Listing represents a room or flat offer in the database.
type Listing struct {
	common.BaseModel                // Embeds ID, CreatedAt, UpdatedAt
	OwnerID          string         `gorm:"type:varchar(255);not null;index"`
	Title            string         `gorm:"type:varchar(255);not null"`
	Slug             string         `gorm:"type:varchar(280);uniqueIndex"`
	Description      string         `gorm:"type:text;not null"`
	Rent             int            `gorm:"not null"`
	Currency         string         `gorm:"type:varchar(10);not null;default:'INR'"`
	Location         string         `gorm:"type:varchar(255);not null"`
	RoomType         *string        `gorm:"type:varchar(100)"`
	Available        bool           `gorm:"not null;default:true"`
	Images           pq.StringArray `gorm:"type:text[]"`
	Amenities        pq.StringArray `gorm:"type:text[]"`
	Preferences      pq.StringArray `gorm:"type:text[]"`
}

// TableName specifies the table name for the Listing model.
func (Listing) TableName() string {
	return "listings"
}

// --- DTOs ---

// CreateListingRequest defines the payload for creating a listing.
type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	Rent        int      `json:"rent" binding:"required,gt=0"`
	Currency    string   `json:"currency,omitempty" binding:"omitempty,max=10"`
	Location    string   `json:"location" binding:"required,max=255"`
	RoomType    *string  `json:"room_type,omitempty" binding:"omitempty,max=100"`
	Available   *bool    `json:"available,omitempty"`
	Images      []string `json:"images,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// UpdateListingRequest defines the payload for updating a listing.
// All fields are optional; absent fields are left unchanged.
type UpdateListingRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string  `json:"description,omitempty"`
	Rent        *int     `json:"rent,omitempty" binding:"omitempty,gt=0"`
	Currency    *string  `json:"currency,omitempty" binding:"omitempty,max=10"`
	Location    *string  `json:"location,omitempty" binding:"omitempty,max=255"`
	RoomType    *string  `json:"room_type,omitempty" binding:"omitempty,max=100"`
	Available   *bool    `json:"available,omitempty"`
	Images      []string `json:"images,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// SearchQuery defines the supported listing search filters.
type SearchQuery struct {
	Search   string `form:"search"`
	MinRent  *int   `form:"minRent" binding:"omitempty,gte=0"`
	MaxRent  *int   `form:"maxRent" binding:"omitempty,gte=0"`
	Location string `form:"location"`
	RoomType string `form:"roomType"`
	OwnerID  string `form:"ownerId"`
	common.PaginationQuery
}

// ListingResponse defines the structure for listing data in API responses.
type ListingResponse struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Rent        int       `json:"rent"`
	Currency    string    `json:"currency"`
	Location    string    `json:"location"`
	RoomType    *string   `json:"room_type,omitempty"`
	Available   bool      `json:"available"`
	Images      []string  `json:"images"`
	Amenities   []string  `json:"amenities"`
	Preferences []string  `json:"preferences"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToListingResponse converts a Listing model to a ListingResponse DTO.
func ToListingResponse(l *Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Slug:        l.Slug,
		Description: l.Description,
		Rent:        l.Rent,
		Currency:    l.Currency,
		Location:    l.Location,
		RoomType:    l.RoomType,
		Available:   l.Available,
		Images:      emptyIfNil(l.Images),
		Amenities:   emptyIfNil(l.Amenities),
		Preferences: emptyIfNil(l.Preferences),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func emptyIfNil(arr pq.StringArray) []string {
	if arr == nil {
		return []string{}
	}
	return arr
}
