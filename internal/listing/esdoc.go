// File: internal/listing/esdoc.go
package listing

import "time"

// SearchDocument is the shape of a listing as stored in the search index.
type SearchDocument struct {
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
	Amenities   []string  `json:"amenities"`
	Preferences []string  `json:"preferences"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSearchDocument converts a Listing model into its search index document.
func ToSearchDocument(l *Listing) SearchDocument {
	return SearchDocument{
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
		Amenities:   emptyIfNil(l.Amenities),
		Preferences: emptyIfNil(l.Preferences),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
