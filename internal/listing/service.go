// File: internal/listing/service.go
package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/config"
	platformES "roommate_finder_backend/internal/platform/elasticsearch"
)

// Service defines the interface for listing business logic.
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateListingRequest) (*Listing, error)
	GetByID(ctx context.Context, id int64) (*Listing, error)
	GetBySlug(ctx context.Context, slug string) (*Listing, error)
	Search(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Listing, error)
	Update(ctx context.Context, id int64, callerID string, req UpdateListingRequest) (*Listing, error)
	Delete(ctx context.Context, id int64, callerID string) error
}

type service struct {
	repo     Repository
	esClient *platformES.ESClientWrapper
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates a new listing service.
func NewService(repo Repository, esClient *platformES.ESClientWrapper, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		esClient: esClient,
		cfg:      cfg,
		logger:   logger.Named("listing_service"),
	}
}

// Create validates and stores a new listing owned by ownerID.
func (s *service) Create(ctx context.Context, ownerID string, req CreateListingRequest) (*Listing, error) {
	if req.Rent <= 0 {
		return nil, common.ErrBadRequest.WithDetails("Rent must be greater than zero.")
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	listingSlug, err := s.uniqueSlug(ctx, req.Title, 0)
	if err != nil {
		return nil, err
	}

	l := &Listing{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Slug:        listingSlug,
		Description: req.Description,
		Rent:        req.Rent,
		Currency:    currency,
		Location:    strings.TrimSpace(req.Location),
		RoomType:    req.RoomType,
		Available:   available,
		Images:      req.Images,
		Amenities:   req.Amenities,
		Preferences: req.Preferences,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("Failed to create listing", zap.Error(err), zap.String("ownerID", ownerID))
		return nil, err
	}

	s.logger.Info("Listing created", zap.Int64("listingID", l.ID), zap.String("ownerID", ownerID))
	s.indexListing(ctx, l)
	return l, nil
}

// GetByID retrieves a single listing.
func (s *service) GetByID(ctx context.Context, id int64) (*Listing, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug retrieves a single listing by its URL slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*Listing, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// Search retrieves listings matching the query filters.
func (s *service) Search(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error) {
	if query.MinRent != nil && query.MaxRent != nil && *query.MinRent > *query.MaxRent {
		return nil, nil, common.ErrBadRequest.WithDetails("minRent cannot be greater than maxRent.")
	}
	return s.repo.Search(ctx, query)
}

// ListByOwner returns all listings for the given owner, including unavailable ones.
func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]Listing, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

// Update applies partial changes to a listing. The write is conditioned on
// ownership at the SQL level; when no row is touched the caller learns whether
// the listing is missing or simply not theirs.
func (s *service) Update(ctx context.Context, id int64, callerID string, req UpdateListingRequest) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != l.Title {
		l.Title = strings.TrimSpace(*req.Title)
		newSlug, err := s.uniqueSlug(ctx, l.Title, l.ID)
		if err != nil {
			return nil, err
		}
		l.Slug = newSlug
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Rent != nil {
		if *req.Rent <= 0 {
			return nil, common.ErrBadRequest.WithDetails("Rent must be greater than zero.")
		}
		l.Rent = *req.Rent
	}
	if req.Currency != nil {
		l.Currency = strings.TrimSpace(*req.Currency)
	}
	if req.Location != nil {
		l.Location = strings.TrimSpace(*req.Location)
	}
	if req.RoomType != nil {
		l.RoomType = req.RoomType
	}
	if req.Available != nil {
		l.Available = *req.Available
	}
	if req.Images != nil {
		l.Images = req.Images
	}
	if req.Amenities != nil {
		l.Amenities = req.Amenities
	}
	if req.Preferences != nil {
		l.Preferences = req.Preferences
	}

	rows, err := s.repo.UpdateOwned(ctx, l, callerID)
	if err != nil {
		s.logger.Error("Failed to update listing", zap.Error(err), zap.Int64("listingID", id))
		return nil, err
	}
	if rows == 0 {
		// The row existed a moment ago, so a zero-row update means the caller
		// does not own it (or it vanished concurrently).
		if _, findErr := s.repo.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		s.logger.Warn("Listing update denied: caller is not the owner",
			zap.Int64("listingID", id), zap.String("callerID", callerID))
		return nil, common.ErrForbidden.WithDetails("You do not own this listing.")
	}

	s.logger.Info("Listing updated", zap.Int64("listingID", id))
	s.indexListing(ctx, l)
	return l, nil
}

// Delete removes a listing owned by callerID.
func (s *service) Delete(ctx context.Context, id int64, callerID string) error {
	rows, err := s.repo.DeleteOwned(ctx, id, callerID)
	if err != nil {
		s.logger.Error("Failed to delete listing", zap.Error(err), zap.Int64("listingID", id))
		return err
	}
	if rows == 0 {
		if _, findErr := s.repo.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		s.logger.Warn("Listing delete denied: caller is not the owner",
			zap.Int64("listingID", id), zap.String("callerID", callerID))
		return common.ErrForbidden.WithDetails("You do not own this listing.")
	}

	s.logger.Info("Listing deleted", zap.Int64("listingID", id))
	s.removeFromIndex(ctx, id)
	return nil
}

// uniqueSlug derives a URL slug from the title, suffixing a counter until it
// is free. On updates the listing's own row is excluded so a title change
// that maps to the same slug keeps it.
func (s *service) uniqueSlug(ctx context.Context, title string, excludeID int64) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", common.ErrBadRequest.WithDetails("Title must contain at least one alphanumeric character.")
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// indexListing pushes the listing document to the search index. Indexing is
// best effort; failures are logged and never surfaced to the caller.
func (s *service) indexListing(ctx context.Context, l *Listing) {
	if s.esClient == nil {
		return
	}

	doc := ToSearchDocument(l)
	body, err := json.Marshal(doc)
	if err != nil {
		s.logger.Warn("Failed to marshal listing for indexing", zap.Error(err), zap.Int64("listingID", l.ID))
		return
	}

	req := esapi.IndexRequest{
		Index:      platformES.ListingsIndexName,
		DocumentID: strconv.FormatInt(l.ID, 10),
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		s.logger.Warn("Failed to index listing", zap.Error(err), zap.Int64("listingID", l.ID))
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		s.logger.Warn("Search index rejected listing document",
			zap.String("status", res.Status()), zap.Int64("listingID", l.ID))
	}
}

// removeFromIndex deletes the listing document from the search index, best effort.
func (s *service) removeFromIndex(ctx context.Context, id int64) {
	if s.esClient == nil {
		return
	}

	req := esapi.DeleteRequest{
		Index:      platformES.ListingsIndexName,
		DocumentID: strconv.FormatInt(id, 10),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		s.logger.Warn("Failed to remove listing from search index", zap.Error(err), zap.Int64("listingID", id))
		return
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		s.logger.Warn("Search index delete returned an error",
			zap.String("status", res.Status()), zap.Int64("listingID", id))
	}
}
