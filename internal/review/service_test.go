package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/listing"
	"roommate_finder_backend/internal/user"
)

type mockReviewRepository struct {
	createFunc func(ctx context.Context, review *Review) error
	reviews    []Review
}

func (m *mockReviewRepository) Create(ctx context.Context, review *Review) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	review.ID = int64(len(m.reviews) + 1)
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *mockReviewRepository) FindByTarget(ctx context.Context, targetID string) ([]Review, error) {
	out := make([]Review, 0)
	for _, r := range m.reviews {
		if r.TargetID == targetID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) FindByListing(ctx context.Context, listingID int64) ([]Review, error) {
	out := make([]Review, 0)
	for _, r := range m.reviews {
		if r.ListingID != nil && *r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockUserRepository struct {
	existing map[string]bool
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error { return nil }
func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if m.existing[id] {
		return &user.User{ID: id}, nil
	}
	return nil, common.ErrNotFound
}
func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error { return nil }
func (m *mockUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	return m.existing[id], nil
}

type mockListingRepository struct {
	existing map[int64]bool
}

func (m *mockListingRepository) Create(ctx context.Context, l *listing.Listing) error { return nil }
func (m *mockListingRepository) FindByID(ctx context.Context, id int64) (*listing.Listing, error) {
	if m.existing[id] {
		l := &listing.Listing{OwnerID: "owner1"}
		l.ID = id
		return l, nil
	}
	return nil, common.ErrNotFound
}
func (m *mockListingRepository) FindBySlug(ctx context.Context, slug string) (*listing.Listing, error) {
	return nil, common.ErrNotFound
}
func (m *mockListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]listing.Listing, error) {
	return nil, nil
}
func (m *mockListingRepository) Search(ctx context.Context, query listing.SearchQuery) ([]listing.Listing, *common.Pagination, error) {
	return nil, nil, nil
}
func (m *mockListingRepository) UpdateOwned(ctx context.Context, l *listing.Listing, ownerID string) (int64, error) {
	return 0, nil
}
func (m *mockListingRepository) DeleteOwned(ctx context.Context, id int64, ownerID string) (int64, error) {
	return 0, nil
}
func (m *mockListingRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return false, nil
}
func (m *mockListingRepository) FindAll(ctx context.Context) ([]listing.Listing, error) {
	return nil, nil
}

func newTestService(repo Repository) Service {
	users := &mockUserRepository{existing: map[string]bool{"u1": true, "u2": true}}
	listings := &mockListingRepository{existing: map[int64]bool{5: true}}
	return NewService(repo, users, listings, zap.NewNop())
}

func expectCode(t *testing.T, err error, sentinel *common.APIError) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok, "expected an APIError, got %v", err)
	assert.Equal(t, sentinel.Code, apiErr.Code)
}

func TestCreate_Success(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newTestService(repo)

	review, err := svc.Create(context.Background(), "u1", CreateReviewRequest{
		TargetID: "u2",
		Rating:   4,
		Comment:  "Great flatmate, always paid on time.",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", review.AuthorID)
	assert.Equal(t, "u2", review.TargetID)
	assert.NotZero(t, review.ID)
}

func TestCreate_SelfReviewRejected(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	_, err := svc.Create(context.Background(), "u1", CreateReviewRequest{
		TargetID: "u1",
		Rating:   5,
		Comment:  "I am great",
	})
	expectCode(t, err, common.ErrBadRequest)
}

func TestCreate_RatingBounds(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), "u1", CreateReviewRequest{
			TargetID: "u2",
			Rating:   rating,
			Comment:  "out of range",
		})
		expectCode(t, err, common.ErrBadRequest)
	}
}

func TestCreate_TargetMustExist(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	_, err := svc.Create(context.Background(), "u1", CreateReviewRequest{
		TargetID: "ghost",
		Rating:   3,
		Comment:  "who?",
	})
	expectCode(t, err, common.ErrNotFound)
}

func TestCreate_ReferencedListingMustExist(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	missing := int64(99)
	_, err := svc.Create(context.Background(), "u1", CreateReviewRequest{
		TargetID:  "u2",
		ListingID: &missing,
		Rating:    3,
		Comment:   "nice place",
	})
	expectCode(t, err, common.ErrNotFound)
}

func TestCreate_BlankCommentRejected(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	_, err := svc.Create(context.Background(), "u1", CreateReviewRequest{
		TargetID: "u2",
		Rating:   3,
		Comment:  "   ",
	})
	expectCode(t, err, common.ErrBadRequest)
}

func TestListByTarget_AppendOnlyAccumulates(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newTestService(repo)
	ctx := context.Background()

	for _, comment := range []string{"first", "second"} {
		_, err := svc.Create(ctx, "u1", CreateReviewRequest{
			TargetID: "u2",
			Rating:   4,
			Comment:  comment,
		})
		require.NoError(t, err)
	}

	reviews, err := svc.ListByTarget(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}
