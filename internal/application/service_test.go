package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/listing"
)

type mockApplicationRepository struct {
	createFunc       func(ctx context.Context, app *Application) error
	findByIDFunc     func(ctx context.Context, id int64) (*Application, error)
	updateStatusFunc func(ctx context.Context, id int64, status string) error
}

func (m *mockApplicationRepository) Create(ctx context.Context, app *Application) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, app)
	}
	app.ID = 1
	return nil
}

func (m *mockApplicationRepository) FindByID(ctx context.Context, id int64) (*Application, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (m *mockApplicationRepository) FindBySeeker(ctx context.Context, seekerID string) ([]Application, error) {
	return []Application{}, nil
}

func (m *mockApplicationRepository) FindByListingOwner(ctx context.Context, ownerID string) ([]Application, error) {
	return []Application{}, nil
}

func (m *mockApplicationRepository) FindByListing(ctx context.Context, listingID int64) ([]Application, error) {
	return []Application{}, nil
}

func (m *mockApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

type mockListingRepository struct {
	findByIDFunc func(ctx context.Context, id int64) (*listing.Listing, error)
}

func (m *mockListingRepository) FindByID(ctx context.Context, id int64) (*listing.Listing, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (m *mockListingRepository) Create(ctx context.Context, l *listing.Listing) error { return nil }
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

func ownedListing(id int64, ownerID string) *listing.Listing {
	l := &listing.Listing{OwnerID: ownerID}
	l.ID = id
	return l
}

func expectCode(t *testing.T, err error, sentinel *common.APIError) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok, "expected an APIError, got %v", err)
	assert.Equal(t, sentinel.Code, apiErr.Code)
}

func TestCreate_Success(t *testing.T) {
	repo := &mockApplicationRepository{}
	listingRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*listing.Listing, error) {
			return ownedListing(id, "owner1"), nil
		},
	}
	svc := NewService(repo, listingRepo, zap.NewNop())

	msg := "please consider me"
	app, err := svc.Create(context.Background(), "seeker1", CreateApplicationRequest{
		ListingID: 5,
		Message:   &msg,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, "seeker1", app.SeekerID)
	assert.Equal(t, int64(5), app.ListingID)
}

func TestCreate_ListingMissing(t *testing.T) {
	svc := NewService(&mockApplicationRepository{}, &mockListingRepository{}, zap.NewNop())

	_, err := svc.Create(context.Background(), "seeker1", CreateApplicationRequest{ListingID: 99})
	expectCode(t, err, common.ErrNotFound)
}

func TestCreate_OwnListingRejected(t *testing.T) {
	listingRepo := &mockListingRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*listing.Listing, error) {
			return ownedListing(id, "seeker1"), nil
		},
	}
	svc := NewService(&mockApplicationRepository{}, listingRepo, zap.NewNop())

	_, err := svc.Create(context.Background(), "seeker1", CreateApplicationRequest{ListingID: 5})
	expectCode(t, err, common.ErrBadRequest)
}

func pendingApplication(id int64, ownerID string) *Application {
	app := &Application{
		SeekerID:  "seeker1",
		ListingID: 5,
		Status:    StatusPending,
		Listing:   ownedListing(5, ownerID),
	}
	app.ID = id
	return app
}

func TestUpdateStatus_OwnerAccepts(t *testing.T) {
	repo := &mockApplicationRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*Application, error) {
			return pendingApplication(id, "owner1"), nil
		},
	}
	svc := NewService(repo, &mockListingRepository{}, zap.NewNop())

	app, err := svc.UpdateStatus(context.Background(), 1, "owner1", UpdateStatusRequest{Status: StatusAccepted})
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, app.Status)
}

func TestUpdateStatus_NonOwnerForbidden(t *testing.T) {
	repo := &mockApplicationRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*Application, error) {
			return pendingApplication(id, "owner1"), nil
		},
	}
	svc := NewService(repo, &mockListingRepository{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 1, "intruder", UpdateStatusRequest{Status: StatusAccepted})
	expectCode(t, err, common.ErrForbidden)
}

func TestUpdateStatus_Monotonic(t *testing.T) {
	for _, decided := range []string{StatusAccepted, StatusRejected} {
		repo := &mockApplicationRepository{
			findByIDFunc: func(ctx context.Context, id int64) (*Application, error) {
				app := pendingApplication(id, "owner1")
				app.Status = decided
				return app, nil
			},
			updateStatusFunc: func(ctx context.Context, id int64, status string) error {
				t.Fatalf("decided application must not transition again (was %s)", decided)
				return nil
			},
		}
		svc := NewService(repo, &mockListingRepository{}, zap.NewNop())

		_, err := svc.UpdateStatus(context.Background(), 1, "owner1", UpdateStatusRequest{Status: StatusRejected})
		expectCode(t, err, common.ErrConflict)
	}
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	svc := NewService(&mockApplicationRepository{}, &mockListingRepository{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 1, "owner1", UpdateStatusRequest{Status: StatusPending})
	expectCode(t, err, common.ErrBadRequest)
}
