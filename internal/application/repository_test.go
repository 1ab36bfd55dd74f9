package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"roommate_finder_backend/internal/common"
	"roommate_finder_backend/internal/listing"
)

func setupApplicationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&listing.Listing{}, &Application{}))
	return db
}

func seedOwnedListing(t *testing.T, db *gorm.DB, ownerID, slug string) listing.Listing {
	t.Helper()
	l := listing.Listing{
		OwnerID: ownerID, Title: "Room", Slug: slug,
		Description: "desc", Rent: 9000, Currency: "INR",
		Location: "Delhi", Available: true,
	}
	require.NoError(t, db.Create(&l).Error)
	return l
}

func TestFindByListingOwner_JoinsThroughOwnedListings(t *testing.T) {
	db := setupApplicationDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	mine := seedOwnedListing(t, db, "owner1", "mine")
	other := seedOwnedListing(t, db, "owner2", "other")

	base := time.Now().Add(-time.Hour)
	apps := []Application{
		{SeekerID: "s1", ListingID: mine.ID, Status: StatusPending},
		{SeekerID: "s2", ListingID: mine.ID, Status: StatusPending},
		{SeekerID: "s3", ListingID: other.ID, Status: StatusPending},
	}
	for i := range apps {
		apps[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&apps[i]).Error)
	}

	received, err := repo.FindByListingOwner(ctx, "owner1")
	require.NoError(t, err)
	require.Len(t, received, 2)
	// Newest first.
	assert.Equal(t, "s2", received[0].SeekerID)
	assert.Equal(t, "s1", received[1].SeekerID)
	// Listing association is populated for responses.
	require.NotNil(t, received[0].Listing)
	assert.Equal(t, "owner1", received[0].Listing.OwnerID)
}

func TestFindBySeeker_NewestFirst(t *testing.T) {
	db := setupApplicationDB(t)
	repo := NewGORMRepository(db)

	l := seedOwnedListing(t, db, "owner1", "mine")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		app := Application{SeekerID: "s1", ListingID: l.ID, Status: StatusPending}
		app.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&app).Error)
	}

	sent, err := repo.FindBySeeker(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, sent, 3)
	assert.True(t, sent[0].CreatedAt.After(sent[1].CreatedAt))
	assert.True(t, sent[1].CreatedAt.After(sent[2].CreatedAt))
}

func TestUpdateStatus_PersistsDecision(t *testing.T) {
	db := setupApplicationDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	l := seedOwnedListing(t, db, "owner1", "mine")
	app := Application{SeekerID: "s1", ListingID: l.ID, Status: StatusPending}
	require.NoError(t, db.Create(&app).Error)

	require.NoError(t, repo.UpdateStatus(ctx, app.ID, StatusAccepted))

	stored, err := repo.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, stored.Status)
}

func TestUpdateStatus_MissingRow(t *testing.T) {
	db := setupApplicationDB(t)
	repo := NewGORMRepository(db)

	err := repo.UpdateStatus(context.Background(), 999, StatusAccepted)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestUpdateStatus_DecidedRowStaysDecided(t *testing.T) {
	db := setupApplicationDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	l := seedOwnedListing(t, db, "owner1", "mine")
	app := Application{SeekerID: "s1", ListingID: l.ID, Status: StatusPending}
	require.NoError(t, db.Create(&app).Error)

	require.NoError(t, repo.UpdateStatus(ctx, app.ID, StatusAccepted))

	// A second decision raced past the service's PENDING read. The row-level
	// guard rejects it and the first decision stands.
	err := repo.UpdateStatus(ctx, app.ID, StatusRejected)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)

	stored, err := repo.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, stored.Status)
}
