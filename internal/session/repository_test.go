package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupSessionDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Session{}))
	return db
}

func TestDeleteExpired_PurgesOnlyExpiredRows(t *testing.T) {
	db := setupSessionDB(t)
	repo := NewGORMRepository(db)
	now := time.Now()

	rows := []Session{
		{SID: "expired-1", Sess: `{"user":"a"}`, Expire: now.Add(-time.Hour)},
		{SID: "expired-2", Sess: `{"user":"b"}`, Expire: now.Add(-time.Minute)},
		{SID: "live-1", Sess: `{"user":"c"}`, Expire: now.Add(time.Hour)},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	purged, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	var remaining []Session
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live-1", remaining[0].SID)
}

func TestDeleteExpired_NoExpiredRowsIsNoOp(t *testing.T) {
	db := setupSessionDB(t)
	repo := NewGORMRepository(db)

	require.NoError(t, db.Create(&Session{
		SID: "live-1", Sess: `{}`, Expire: time.Now().Add(time.Hour),
	}).Error)

	purged, err := repo.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, purged)
}
