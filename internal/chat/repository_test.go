package chat

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

func setupMessageDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Message{}))
	return db
}

func TestRepository_ListByChatID_Ordering(t *testing.T) {
	db := setupMessageDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seed := []Message{
		{ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "first", CreatedAt: base},
		{ChatID: "u1_u2", SenderID: "u2", ReceiverID: "u1", Body: "second", CreatedAt: base.Add(time.Minute)},
		{ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "third", CreatedAt: base.Add(2 * time.Minute)},
		{ChatID: "u3_u4", SenderID: "u3", ReceiverID: "u4", Body: "other thread", CreatedAt: base},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	messages, err := repo.ListByChatID(ctx, "u1_u2")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Body)
	assert.Equal(t, "second", messages[1].Body)
	assert.Equal(t, "third", messages[2].Body)
}

func TestRepository_ListByChatID_IdTiebreak(t *testing.T) {
	db := setupMessageDB(t)
	repo := NewGORMRepository(db)

	at := time.Now().Truncate(time.Second)
	for _, body := range []string{"a", "b", "c"} {
		require.NoError(t, db.Create(&Message{
			ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: body, CreatedAt: at,
		}).Error)
	}

	messages, err := repo.ListByChatID(context.Background(), "u1_u2")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "a", messages[0].Body)
	assert.Equal(t, "b", messages[1].Body)
	assert.Equal(t, "c", messages[2].Body)
}

func TestRepository_ListByChatID_EmptyThread(t *testing.T) {
	db := setupMessageDB(t)
	repo := NewGORMRepository(db)

	messages, err := repo.ListByChatID(context.Background(), "u1_u2")
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestRepository_ListByChatID_IdempotentRead(t *testing.T) {
	db := setupMessageDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Message{
		ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "hello",
	}))

	first, err := repo.ListByChatID(ctx, "u1_u2")
	require.NoError(t, err)
	second, err := repo.ListByChatID(ctx, "u1_u2")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRepository_Create_AssignsIDAndTimestamp(t *testing.T) {
	db := setupMessageDB(t)
	repo := NewGORMRepository(db)

	msg := &Message{ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "hello"}
	require.NoError(t, repo.Create(context.Background(), msg))
	assert.NotZero(t, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())
}
