// File: internal/chat/repository.go
package chat

import (
	"context"

	"gorm.io/gorm"
)

// Repository defines the interface for message data operations.
type Repository interface {
	Create(ctx context.Context, message *Message) error
	ListByChatID(ctx context.Context, chatID string) ([]Message, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM message repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new message record into the database.
func (r *gormRepository) Create(ctx context.Context, message *Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListByChatID retrieves all messages in a thread, oldest first. The id
// tiebreak keeps messages created in the same instant stable.
func (r *gormRepository) ListByChatID(ctx context.Context, chatID string) ([]Message, error) {
	messages := make([]Message, 0)
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
