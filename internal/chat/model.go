// File: internal/chat/model.go
package chat

import (
	"time"
)

// Message represents one persisted chat message.
type Message struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ChatID     string    `gorm:"type:varchar(255);not null;index"`
	SenderID   string    `gorm:"type:varchar(255);not null"`
	ReceiverID string    `gorm:"type:varchar(255);not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for the Message model.
func (Message) TableName() string {
	return "messages"
}

// --- DTOs ---

// SendMessageRequest defines the payload for sending a message.
// SenderID may be omitted; it then defaults to the authenticated caller.
type SendMessageRequest struct {
	ChatID     string `json:"chat_id" binding:"required"`
	SenderID   string `json:"sender_id,omitempty"`
	ReceiverID string `json:"receiver_id" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// MessageResponse defines the structure for message data in API responses.
type MessageResponse struct {
	ID         int64     `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToMessageResponse converts a Message model to its response DTO.
func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}
