// File: internal/chat/service.go
package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
)

// Service defines the interface for messaging business logic. It is the
// gatekeeper for one conversation thread: persistence success here is the
// only thing that makes a message "sent".
type Service interface {
	ListMessages(ctx context.Context, chatID, requesterID string) ([]Message, error)
	SendMessage(ctx context.Context, req SendMessageRequest, requesterID string) (*Message, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new chat service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Named("chat_service"),
	}
}

// ListMessages returns the thread history in ascending creation order.
// The requester must be exactly one of the two IDs composing the thread id;
// an empty thread yields an empty slice, not an error.
func (s *service) ListMessages(ctx context.Context, chatID, requesterID string) ([]Message, error) {
	if _, _, err := ThreadMembers(chatID); err != nil {
		return nil, err
	}
	if !IsThreadMember(chatID, requesterID) {
		s.logger.Warn("Thread history denied: requester is not a member",
			zap.String("chatID", chatID), zap.String("requesterID", requesterID))
		return nil, common.ErrForbidden.WithDetails("You are not a member of this conversation.")
	}
	return s.repo.ListByChatID(ctx, chatID)
}

// SendMessage validates and persists a message. The requester must be the
// sender, and the target thread must be the one computed from the sender and
// receiver pair.
func (s *service) SendMessage(ctx context.Context, req SendMessageRequest, requesterID string) (*Message, error) {
	senderID := req.SenderID
	if senderID == "" {
		senderID = requesterID
	}
	if senderID != requesterID {
		s.logger.Warn("Message send denied: sender spoofing attempt",
			zap.String("senderID", senderID), zap.String("requesterID", requesterID))
		return nil, common.ErrForbidden.WithDetails("You can only send messages as yourself.")
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, common.ErrBadRequest.WithDetails("Message body cannot be empty.")
	}

	expectedChatID, err := ThreadID(senderID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if req.ChatID != expectedChatID {
		s.logger.Warn("Message send denied: chat id does not match participant pair",
			zap.String("chatID", req.ChatID), zap.String("senderID", senderID))
		return nil, common.ErrForbidden.WithDetails("Chat ID does not match the sender and receiver pair.")
	}

	message := &Message{
		ChatID:     req.ChatID,
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		s.logger.Error("Failed to persist message", zap.Error(err), zap.String("chatID", req.ChatID))
		return nil, err
	}

	s.logger.Debug("Message stored",
		zap.Int64("messageID", message.ID), zap.String("chatID", message.ChatID))
	return message, nil
}
