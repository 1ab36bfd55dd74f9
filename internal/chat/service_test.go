package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roommate_finder_backend/internal/common"
)

// mockMessageRepository is a function-backed mock of the chat Repository.
type mockMessageRepository struct {
	createFunc func(ctx context.Context, message *Message) error
	listFunc   func(ctx context.Context, chatID string) ([]Message, error)
}

func (m *mockMessageRepository) Create(ctx context.Context, message *Message) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, message)
	}
	return nil
}

func (m *mockMessageRepository) ListByChatID(ctx context.Context, chatID string) ([]Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, chatID)
	}
	return []Message{}, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, zap.NewNop())
}

func assertErrorCode(t *testing.T, err error, sentinel *common.APIError) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok, "expected an APIError, got %v", err)
	assert.Equal(t, sentinel.Code, apiErr.Code)
}

func TestListMessages_MembershipGate(t *testing.T) {
	svc := newTestService(&mockMessageRepository{})
	ctx := context.Background()

	_, err := svc.ListMessages(ctx, "u1_u2", "u3")
	assertErrorCode(t, err, common.ErrForbidden)

	// Exact component match only: "u1" is a prefix of "u11" but not a member.
	_, err = svc.ListMessages(ctx, "u11_u2", "u1")
	assertErrorCode(t, err, common.ErrForbidden)
}

func TestListMessages_InvalidChatID(t *testing.T) {
	svc := newTestService(&mockMessageRepository{})

	_, err := svc.ListMessages(context.Background(), "not-a-thread", "u1")
	assertErrorCode(t, err, common.ErrBadRequest)
}

func TestListMessages_EmptyThreadReturnsEmptySlice(t *testing.T) {
	svc := newTestService(&mockMessageRepository{
		listFunc: func(ctx context.Context, chatID string) ([]Message, error) {
			return []Message{}, nil
		},
	})

	messages, err := svc.ListMessages(context.Background(), "u1_u2", "u1")
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestSendMessage_Success(t *testing.T) {
	var stored *Message
	svc := newTestService(&mockMessageRepository{
		createFunc: func(ctx context.Context, message *Message) error {
			message.ID = 1
			stored = message
			return nil
		},
	})

	msg, err := svc.SendMessage(context.Background(), SendMessageRequest{
		ChatID:     "u1_u2",
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hello",
	}, "u1")

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, "u1_u2", msg.ChatID)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, "hello", msg.Body)
}

func TestSendMessage_DefaultsSenderToRequester(t *testing.T) {
	svc := newTestService(&mockMessageRepository{})

	msg, err := svc.SendMessage(context.Background(), SendMessageRequest{
		ChatID:     "u1_u2",
		ReceiverID: "u2",
		Body:       "hi",
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", msg.SenderID)
}

func TestSendMessage_SpoofingGate(t *testing.T) {
	svc := newTestService(&mockMessageRepository{
		createFunc: func(ctx context.Context, message *Message) error {
			t.Fatal("persistence must not be reached on a spoofed send")
			return nil
		},
	})

	_, err := svc.SendMessage(context.Background(), SendMessageRequest{
		ChatID:     "u1_u2",
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hi",
	}, "u3")
	assertErrorCode(t, err, common.ErrForbidden)
}

func TestSendMessage_CrossThreadForbidden(t *testing.T) {
	svc := newTestService(&mockMessageRepository{})

	// threadId(u3,u2) is "u2_u3", not "u1_u2".
	_, err := svc.SendMessage(context.Background(), SendMessageRequest{
		ChatID:     "u1_u2",
		SenderID:   "u3",
		ReceiverID: "u2",
		Body:       "hi",
	}, "u3")
	assertErrorCode(t, err, common.ErrForbidden)
}

func TestSendMessage_EmptyBody(t *testing.T) {
	svc := newTestService(&mockMessageRepository{})

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := svc.SendMessage(context.Background(), SendMessageRequest{
			ChatID:     "u1_u2",
			SenderID:   "u1",
			ReceiverID: "u2",
			Body:       body,
		}, "u1")
		assertErrorCode(t, err, common.ErrBadRequest)
	}
}

func TestSendMessage_StorageFailureSurfaces(t *testing.T) {
	svc := newTestService(&mockMessageRepository{
		createFunc: func(ctx context.Context, message *Message) error {
			return errors.New("connection reset")
		},
	})

	_, err := svc.SendMessage(context.Background(), SendMessageRequest{
		ChatID:     "u1_u2",
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hello",
	}, "u1")
	assert.Error(t, err)
}
