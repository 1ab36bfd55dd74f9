package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zap.NewNop())
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Join(conn)
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn, timeout time.Duration) (Envelope, error) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(timeout))
	var env Envelope
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return env, err
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	return env, nil
}

func TestHub_BroadcastFanOut(t *testing.T) {
	_, srv := startHubServer(t)

	s1 := dialHub(t, srv)
	s2 := dialHub(t, srv)
	s3 := dialHub(t, srv)

	// Give the hub a moment to admit all three sessions.
	time.Sleep(100 * time.Millisecond)

	sent := Envelope{
		Kind:       KindNewMessage,
		ChatID:     "u1_u2",
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hello",
	}
	require.NoError(t, s1.WriteJSON(sent))

	got2, err := readEnvelope(t, s2, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, sent, got2)

	got3, err := readEnvelope(t, s3, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, sent, got3)

	// The publisher must never see its own envelope echoed back.
	_, err = readEnvelope(t, s1, 300*time.Millisecond)
	assert.Error(t, err, "sender should not receive an echo")
}

func TestHub_DropsMalformedPayloads(t *testing.T) {
	_, srv := startHubServer(t)

	s1 := dialHub(t, srv)
	s2 := dialHub(t, srv)
	time.Sleep(100 * time.Millisecond)

	// Not JSON at all.
	require.NoError(t, s1.WriteMessage(websocket.TextMessage, []byte("not json")))
	// Unknown kind.
	require.NoError(t, s1.WriteJSON(Envelope{Kind: "unknown", ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2"}))
	// Malformed chat id.
	require.NoError(t, s1.WriteJSON(Envelope{Kind: KindNewMessage, ChatID: "solo", SenderID: "u1", ReceiverID: "u2"}))

	_, err := readEnvelope(t, s2, 300*time.Millisecond)
	assert.Error(t, err, "malformed envelopes must not be relayed")

	// The session that sent garbage stays connected and can still publish.
	valid := Envelope{Kind: KindNewMessage, ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "still here"}
	require.NoError(t, s1.WriteJSON(valid))

	got, err := readEnvelope(t, s2, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, valid, got)
}

func TestHub_BroadcastWithNoOtherSessionsIsNoOp(t *testing.T) {
	_, srv := startHubServer(t)

	s1 := dialHub(t, srv)
	time.Sleep(100 * time.Millisecond)

	env := Envelope{Kind: KindNewMessage, ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "anyone?"}
	require.NoError(t, s1.WriteJSON(env))

	// Nothing comes back and the connection stays healthy.
	_, err := readEnvelope(t, s1, 300*time.Millisecond)
	assert.Error(t, err)
	require.NoError(t, s1.WriteJSON(env))
}

func TestHub_DisconnectRemovesSession(t *testing.T) {
	_, srv := startHubServer(t)

	s1 := dialHub(t, srv)
	s2 := dialHub(t, srv)
	s3 := dialHub(t, srv)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, s3.Close())
	time.Sleep(100 * time.Millisecond)

	env := Envelope{Kind: KindNewMessage, ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "after leave"}
	require.NoError(t, s1.WriteJSON(env))

	got, err := readEnvelope(t, s2, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestEnvelope_Validate(t *testing.T) {
	valid := Envelope{Kind: KindNewMessage, ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2", Body: "hi"}
	assert.NoError(t, valid.Validate())

	cases := []Envelope{
		{Kind: "other", ChatID: "u1_u2", SenderID: "u1", ReceiverID: "u2"},
		{Kind: KindNewMessage, ChatID: "", SenderID: "u1", ReceiverID: "u2"},
		{Kind: KindNewMessage, ChatID: "u1_u2_u3", SenderID: "u1", ReceiverID: "u2"},
		{Kind: KindNewMessage, ChatID: "u1_u2", SenderID: "", ReceiverID: "u2"},
		{Kind: KindNewMessage, ChatID: "u1_u2", SenderID: "u1", ReceiverID: ""},
	}
	for _, c := range cases {
		assert.Error(t, c.Validate())
	}
}
