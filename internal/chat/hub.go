// File: internal/chat/hub.go
package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// KindNewMessage is the only envelope kind the broadcast channel relays.
const KindNewMessage = "new_message"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 32
)

// Envelope is the tagged event payload relayed over the broadcast channel.
// Anything that does not parse into this shape is dropped at the boundary.
type Envelope struct {
	Kind       string `json:"kind"`
	ChatID     string `json:"chatId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Body       string `json:"body"`
}

// Validate checks that the envelope is a well-formed new_message event.
func (e *Envelope) Validate() error {
	if e.Kind != KindNewMessage {
		return fmt.Errorf("unknown envelope kind %q", e.Kind)
	}
	if e.SenderID == "" || e.ReceiverID == "" {
		return fmt.Errorf("envelope is missing sender or receiver")
	}
	if _, _, err := ThreadMembers(e.ChatID); err != nil {
		return fmt.Errorf("envelope carries an invalid chat id %q", e.ChatID)
	}
	return nil
}

// Session is one connected websocket client in the broadcast set. Sessions
// are addressed only by their connection; there is no per-thread subscription.
type Session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type broadcastRequest struct {
	payload []byte
	exclude *Session
}

// Hub owns the set of live sessions. All membership mutation goes through the
// run loop, so connect, disconnect and relay never race.
type Hub struct {
	sessions   map[*Session]bool
	register   chan *Session
	unregister chan *Session
	broadcast  chan broadcastRequest
	logger     *zap.Logger
}

// NewHub creates a broadcast hub. Call Run in its own goroutine before
// admitting connections.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions:   make(map[*Session]bool),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		broadcast:  make(chan broadcastRequest),
		logger:     logger.Named("chat_hub"),
	}
}

// Run processes membership and relay events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.sessions[s] = true
			h.logger.Debug("Session joined broadcast channel", zap.Int("sessions", len(h.sessions)))
		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				close(s.send)
				h.logger.Debug("Session left broadcast channel", zap.Int("sessions", len(h.sessions)))
			}
		case req := <-h.broadcast:
			for s := range h.sessions {
				if s == req.exclude {
					continue
				}
				select {
				case s.send <- req.payload:
				default:
					// Slow consumer; drop it rather than stall the hub.
					delete(h.sessions, s)
					close(s.send)
				}
			}
		}
	}
}

// Join admits a raw websocket connection into the broadcast set and starts
// its read and write pumps.
func (h *Hub) Join(conn *websocket.Conn) *Session {
	s := &Session{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register <- s
	go s.writePump()
	go s.readPump()
	return s
}

// Broadcast relays a validated envelope to every session except exclude.
// A broadcast with no other listeners is a no-op.
func (h *Hub) Broadcast(env Envelope, exclude *Session) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Warn("Failed to marshal broadcast envelope", zap.Error(err))
		return
	}
	h.broadcast <- broadcastRequest{payload: payload, exclude: exclude}
}

func (s *Session) readPump() {
	defer func() {
		s.hub.unregister <- s
		s.conn.Close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Debug("Websocket read error", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			s.hub.logger.Warn("Dropping unparseable broadcast payload", zap.Error(err))
			continue
		}
		if err := env.Validate(); err != nil {
			s.hub.logger.Warn("Dropping malformed broadcast envelope", zap.Error(err))
			continue
		}

		// Relay verbatim to everyone else; never echo to the sender. The
		// relay is only a cache-invalidation hint, persistence stays with
		// the message service.
		s.hub.Broadcast(env, s)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Upgrader configures the websocket handshake for the broadcast endpoint.
// Origin checking is delegated to the CORS layer in front of the API.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
