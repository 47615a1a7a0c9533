// Package chat implements the single-room real-time relay. Every
// authenticated socket joins one shared room; inbound chat lines are
// sanitized and fanned out to every other participant stamped with the
// sender's session identity.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"quill/internal/observability"
	"quill/internal/session"
	"quill/internal/validation"

	"github.com/gofiber/websocket/v2"
)

// Event is the type-tagged envelope every relay frame uses.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// WelcomePayload greets a newly registered socket with its own identity.
type WelcomePayload struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// InboundMessage is the payload of a chatMessageFromBrowser event.
type InboundMessage struct {
	Message string `json:"message"`
}

// OutboundMessage is the payload of a chatMessageFromServer event.
type OutboundMessage struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Hub maintains the set of active clients in the shared room.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// Register adds an authenticated connection to the room and greets it
// with a welcome event carrying its own identity. Only the new socket
// receives the greeting.
func (h *Hub) Register(identity session.Visitor, conn *websocket.Conn) *Client {
	client := NewClient(h, conn, identity)

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	observability.ActiveWebSockets.Inc()
	slog.Info("chat client registered", "username", identity.Username)

	if msg, err := marshalEvent("welcome", WelcomePayload{Username: identity.Username, Avatar: identity.Avatar}); err == nil {
		client.TrySend(msg)
	}
	return client
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.mu.Unlock()

	observability.ActiveWebSockets.Dec()
	slog.Info("chat client unregistered", "username", client.Identity.Username)
}

// HandleInbound dispatches a raw frame from a client. Unknown event
// types and messages that sanitize to nothing are dropped.
func (h *Hub) HandleInbound(sender *Client, raw []byte) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		observability.WebSocketEventsTotal.WithLabelValues("malformed").Inc()
		return
	}

	switch event.Type {
	case "chatMessageFromBrowser":
		observability.WebSocketEventsTotal.WithLabelValues(event.Type).Inc()

		var inbound InboundMessage
		if err := json.Unmarshal(event.Payload, &inbound); err != nil {
			return
		}
		message := validation.Sanitize(inbound.Message)
		if message == "" {
			return
		}
		h.BroadcastFrom(sender, OutboundMessage{
			Message:  message,
			Username: sender.Identity.Username,
			Avatar:   sender.Identity.Avatar,
		})
	default:
		observability.WebSocketEventsTotal.WithLabelValues("unknown").Inc()
	}
}

// BroadcastFrom relays a chat message to every client except the sender.
func (h *Hub) BroadcastFrom(sender *Client, out OutboundMessage) {
	msg, err := marshalEvent("chatMessageFromServer", out)
	if err != nil {
		slog.Error("failed to marshal chat message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client == sender {
			continue
		}
		client.TrySend(msg)
	}
}

// ClientCount reports how many sockets are in the room.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every websocket connection and clears the room.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.Conn != nil {
			_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			_ = client.Conn.Close()
		}
		close(client.Send)
	}
	h.clients = make(map[*Client]bool)
	return nil
}

func marshalEvent(eventType string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: eventType, Payload: body})
}
