package server

import (
	"log/slog"
	"time"

	"quill/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatUpgradeGuard only lets genuine websocket upgrade requests through
// and pins the resolved visitor into locals for the upgraded connection.
func (s *Server) ChatUpgradeGuard(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("chatVisitor", s.visitor(c))
	return c.Next()
}

// ChatHandler handles GET /ws, the single-room chat relay.
//
// Anonymous sockets are allowed to connect but never registered with the
// hub: they receive no events and everything they send is discarded.
func (s *Server) ChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		visitor, _ := conn.Locals("chatVisitor").(session.Visitor)

		if visitor.ID == 0 {
			slog.Info("anonymous chat socket, draining until close")
			s.drainSocket(conn)
			return
		}

		client := s.hub.Register(visitor, conn)

		// Write pump runs in its own goroutine, the read pump blocks
		// here and unregisters the client when the socket dies.
		go client.WritePump()
		client.ReadPump()
	})
}

// drainSocket consumes frames from an unauthenticated socket until it
// closes, without relaying anything.
func (s *Server) drainSocket(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(8192)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
