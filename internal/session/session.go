// Package session implements the durable cookie-backed session gateway.
// The cookie carries a signed session id; the identity projection lives in
// a server-side store keyed by that id. An absent or invalid session
// resolves to the anonymous visitor, id 0, which every ownership check
// treats as an ordinary comparison value.
package session

import (
	"context"
	"time"

	"quill/internal/models"
	"quill/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie issued to browsers.
	CookieName = "quill_session"

	// TTL bounds both the cookie max-age and the server-side record.
	TTL = 24 * time.Hour
)

// Visitor is the minimal identity projection a session holds. The zero
// value is the anonymous visitor.
type Visitor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// VisitorFromUser projects an authenticated user into session state.
func VisitorFromUser(u *models.User) Visitor {
	return Visitor{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// Store persists session records server-side.
type Store interface {
	Set(ctx context.Context, sid string, v Visitor, ttl time.Duration) error
	Get(ctx context.Context, sid string) (Visitor, bool, error)
	Delete(ctx context.Context, sid string) error
}

// Manager issues and resolves signed session cookies against a Store.
type Manager struct {
	store  Store
	secret []byte
}

// NewManager returns a Manager signing cookies with the given secret.
func NewManager(store Store, secret string) *Manager {
	return &Manager{store: store, secret: []byte(secret)}
}

// Issue creates a session for the visitor and returns the signed cookie
// value. The store write completes before the cookie is handed back, so a
// caller that redirects after Issue never races its own session.
func (m *Manager) Issue(ctx context.Context, v Visitor) (string, error) {
	sid := uuid.NewString()
	if err := m.store.Set(ctx, sid, v, TTL); err != nil {
		observability.SessionOperations.WithLabelValues("issue", "error").Inc()
		return "", models.NewInternalError(err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(TTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	observability.SessionOperations.WithLabelValues("issue", "ok").Inc()
	return token, nil
}

// Resolve maps a cookie value to the visitor it identifies. Any failure
// (missing cookie, bad signature, expired token, evicted record) yields
// the anonymous visitor, never an error.
func (m *Manager) Resolve(ctx context.Context, cookie string) Visitor {
	sid, ok := m.sessionID(cookie)
	if !ok {
		return Visitor{}
	}

	v, found, err := m.store.Get(ctx, sid)
	if err != nil || !found {
		if err != nil {
			observability.SessionOperations.WithLabelValues("resolve", "error").Inc()
		}
		return Visitor{}
	}
	observability.SessionOperations.WithLabelValues("resolve", "ok").Inc()
	return v
}

// Destroy removes the server-side record for the cookie's session.
func (m *Manager) Destroy(ctx context.Context, cookie string) error {
	sid, ok := m.sessionID(cookie)
	if !ok {
		return nil
	}
	if err := m.store.Delete(ctx, sid); err != nil {
		observability.SessionOperations.WithLabelValues("destroy", "error").Inc()
		return models.NewInternalError(err)
	}
	observability.SessionOperations.WithLabelValues("destroy", "ok").Inc()
	return nil
}

func (m *Manager) sessionID(cookie string) (string, bool) {
	if cookie == "" {
		return "", false
	}

	token, err := jwt.Parse(cookie, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, ok := claims["sid"].(string)
	return sid, ok && sid != ""
}
