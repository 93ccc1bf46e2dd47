// Package sessions keeps login state on the server side. Clients only hold
// an opaque session id.
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"survey-server/models"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Session is the server-side state behind a session cookie.
type Session struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id,omitempty"`
	Username  string          `json:"username,omitempty"`
	Role      models.UserRole `json:"role,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Store persists sessions by id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup drops expired sessions for stores without native expiry.
	Cleanup(ctx context.Context) error
}

// New creates an anonymous session living for ttl.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired checks if the session lifetime has passed
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsAuthenticated reports whether a login has been recorded
func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0 && s.Role.IsValid()
}

// Login records the principal and rotates the id so a session id issued
// before authentication cannot be reused after it.
func (s *Session) Login(userID uint, username string, role models.UserRole, ttl time.Duration) (previousID string) {
	previousID = s.ID
	now := time.Now()

	s.ID = uuid.NewString()
	s.UserID = userID
	s.Username = username
	s.Role = role
	s.CreatedAt = now
	s.ExpiresAt = now.Add(ttl)
	return previousID
}

// Clear removes the principal, keeping the session itself.
func (s *Session) Clear() {
	s.UserID = 0
	s.Username = ""
	s.Role = ""
}
