package session

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated caller. Sessions created during a
// password login that still awaits its second factor are not authenticated
// until the challenge completes.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}
