package twofa

import (
	"context"

	"github.com/google/uuid"
)

// User is the slice of the external user entity this subsystem needs:
// identity for provisioning labels and the password hash for disable
// re-authentication. The password hash never leaves the service.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
}

// UserStore resolves users owned by the primary authenticator.
type UserStore interface {
	// GetUserByID returns the user, or ErrUnknownUser.
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// PasswordVerifier checks a user's current password. Password hashing itself
// belongs to the primary authenticator; this subsystem only delegates the check.
type PasswordVerifier interface {
	// Verify returns nil when the password matches, ErrWrongPassword otherwise.
	Verify(ctx context.Context, userID uuid.UUID, password string) error
}
