package twofa

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier verifies passwords against bcrypt hashes owned by the
// primary authenticator's user records.
type BcryptVerifier struct {
	users UserStore
}

// NewBcryptVerifier returns a PasswordVerifier backed by the user store.
func NewBcryptVerifier(users UserStore) *BcryptVerifier {
	return &BcryptVerifier{users: users}
}

// Verify checks the password against the stored hash.
func (v *BcryptVerifier) Verify(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := v.users.GetUserByID(ctx, userID)
	if err != nil {
		return ErrUnknownUser
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}
