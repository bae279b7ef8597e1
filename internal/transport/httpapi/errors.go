package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/twofa/internal/twofa"
	"github.com/dmitrymomot/twofa/pkg/httpx"
)

// mapError translates domain errors into HTTP errors with stable keys.
// Anything unrecognized, including decryption failures, falls through to a
// generic 500 so operational details never leak to the caller.
func mapError(err error) error {
	switch {
	case errors.Is(err, twofa.ErrAlreadyEnabled):
		return httpx.NewHTTPError(http.StatusBadRequest, "already_enabled", "two-factor authentication is already enabled")
	case errors.Is(err, twofa.ErrNotEnabled):
		return httpx.NewHTTPError(http.StatusBadRequest, "not_enabled", "two-factor authentication is not enabled")
	case errors.Is(err, twofa.ErrNoPendingSetup):
		return httpx.NewHTTPError(http.StatusBadRequest, "no_pending_setup", "no two-factor setup in progress")
	case errors.Is(err, twofa.ErrExpiredSetup):
		return httpx.NewHTTPError(http.StatusBadRequest, "expired_setup", "two-factor setup expired, start over")
	case errors.Is(err, twofa.ErrInvalidToken):
		return httpx.NewHTTPError(http.StatusBadRequest, "invalid_token", "invalid verification code")
	case errors.Is(err, twofa.ErrInvalidBackupCode):
		return httpx.NewHTTPError(http.StatusBadRequest, "invalid_backup_code", "invalid backup code")
	case errors.Is(err, twofa.ErrWrongPassword):
		return httpx.NewHTTPError(http.StatusBadRequest, "wrong_password", "current password is incorrect")
	case errors.Is(err, twofa.ErrUnknownUser):
		return httpx.NewHTTPError(http.StatusNotFound, "unknown_user", "user not found")
	case errors.Is(err, twofa.ErrStoreUnavailable):
		return httpx.ErrServiceUnavailable
	default:
		return err
	}
}
