package twofa

import "errors"

var (
	// ErrAlreadyEnabled is returned when setup is attempted while 2FA is active.
	ErrAlreadyEnabled = errors.New("two-factor authentication is already enabled")

	// ErrNotEnabled is returned by operations that require active 2FA.
	ErrNotEnabled = errors.New("two-factor authentication is not enabled")

	// ErrNoPendingSetup is returned when confirmation arrives without a prior setup.
	ErrNoPendingSetup = errors.New("no pending two-factor setup for this session")

	// ErrExpiredSetup is returned when the pending setup outlived its TTL.
	ErrExpiredSetup = errors.New("pending two-factor setup has expired")

	// ErrInvalidToken is returned when a TOTP token does not verify.
	ErrInvalidToken = errors.New("invalid two-factor token")

	// ErrInvalidBackupCode is returned when a backup code is unknown or already used.
	ErrInvalidBackupCode = errors.New("invalid backup code")

	// ErrWrongPassword is returned when re-authentication fails on disable.
	ErrWrongPassword = errors.New("wrong password")

	// ErrUnknownUser is returned when the login challenge names a user that does not exist.
	ErrUnknownUser = errors.New("unknown user")

	// ErrSettingsNotFound is returned by stores when no settings record exists for the user.
	ErrSettingsNotFound = errors.New("two-factor settings not found")

	// ErrMissingMasterKey is a startup error: the service refuses to operate
	// without a valid encryption key rather than storing secrets in plaintext.
	ErrMissingMasterKey = errors.New("two-factor master encryption key is missing or invalid")

	// ErrStoreUnavailable wraps storage round-trip failures.
	ErrStoreUnavailable = errors.New("two-factor settings store unavailable")
)
