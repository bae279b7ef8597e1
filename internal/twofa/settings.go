package twofa

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Settings is the per-user two-factor record, created lazily on first enable.
// The shared secret is stored only as ciphertext; plaintext never reaches
// durable storage.
type Settings struct {
	UserID           uuid.UUID
	Enabled          bool
	SecretCiphertext string
	BackupCodeHashes []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SettingsStore persists per-user two-factor settings.
//
// ConsumeBackupCode is the critical section of the subsystem: the hash
// removal and the success decision must be one atomic storage operation so
// concurrent attempts with the same code cannot both succeed.
type SettingsStore interface {
	// Get returns the settings for a user, or ErrSettingsNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*Settings, error)

	// Enable writes the encrypted secret and backup code hashes and marks
	// the record enabled, creating it if absent.
	Enable(ctx context.Context, userID uuid.UUID, secretCiphertext string, backupCodeHashes []string) error

	// ReplaceBackupCodes swaps the entire hash set, invalidating all
	// previously issued codes.
	ReplaceBackupCodes(ctx context.Context, userID uuid.UUID, backupCodeHashes []string) error

	// ConsumeBackupCode atomically removes the hash if present and reports
	// whether it was removed. A false result leaves the record untouched.
	ConsumeBackupCode(ctx context.Context, userID uuid.UUID, hash string) (bool, error)

	// Disable clears the secret ciphertext and backup code hashes and marks
	// the record disabled.
	Disable(ctx context.Context, userID uuid.UUID) error
}
