package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/twofa/internal/twofa"
	"github.com/dmitrymomot/twofa/pkg/pg"
)

// SettingsStore implements twofa.SettingsStore on PostgreSQL.
type SettingsStore struct {
	pool *pgxpool.Pool
}

// NewSettingsStore returns a store backed by the given pool.
func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

func (s *SettingsStore) Get(ctx context.Context, userID uuid.UUID) (*twofa.Settings, error) {
	const query = `
		SELECT user_id, enabled, COALESCE(secret_ciphertext, ''), backup_code_hashes, created_at, updated_at
		FROM two_factor_settings
		WHERE user_id = $1`

	settings := &twofa.Settings{}
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.Enabled,
		&settings.SecretCiphertext,
		&settings.BackupCodeHashes,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, twofa.ErrSettingsNotFound
		}
		return nil, errors.Join(twofa.ErrStoreUnavailable, err)
	}
	return settings, nil
}

func (s *SettingsStore) Enable(ctx context.Context, userID uuid.UUID, secretCiphertext string, backupCodeHashes []string) error {
	const query = `
		INSERT INTO two_factor_settings (user_id, enabled, secret_ciphertext, backup_code_hashes)
		VALUES ($1, TRUE, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET enabled = TRUE,
		    secret_ciphertext = EXCLUDED.secret_ciphertext,
		    backup_code_hashes = EXCLUDED.backup_code_hashes,
		    updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, userID, secretCiphertext, backupCodeHashes); err != nil {
		return errors.Join(twofa.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SettingsStore) ReplaceBackupCodes(ctx context.Context, userID uuid.UUID, backupCodeHashes []string) error {
	const query = `
		UPDATE two_factor_settings
		SET backup_code_hashes = $2, updated_at = now()
		WHERE user_id = $1 AND enabled`

	tag, err := s.pool.Exec(ctx, query, userID, backupCodeHashes)
	if err != nil {
		return errors.Join(twofa.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return twofa.ErrSettingsNotFound
	}
	return nil
}

// ConsumeBackupCode removes the hash and reports success in a single
// statement, so two concurrent attempts with the same code cannot both win.
func (s *SettingsStore) ConsumeBackupCode(ctx context.Context, userID uuid.UUID, hash string) (bool, error) {
	const query = `
		UPDATE two_factor_settings
		SET backup_code_hashes = array_remove(backup_code_hashes, $2), updated_at = now()
		WHERE user_id = $1 AND enabled AND $2 = ANY(backup_code_hashes)`

	tag, err := s.pool.Exec(ctx, query, userID, hash)
	if err != nil {
		return false, errors.Join(twofa.ErrStoreUnavailable, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *SettingsStore) Disable(ctx context.Context, userID uuid.UUID) error {
	const query = `
		UPDATE two_factor_settings
		SET enabled = FALSE, secret_ciphertext = NULL, backup_code_hashes = '{}', updated_at = now()
		WHERE user_id = $1`

	tag, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return errors.Join(twofa.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return twofa.ErrSettingsNotFound
	}
	return nil
}
