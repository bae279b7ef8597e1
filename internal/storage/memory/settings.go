package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/twofa/internal/twofa"
)

// SettingsStore is an in-memory twofa.SettingsStore used by tests and local
// development. All mutations happen under one lock, matching the atomicity
// the durable stores provide per statement.
type SettingsStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*twofa.Settings
}

// NewSettingsStore creates an empty in-memory settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{records: make(map[uuid.UUID]*twofa.Settings)}
}

func (s *SettingsStore) Get(ctx context.Context, userID uuid.UUID) (*twofa.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, twofa.ErrSettingsNotFound
	}

	recordCopy := *record
	recordCopy.BackupCodeHashes = slices.Clone(record.BackupCodeHashes)
	return &recordCopy, nil
}

func (s *SettingsStore) Enable(ctx context.Context, userID uuid.UUID, secretCiphertext string, backupCodeHashes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	record, ok := s.records[userID]
	if !ok {
		record = &twofa.Settings{UserID: userID, CreatedAt: now}
		s.records[userID] = record
	}

	record.Enabled = true
	record.SecretCiphertext = secretCiphertext
	record.BackupCodeHashes = slices.Clone(backupCodeHashes)
	record.UpdatedAt = now
	return nil
}

func (s *SettingsStore) ReplaceBackupCodes(ctx context.Context, userID uuid.UUID, backupCodeHashes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok || !record.Enabled {
		return twofa.ErrSettingsNotFound
	}

	record.BackupCodeHashes = slices.Clone(backupCodeHashes)
	record.UpdatedAt = time.Now()
	return nil
}

func (s *SettingsStore) ConsumeBackupCode(ctx context.Context, userID uuid.UUID, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok || !record.Enabled {
		return false, nil
	}

	idx := slices.Index(record.BackupCodeHashes, hash)
	if idx < 0 {
		return false, nil
	}

	record.BackupCodeHashes = slices.Delete(record.BackupCodeHashes, idx, idx+1)
	record.UpdatedAt = time.Now()
	return true, nil
}

func (s *SettingsStore) Disable(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return twofa.ErrSettingsNotFound
	}

	record.Enabled = false
	record.SecretCiphertext = ""
	record.BackupCodeHashes = nil
	record.UpdatedAt = time.Now()
	return nil
}
