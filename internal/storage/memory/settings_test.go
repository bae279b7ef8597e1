package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofa/internal/storage/memory"
	"github.com/dmitrymomot/twofa/internal/twofa"
)

func TestSettingsStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewSettingsStore()
	userID := uuid.New()

	_, err := store.Get(ctx, userID)
	assert.ErrorIs(t, err, twofa.ErrSettingsNotFound)

	require.NoError(t, store.Enable(ctx, userID, "ciphertext", []string{"h1", "h2"}))

	settings, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, "ciphertext", settings.SecretCiphertext)
	assert.Equal(t, []string{"h1", "h2"}, settings.BackupCodeHashes)

	require.NoError(t, store.Disable(ctx, userID))

	settings, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.Empty(t, settings.SecretCiphertext)
	assert.Empty(t, settings.BackupCodeHashes)
}

func TestSettingsStore_ConsumeBackupCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewSettingsStore()
	userID := uuid.New()

	require.NoError(t, store.Enable(ctx, userID, "ct", []string{"h1", "h2"}))

	consumed, err := store.ConsumeBackupCode(ctx, userID, "h1")
	require.NoError(t, err)
	assert.True(t, consumed)

	// Same hash cannot be consumed twice.
	consumed, err = store.ConsumeBackupCode(ctx, userID, "h1")
	require.NoError(t, err)
	assert.False(t, consumed)

	consumed, err = store.ConsumeBackupCode(ctx, userID, "unknown")
	require.NoError(t, err)
	assert.False(t, consumed)

	consumed, err = store.ConsumeBackupCode(ctx, uuid.New(), "h2")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestSettingsStore_ConsumeBackupCode_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewSettingsStore()
	userID := uuid.New()

	require.NoError(t, store.Enable(ctx, userID, "ct", []string{"h1"}))

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]bool, attempts)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.ConsumeBackupCode(ctx, userID, "h1")
			assert.NoError(t, err)
			results[i] = ok
		}()
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestSettingsStore_ReplaceBackupCodes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewSettingsStore()
	userID := uuid.New()

	err := store.ReplaceBackupCodes(ctx, userID, []string{"h1"})
	assert.ErrorIs(t, err, twofa.ErrSettingsNotFound)

	require.NoError(t, store.Enable(ctx, userID, "ct", []string{"old1", "old2"}))
	require.NoError(t, store.ReplaceBackupCodes(ctx, userID, []string{"new1"}))

	settings, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new1"}, settings.BackupCodeHashes)
}

func TestSettingsStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewSettingsStore()
	userID := uuid.New()

	require.NoError(t, store.Enable(ctx, userID, "ct", []string{"h1"}))

	settings, err := store.Get(ctx, userID)
	require.NoError(t, err)
	settings.BackupCodeHashes[0] = "mutated"

	again, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "h1", again.BackupCodeHashes[0])
}
