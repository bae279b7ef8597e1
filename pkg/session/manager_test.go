package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofa/pkg/session"
)

func testConfig() session.Config {
	return session.Config{
		CookieName:      "sid",
		Lifetime:        time.Hour,
		TrustedLifetime: 24 * time.Hour,
	}
}

func TestManager_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	userID := uuid.New()
	sess, err := mgr.Create(ctx, userID, false)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, userID, sess.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	got, err := mgr.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestManager_TrustedLifetime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	sess, err := mgr.Create(ctx, uuid.New(), true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), sess.ExpiresAt, time.Minute)
}

func TestManager_GetUnknownToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	_, err := mgr.Get(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = mgr.Get(ctx, "")
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestManager_TokensAreUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	first, err := mgr.Create(ctx, uuid.New(), false)
	require.NoError(t, err)
	second, err := mgr.Create(ctx, uuid.New(), false)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestMemoryStore_ExpiryOnRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore(0)

	sess := &session.Session{
		ID:        uuid.New(),
		Token:     "expired-token",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Create(ctx, sess))

	_, err := store.Get(ctx, "expired-token")
	assert.ErrorIs(t, err, session.ErrSessionExpired)

	// Second read reports not found: the expired record was removed.
	_, err = store.Get(ctx, "expired-token")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	sess, err := mgr.Create(ctx, uuid.New(), false)
	require.NoError(t, err)

	require.NoError(t, mgr.Delete(ctx, sess.Token))
	_, err = mgr.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_Extend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr := session.NewManager(session.NewMemoryStore(0), testConfig())

	sess, err := mgr.Create(ctx, uuid.New(), false)
	require.NoError(t, err)

	require.NoError(t, mgr.Extend(ctx, sess.Token))

	got, err := mgr.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), got.ExpiresAt, time.Minute)
}
