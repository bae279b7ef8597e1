package twofa_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofa/internal/twofa"
)

func newRedisPendingStore(t *testing.T, ttl time.Duration) (*twofa.RedisPendingStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return twofa.NewRedisPendingStore(client, ttl), mr
}

func TestRedisPendingStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisPendingStore(t, 5*time.Minute)
		userID := uuid.New()

		require.NoError(t, store.Put(ctx, "tok", twofa.PendingSetup{
			UserID: userID,
			Secret: "JBSWY3DPEHPK3PXP",
		}))

		pending, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, userID, pending.UserID)
		assert.Equal(t, "JBSWY3DPEHPK3PXP", pending.Secret)
		assert.False(t, pending.CreatedAt.IsZero())
	})

	t.Run("absent token", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisPendingStore(t, 5*time.Minute)
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, twofa.ErrNoPendingSetup)
	})

	t.Run("record outlives the logical ttl", func(t *testing.T) {
		t.Parallel()

		store, mr := newRedisPendingStore(t, 5*time.Minute)
		require.NoError(t, store.Put(ctx, "tok", twofa.PendingSetup{Secret: "X"}))

		// Written at twice the logical TTL so a read shortly after expiry
		// still reports expiry instead of absence.
		ttl := mr.TTL("twofa:pending:tok")
		assert.Equal(t, 10*time.Minute, ttl)
	})

	t.Run("stale entry reports expiry then absence", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisPendingStore(t, 5*time.Minute)
		require.NoError(t, store.Put(ctx, "tok", twofa.PendingSetup{
			UserID:    uuid.New(),
			Secret:    "JBSWY3DPEHPK3PXP",
			CreatedAt: time.Now().Add(-6 * time.Minute),
		}))

		_, err := store.Get(ctx, "tok")
		assert.ErrorIs(t, err, twofa.ErrExpiredSetup)

		_, err = store.Get(ctx, "tok")
		assert.ErrorIs(t, err, twofa.ErrNoPendingSetup)
	})

	t.Run("put replaces previous setup", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisPendingStore(t, 5*time.Minute)
		require.NoError(t, store.Put(ctx, "tok", twofa.PendingSetup{Secret: "FIRST"}))
		require.NoError(t, store.Put(ctx, "tok", twofa.PendingSetup{Secret: "SECOND"}))

		pending, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "SECOND", pending.Secret)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisPendingStore(t, 5*time.Minute)
		require.NoError(t, store.Put(ctx, "tok", twofa.PendingSetup{Secret: "X"}))
		require.NoError(t, store.Delete(ctx, "tok"))

		_, err := store.Get(ctx, "tok")
		assert.ErrorIs(t, err, twofa.ErrNoPendingSetup)
	})
}
