package twofa

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingKeyPrefix = "twofa:pending:"

// RedisPendingStore implements PendingStore on Redis. Records are written
// with double the logical TTL so a read shortly after expiry can still
// distinguish a stale setup (ErrExpiredSetup) from one that never existed
// (ErrNoPendingSetup); Redis removes the leftovers on its own afterwards.
type RedisPendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPendingStore creates a pending store backed by the given client.
func NewRedisPendingStore(client *redis.Client, ttl time.Duration) *RedisPendingStore {
	return &RedisPendingStore{client: client, ttl: ttl}
}

func (r *RedisPendingStore) Put(ctx context.Context, sessionToken string, pending PendingSetup) error {
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, pendingKeyPrefix+sessionToken, payload, 2*r.ttl).Err()
}

func (r *RedisPendingStore) Get(ctx context.Context, sessionToken string) (*PendingSetup, error) {
	payload, err := r.client.Get(ctx, pendingKeyPrefix+sessionToken).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoPendingSetup
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var pending PendingSetup
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if time.Since(pending.CreatedAt) > r.ttl {
		_ = r.client.Del(ctx, pendingKeyPrefix+sessionToken).Err()
		return nil, ErrExpiredSetup
	}

	return &pending, nil
}

func (r *RedisPendingStore) Delete(ctx context.Context, sessionToken string) error {
	return r.client.Del(ctx, pendingKeyPrefix+sessionToken).Err()
}
