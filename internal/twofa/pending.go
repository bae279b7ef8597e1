package twofa

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PendingSetup is the ephemeral state between generating a secret and
// confirming possession of it. It is bound to the caller's session and is
// the only place a plaintext secret exists outside the cipher boundary.
// It is never written to durable storage.
type PendingSetup struct {
	UserID    uuid.UUID `json:"user_id"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingStore holds pending setups keyed by session token with a bounded
// lifetime. The store owns the lifetime clock: Put stamps CreatedAt when the
// caller leaves it zero, and Get judges expiry against the same clock, so a
// stale record yields ErrExpiredSetup, never a usable secret.
type PendingStore interface {
	// Put stores a pending setup for the session, replacing any previous one.
	Put(ctx context.Context, sessionToken string, pending PendingSetup) error

	// Get returns the pending setup, ErrNoPendingSetup if absent, or
	// ErrExpiredSetup if it outlived the TTL (the record is removed).
	Get(ctx context.Context, sessionToken string) (*PendingSetup, error)

	// Delete removes the pending setup for the session.
	Delete(ctx context.Context, sessionToken string) error
}

// MemoryPendingStore implements PendingStore with in-process storage and a
// background sweep of stale entries.
type MemoryPendingStore struct {
	mu      sync.RWMutex
	entries map[string]PendingSetup
	ttl     time.Duration
	ticker  *time.Ticker
	done    chan struct{}
}

// NewMemoryPendingStore creates an in-memory pending store. A positive
// cleanupInterval starts a background sweep so abandoned setups do not
// accumulate between reads.
func NewMemoryPendingStore(ttl, cleanupInterval time.Duration) *MemoryPendingStore {
	store := &MemoryPendingStore{
		entries: make(map[string]PendingSetup),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

func (m *MemoryPendingStore) Put(ctx context.Context, sessionToken string, pending PendingSetup) error {
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionToken] = pending
	return nil
}

func (m *MemoryPendingStore) Get(ctx context.Context, sessionToken string) (*PendingSetup, error) {
	m.mu.RLock()
	pending, exists := m.entries[sessionToken]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrNoPendingSetup
	}

	if time.Since(pending.CreatedAt) > m.ttl {
		m.mu.Lock()
		delete(m.entries, sessionToken)
		m.mu.Unlock()
		return nil, ErrExpiredSetup
	}

	pendingCopy := pending
	return &pendingCopy, nil
}

func (m *MemoryPendingStore) Delete(ctx context.Context, sessionToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionToken)
	return nil
}

// Close stops the background cleanup loop.
func (m *MemoryPendingStore) Close() {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
}

func (m *MemoryPendingStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.mu.Lock()
			now := time.Now()
			for token, pending := range m.entries {
				if now.Sub(pending.CreatedAt) > m.ttl {
					delete(m.entries, token)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}
