package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

const tokenBytes = 32

// Manager creates and resolves sessions against a Store.
type Manager struct {
	store Store
	cfg   Config
}

// NewManager returns a Manager backed by the given store.
func NewManager(store Store, cfg Config) *Manager {
	return &Manager{store: store, cfg: cfg}
}

// Create issues a new session for the user. When trusted is true the session
// receives the extended trusted-device lifetime instead of the default one.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, trusted bool) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	ttl := m.cfg.Lifetime
	if trusted {
		ttl = m.cfg.TrustedLifetime
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get resolves a session by token.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	return m.store.Get(ctx, token)
}

// Extend grants the session the trusted-device lifetime from now.
func (m *Manager) Extend(ctx context.Context, token string) error {
	return m.store.Extend(ctx, token, time.Now().Add(m.cfg.TrustedLifetime))
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// Config exposes the manager configuration to transports.
func (m *Manager) Config() Config {
	return m.cfg
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
