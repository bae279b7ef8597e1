package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/twofa/internal/twofa"
)

// UserStore is an in-memory twofa.UserStore for tests and local development.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*twofa.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*twofa.User)}
}

// Add registers a user.
func (s *UserStore) Add(user *twofa.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *UserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*twofa.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, twofa.ErrUnknownUser
	}

	userCopy := *user
	return &userCopy, nil
}
