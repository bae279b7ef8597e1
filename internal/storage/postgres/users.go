package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/twofa/internal/twofa"
	"github.com/dmitrymomot/twofa/pkg/pg"
)

// UserStore reads user records owned by the primary authenticator. This
// service never writes to the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns a read-only user store backed by the given pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*twofa.User, error) {
	const query = `SELECT id, email, password_hash FROM users WHERE id = $1`

	user := &twofa.User{}
	err := s.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, twofa.ErrUnknownUser
		}
		return nil, errors.Join(twofa.ErrStoreUnavailable, err)
	}
	return user, nil
}
