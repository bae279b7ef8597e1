package mongo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/twofa/internal/twofa"
)

const usersCollection = "users"

type userDoc struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash []byte `bson:"password_hash"`
}

// UserStore reads user identities from the users collection. The collection
// is owned by the account system; this store never writes to it.
type UserStore struct {
	coll *mongo.Collection
}

// NewUserStore creates a read-only user store on the given database.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

func (s *UserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*twofa.User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, twofa.ErrUnknownUser
		}
		return nil, errors.Join(twofa.ErrStoreUnavailable, err)
	}

	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, errors.Join(twofa.ErrStoreUnavailable, err)
	}

	return &twofa.User{
		ID:           userID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
	}, nil
}
