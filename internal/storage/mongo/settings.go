package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/twofa/internal/twofa"
)

// CollectionName is the collection holding per-user two-factor settings.
const CollectionName = "two_factor_settings"

type settingsDoc struct {
	UserID           string    `bson:"_id"`
	Enabled          bool      `bson:"enabled"`
	SecretCiphertext string    `bson:"secret_ciphertext"`
	BackupCodeHashes []string  `bson:"backup_code_hashes"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

// SettingsStore implements twofa.SettingsStore on MongoDB.
type SettingsStore struct {
	coll *mongo.Collection
}

// NewSettingsStore returns a store using the given database.
func NewSettingsStore(db *mongo.Database) *SettingsStore {
	return &SettingsStore{coll: db.Collection(CollectionName)}
}

func (s *SettingsStore) Get(ctx context.Context, userID uuid.UUID) (*twofa.Settings, error) {
	var doc settingsDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, twofa.ErrSettingsNotFound
		}
		return nil, errors.Join(twofa.ErrStoreUnavailable, err)
	}

	id, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, errors.Join(twofa.ErrStoreUnavailable, err)
	}

	return &twofa.Settings{
		UserID:           id,
		Enabled:          doc.Enabled,
		SecretCiphertext: doc.SecretCiphertext,
		BackupCodeHashes: doc.BackupCodeHashes,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

func (s *SettingsStore) Enable(ctx context.Context, userID uuid.UUID, secretCiphertext string, backupCodeHashes []string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"enabled":            true,
			"secret_ciphertext":  secretCiphertext,
			"backup_code_hashes": backupCodeHashes,
			"updated_at":         now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	opts := options.UpdateOne().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID.String()}, update, opts); err != nil {
		return errors.Join(twofa.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SettingsStore) ReplaceBackupCodes(ctx context.Context, userID uuid.UUID, backupCodeHashes []string) error {
	update := bson.M{"$set": bson.M{
		"backup_code_hashes": backupCodeHashes,
		"updated_at":         time.Now(),
	}}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID.String(), "enabled": true}, update)
	if err != nil {
		return errors.Join(twofa.ErrStoreUnavailable, err)
	}
	if result.MatchedCount == 0 {
		return twofa.ErrSettingsNotFound
	}
	return nil
}

// ConsumeBackupCode pulls the hash in a single findOneAndUpdate, so
// concurrent attempts with the same code cannot both observe it present.
func (s *SettingsStore) ConsumeBackupCode(ctx context.Context, userID uuid.UUID, hash string) (bool, error) {
	filter := bson.M{
		"_id":                userID.String(),
		"enabled":            true,
		"backup_code_hashes": hash,
	}
	update := bson.M{
		"$pull": bson.M{"backup_code_hashes": hash},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	err := s.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, errors.Join(twofa.ErrStoreUnavailable, err)
	}
	return true, nil
}

func (s *SettingsStore) Disable(ctx context.Context, userID uuid.UUID) error {
	update := bson.M{"$set": bson.M{
		"enabled":            false,
		"secret_ciphertext":  "",
		"backup_code_hashes": []string{},
		"updated_at":         time.Now(),
	}}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID.String()}, update)
	if err != nil {
		return errors.Join(twofa.ErrStoreUnavailable, err)
	}
	if result.MatchedCount == 0 {
		return twofa.ErrSettingsNotFound
	}
	return nil
}
