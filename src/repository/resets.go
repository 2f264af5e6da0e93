package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ganak-service/src/database"
	"ganak-service/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoResetStore keeps pending reset codes in a TTL collection keyed by email.
type MongoResetStore struct {
	store
}

func NewMongoResetStore(conn *database.Connection) *MongoResetStore {
	return &MongoResetStore{store{conn: conn, name: PasswordResetsCollection}}
}

func (s *MongoResetStore) EnsureIndexes(ctx context.Context) error {
	coll, err := s.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
	})
	if err != nil {
		return fmt.Errorf("password_resets indexes: %w", err)
	}
	return nil
}

// Save replaces any pending reset for the same email.
func (s *MongoResetStore) Save(ctx context.Context, reset models.PasswordReset) error {
	coll, err := s.collection()
	if err != nil {
		return err
	}
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": reset.Email}, reset, options.Replace().SetUpsert(true))
	return translate(err)
}

// Get ignores documents the TTL monitor has not swept yet.
func (s *MongoResetStore) Get(ctx context.Context, email string) (*models.PasswordReset, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}
	var reset models.PasswordReset
	err = coll.FindOne(ctx, bson.M{"_id": email, "expires_at": bson.M{"$gt": time.Now().UTC()}}).Decode(&reset)
	if err != nil {
		return nil, translate(err)
	}
	return &reset, nil
}

// Reserve atomically spends one attempt on the pending reset and returns it
// with the updated count. The attempt is taken before the code is checked, so
// concurrent guesses can never exceed limit between them.
func (s *MongoResetStore) Reserve(ctx context.Context, email string, limit int, now time.Time) (*models.PasswordReset, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}
	var reset models.PasswordReset
	err = coll.FindOneAndUpdate(ctx,
		bson.M{
			"_id":        email,
			"attempts":   bson.M{"$lt": limit},
			"expires_at": bson.M{"$gt": now.UTC()},
		},
		bson.M{"$inc": bson.M{"attempts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&reset)
	if err == nil {
		return &reset, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err)
	}

	// Nothing matched: tell a spent reset apart from a missing or expired one
	if _, err := s.Get(ctx, email); err != nil {
		return nil, err
	}
	return nil, ErrAttemptsExhausted
}

// Consume removes the pending reset. Only one caller can consume a given
// reset; the others get ErrNotFound.
func (s *MongoResetStore) Consume(ctx context.Context, email string, now time.Time) (*models.PasswordReset, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}
	var reset models.PasswordReset
	err = coll.FindOneAndDelete(ctx, bson.M{"_id": email, "expires_at": bson.M{"$gt": now.UTC()}}).Decode(&reset)
	if err != nil {
		return nil, translate(err)
	}
	return &reset, nil
}
