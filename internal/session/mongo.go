package session

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore is the Mongo-backed session store. It stores one document per
// session keyed by KeyPrefix+token, with a TTL index on expires_at so
// expired sessions are evicted server-side — grounded in the teacher's
// schema.EnsureIndexes idiom, extended with SetExpireAfterSeconds(0).
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps a database's "sessions" collection as a Store.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection("sessions")}
}

// EnsureIndexes creates the unique key index and the TTL index. Call once
// at service startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure session indexes: %w", err)
	}
	return nil
}

type sessionDoc struct {
	Key       string    `bson:"key"`
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Issue creates a new session for userID with the given TTL.
func (s *MongoStore) Issue(ctx context.Context, userID string, ttl time.Duration) (Session, error) {
	token, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	expiresAt := time.Now().Add(ttl)

	doc := sessionDoc{
		Key:       KeyPrefix + token,
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	return Session{Token: token, UserID: userID, ExpiresAt: expiresAt}, nil
}

// Get returns the session for token, or nil if absent or expired. Get is
// the sole authority for liveness; it re-checks expires_at in addition to
// relying on the TTL index, since TTL eviction runs on a background
// interval rather than synchronously.
func (s *MongoStore) Get(ctx context.Context, token string) (*Session, error) {
	var doc sessionDoc
	err := s.collection.FindOne(ctx, bson.M{"key": KeyPrefix + token}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if time.Now().After(doc.ExpiresAt) {
		return nil, nil
	}
	return &Session{Token: doc.Token, UserID: doc.UserID, ExpiresAt: doc.ExpiresAt}, nil
}

// Revoke deletes a session. Idempotent.
func (s *MongoStore) Revoke(ctx context.Context, token string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"key": KeyPrefix + token})
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
