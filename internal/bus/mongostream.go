package bus

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoStream is a Mongo-collection-backed append-only stream. Each named
// stream maps to one collection; each Append inserts one document carrying
// the caller's fields plus an appended_at timestamp, grounded in the
// teacher's persist.Snapshotter.SaveTrade insert-one pattern.
type MongoStream struct {
	db *mongo.Database
}

// NewMongoStream wraps a database as a Stream.
func NewMongoStream(db *mongo.Database) *MongoStream {
	return &MongoStream{db: db}
}

// Append inserts one document into the named stream's collection.
func (s *MongoStream) Append(ctx context.Context, streamName string, fields map[string]any) error {
	doc := bson.M{"appended_at": time.Now()}
	for k, v := range fields {
		doc[k] = v
	}
	if _, err := s.db.Collection(streamName).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append to stream %s: %w", streamName, err)
	}
	return nil
}
