package store

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates idempotent indexes on every collection the
// durable store owns, grounded in the teacher's persist.EnsureIndexes
// shape (one CreateOne call per index, collected into a slice first).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		collection string
		model      mongo.IndexModel
	}

	indexes := []idx{
		{
			collection: "users",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "positions",
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "instrument_id", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "market_ticks",
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "instrument_id", Value: 1},
					{Key: "timestamp", Value: -1},
				},
			},
		},
		{
			collection: "order_books",
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "instrument_id", Value: 1},
					{Key: "timestamp", Value: -1},
				},
			},
		},
	}

	for _, i := range indexes {
		if _, err := db.Collection(i.collection).Indexes().CreateOne(ctx, i.model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.collection, err)
		}
	}

	log.Println("MongoDB indexes ensured")
	return nil
}
