// Package store implements the durable-store collaborator (spec §6) on
// MongoDB: connection management, index bootstrap, and the repositories
// and transactional unit of work consumed by the trading and auth
// services.
package store

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store wraps the MongoDB client and database, grounded in the teacher's
// persist.Store connect/URI-db-name-parsing pattern.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and returns a Store. If the URI path carries no
// database name, "tradingboard" is used.
func Connect(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	dbName := "tradingboard"
	if u, err := url.Parse(uri); err == nil {
		if name := strings.TrimPrefix(u.Path, "/"); name != "" {
			dbName = name
		}
	}

	log.Printf("connected to MongoDB (db=%s)", dbName)
	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) {
	s.client.Disconnect(ctx)
}

// DB returns the underlying database handle.
func (s *Store) DB() *mongo.Database { return s.db }

// Client returns the underlying client handle, needed for transactions.
func (s *Store) Client() *mongo.Client { return s.client }

// Migrate creates indexes on every collection this store owns.
func (s *Store) Migrate(ctx context.Context) error {
	return EnsureIndexes(ctx, s.db)
}
