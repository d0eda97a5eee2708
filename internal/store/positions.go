package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/htfilia/tradingboard/internal/trading"
)

// PositionRepository implements trading.PositionRepository on the
// "positions" collection, keyed by the compound (user_id, instrument_id)
// index created in schema.go.
type PositionRepository struct {
	collection *mongo.Collection
}

// NewPositionRepository wraps a database's "positions" collection.
func NewPositionRepository(db *mongo.Database) *PositionRepository {
	return &PositionRepository{collection: db.Collection("positions")}
}

type positionDoc struct {
	UserID       string    `bson:"user_id"`
	InstrumentID string    `bson:"instrument_id"`
	Quantity     int64     `bson:"quantity"`
	AveragePrice float64   `bson:"average_price"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// Get returns (nil, nil) if no position exists for (userID, instrumentID).
func (r *PositionRepository) Get(ctx context.Context, userID, instrumentID string) (*trading.Position, error) {
	var doc positionDoc
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "instrument_id": instrumentID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}
	return &trading.Position{
		UserID:       doc.UserID,
		InstrumentID: doc.InstrumentID,
		Quantity:     doc.Quantity,
		AveragePrice: doc.AveragePrice,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

// Upsert writes the position's current state.
func (r *PositionRepository) Upsert(ctx context.Context, p *trading.Position) error {
	filter := bson.M{"user_id": p.UserID, "instrument_id": p.InstrumentID}
	update := bson.M{"$set": bson.M{
		"user_id":       p.UserID,
		"instrument_id": p.InstrumentID,
		"quantity":      p.Quantity,
		"average_price": p.AveragePrice,
		"updated_at":    p.UpdatedAt,
	}}
	if _, err := r.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert position: %w", err)
	}
	return nil
}
