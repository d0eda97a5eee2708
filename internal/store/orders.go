package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/htfilia/tradingboard/internal/trading"
)

// OrderRepository implements trading.OrderRepository on the "orders"
// collection, insert-idempotent on order_id with on-conflict-update of
// (filled_quantity, average_price, status, updated_at) per spec §5.
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository wraps a database's "orders" collection.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection("orders")}
}

// Upsert inserts the order document, updating in place on a repeated
// order_id (the engine itself only ever generates a fresh id per
// submission, so in practice this always inserts).
func (r *OrderRepository) Upsert(ctx context.Context, o *trading.Order) error {
	filter := bson.M{"_id": o.OrderID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":       o.UserID,
			"instrument_id": o.InstrumentID,
			"side":          string(o.Side),
			"order_type":    string(o.OrderType),
			"quantity":      o.Quantity,
			"limit_price":   o.LimitPrice,
			"time_in_force": o.TimeInForce,
			"created_at":    o.CreatedAt,
		},
		"$set": bson.M{
			"filled_quantity": o.FilledQuantity,
			"average_price":   o.AveragePrice,
			"status":          string(o.Status),
			"updated_at":      o.UpdatedAt,
		},
	}
	if _, err := r.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}
