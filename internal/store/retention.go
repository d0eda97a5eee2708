package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RunRetention periodically deletes market_ticks and order_books rows
// older than the retention window. Blocks until ctx is cancelled. Pass
// retentionDays <= 0 to disable, ported from the teacher's
// persist.RunRetention.
func RunRetention(ctx context.Context, s *Store, retentionDays int) {
	if retentionDays <= 0 {
		log.Println("tick/book retention disabled (keep forever)")
		return
	}

	interval := 1 * time.Hour
	log.Printf("tick/book retention: pruning rows older than %d days every %v", retentionDays, interval)

	prune(ctx, s, retentionDays)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune(ctx, s, retentionDays)
		}
	}
}

func prune(ctx context.Context, s *Store, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	filter := bson.M{"timestamp": bson.M{"$lt": cutoff}}

	ticks, err := s.db.Collection("market_ticks").DeleteMany(ctx, filter)
	if err != nil {
		log.Printf("tick retention prune error: %v", err)
	} else if ticks.DeletedCount > 0 {
		log.Printf("tick retention: pruned %d rows older than %s", ticks.DeletedCount, cutoff.Format(time.DateOnly))
	}

	books, err := s.db.Collection("order_books").DeleteMany(ctx, filter)
	if err != nil {
		log.Printf("book retention prune error: %v", err)
	} else if books.DeletedCount > 0 {
		log.Printf("book retention: pruned %d rows older than %s", books.DeletedCount, cutoff.Format(time.DateOnly))
	}
}
