package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/htfilia/tradingboard/internal/marketdata"
)

// MarketDataSink implements marketdata.TickSink, marketdata.BookSink and
// marketdata.QuoteSink. Persist writes go to the durable "market_ticks" /
// "order_books" collections (spec §6 data model — dealer quotes share the
// market_ticks table with dealer_id populated and mid = (bid+ask)/2);
// publish writes append to the streaming bus under the "ticks" /
// "order-books" / "dealer-quotes" stream names, one payload field per
// message.
type MarketDataSink struct {
	ticks  *mongo.Collection
	books  *mongo.Collection
	stream Appender
}

// Appender is the narrow slice of bus.Stream this sink needs, named
// locally to avoid importing the bus package just for the interface.
type Appender interface {
	Append(ctx context.Context, streamName string, fields map[string]any) error
}

// NewMarketDataSink wraps a database's market_ticks/order_books
// collections and a stream appender.
func NewMarketDataSink(db *mongo.Database, stream Appender) *MarketDataSink {
	return &MarketDataSink{
		ticks:  db.Collection("market_ticks"),
		books:  db.Collection("order_books"),
		stream: stream,
	}
}

func appendPayload(ctx context.Context, s Appender, streamName string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", streamName, err)
	}
	return s.Append(ctx, streamName, map[string]any{"payload": string(payload)})
}

// tickDoc is the shared market_ticks row shape: plain ticks carry no
// dealer_id, dealer quotes populate it (spec §6).
type tickDoc struct {
	InstrumentID string    `bson:"instrument_id"`
	Timestamp    time.Time `bson:"timestamp"`
	Bid          float64   `bson:"bid"`
	Ask          float64   `bson:"ask"`
	Mid          float64   `bson:"mid"`
	DealerID     *string   `bson:"dealer_id,omitempty"`
	Metadata     any       `bson:"metadata,omitempty"`
}

// PersistTick inserts the tick into the market_ticks collection.
func (s *MarketDataSink) PersistTick(ctx context.Context, ev marketdata.TickEvent) error {
	doc := tickDoc{
		InstrumentID: ev.InstrumentID,
		Timestamp:    ev.Timestamp,
		Bid:          ev.Bid,
		Ask:          ev.Ask,
		Mid:          ev.Mid,
		Metadata:     ev.Metadata,
	}
	if _, err := s.ticks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("persist tick: %w", err)
	}
	return nil
}

// PublishTick appends the tick to the "ticks" stream.
func (s *MarketDataSink) PublishTick(ctx context.Context, ev marketdata.TickEvent) error {
	return appendPayload(ctx, s.stream, "ticks", ev)
}

type bookDoc struct {
	InstrumentID string                 `bson:"instrument_id"`
	Timestamp    time.Time              `bson:"timestamp"`
	Bids         []marketdata.BookLevel `bson:"bids"`
	Asks         []marketdata.BookLevel `bson:"asks"`
}

// PersistBook inserts the snapshot into the order_books collection.
func (s *MarketDataSink) PersistBook(ctx context.Context, snap marketdata.OrderBookSnapshot) error {
	doc := bookDoc{
		InstrumentID: snap.InstrumentID,
		Timestamp:    snap.Timestamp,
		Bids:         snap.Bids,
		Asks:         snap.Asks,
	}
	if _, err := s.books.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("persist book: %w", err)
	}
	return nil
}

// PublishBook appends the snapshot to the "order-books" stream.
func (s *MarketDataSink) PublishBook(ctx context.Context, snap marketdata.OrderBookSnapshot) error {
	return appendPayload(ctx, s.stream, "order-books", snap)
}

// PersistQuote inserts the quote into the shared market_ticks collection
// with dealer_id populated and mid = (bid+ask)/2, per spec §6.
func (s *MarketDataSink) PersistQuote(ctx context.Context, q marketdata.DealerQuoteEvent) error {
	dealerID := q.DealerID
	doc := tickDoc{
		InstrumentID: q.InstrumentID,
		Timestamp:    q.Timestamp,
		Bid:          q.Bid,
		Ask:          q.Ask,
		Mid:          (q.Bid + q.Ask) / 2,
		DealerID:     &dealerID,
	}
	if _, err := s.ticks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("persist dealer quote: %w", err)
	}
	return nil
}

// PublishQuote appends the quote to the "dealer-quotes" stream.
func (s *MarketDataSink) PublishQuote(ctx context.Context, q marketdata.DealerQuoteEvent) error {
	return appendPayload(ctx, s.stream, "dealer-quotes", q)
}

// LatestTick returns the most recent persisted plain tick (dealer_id
// unset) for an instrument, or (nil, nil) if none exists. Used by the
// market-data read-query API.
func (s *MarketDataSink) LatestTick(ctx context.Context, instrumentID string) (*marketdata.TickEvent, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	filter := bson.M{"instrument_id": instrumentID, "dealer_id": bson.M{"$exists": false}}
	var doc tickDoc
	err := s.ticks.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest tick: %w", err)
	}
	return &marketdata.TickEvent{
		InstrumentID: doc.InstrumentID,
		Timestamp:    doc.Timestamp,
		Bid:          doc.Bid,
		Ask:          doc.Ask,
		Mid:          doc.Mid,
	}, nil
}

// LatestBook returns the most recent persisted order-book snapshot for an
// instrument, or (nil, nil) if none exists.
func (s *MarketDataSink) LatestBook(ctx context.Context, instrumentID string) (*marketdata.OrderBookSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var doc bookDoc
	err := s.books.FindOne(ctx, bson.M{"instrument_id": instrumentID}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest book: %w", err)
	}
	return &marketdata.OrderBookSnapshot{
		InstrumentID: doc.InstrumentID,
		Timestamp:    doc.Timestamp,
		Bids:         doc.Bids,
		Asks:         doc.Asks,
	}, nil
}

// RecentQuotes returns up to limit most-recent dealer quotes for an
// instrument, newest first.
func (s *MarketDataSink) RecentQuotes(ctx context.Context, instrumentID string, limit int64) ([]marketdata.DealerQuoteEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	filter := bson.M{"instrument_id": instrumentID, "dealer_id": bson.M{"$exists": true}}
	cur, err := s.ticks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("recent quotes: %w", err)
	}
	defer cur.Close(ctx)

	var out []marketdata.DealerQuoteEvent
	for cur.Next(ctx) {
		var doc tickDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode quote: %w", err)
		}
		dealerID := ""
		if doc.DealerID != nil {
			dealerID = *doc.DealerID
		}
		out = append(out, marketdata.DealerQuoteEvent{
			InstrumentID: doc.InstrumentID,
			DealerID:     dealerID,
			Timestamp:    doc.Timestamp,
			Bid:          doc.Bid,
			Ask:          doc.Ask,
		})
	}
	return out, cur.Err()
}

// TotalTickCount reports the number of persisted market_ticks rows
// (plain ticks plus dealer quotes), for the stats endpoint.
func (s *MarketDataSink) TotalTickCount(ctx context.Context) (int64, error) {
	n, err := s.ticks.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count ticks: %w", err)
	}
	return n, nil
}
