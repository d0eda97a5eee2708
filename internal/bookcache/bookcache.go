// Package bookcache is a single-writer, multi-reader in-memory view of the
// latest published order-book snapshot per instrument. The writer is the
// market-data emission pipeline; trading.BookCacheSource is the reader
// adapter. The cache lives inside one process: cmd/tradingd runs as a
// separate process and does not read it, taking snapshots from the durable
// store through store.BookSource instead. Consistency between a successful
// publish and the cache update is assumed tight, since both happen in the
// same single-writer goroutine (spec §9's open question on eventual
// consistency).
package bookcache

import (
	"errors"
	"sync"
	"time"

	"github.com/htfilia/tradingboard/internal/marketdata"
)

// ErrInstrumentNotFound is returned when no snapshot has ever been
// published for the requested instrument.
var ErrInstrumentNotFound = errors.New("bookcache: instrument not found")

type entry struct {
	snapshot    marketdata.OrderBookSnapshot
	lastUpdated time.Time
}

// Cache is a single-writer/multi-reader book cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New constructs an empty book cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Update overwrites the cached snapshot for an instrument. Called only by
// the emission pipeline after a successful book publish.
func (c *Cache) Update(instrumentID string, snap marketdata.OrderBookSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[instrumentID] = entry{snapshot: snap, lastUpdated: time.Now()}
}

// Get returns the last successfully published snapshot for an instrument,
// or ErrInstrumentNotFound if none exists.
func (c *Cache) Get(instrumentID string) (marketdata.OrderBookSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[instrumentID]
	if !ok {
		return marketdata.OrderBookSnapshot{}, ErrInstrumentNotFound
	}
	return e.snapshot, nil
}

// LastUpdated returns when the instrument's snapshot was last written.
func (c *Cache) LastUpdated(instrumentID string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[instrumentID]
	return e.lastUpdated, ok
}
