// Package dashboard implements the optional live-viewer fanout
// (SPEC_FULL.md §3 "Optional live dashboard fanout"): a WebSocket
// Broadcaster that mirrors tick/book/dealer-quote events to connected
// viewers, adapted from the teacher's internal/session package (manager,
// client, handler) but without ITCH framing or a binary wire format —
// viewers here only ever see JSON.
package dashboard

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Client is a connected dashboard viewer.
type Client struct {
	ID   uint64
	Conn *websocket.Conn

	mu         sync.RWMutex
	instrument map[string]bool
	all        bool

	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once

	Dropped uint64
}

var clientIDCounter uint64

// NewClient wraps a websocket connection as a dashboard viewer.
func NewClient(conn *websocket.Conn, bufferSize int) *Client {
	return &Client{
		ID:         atomic.AddUint64(&clientIDCounter, 1),
		Conn:       conn,
		instrument: make(map[string]bool),
		sendCh:     make(chan []byte, bufferSize),
		done:       make(chan struct{}),
	}
}

// Subscribe adds instruments to the viewer's subscription.
func (c *Client) Subscribe(instrumentIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range instrumentIDs {
		c.instrument[id] = true
	}
}

// SubscribeAll subscribes the viewer to every instrument.
func (c *Client) SubscribeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = true
}

// Unsubscribe removes instruments from the viewer's subscription.
func (c *Client) Unsubscribe(instrumentIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range instrumentIDs {
		delete(c.instrument, id)
	}
}

// IsSubscribed reports whether the viewer wants events for instrumentID.
func (c *Client) IsSubscribed(instrumentID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all || c.instrument[instrumentID]
}

// Send enqueues data for the write pump. Returns false on a full buffer
// (the message is dropped rather than blocking the caller).
func (c *Client) Send(data []byte) bool {
	select {
	case c.sendCh <- data:
		return true
	default:
		atomic.AddUint64(&c.Dropped, 1)
		return false
	}
}

// SendCh returns the outgoing message channel for the write pump.
func (c *Client) SendCh() <-chan []byte { return c.sendCh }

// Done is closed when the client disconnects.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close terminates the connection, idempotently.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}
