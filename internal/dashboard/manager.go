package dashboard

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/htfilia/tradingboard/internal/marketdata"
)

// Manager fans tick/book/dealer-quote events out to subscribed viewers
// and implements marketdata.Broadcaster.
type Manager struct {
	mu         sync.RWMutex
	clients    map[uint64]*Client
	bufferSize int
}

// NewManager constructs an empty viewer registry.
func NewManager(bufferSize int) *Manager {
	return &Manager{clients: make(map[uint64]*Client), bufferSize: bufferSize}
}

// Register adds a newly upgraded connection as a viewer.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := NewClient(conn, m.bufferSize)
	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()
	log.Printf("dashboard: client %d connected", c.ID)
	return c
}

// Unregister removes and closes a viewer.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()
	c.Close()
	log.Printf("dashboard: client %d disconnected", c.ID)
}

// ClientCount reports how many viewers are connected.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

type envelope struct {
	Type         string `json:"type"`
	InstrumentID string `json:"instrument_id"`
	Payload      any    `json:"payload"`
}

func (m *Manager) broadcast(instrumentID string, env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("dashboard: marshal %s event failed: %v", env.Type, err)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if !c.IsSubscribed(instrumentID) {
			continue
		}
		c.Send(data)
	}
}

// BroadcastTick implements marketdata.Broadcaster.
func (m *Manager) BroadcastTick(instrumentID string, ev marketdata.TickEvent) {
	m.broadcast(instrumentID, envelope{Type: "tick", InstrumentID: instrumentID, Payload: ev})
}

// BroadcastBook implements marketdata.Broadcaster.
func (m *Manager) BroadcastBook(instrumentID string, snap marketdata.OrderBookSnapshot) {
	m.broadcast(instrumentID, envelope{Type: "book", InstrumentID: instrumentID, Payload: snap})
}

// BroadcastQuote implements marketdata.Broadcaster.
func (m *Manager) BroadcastQuote(instrumentID string, q marketdata.DealerQuoteEvent) {
	m.broadcast(instrumentID, envelope{Type: "quote", InstrumentID: instrumentID, Payload: q})
}
