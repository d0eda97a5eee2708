package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/htfilia/tradingboard/internal/marketdata"
)

// TickReader is the read-query capability the market-data HTTP surface
// needs from the durable store (supplemented feature, SPEC_FULL.md §3).
type TickReader interface {
	LatestTick(ctx context.Context, instrumentID string) (*marketdata.TickEvent, error)
	LatestBook(ctx context.Context, instrumentID string) (*marketdata.OrderBookSnapshot, error)
	RecentQuotes(ctx context.Context, instrumentID string, limit int64) ([]marketdata.DealerQuoteEvent, error)
	TotalTickCount(ctx context.Context) (int64, error)
}

// ClientCounter reports how many live dashboard viewers are connected.
type ClientCounter interface {
	ClientCount() int
}

// MarketDataServer exposes the read-query surface over the persisted
// tick/book/quote collections, grounded in the teacher's internal/api/
// api.go Register/writeJSON conventions.
type MarketDataServer struct {
	reader      TickReader
	clients     ClientCounter
	instruments int
	startAt     time.Time
}

// NewMarketDataServer wraps a reader and the instrument count for the
// stats endpoint.
func NewMarketDataServer(reader TickReader, clients ClientCounter, instrumentCount int) *MarketDataServer {
	return &MarketDataServer{reader: reader, clients: clients, instruments: instrumentCount, startAt: time.Now()}
}

// Register attaches the read-only /api/* routes to mux.
func (s *MarketDataServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ticks/{id}", s.handleTick)
	mux.HandleFunc("GET /api/book/{id}", s.handleBook)
	mux.HandleFunc("GET /api/quotes/{id}", s.handleQuotes)
	mux.HandleFunc("GET /api/stats", s.handleStats)
}

func (s *MarketDataServer) handleTick(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tick, err := s.reader.LatestTick(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tick == nil {
		writeError(w, http.StatusNotFound, "no tick for instrument: "+id)
		return
	}
	writeJSON(w, http.StatusOK, tick)
}

func (s *MarketDataServer) handleBook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	book, err := s.reader.LatestBook(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "no book for instrument: "+id)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *MarketDataServer) handleQuotes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	quotes, err := s.reader.RecentQuotes(ctx, id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

type statsResponse struct {
	Uptime      string `json:"uptime"`
	Clients     int    `json:"clients"`
	Instruments int    `json:"instruments"`
	TotalTicks  int64  `json:"total_ticks"`
}

func (s *MarketDataServer) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	total, err := s.reader.TotalTickCount(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	clients := 0
	if s.clients != nil {
		clients = s.clients.ClientCount()
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Uptime:      time.Since(s.startAt).Truncate(time.Second).String(),
		Clients:     clients,
		Instruments: s.instruments,
		TotalTicks:  total,
	})
}
