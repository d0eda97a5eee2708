package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/htfilia/tradingboard/internal/marketdata"
)

type stubReader struct {
	tick      *marketdata.TickEvent
	tickErr   error
	book      *marketdata.OrderBookSnapshot
	quotes    []marketdata.DealerQuoteEvent
	quotesErr error
	total     int64
	gotLimit  int64
}

func (s *stubReader) LatestTick(ctx context.Context, instrumentID string) (*marketdata.TickEvent, error) {
	return s.tick, s.tickErr
}
func (s *stubReader) LatestBook(ctx context.Context, instrumentID string) (*marketdata.OrderBookSnapshot, error) {
	return s.book, nil
}
func (s *stubReader) RecentQuotes(ctx context.Context, instrumentID string, limit int64) ([]marketdata.DealerQuoteEvent, error) {
	s.gotLimit = limit
	return s.quotes, s.quotesErr
}
func (s *stubReader) TotalTickCount(ctx context.Context) (int64, error) {
	return s.total, nil
}

type stubClients struct{ n int }

func (s stubClients) ClientCount() int { return s.n }

func newTestMarketDataServer(reader *stubReader) *http.ServeMux {
	srv := NewMarketDataServer(reader, stubClients{n: 3}, 7)
	mux := http.NewServeMux()
	srv.Register(mux)
	return mux
}

func TestHandleTickNotFound(t *testing.T) {
	mux := newTestMarketDataServer(&stubReader{})
	req := httptest.NewRequest(http.MethodGet, "/api/ticks/GHOST", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleTickFound(t *testing.T) {
	reader := &stubReader{tick: &marketdata.TickEvent{InstrumentID: "X", Mid: 10.5, Timestamp: time.Now()}}
	mux := newTestMarketDataServer(reader)
	req := httptest.NewRequest(http.MethodGet, "/api/ticks/X", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHandleQuotesDefaultLimit(t *testing.T) {
	reader := &stubReader{quotes: []marketdata.DealerQuoteEvent{{InstrumentID: "X"}}}
	mux := newTestMarketDataServer(reader)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/X", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if reader.gotLimit != 20 {
		t.Fatalf("expected default limit 20, got %d", reader.gotLimit)
	}
}

func TestHandleQuotesInvalidLimitFallsBackToDefault(t *testing.T) {
	reader := &stubReader{}
	mux := newTestMarketDataServer(reader)
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/X?limit=not-a-number", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 even with a malformed limit, got %d", w.Code)
	}
	if reader.gotLimit != 20 {
		t.Fatalf("expected malformed limit to fall back to 20, got %d", reader.gotLimit)
	}
}

func TestHandleStatsReportsClientsAndInstruments(t *testing.T) {
	reader := &stubReader{total: 42}
	mux := newTestMarketDataServer(reader)
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out statsResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Clients != 3 || out.Instruments != 7 || out.TotalTicks != 42 {
		t.Fatalf("unexpected stats response: %+v", out)
	}
}
