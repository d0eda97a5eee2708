package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/htfilia/tradingboard/internal/session"
	"github.com/htfilia/tradingboard/internal/trading"
)

type fakeBookSource struct {
	book trading.ListedInstrumentBook
	err  error
}

func (f fakeBookSource) GetOrderBook(ctx context.Context, instrumentID string) (trading.ListedInstrumentBook, error) {
	if f.err != nil {
		return trading.ListedInstrumentBook{}, f.err
	}
	return f.book, nil
}

type memAccounts struct{ accounts map[string]*trading.Account }

func (m *memAccounts) Get(ctx context.Context, userID string) (*trading.Account, error) {
	a, ok := m.accounts[userID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}
func (m *memAccounts) Update(ctx context.Context, a *trading.Account) error {
	cp := *a
	m.accounts[a.UserID] = &cp
	return nil
}

type memPositions struct{ positions map[string]*trading.Position }

func (m *memPositions) Get(ctx context.Context, userID, instrumentID string) (*trading.Position, error) {
	p, ok := m.positions[userID+"|"+instrumentID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (m *memPositions) Upsert(ctx context.Context, p *trading.Position) error {
	cp := *p
	m.positions[p.UserID+"|"+p.InstrumentID] = &cp
	return nil
}

type memOrders struct{ orders []trading.Order }

func (m *memOrders) Upsert(ctx context.Context, o *trading.Order) error {
	m.orders = append(m.orders, *o)
	return nil
}

type memExecutions struct{ events []trading.ExecutionEvent }

func (m *memExecutions) Publish(ctx context.Context, ev trading.ExecutionEvent) error {
	m.events = append(m.events, ev)
	return nil
}

type memUOW struct {
	accounts   *memAccounts
	positions  *memPositions
	orders     *memOrders
	executions *memExecutions
}

func (u *memUOW) Accounts() trading.AccountRepository     { return u.accounts }
func (u *memUOW) Positions() trading.PositionRepository   { return u.positions }
func (u *memUOW) Orders() trading.OrderRepository         { return u.orders }
func (u *memUOW) Executions() trading.ExecutionPublisher  { return u.executions }

type memRunner struct{ uow *memUOW }

func (r *memRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context, uow trading.UnitOfWork) error) error {
	return fn(ctx, r.uow)
}

func newTestTradingServer(book trading.ListedInstrumentBook) (*TradingServer, *http.ServeMux, session.Store) {
	uow := &memUOW{
		accounts: &memAccounts{accounts: map[string]*trading.Account{
			"u1": {UserID: "u1", CashBalance: decimal.NewFromInt(1_000_000), BaseCurrency: "USD"},
		}},
		positions:  &memPositions{positions: map[string]*trading.Position{}},
		orders:     &memOrders{},
		executions: &memExecutions{},
	}
	runner := &memRunner{uow: uow}
	orders := trading.NewOrderService(fakeBookSource{book: book}, runner)

	sessions := session.NewMemoryStore()
	srv := NewTradingServer(orders, sessions, "tb_session")
	mux := http.NewServeMux()
	srv.Register(mux)
	return srv, mux, sessions
}

func TestSubmitOrderRequiresSession(t *testing.T) {
	_, mux, _ := newTestTradingServer(trading.ListedInstrumentBook{})
	w := postJSON(mux, "/orders", map[string]any{"instrument_id": "X", "side": "BUY", "order_type": "MARKET", "quantity": 1})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSubmitOrderSucceedsWithSession(t *testing.T) {
	book := trading.ListedInstrumentBook{Asks: []trading.Level{{Price: 10, Quantity: 100}}}
	_, mux, sessions := newTestTradingServer(book)
	sess, _ := sessions.Issue(context.Background(), "u1", time.Hour)

	body, _ := json.Marshal(map[string]any{
		"instrument_id": "X", "side": "BUY", "order_type": "MARKET", "quantity": 5,
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "tb_session", Value: sess.Token})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var out orderResponseJSON
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.FilledQuantity != 5 || out.Status != "FILLED" {
		t.Fatalf("unexpected order response: %+v", out)
	}
}

func TestSubmitOrderInvalidQuantityReturns422(t *testing.T) {
	_, mux, sessions := newTestTradingServer(trading.ListedInstrumentBook{})
	sess, _ := sessions.Issue(context.Background(), "u1", time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(`{"quantity":0}`)))
	req.AddCookie(&http.Cookie{Name: "tb_session", Value: sess.Token})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid quantity, got %d", w.Code)
	}
}
