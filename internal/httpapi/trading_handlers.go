package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/htfilia/tradingboard/internal/session"
	"github.com/htfilia/tradingboard/internal/trading"
)

// TradingServer exposes the order-submission endpoint of spec §6.
type TradingServer struct {
	orders   *trading.OrderService
	sessions session.Store
	cookie   string
}

// NewTradingServer wraps an OrderService behind session resolution.
func NewTradingServer(orders *trading.OrderService, sessions session.Store, cookieName string) *TradingServer {
	return &TradingServer{orders: orders, sessions: sessions, cookie: cookieName}
}

// Register attaches /orders to mux, guarded by session resolution.
func (s *TradingServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", RequireSession(s.sessions, s.cookie, s.handleSubmit))
}

type orderRequestJSON struct {
	InstrumentID string   `json:"instrument_id"`
	Side         string   `json:"side"`
	Quantity     int64    `json:"quantity"`
	OrderType    string   `json:"order_type"`
	LimitPrice   *float64 `json:"limit_price,omitempty"`
	TimeInForce  string   `json:"time_in_force,omitempty"`
}

type orderResponseJSON struct {
	OrderID        string   `json:"order_id"`
	InstrumentID   string   `json:"instrument_id"`
	Side           string   `json:"side"`
	Quantity       int64    `json:"quantity"`
	FilledQuantity int64    `json:"filled_quantity"`
	Status         string   `json:"status"`
	AveragePrice   *float64 `json:"average_price"`
}

// handleSubmit implements POST /orders: 201 OrderResponse, or 401/404/
// 400/422 per the error taxonomy (spec §7).
func (s *TradingServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var body orderRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed request body")
		return
	}

	req := trading.OrderRequest{
		UserID:       userID,
		InstrumentID: body.InstrumentID,
		Side:         trading.Side(body.Side),
		OrderType:    trading.OrderType(body.OrderType),
		Quantity:     body.Quantity,
		LimitPrice:   body.LimitPrice,
		TimeInForce:  body.TimeInForce,
	}

	order, err := s.orders.Submit(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, orderResponseJSON{
		OrderID:        order.OrderID,
		InstrumentID:   order.InstrumentID,
		Side:           string(order.Side),
		Quantity:       order.Quantity,
		FilledQuantity: order.FilledQuantity,
		Status:         string(order.Status),
		AveragePrice:   order.AveragePrice,
	})
}

// statusFor maps the trading error taxonomy (spec §7) onto one HTTP
// status per kind.
func statusFor(err error) int {
	switch {
	case errors.Is(err, trading.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, trading.ErrInstrumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, trading.ErrInsufficientBalance), errors.Is(err, trading.ErrInsufficientPosition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
