// Package trading implements the order lifecycle engine: the stateless
// matching engine and the transactional order-service unit of work that
// mutates account/position state and emits execution events.
package trading

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// OrderType distinguishes market orders from limit orders.
type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

// Status is the lifecycle state of an order.
type Status string

const (
	New             Status = "NEW"
	PartiallyFilled Status = "PARTIALLY_FILLED"
	Filled          Status = "FILLED"
	Cancelled       Status = "CANCELLED"
)

// Level is a single price/quantity rung of a book snapshot, independent of
// the market-data event wire format.
type Level struct {
	Price    float64
	Quantity float64
}

// ListedInstrumentBook is the immutable book snapshot matching crosses
// against (spec §4.8). Bids are sorted strictly descending, asks strictly
// ascending.
type ListedInstrumentBook struct {
	InstrumentID string
	Bids         []Level
	Asks         []Level
}

// OrderRequest is the caller's intent; user_id always comes from the
// resolved session, never from the request body.
type OrderRequest struct {
	UserID       string
	InstrumentID string
	Side         Side
	OrderType    OrderType
	Quantity     int64
	LimitPrice   *float64
	TimeInForce  string
}

// Validate rejects malformed requests (spec §7 Validation kind).
func (r OrderRequest) Validate() error {
	if r.Quantity <= 0 {
		return NewValidationError("quantity must be > 0")
	}
	if r.Side != Buy && r.Side != Sell {
		return NewValidationError("side must be BUY or SELL")
	}
	if r.OrderType != Market && r.OrderType != Limit {
		return NewValidationError("order_type must be MARKET or LIMIT")
	}
	if r.OrderType == Limit {
		if r.LimitPrice == nil || *r.LimitPrice <= 0 {
			return NewValidationError("limit_price is required and must be > 0 for LIMIT orders")
		}
	}
	return nil
}

// Fill is one matched quantity at one price level.
type Fill struct {
	Price    float64
	Quantity int64
}

// Account is the 1:1 cash account for a user. CashBalance uses
// shopspring/decimal per spec §3's explicit "(decimal, base-currency
// units)" call-out; every other monetary/price field in this package
// stays float64 to match the matching engine's book-snapshot arithmetic.
type Account struct {
	UserID        string
	CashBalance   decimal.Decimal
	BaseCurrency  string
	MarginAllowed bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Position is the (user_id, instrument_id) holding.
type Position struct {
	UserID       string
	InstrumentID string
	Quantity     int64
	AveragePrice float64
	UpdatedAt    time.Time
}

// Order is the persisted order record.
type Order struct {
	OrderID        string
	UserID         string
	InstrumentID   string
	Side           Side
	OrderType      OrderType
	Quantity       int64
	FilledQuantity int64
	LimitPrice     *float64
	AveragePrice   *float64
	Status         Status
	TimeInForce    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExecutionEvent is emitted once per order (not per fill) when filled > 0.
type ExecutionEvent struct {
	ExecutionID  string
	OrderID      string
	UserID       string
	InstrumentID string
	Side         Side
	Quantity     int64
	Price        float64
	Timestamp    time.Time
}
