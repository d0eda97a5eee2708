package trading

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderService is the transactional core: the unit-of-work orchestrator
// that validates, matches, mutates account/position state, persists the
// order record, and publishes an execution event, all within a single
// transactional scope (spec §4.9).
type OrderService struct {
	Books  BookSource
	Runner UnitOfWorkRunner
	Now    func() time.Time
}

// NewOrderService constructs an OrderService with the real wall clock.
func NewOrderService(books BookSource, runner UnitOfWorkRunner) *OrderService {
	return &OrderService{Books: books, Runner: runner, Now: time.Now}
}

// Submit runs the full order lifecycle for req and returns the resulting
// order record. Domain rejections (ErrValidation, ErrInsufficientBalance,
// ErrInsufficientPosition, ErrInstrumentNotFound) are returned with no
// partial persistence; infrastructure errors abort the unit of work and
// roll back all writes (spec §4.9 Failure semantics).
func (s *OrderService) Submit(ctx context.Context, req OrderRequest) (Order, error) {
	if err := req.Validate(); err != nil {
		return Order{}, err
	}

	book, err := s.Books.GetOrderBook(ctx, req.InstrumentID)
	if err != nil {
		return Order{}, err
	}

	var result Order
	err = s.Runner.RunInTransaction(ctx, func(ctx context.Context, uow UnitOfWork) error {
		out, txErr := s.submitWithinTransaction(ctx, uow, req, book)
		if txErr != nil {
			return txErr
		}
		result = out
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return result, nil
}

func (s *OrderService) submitWithinTransaction(ctx context.Context, uow UnitOfWork, req OrderRequest, book ListedInstrumentBook) (Order, error) {
	now := s.Now()

	// 1. Account must exist.
	account, err := uow.Accounts().Get(ctx, req.UserID)
	if err != nil {
		return Order{}, err
	}
	if account == nil {
		return Order{}, NewAccountNotFoundError(req.UserID)
	}

	// 2. Existing position (may be nil).
	existingPosition, err := uow.Positions().Get(ctx, req.UserID, req.InstrumentID)
	if err != nil {
		return Order{}, err
	}
	priorQty := int64(0)
	priorAvg := 0.0
	if existingPosition != nil {
		priorQty = existingPosition.Quantity
		priorAvg = existingPosition.AveragePrice
	}

	// 3. SELL requires sufficient position.
	if req.Side == Sell && priorQty < req.Quantity {
		return Order{}, NewInsufficientPositionError("insufficient position for SELL")
	}

	// 4. Match against the snapshot.
	fills, residual := Match(req, book)
	filled := FilledQuantity(fills)
	consideration := Consideration(fills)

	// 5. BUY requires sufficient cash.
	if req.Side == Buy {
		balance, _ := account.CashBalance.Float64()
		if consideration > balance+1e-9 {
			return Order{}, NewInsufficientBalanceError("insufficient balance for BUY")
		}
	}

	// 6. Compute new cash balance.
	delta := decimal.NewFromFloat(consideration)
	switch {
	case req.Side == Buy:
		account.CashBalance = account.CashBalance.Sub(delta)
	case req.Side == Sell:
		account.CashBalance = account.CashBalance.Add(delta)
	}
	account.UpdatedAt = now

	// 7. Update position if anything filled.
	var newPosition *Position
	if filled > 0 {
		switch req.Side {
		case Buy:
			newQty := priorQty + filled
			denom := newQty
			if denom < 1 {
				denom = 1
			}
			newAvg := (float64(priorQty)*priorAvg + consideration) / float64(denom)
			newPosition = &Position{
				UserID:       req.UserID,
				InstrumentID: req.InstrumentID,
				Quantity:     newQty,
				AveragePrice: newAvg,
				UpdatedAt:    now,
			}
		case Sell:
			newQty := priorQty - filled
			// Weighted-average cost is preserved on SELL even when newQty
			// reaches zero; this is retained source behavior, not reset.
			newPosition = &Position{
				UserID:       req.UserID,
				InstrumentID: req.InstrumentID,
				Quantity:     newQty,
				AveragePrice: priorAvg,
				UpdatedAt:    now,
			}
		}
	}

	// 8. Persist account, and position if filled > 0.
	if err := uow.Accounts().Update(ctx, account); err != nil {
		return Order{}, err
	}
	if newPosition != nil {
		if err := uow.Positions().Upsert(ctx, newPosition); err != nil {
			return Order{}, err
		}
	}

	// 9. Derive average_price and status.
	var averagePrice *float64
	if filled > 0 {
		avg := consideration / float64(filled)
		averagePrice = &avg
	}
	status := New
	switch {
	case filled == 0:
		status = New
	case residual == 0:
		status = Filled
	default:
		status = PartiallyFilled
	}

	order := Order{
		OrderID:        NewOrderID(),
		UserID:         req.UserID,
		InstrumentID:   req.InstrumentID,
		Side:           req.Side,
		OrderType:      req.OrderType,
		Quantity:       req.Quantity,
		FilledQuantity: filled,
		LimitPrice:     req.LimitPrice,
		AveragePrice:   averagePrice,
		Status:         status,
		TimeInForce:    req.TimeInForce,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 10. Persist order record.
	if err := uow.Orders().Upsert(ctx, &order); err != nil {
		return Order{}, err
	}

	// 11. Publish execution event iff filled > 0.
	if filled > 0 {
		ev := ExecutionEvent{
			ExecutionID:  order.OrderID + "-exec",
			OrderID:      order.OrderID,
			UserID:       order.UserID,
			InstrumentID: order.InstrumentID,
			Side:         order.Side,
			Quantity:     filled,
			Price:        *averagePrice,
			Timestamp:    now,
		}
		if err := uow.Executions().Publish(ctx, ev); err != nil {
			return Order{}, err
		}
	}

	return order, nil
}
