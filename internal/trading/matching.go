package trading

import "math"

// Match crosses req against book using price-priority. It is a pure,
// stateless function of (order, snapshot): no resting book is kept (spec
// §4.8, §1 Non-goals). BUY crosses against asks, SELL against bids;
// levels are iterated in their stored order (asks ascending, bids
// descending), which is the engine's full tie-break rule.
func Match(req OrderRequest, book ListedInstrumentBook) (fills []Fill, residual int64) {
	levels := book.Asks
	if req.Side == Sell {
		levels = book.Bids
	}

	remaining := req.Quantity

	for _, level := range levels {
		if remaining == 0 {
			break
		}
		if !levelAccepted(req, level) {
			continue
		}

		available := int64(math.Round(level.Quantity))
		if available <= 0 {
			continue
		}

		fillQty := available
		if remaining < fillQty {
			fillQty = remaining
		}

		fills = append(fills, Fill{Price: level.Price, Quantity: fillQty})
		remaining -= fillQty
	}

	return fills, remaining
}

func levelAccepted(req OrderRequest, level Level) bool {
	if req.OrderType == Market {
		return true
	}
	switch req.Side {
	case Buy:
		return level.Price <= *req.LimitPrice
	case Sell:
		return level.Price >= *req.LimitPrice
	default:
		return false
	}
}

// FilledQuantity sums fill quantities.
func FilledQuantity(fills []Fill) int64 {
	var total int64
	for _, f := range fills {
		total += f.Quantity
	}
	return total
}

// Consideration sums price*quantity across fills.
func Consideration(fills []Fill) float64 {
	var total float64
	for _, f := range fills {
		total += f.Price * float64(f.Quantity)
	}
	return total
}
