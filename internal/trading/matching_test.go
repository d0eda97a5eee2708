package trading

import "testing"

func limitPrice(v float64) *float64 { return &v }

func TestMatchLimitBuyPartialFromDeeperLadder(t *testing.T) {
	book := ListedInstrumentBook{
		InstrumentID: "BOND1",
		Bids:         []Level{{99.5, 100}, {99.0, 200}},
		Asks:         []Level{{100.5, 150}, {101.0, 100}},
	}
	req := OrderRequest{
		Side:       Buy,
		OrderType:  Limit,
		Quantity:   180,
		LimitPrice: limitPrice(101.0),
	}

	fills, residual := Match(req, book)

	if residual != 0 {
		t.Fatalf("expected residual 0, got %d", residual)
	}
	want := []Fill{{100.5, 150}, {101.0, 30}}
	if len(fills) != len(want) {
		t.Fatalf("expected %d fills, got %d: %+v", len(want), len(fills), fills)
	}
	for i, f := range fills {
		if f != want[i] {
			t.Fatalf("fill %d: got %+v want %+v", i, f, want[i])
		}
	}

	filled := FilledQuantity(fills)
	consideration := Consideration(fills)
	avg := consideration / float64(filled)
	wantAvg := (150*100.5 + 30*101.0) / 180
	if avg != wantAvg {
		t.Fatalf("average price: got %v want %v", avg, wantAvg)
	}
}

func TestMatchQuantityConservation(t *testing.T) {
	book := ListedInstrumentBook{
		Asks: []Level{{10, 5}, {11, 5}, {12, 5}},
	}
	req := OrderRequest{Side: Buy, OrderType: Market, Quantity: 12}

	fills, residual := Match(req, book)
	filled := FilledQuantity(fills)
	if filled+residual != req.Quantity {
		t.Fatalf("conservation violated: filled=%d residual=%d quantity=%d", filled, residual, req.Quantity)
	}
}

func TestMatchRespectsLimitPricePredicate(t *testing.T) {
	book := ListedInstrumentBook{
		Asks: []Level{{10, 5}, {12, 5}, {15, 5}},
	}
	limit := 12.0
	req := OrderRequest{Side: Buy, OrderType: Limit, Quantity: 100, LimitPrice: &limit}

	fills, residual := Match(req, book)
	for _, f := range fills {
		if f.Price > limit {
			t.Fatalf("fill at %v exceeds limit %v", f.Price, limit)
		}
	}
	if residual != 90 { // only 10 shares available at or below limit
		t.Fatalf("expected residual 90, got %d", residual)
	}
}

func TestMatchNoLiquidityLeavesFullResidual(t *testing.T) {
	book := ListedInstrumentBook{}
	req := OrderRequest{Side: Buy, OrderType: Market, Quantity: 50}
	fills, residual := Match(req, book)
	if len(fills) != 0 || residual != 50 {
		t.Fatalf("expected no fills and full residual, got fills=%+v residual=%d", fills, residual)
	}
}
