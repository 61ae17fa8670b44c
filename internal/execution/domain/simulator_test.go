package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	marketdomain "github.com/loganrenz/trade-io-sub000/internal/marketdata/domain"
	orderdomain "github.com/loganrenz/trade-io-sub000/internal/order/domain"
)

func newSimulator() *Simulator {
	return NewSimulator(Config{
		SlippageRate:       decimal.NewFromFloat(0.001),
		CommissionPerTrade: decimal.NewFromInt(1),
	})
}

func quote(bid, ask float64) *marketdomain.Quote {
	return &marketdomain.Quote{
		Symbol:    "AAPL",
		Bid:       decimal.NewFromFloat(bid),
		Ask:       decimal.NewFromFloat(ask),
		UpdatedAt: time.Now(),
	}
}

func newOrder(side orderdomain.OrderSide, orderType orderdomain.OrderType, qty, limit, stop float64) *orderdomain.Order {
	return orderdomain.NewOrder("ORD-1", "ACC-1", "AAPL", side, orderType,
		decimal.NewFromFloat(qty), decimal.NewFromFloat(limit), decimal.NewFromFloat(stop),
		orderdomain.TimeInForceDay, "key-1")
}

func TestSimulateMarketBuyWithSlippage(t *testing.T) {
	sim := newSimulator()
	result := sim.Simulate(newOrder(orderdomain.OrderSideBuy, orderdomain.OrderTypeMarket, 10, 0, 0), quote(99.9, 100))

	if result.Outcome != OutcomeFilled {
		t.Fatalf("outcome = %s, want FILLED", result.Outcome)
	}
	// 100 * 1.001
	want := decimal.NewFromFloat(100.1)
	if !result.Price.Equal(want) {
		t.Fatalf("price = %s, want %s", result.Price, want)
	}
	if !result.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("quantity = %s, want 10", result.Quantity)
	}
}

func TestSimulateMarketSellWithSlippage(t *testing.T) {
	sim := newSimulator()
	result := sim.Simulate(newOrder(orderdomain.OrderSideSell, orderdomain.OrderTypeMarket, 10, 0, 0), quote(100, 100.1))

	if result.Outcome != OutcomeFilled {
		t.Fatalf("outcome = %s, want FILLED", result.Outcome)
	}
	// 100 * 0.999
	want := decimal.NewFromFloat(99.9)
	if !result.Price.Equal(want) {
		t.Fatalf("price = %s, want %s", result.Price, want)
	}
}

func TestSimulateMarketNoQuoteRejects(t *testing.T) {
	sim := newSimulator()

	tests := []struct {
		name string
		q    *marketdomain.Quote
	}{
		{"nil quote", nil},
		{"zero bid", quote(0, 100)},
		{"zero ask", quote(100, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sim.Simulate(newOrder(orderdomain.OrderSideBuy, orderdomain.OrderTypeMarket, 10, 0, 0), tt.q)
			if result.Outcome != OutcomeRejected {
				t.Fatalf("outcome = %s, want REJECTED", result.Outcome)
			}
			if result.Reason != ReasonNoMarketPrice {
				t.Fatalf("reason = %q, want %q", result.Reason, ReasonNoMarketPrice)
			}
		})
	}
}

func TestSimulateLimit(t *testing.T) {
	sim := newSimulator()

	tests := []struct {
		name    string
		side    orderdomain.OrderSide
		limit   float64
		q       *marketdomain.Quote
		outcome Outcome
		price   float64
	}{
		{"buy crosses when ask at limit", orderdomain.OrderSideBuy, 100, quote(99.9, 100), OutcomeFilled, 100},
		{"buy crosses when ask below limit", orderdomain.OrderSideBuy, 100, quote(98, 99), OutcomeFilled, 99},
		{"buy rests when ask above limit", orderdomain.OrderSideBuy, 100, quote(100, 100.5), OutcomeResting, 0},
		{"sell crosses when bid at limit", orderdomain.OrderSideSell, 100, quote(100, 100.1), OutcomeFilled, 100},
		{"sell rests when bid below limit", orderdomain.OrderSideSell, 100, quote(99.5, 100), OutcomeResting, 0},
		{"no quote rests", orderdomain.OrderSideBuy, 100, nil, OutcomeResting, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sim.Simulate(newOrder(tt.side, orderdomain.OrderTypeLimit, 10, tt.limit, 0), tt.q)
			if result.Outcome != tt.outcome {
				t.Fatalf("outcome = %s, want %s", result.Outcome, tt.outcome)
			}
			if tt.outcome == OutcomeFilled && !result.Price.Equal(decimal.NewFromFloat(tt.price)) {
				t.Fatalf("price = %s, want %v", result.Price, tt.price)
			}
		})
	}
}

func TestSimulateStop(t *testing.T) {
	sim := newSimulator()

	tests := []struct {
		name    string
		side    orderdomain.OrderSide
		stop    float64
		q       *marketdomain.Quote
		outcome Outcome
	}{
		{"buy stop triggers when ask rises to stop", orderdomain.OrderSideBuy, 100, quote(99.9, 100), OutcomeFilled},
		{"buy stop rests below trigger", orderdomain.OrderSideBuy, 100, quote(99, 99.5), OutcomeResting},
		{"sell stop triggers when bid falls to stop", orderdomain.OrderSideSell, 100, quote(100, 100.5), OutcomeFilled},
		{"sell stop rests above trigger", orderdomain.OrderSideSell, 100, quote(101, 101.5), OutcomeResting},
		{"no quote rests", orderdomain.OrderSideBuy, 100, nil, OutcomeResting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sim.Simulate(newOrder(tt.side, orderdomain.OrderTypeStop, 10, 0, tt.stop), tt.q)
			if result.Outcome != tt.outcome {
				t.Fatalf("outcome = %s, want %s", result.Outcome, tt.outcome)
			}
		})
	}
}

func TestSimulateStopLimit(t *testing.T) {
	sim := newSimulator()

	// 触发价 100，限价 101：卖一价升到 100 触发，但必须 <= 101 才成交
	order := newOrder(orderdomain.OrderSideBuy, orderdomain.OrderTypeStopLimit, 10, 101, 100)

	result := sim.Simulate(order, quote(100.4, 100.5))
	if result.Outcome != OutcomeFilled {
		t.Fatalf("outcome = %s, want FILLED on triggered stop-limit within limit", result.Outcome)
	}
	if !result.Price.Equal(decimal.NewFromFloat(100.5)) {
		t.Fatalf("price = %s, want 100.5", result.Price)
	}

	// 已触发但卖一价超出限价：挂单
	result = sim.Simulate(order, quote(101.5, 102))
	if result.Outcome != OutcomeResting {
		t.Fatalf("outcome = %s, want RESTING when limit is not met", result.Outcome)
	}

	// 未触发：挂单
	result = sim.Simulate(order, quote(99, 99.5))
	if result.Outcome != OutcomeResting {
		t.Fatalf("outcome = %s, want RESTING before trigger", result.Outcome)
	}
}

func TestCommission(t *testing.T) {
	sim := NewSimulator(Config{
		CommissionPerTrade: decimal.NewFromInt(1),
		CommissionPerShare: decimal.NewFromFloat(0.01),
	})

	got := sim.Commission(decimal.NewFromInt(100))
	if !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("commission = %s, want 2", got)
	}
}
