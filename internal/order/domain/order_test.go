package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testOrder(orderType OrderType, limit, stop float64, tif TimeInForce) *Order {
	return NewOrder("ORD-1", "ACC-1", "AAPL", OrderSideBuy, orderType,
		decimal.NewFromInt(10), decimal.NewFromFloat(limit), decimal.NewFromFloat(stop), tif, "key-1")
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Order)
		wantErr bool
	}{
		{"valid market day", func(o *Order) {}, false},
		{"zero quantity", func(o *Order) { o.Quantity = decimal.Zero }, true},
		{"negative quantity", func(o *Order) { o.Quantity = decimal.NewFromInt(-5) }, true},
		{"fractional quantity", func(o *Order) { o.Quantity = decimal.NewFromFloat(1.5) }, true},
		{"bad side", func(o *Order) { o.Side = "HOLD" }, true},
		{"bad type", func(o *Order) { o.Type = "TRAILING" }, true},
		{"bad tif", func(o *Order) { o.TimeInForce = "GTD" }, true},
		{"market with limit price", func(o *Order) { o.LimitPrice = decimal.NewFromInt(10) }, true},
		{"market with stop price", func(o *Order) { o.StopPrice = decimal.NewFromInt(10) }, true},
		{"market gtc", func(o *Order) { o.TimeInForce = TimeInForceGTC }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder(OrderTypeMarket, 0, 0, TimeInForceDay)
			tt.mutate(order)
			err := order.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderValidatePricePresence(t *testing.T) {
	tests := []struct {
		name      string
		orderType OrderType
		limit     float64
		stop      float64
		wantErr   bool
	}{
		{"limit requires limit price", OrderTypeLimit, 0, 0, true},
		{"limit with limit price", OrderTypeLimit, 100, 0, false},
		{"limit rejects stop price", OrderTypeLimit, 100, 90, true},
		{"stop requires stop price", OrderTypeStop, 0, 0, true},
		{"stop with stop price", OrderTypeStop, 0, 90, false},
		{"stop rejects limit price", OrderTypeStop, 100, 90, true},
		{"stop limit requires both", OrderTypeStopLimit, 100, 0, true},
		{"stop limit with both", OrderTypeStopLimit, 100, 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder(tt.orderType, tt.limit, tt.stop, TimeInForceGTC)
			err := order.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		wantErr bool
	}{
		{OrderStatusPending, OrderStatusAccepted, false},
		{OrderStatusPending, OrderStatusRejected, false},
		{OrderStatusAccepted, OrderStatusFilled, false},
		{OrderStatusAccepted, OrderStatusCancelled, false},
		{OrderStatusAccepted, OrderStatusExpired, false},
		{OrderStatusPartiallyFilled, OrderStatusFilled, false},
		{OrderStatusPartiallyFilled, OrderStatusCancelled, false},
		{OrderStatusFilled, OrderStatusCancelled, true},
		{OrderStatusCancelled, OrderStatusAccepted, true},
		{OrderStatusRejected, OrderStatusFilled, true},
		{OrderStatusExpired, OrderStatusAccepted, true},
		{OrderStatusAccepted, OrderStatusPending, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			order := testOrder(OrderTypeMarket, 0, 0, TimeInForceDay)
			order.Status = tt.from
			err := order.Transition(tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transition(%s -> %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
			if !tt.wantErr && order.Status != tt.to {
				t.Fatalf("status = %s after transition, want %s", order.Status, tt.to)
			}
			if tt.wantErr && order.Status != tt.from {
				t.Fatalf("status mutated on illegal transition: %s", order.Status)
			}
		})
	}
}

func TestOrderApplyFill(t *testing.T) {
	order := testOrder(OrderTypeMarket, 0, 0, TimeInForceDay)
	order.Status = OrderStatusAccepted

	if err := order.ApplyFill(decimal.NewFromInt(4), decimal.NewFromInt(100)); err != nil {
		t.Fatalf("partial fill failed: %v", err)
	}
	if order.Status != OrderStatusPartiallyFilled {
		t.Fatalf("status = %s, want PARTIALLY_FILLED", order.Status)
	}
	if !order.RemainingQuantity().Equal(decimal.NewFromInt(6)) {
		t.Fatalf("remaining = %s, want 6", order.RemainingQuantity())
	}

	if err := order.ApplyFill(decimal.NewFromInt(6), decimal.NewFromInt(110)); err != nil {
		t.Fatalf("final fill failed: %v", err)
	}
	if order.Status != OrderStatusFilled {
		t.Fatalf("status = %s, want FILLED", order.Status)
	}
	// (4*100 + 6*110) / 10 = 106
	if !order.AvgFillPrice.Equal(decimal.NewFromInt(106)) {
		t.Fatalf("avg fill price = %s, want 106", order.AvgFillPrice)
	}
}

func TestOrderApplyFillGuards(t *testing.T) {
	order := testOrder(OrderTypeMarket, 0, 0, TimeInForceDay)
	order.Status = OrderStatusAccepted

	if err := order.ApplyFill(decimal.Zero, decimal.NewFromInt(100)); err == nil {
		t.Fatal("expected error for zero fill quantity")
	}
	if err := order.ApplyFill(decimal.NewFromInt(11), decimal.NewFromInt(100)); err == nil {
		t.Fatal("expected error for fill exceeding remaining quantity")
	}
}

func TestTerminalImmutability(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected, OrderStatusExpired} {
		order := testOrder(OrderTypeMarket, 0, 0, TimeInForceDay)
		order.Status = status

		if order.CanBeCancelled() {
			t.Fatalf("%s order must not be cancellable", status)
		}
		if err := order.Transition(OrderStatusAccepted); err == nil {
			t.Fatalf("%s order must not transition", status)
		}
	}
}
