package application

import (
	"github.com/shopspring/decimal"

	"github.com/loganrenz/trade-io-sub000/internal/order/domain"
)

// PlaceOrderCommand 下单命令
type PlaceOrderCommand struct {
	AccountID   string             `json:"account_id"`
	Symbol      string             `json:"symbol"`
	Side        domain.OrderSide   `json:"side"`
	Type        domain.OrderType   `json:"type"`
	Quantity    decimal.Decimal    `json:"quantity"`
	LimitPrice  decimal.Decimal    `json:"limit_price"`
	StopPrice   decimal.Decimal    `json:"stop_price"`
	TimeInForce domain.TimeInForce `json:"time_in_force"`
	// 幂等键：同键重复提交返回首次创建的订单；为空时服务端生成
	IdempotencyKey string `json:"idempotency_key"`
}

// ModifyOrderCommand 改单命令
// 零值字段表示不修改；ExpectedVersion 为乐观锁版本
type ModifyOrderCommand struct {
	OrderID         string          `json:"order_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	LimitPrice      decimal.Decimal `json:"limit_price"`
	StopPrice       decimal.Decimal `json:"stop_price"`
	ExpectedVersion int64           `json:"expected_version"`
}

// CancelOrderCommand 撤单命令
type CancelOrderCommand struct {
	OrderID         string `json:"order_id"`
	ExpectedVersion int64  `json:"expected_version"`
	Reason          string `json:"reason"`
}
