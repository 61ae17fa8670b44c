// Package domain 订单服务的领域模型
package domain

import (
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusAccepted        OrderStatus = "ACCEPTED"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
)

// OrderSide 订单方向
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType 订单类型
type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStop      OrderType = "STOP"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

// TimeInForce 订单有效期
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "DAY"
	TimeInForceGTC TimeInForce = "GTC" // Good Till Cancel
	TimeInForceIOC TimeInForce = "IOC" // Immediate Or Cancel
	TimeInForceFOK TimeInForce = "FOK" // Fill Or Kill
)

// transitions 订单状态机：初态 PENDING，终态不再流转
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:         {OrderStatusAccepted, OrderStatusFilled, OrderStatusPartiallyFilled, OrderStatusCancelled, OrderStatusRejected, OrderStatusExpired},
	OrderStatusAccepted:        {OrderStatusPartiallyFilled, OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected, OrderStatusExpired},
	OrderStatusPartiallyFilled: {OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected, OrderStatusExpired},
}

// IsTerminal 是否终态
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected, OrderStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo 状态机合法性判断
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order 订单实体
// 只能通过状态机流转修改，进入终态后不可变
type Order struct {
	gorm.Model
	// 订单 ID（业务主键）
	OrderID string `gorm:"column:order_id;type:varchar(32);uniqueIndex;not null" json:"order_id"`
	// 账户 ID
	AccountID string `gorm:"column:account_id;type:varchar(32);index;not null" json:"account_id"`
	// 标的代码
	Symbol string `gorm:"column:symbol;type:varchar(20);index;not null" json:"symbol"`
	// 买卖方向
	Side OrderSide `gorm:"column:side;type:varchar(10);not null" json:"side"`
	// 订单类型
	Type OrderType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	// 委托数量（正整数）
	Quantity decimal.Decimal `gorm:"column:quantity;type:decimal(20,8);not null" json:"quantity"`
	// 限价（LIMIT/STOP_LIMIT 必填，其余必须为零）
	LimitPrice decimal.Decimal `gorm:"column:limit_price;type:decimal(20,8);not null;default:0" json:"limit_price"`
	// 止损触发价（STOP/STOP_LIMIT 必填，其余必须为零）
	StopPrice decimal.Decimal `gorm:"column:stop_price;type:decimal(20,8);not null;default:0" json:"stop_price"`
	// 有效期
	TimeInForce TimeInForce `gorm:"column:time_in_force;type:varchar(10);not null" json:"time_in_force"`
	// 订单状态
	Status OrderStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	// 已成交数量
	FilledQuantity decimal.Decimal `gorm:"column:filled_quantity;type:decimal(20,8);not null;default:0" json:"filled_quantity"`
	// 平均成交价
	AvgFillPrice decimal.Decimal `gorm:"column:avg_fill_price;type:decimal(20,8);not null;default:0" json:"avg_fill_price"`
	// 幂等键，全局唯一；同键的重复下单返回同一订单
	IdempotencyKey string `gorm:"column:idempotency_key;type:varchar(64);uniqueIndex;not null" json:"idempotency_key"`
	// 乐观锁版本号，单调递增
	Version int64 `gorm:"column:version;not null;default:1" json:"version"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// NewOrder 创建待处理订单
func NewOrder(orderID, accountID, symbol string, side OrderSide, orderType OrderType, quantity, limitPrice, stopPrice decimal.Decimal, tif TimeInForce, idempotencyKey string) *Order {
	return &Order{
		OrderID:        orderID,
		AccountID:      accountID,
		Symbol:         symbol,
		Side:           side,
		Type:           orderType,
		Quantity:       quantity,
		LimitPrice:     limitPrice,
		StopPrice:      stopPrice,
		TimeInForce:    tif,
		Status:         OrderStatusPending,
		FilledQuantity: decimal.Zero,
		AvgFillPrice:   decimal.Zero,
		IdempotencyKey: idempotencyKey,
		Version:        1,
	}
}

// Validate 校验订单参数的合法性与一致性
func (o *Order) Validate() error {
	switch o.Side {
	case OrderSideBuy, OrderSideSell:
	default:
		return errs.NewValidation("side", "side must be BUY or SELL")
	}

	if !o.Quantity.IsPositive() || !o.Quantity.IsInteger() {
		return errs.NewValidation("quantity", "quantity must be a positive integer")
	}

	switch o.TimeInForce {
	case TimeInForceDay, TimeInForceGTC, TimeInForceIOC, TimeInForceFOK:
	default:
		return errs.NewValidation("time_in_force", "unknown time in force")
	}

	switch o.Type {
	case OrderTypeMarket:
		if !o.LimitPrice.IsZero() {
			return errs.NewValidation("limit_price", "market orders must not carry a limit price")
		}
		if !o.StopPrice.IsZero() {
			return errs.NewValidation("stop_price", "market orders must not carry a stop price")
		}
		// 市价单不允许长期挂单
		if o.TimeInForce == TimeInForceGTC {
			return errs.NewValidation("time_in_force", "market orders cannot be GTC")
		}
	case OrderTypeLimit:
		if !o.LimitPrice.IsPositive() {
			return errs.NewValidation("limit_price", "limit orders require a positive limit price")
		}
		if !o.StopPrice.IsZero() {
			return errs.NewValidation("stop_price", "limit orders must not carry a stop price")
		}
	case OrderTypeStop:
		if !o.StopPrice.IsPositive() {
			return errs.NewValidation("stop_price", "stop orders require a positive stop price")
		}
		if !o.LimitPrice.IsZero() {
			return errs.NewValidation("limit_price", "stop orders must not carry a limit price")
		}
	case OrderTypeStopLimit:
		if !o.StopPrice.IsPositive() {
			return errs.NewValidation("stop_price", "stop-limit orders require a positive stop price")
		}
		if !o.LimitPrice.IsPositive() {
			return errs.NewValidation("limit_price", "stop-limit orders require a positive limit price")
		}
	default:
		return errs.NewValidation("type", "unknown order type")
	}

	return nil
}

// RemainingQuantity 剩余未成交数量
func (o *Order) RemainingQuantity() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// Transition 执行一次状态流转，非法流转返回 InvalidOrderError
func (o *Order) Transition(next OrderStatus) error {
	if o.Status.IsTerminal() {
		return &errs.InvalidOrderError{Reason: "order " + o.OrderID + " is already " + string(o.Status)}
	}
	if !o.Status.CanTransitionTo(next) {
		return &errs.InvalidOrderError{Reason: "illegal transition " + string(o.Status) + " -> " + string(next)}
	}
	o.Status = next
	return nil
}

// ApplyFill 应用一笔成交：更新已成交量与均价并流转状态
// 不变量：0 <= filled <= quantity；filled == quantity 时且仅在此时进入 FILLED
func (o *Order) ApplyFill(quantity, price decimal.Decimal) error {
	if !quantity.IsPositive() {
		return errs.NewValidation("quantity", "fill quantity must be positive")
	}
	if quantity.GreaterThan(o.RemainingQuantity()) {
		return &errs.InvalidOrderError{Reason: "fill exceeds remaining quantity of order " + o.OrderID}
	}

	filledValue := o.AvgFillPrice.Mul(o.FilledQuantity).Add(price.Mul(quantity))
	o.FilledQuantity = o.FilledQuantity.Add(quantity)
	o.AvgFillPrice = filledValue.Div(o.FilledQuantity)

	if o.FilledQuantity.Equal(o.Quantity) {
		return o.Transition(OrderStatusFilled)
	}
	return o.Transition(OrderStatusPartiallyFilled)
}

// CanBeCancelled 是否可取消
func (o *Order) CanBeCancelled() bool {
	return !o.Status.IsTerminal()
}
