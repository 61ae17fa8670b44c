package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateIdempotencyKey 幂等键唯一约束冲突
// 下单命令捕获后重读已存在的订单，保证重复提交是纯读操作
var ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

// OrderFilter 订单查询条件
type OrderFilter struct {
	AccountID string
	Symbol    string
	Status    OrderStatus
	Limit     int
	Offset    int
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 持久化新订单，幂等键冲突时返回 ErrDuplicateIdempotencyKey
	Create(ctx context.Context, order *Order) error
	// Get 按订单 ID 读取，不存在时返回 nil
	Get(ctx context.Context, orderID string) (*Order, error)
	// GetByIdempotencyKey 按幂等键读取，不存在时返回 nil
	GetByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	// List 按条件分页查询
	List(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)
	// UpdateVersioned 条件写：存储的版本号必须等于 expectedVersion，
	// 否则返回 ConcurrencyError；成功时版本号加一
	UpdateVersioned(ctx context.Context, order *Order, expectedVersion int64) error
	// ListOpenBySymbol 读取某标的全部未终态挂单（LIMIT/STOP 重估用）
	ListOpenBySymbol(ctx context.Context, symbol string) ([]*Order, error)
	// ListOpenDayOrders 读取指定时刻前创建的未终态 DAY 单（到期作废用）
	ListOpenDayOrders(ctx context.Context, before time.Time) ([]*Order, error)
}

// OrderEventRepository 订单事件仓储接口，只追加
type OrderEventRepository interface {
	// Append 追加生命周期事件
	Append(ctx context.Context, event *OrderEvent) error
	// ListByOrder 按时间顺序读取某订单的全部事件
	ListByOrder(ctx context.Context, orderID string) ([]*OrderEvent, error)
}
