package application

import (
	"context"

	"github.com/loganrenz/trade-io-sub000/internal/order/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
)

// GetOrder 查询单个订单，不存在时返回 NotFoundError
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.getOrder(ctx, orderID)
}

// ListOrders 按条件分页查询订单
func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.orders.List(ctx, filter)
}

// OrderEvents 查询订单的生命周期事件，按时间顺序返回
func (s *OrderService) OrderEvents(ctx context.Context, orderID string) ([]*domain.OrderEvent, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &errs.NotFoundError{Entity: "order", ID: orderID}
	}
	return s.events.ListByOrder(ctx, orderID)
}
