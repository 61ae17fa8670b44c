// Package persistence 订单模块的 GORM 持久化实现
package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/loganrenz/trade-io-sub000/internal/order/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/db"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
)

type orderRepository struct {
	database *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(database *gorm.DB) domain.OrderRepository {
	return &orderRepository{database: database}
}

func (r *orderRepository) conn(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.database.WithContext(ctx)
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.conn(ctx).Create(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateIdempotencyKey
	}
	return err
}

func (r *orderRepository) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).Where("idempotency_key = ?", key).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	query := r.conn(ctx).Model(&domain.Order{})
	if filter.AccountID != "" {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.Symbol != "" {
		query = query.Where("symbol = ?", filter.Symbol)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.Order
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateVersioned 乐观锁写回：版本号作为写入条件，
// 没有命中任何行说明版本已被他人推进，返回 ConcurrencyError
func (r *orderRepository) UpdateVersioned(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	result := r.conn(ctx).Model(&domain.Order{}).
		Where("order_id = ? AND version = ?", order.OrderID, expectedVersion).
		Updates(map[string]interface{}{
			"status":          order.Status,
			"quantity":        order.Quantity,
			"limit_price":     order.LimitPrice,
			"stop_price":      order.StopPrice,
			"filled_quantity": order.FilledQuantity,
			"avg_fill_price":  order.AvgFillPrice,
			"version":         expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &errs.ConcurrencyError{
			Entity:          "order",
			ID:              order.OrderID,
			ExpectedVersion: expectedVersion,
		}
	}
	order.Version = expectedVersion + 1
	return nil
}

var openStatuses = []domain.OrderStatus{
	domain.OrderStatusPending,
	domain.OrderStatusAccepted,
	domain.OrderStatusPartiallyFilled,
}

func (r *orderRepository) ListOpenBySymbol(ctx context.Context, symbol string) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.conn(ctx).
		Where("symbol = ? AND status IN ?", symbol, openStatuses).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListOpenDayOrders(ctx context.Context, before time.Time) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.conn(ctx).
		Where("time_in_force = ? AND status IN ? AND created_at < ?", domain.TimeInForceDay, openStatuses, before).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

type orderEventRepository struct {
	database *gorm.DB
}

// NewOrderEventRepository 创建订单事件仓储
func NewOrderEventRepository(database *gorm.DB) domain.OrderEventRepository {
	return &orderEventRepository{database: database}
}

func (r *orderEventRepository) conn(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.database.WithContext(ctx)
}

func (r *orderEventRepository) Append(ctx context.Context, event *domain.OrderEvent) error {
	return r.conn(ctx).Create(event).Error
}

func (r *orderEventRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.OrderEvent, error) {
	var events []*domain.OrderEvent
	err := r.conn(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
