// Package persistence 持仓与成交仓储的 GORM 实现
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/loganrenz/trade-io-sub000/internal/position/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// executionRepository 成交仓储实现
type executionRepository struct {
	db *gorm.DB
}

// NewExecutionRepository 创建成交仓储
func NewExecutionRepository(database *gorm.DB) domain.ExecutionRepository {
	return &executionRepository{db: database}
}

func (r *executionRepository) conn(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Save 保存成交记录
func (r *executionRepository) Save(ctx context.Context, execution *domain.Execution) error {
	if err := r.conn(ctx).WithContext(ctx).Create(execution).Error; err != nil {
		return fmt.Errorf("failed to save execution: %w", err)
	}
	return nil
}

// ListBySymbol 按时间顺序读取某账户某标的的全部成交
func (r *executionRepository) ListBySymbol(ctx context.Context, accountID, symbol string) ([]*domain.Execution, error) {
	var executions []*domain.Execution
	err := r.conn(ctx).WithContext(ctx).
		Where("account_id = ? AND symbol = ?", accountID, symbol).
		Order("executed_at ASC, id ASC").
		Find(&executions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return executions, nil
}

// ListByAccount 分页读取某账户的成交历史
func (r *executionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Execution, int64, error) {
	var executions []*domain.Execution
	var total int64

	query := r.conn(ctx).WithContext(ctx).Model(&domain.Execution{}).Where("account_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count executions: %w", err)
	}
	if err := query.Order("executed_at DESC, id DESC").Limit(limit).Offset(offset).Find(&executions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list executions: %w", err)
	}
	return executions, total, nil
}

// ListByOrder 读取某订单的全部成交
func (r *executionRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.Execution, error) {
	var executions []*domain.Execution
	err := r.conn(ctx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("executed_at ASC, id ASC").
		Find(&executions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list executions by order: %w", err)
	}
	return executions, nil
}

// positionRepository 持仓缓存仓储实现
type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository 创建持仓仓储
func NewPositionRepository(database *gorm.DB) domain.PositionRepository {
	return &positionRepository{db: database}
}

func (r *positionRepository) conn(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Upsert 写入或更新持仓
func (r *positionRepository) Upsert(ctx context.Context, position *domain.Position) error {
	err := r.conn(ctx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity", "average_cost", "realized_pnl", "updated_at",
		}),
	}).Create(position).Error
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	return nil
}

// Delete 删除持仓（数量归零）
func (r *positionRepository) Delete(ctx context.Context, accountID, symbol string) error {
	err := r.conn(ctx).WithContext(ctx).
		Where("account_id = ? AND symbol = ?", accountID, symbol).
		Delete(&domain.Position{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

// Get 读取持仓，不存在时返回 nil
func (r *positionRepository) Get(ctx context.Context, accountID, symbol string) (*domain.Position, error) {
	var position domain.Position
	err := r.conn(ctx).WithContext(ctx).
		Where("account_id = ? AND symbol = ?", accountID, symbol).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return &position, nil
}

// ListByAccount 读取某账户的全部持仓
func (r *positionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Position, error) {
	var positions []*domain.Position
	err := r.conn(ctx).WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("symbol ASC").
		Find(&positions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}
