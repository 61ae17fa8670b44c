// Package application 持仓服务的应用层
package application

import (
	"context"
	"fmt"

	"github.com/loganrenz/trade-io-sub000/internal/position/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/logger"
	"github.com/shopspring/decimal"
)

// PositionService 持仓服务
// 持仓行是物化缓存，成交日志才是事实来源；
// 任何怀疑不一致的场景都可以用 Rebuild 从日志重算。
type PositionService struct {
	executions domain.ExecutionRepository
	positions  domain.PositionRepository
}

// NewPositionService 创建持仓服务
func NewPositionService(executions domain.ExecutionRepository, positions domain.PositionRepository) *PositionService {
	return &PositionService{executions: executions, positions: positions}
}

// RecordExecution 保存一笔成交并刷新持仓缓存
// 必须在调用方的事务内执行，与订单状态、账本分录同生共死；
// 返回本笔成交的影响（实现盈亏、消耗的成本基础）供账本分录使用
func (s *PositionService) RecordExecution(ctx context.Context, execution *domain.Execution) (*domain.Snapshot, domain.ExecutionEffect, error) {
	if err := s.executions.Save(ctx, execution); err != nil {
		return nil, domain.ExecutionEffect{}, fmt.Errorf("failed to save execution: %w", err)
	}

	history, err := s.executions.ListBySymbol(ctx, execution.AccountID, execution.Symbol)
	if err != nil {
		return nil, domain.ExecutionEffect{}, fmt.Errorf("failed to load execution history: %w", err)
	}

	snapshot, effect := domain.CalculateWithEffect(execution.Symbol, history)

	if err := s.storeSnapshot(ctx, execution.AccountID, snapshot); err != nil {
		return nil, domain.ExecutionEffect{}, err
	}

	return snapshot, effect, nil
}

// RebuildPosition 从成交日志重算并覆盖持仓缓存
// 重算是幂等的：并发重算最多浪费计算，不会破坏正确性
func (s *PositionService) RebuildPosition(ctx context.Context, accountID, symbol string) (*domain.Snapshot, error) {
	history, err := s.executions.ListBySymbol(ctx, accountID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load execution history: %w", err)
	}

	snapshot := domain.CalculatePosition(symbol, history)
	if err := s.storeSnapshot(ctx, accountID, snapshot); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Position rebuilt from execution log",
		"account_id", accountID,
		"symbol", symbol,
		"quantity", snapshot.Quantity,
	)
	return snapshot, nil
}

func (s *PositionService) storeSnapshot(ctx context.Context, accountID string, snapshot *domain.Snapshot) error {
	if snapshot.IsFlat() {
		if err := s.positions.Delete(ctx, accountID, snapshot.Symbol); err != nil {
			return fmt.Errorf("failed to delete flat position: %w", err)
		}
		return nil
	}

	position := &domain.Position{
		AccountID:   accountID,
		Symbol:      snapshot.Symbol,
		Quantity:    snapshot.Quantity,
		AverageCost: snapshot.AverageCost,
		RealizedPnL: snapshot.RealizedPnL,
	}
	if err := s.positions.Upsert(ctx, position); err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	return nil
}

// GetPosition 读取持仓缓存，不存在时返回 nil
func (s *PositionService) GetPosition(ctx context.Context, accountID, symbol string) (*domain.Position, error) {
	return s.positions.Get(ctx, accountID, symbol)
}

// HeldQuantity 当前持仓数量，无持仓时为零
func (s *PositionService) HeldQuantity(ctx context.Context, accountID, symbol string) (decimal.Decimal, error) {
	position, err := s.positions.Get(ctx, accountID, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if position == nil {
		return decimal.Zero, nil
	}
	return position.Quantity, nil
}

// ListPositions 读取某账户全部持仓
func (s *PositionService) ListPositions(ctx context.Context, accountID string) ([]*domain.Position, error) {
	return s.positions.ListByAccount(ctx, accountID)
}

// PositionHistory 读取某账户某标的的成交历史
func (s *PositionService) PositionHistory(ctx context.Context, accountID, symbol string) ([]*domain.Execution, error) {
	return s.executions.ListBySymbol(ctx, accountID, symbol)
}

// SecuritiesCostBasis 全部持仓的成本基础合计（多头）
func (s *PositionService) SecuritiesCostBasis(ctx context.Context, accountID string) (decimal.Decimal, error) {
	positions, err := s.positions.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.Quantity.Abs().Mul(p.AverageCost))
	}
	return total, nil
}
