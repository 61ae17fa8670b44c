package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Position 某账户在某标的上的当前持仓
// 派生状态：永远可以从该标的的成交历史重算得到，
// 持久化的行只是可失效的缓存，不是事实来源。
// 数量归零时删除，下次开仓时重建。
type Position struct {
	gorm.Model
	// 账户 ID
	AccountID string `gorm:"column:account_id;type:varchar(32);uniqueIndex:idx_account_symbol;not null" json:"account_id"`
	// 标的代码
	Symbol string `gorm:"column:symbol;type:varchar(20);uniqueIndex:idx_account_symbol;not null" json:"symbol"`
	// 带符号持仓数量，负数为空头
	Quantity decimal.Decimal `gorm:"column:quantity;type:decimal(20,8);not null" json:"quantity"`
	// 加权平均每股成本（已摊入佣金）
	AverageCost decimal.Decimal `gorm:"column:average_cost;type:decimal(20,8);not null" json:"average_cost"`
	// 累计已实现盈亏
	RealizedPnL decimal.Decimal `gorm:"column:realized_pnl;type:decimal(20,8);not null;default:0" json:"realized_pnl"`
}

// TableName 指定表名
func (Position) TableName() string {
	return "positions"
}

// PositionRepository 持仓缓存仓储接口
// upsert-or-delete 语义：有持仓即写入，数量归零即删除
type PositionRepository interface {
	// Upsert 写入或更新持仓
	Upsert(ctx context.Context, position *Position) error
	// Delete 删除持仓（数量归零）
	Delete(ctx context.Context, accountID, symbol string) error
	// Get 读取某账户某标的的持仓，不存在时返回 nil
	Get(ctx context.Context, accountID, symbol string) (*Position, error)
	// ListByAccount 读取某账户的全部持仓
	ListByAccount(ctx context.Context, accountID string) ([]*Position, error)
}

// MarketValue 按给定价格估算持仓市值
func (p *Position) MarketValue(price decimal.Decimal) decimal.Decimal {
	return p.Quantity.Mul(price)
}
