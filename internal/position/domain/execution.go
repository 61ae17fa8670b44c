// Package domain 持仓服务的领域模型
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Side 成交方向
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Execution 成交记录，不可变
// 每次成交事件恰好生成一条，只追加，是持仓的事实来源
type Execution struct {
	gorm.Model
	// 成交 ID（业务主键）
	ExecutionID string `gorm:"column:execution_id;type:varchar(32);uniqueIndex;not null" json:"execution_id"`
	// 订单 ID
	OrderID string `gorm:"column:order_id;type:varchar(32);index;not null" json:"order_id"`
	// 账户 ID
	AccountID string `gorm:"column:account_id;type:varchar(32);index:idx_account_symbol;not null" json:"account_id"`
	// 标的代码
	Symbol string `gorm:"column:symbol;type:varchar(20);index:idx_account_symbol;not null" json:"symbol"`
	// 成交方向
	Side Side `gorm:"column:side;type:varchar(10);not null" json:"side"`
	// 成交数量
	Quantity decimal.Decimal `gorm:"column:quantity;type:decimal(20,8);not null" json:"quantity"`
	// 成交价格
	Price decimal.Decimal `gorm:"column:price;type:decimal(20,8);not null" json:"price"`
	// 佣金
	Commission decimal.Decimal `gorm:"column:commission;type:decimal(20,8);not null;default:0" json:"commission"`
	// 成交时间
	ExecutedAt time.Time `gorm:"column:executed_at;index;not null" json:"executed_at"`
}

// TableName 指定表名
func (Execution) TableName() string {
	return "executions"
}

// GrossValue 成交额（不含佣金）
func (e *Execution) GrossValue() decimal.Decimal {
	return e.Price.Mul(e.Quantity)
}

// ExecutionRepository 成交仓储接口，只追加
type ExecutionRepository interface {
	// Save 保存成交记录
	Save(ctx context.Context, execution *Execution) error
	// ListBySymbol 按时间顺序读取某账户某标的的全部成交
	ListBySymbol(ctx context.Context, accountID, symbol string) ([]*Execution, error)
	// ListByAccount 分页读取某账户的成交历史
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*Execution, int64, error)
	// ListByOrder 读取某订单的全部成交
	ListByOrder(ctx context.Context, orderID string) ([]*Execution, error)
}
