// Package domain 账户服务的领域模型
package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountStatus 账户状态
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

// Account 交易账户实体
// 创建一次，状态由管理端流转，只软退役不删除
type Account struct {
	gorm.Model
	// 账户 ID（业务主键）
	AccountID string `gorm:"column:account_id;type:varchar(32);uniqueIndex;not null" json:"account_id"`
	// 所属用户 ID
	UserID string `gorm:"column:user_id;type:varchar(32);index;not null" json:"user_id"`
	// 账户名称
	Name string `gorm:"column:name;type:varchar(64);not null" json:"name"`
	// 账户状态
	Status AccountStatus `gorm:"column:status;type:varchar(20);not null" json:"status"`
	// 初始资金
	InitialCash decimal.Decimal `gorm:"column:initial_cash;type:decimal(32,8);not null" json:"initial_cash"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}

// IsActive 账户是否可交易
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// AccountRepository 账户仓储接口
type AccountRepository interface {
	// Create 创建账户
	Create(ctx context.Context, account *Account) error
	// Get 按账户 ID 读取，不存在时返回 nil
	Get(ctx context.Context, accountID string) (*Account, error)
	// ListByUser 读取某用户的全部账户
	ListByUser(ctx context.Context, userID string) ([]*Account, error)
	// UpdateStatus 更新账户状态
	UpdateStatus(ctx context.Context, accountID string, status AccountStatus) error
}

// Summary 账户资金概览
type Summary struct {
	AccountID       string          `json:"account_id"`
	Cash            decimal.Decimal `json:"cash"`
	SecuritiesValue decimal.Decimal `json:"securities_value"`
	BuyingPower     decimal.Decimal `json:"buying_power"`
}
