// Package persistence 账本仓储的 GORM 实现
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/loganrenz/trade-io-sub000/internal/ledger/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ledgerRepository 账本仓储实现
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建账本仓储
func NewLedgerRepository(database *gorm.DB) domain.LedgerRepository {
	return &ledgerRepository{db: database}
}

// conn 解析当前连接：事务内使用事务句柄，否则使用连接池
func (r *ledgerRepository) conn(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// CreateAccounts 批量创建子账户
func (r *ledgerRepository) CreateAccounts(ctx context.Context, accounts []*domain.LedgerAccount) error {
	if err := r.conn(ctx).WithContext(ctx).Create(accounts).Error; err != nil {
		return fmt.Errorf("failed to create ledger accounts: %w", err)
	}
	return nil
}

// GetAccount 获取指定子账户
func (r *ledgerRepository) GetAccount(ctx context.Context, accountID string, sub domain.SubAccountType) (*domain.LedgerAccount, error) {
	var account domain.LedgerAccount
	err := r.conn(ctx).WithContext(ctx).
		Where("account_id = ? AND sub_account = ?", accountID, string(sub)).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger account: %w", err)
	}
	return &account, nil
}

// ListAccounts 获取某账户全部子账户
func (r *ledgerRepository) ListAccounts(ctx context.Context, accountID string) ([]*domain.LedgerAccount, error) {
	var accounts []*domain.LedgerAccount
	err := r.conn(ctx).WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger accounts: %w", err)
	}
	return accounts, nil
}

// UpdateBalance 覆盖写子账户余额
func (r *ledgerRepository) UpdateBalance(ctx context.Context, accountID string, sub domain.SubAccountType, balance decimal.Decimal) error {
	result := r.conn(ctx).WithContext(ctx).
		Model(&domain.LedgerAccount{}).
		Where("account_id = ? AND sub_account = ?", accountID, string(sub)).
		Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update ledger balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ledger account %s/%s does not exist", accountID, sub)
	}
	return nil
}

// AppendEntries 追加分录行
func (r *ledgerRepository) AppendEntries(ctx context.Context, entries []*domain.LedgerEntry) error {
	if err := r.conn(ctx).WithContext(ctx).Create(entries).Error; err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", err)
	}
	return nil
}

// ListEntries 分页读取分录历史
func (r *ledgerRepository) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, int64, error) {
	var entries []*domain.LedgerEntry
	var total int64

	query := r.conn(ctx).WithContext(ctx).Model(&domain.LedgerEntry{}).Where("account_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, total, nil
}
