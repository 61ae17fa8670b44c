// Package persistence 账户模块的 GORM 持久化实现
package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/loganrenz/trade-io-sub000/internal/account/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/db"
)

type accountRepository struct {
	database *gorm.DB
}

// NewAccountRepository 创建账户仓储
func NewAccountRepository(database *gorm.DB) domain.AccountRepository {
	return &accountRepository{database: database}
}

func (r *accountRepository) conn(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.database.WithContext(ctx)
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.conn(ctx).Create(account).Error
}

func (r *accountRepository) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.conn(ctx).Where("account_id = ?", accountID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.conn(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	return r.conn(ctx).Model(&domain.Account{}).
		Where("account_id = ?", accountID).
		Update("status", status).Error
}
