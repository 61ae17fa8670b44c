// Package application 账户服务的应用层
package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/loganrenz/trade-io-sub000/internal/account/domain"
	ledgerdomain "github.com/loganrenz/trade-io-sub000/internal/ledger/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/loganrenz/trade-io-sub000/pkg/idgen"
	"github.com/loganrenz/trade-io-sub000/pkg/logger"
)

// Transactor 事务边界
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// ChartInitializer 开户时初始化账户的会计科目
type ChartInitializer interface {
	InitializeChartOfAccounts(ctx context.Context, accountID string, initialCash decimal.Decimal) error
	GetBalance(ctx context.Context, accountID string, subAccount ledgerdomain.SubAccountType) (decimal.Decimal, error)
}

// AccountService 账户应用服务
type AccountService struct {
	accounts domain.AccountRepository
	ledger   ChartInitializer
	tx       Transactor
}

// NewAccountService 创建账户应用服务
func NewAccountService(accounts domain.AccountRepository, ledger ChartInitializer, tx Transactor) *AccountService {
	return &AccountService{accounts: accounts, ledger: ledger, tx: tx}
}

// OpenAccount 开户：创建账户并初始化总账科目与首笔入金
func (s *AccountService) OpenAccount(ctx context.Context, userID, name string, initialCash decimal.Decimal) (*domain.Account, error) {
	if userID == "" {
		return nil, errs.NewValidation("user_id", "不能为空")
	}
	if name == "" {
		return nil, errs.NewValidation("name", "不能为空")
	}
	if initialCash.IsNegative() {
		return nil, errs.NewValidation("initial_cash", "不能为负数")
	}

	account := &domain.Account{
		AccountID:   idgen.NewAccountID(),
		UserID:      userID,
		Name:        name,
		Status:      domain.AccountStatusActive,
		InitialCash: initialCash,
	}

	err := s.tx.Transact(ctx, func(txCtx context.Context) error {
		if err := s.accounts.Create(txCtx, account); err != nil {
			return fmt.Errorf("创建账户失败: %w", err)
		}
		if err := s.ledger.InitializeChartOfAccounts(txCtx, account.AccountID, initialCash); err != nil {
			return fmt.Errorf("初始化会计科目失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "账户开户成功",
		"account_id", account.AccountID,
		"user_id", userID,
		"initial_cash", initialCash.String())
	return account, nil
}

// GetAccount 查询账户，不存在时返回 NotFoundError
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, &errs.NotFoundError{Entity: "account", ID: accountID}
	}
	return account, nil
}

// ListAccounts 查询某用户的全部账户
func (s *AccountService) ListAccounts(ctx context.Context, userID string) ([]*domain.Account, error) {
	return s.accounts.ListByUser(ctx, userID)
}

// SetStatus 更新账户状态，已关闭的账户不可再流转
func (s *AccountService) SetStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	switch status {
	case domain.AccountStatusActive, domain.AccountStatusSuspended, domain.AccountStatusClosed:
	default:
		return errs.NewValidation("status", "未知的账户状态")
	}

	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status == domain.AccountStatusClosed {
		return &errs.InvalidOrderError{Reason: "账户已关闭，状态不可再变更"}
	}
	if err := s.accounts.UpdateStatus(ctx, accountID, status); err != nil {
		return err
	}
	logger.Info(ctx, "账户状态更新", "account_id", accountID, "status", string(status))
	return nil
}

// GetSummary 账户资金概览：现金、持仓成本与购买力
func (s *AccountService) GetSummary(ctx context.Context, accountID string) (*domain.Summary, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	cash, err := s.ledger.GetBalance(ctx, accountID, ledgerdomain.SubAccountCash)
	if err != nil {
		return nil, err
	}
	securities, err := s.ledger.GetBalance(ctx, accountID, ledgerdomain.SubAccountSecurities)
	if err != nil {
		return nil, err
	}
	return &domain.Summary{
		AccountID:       accountID,
		Cash:            cash,
		SecuritiesValue: securities,
		BuyingPower:     cash,
	}, nil
}
