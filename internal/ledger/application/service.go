// Package application 账本服务的应用层
package application

import (
	"context"
	"fmt"

	"github.com/loganrenz/trade-io-sub000/internal/ledger/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/loganrenz/trade-io-sub000/pkg/idgen"
	"github.com/loganrenz/trade-io-sub000/pkg/logger"
	"github.com/shopspring/decimal"
)

// Transactor 事务边界抽象，生产实现为 *db.DB
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// LedgerService 账本服务
// RecordTransaction 是余额的唯一变更入口
type LedgerService struct {
	repo domain.LedgerRepository
	tx   Transactor
}

// NewLedgerService 创建账本服务
func NewLedgerService(repo domain.LedgerRepository, tx Transactor) *LedgerService {
	return &LedgerService{repo: repo, tx: tx}
}

// InitializeChartOfAccounts 初始化账户的标准子账户并记入初始资金
// 幂等：子账户已存在时不做任何事
func (s *LedgerService) InitializeChartOfAccounts(ctx context.Context, accountID string, initialCash decimal.Decimal) error {
	if initialCash.IsNegative() {
		return errs.NewValidation("initial_cash", "initial cash must not be negative")
	}

	existing, err := s.repo.ListAccounts(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to list ledger accounts: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	return s.tx.Transact(ctx, func(txCtx context.Context) error {
		accounts := make([]*domain.LedgerAccount, 0, len(domain.ChartOfAccounts))
		for sub, category := range domain.ChartOfAccounts {
			accounts = append(accounts, &domain.LedgerAccount{
				AccountID:  accountID,
				SubAccount: sub,
				Category:   category,
				Balance:    decimal.Zero,
			})
		}
		if err := s.repo.CreateAccounts(txCtx, accounts); err != nil {
			return fmt.Errorf("failed to create chart of accounts: %w", err)
		}

		if initialCash.IsPositive() {
			lines := domain.BuildDepositPostings(initialCash, accountID)
			if _, err := s.recordLocked(txCtx, accountID, lines); err != nil {
				return err
			}
		}

		logger.Info(txCtx, "Chart of accounts initialized",
			"account_id", accountID,
			"initial_cash", initialCash,
		)
		return nil
	})
}

// RecordTransaction 记录一笔平衡交易并原子地更新余额
// 校验失败整笔拒绝，绝不部分生效
func (s *LedgerService) RecordTransaction(ctx context.Context, accountID string, lines []domain.EntryLine) (string, error) {
	var transactionID string
	err := s.tx.Transact(ctx, func(txCtx context.Context) error {
		var err error
		transactionID, err = s.recordLocked(txCtx, accountID, lines)
		return err
	})
	return transactionID, err
}

// RecordTransactionInTx 在调用方已开启的事务内记账
// 用于成交回报等需要与其他写入同生共死的场景
func (s *LedgerService) RecordTransactionInTx(txCtx context.Context, accountID string, lines []domain.EntryLine) (string, error) {
	return s.recordLocked(txCtx, accountID, lines)
}

func (s *LedgerService) recordLocked(ctx context.Context, accountID string, lines []domain.EntryLine) (string, error) {
	if err := domain.ValidateBalanced(lines); err != nil {
		return "", err
	}

	transactionID := idgen.NewTransactionID()
	entries := make([]*domain.LedgerEntry, 0, len(lines))

	for _, line := range lines {
		account, err := s.repo.GetAccount(ctx, accountID, line.SubAccount)
		if err != nil {
			return "", fmt.Errorf("failed to load ledger account: %w", err)
		}
		if account == nil {
			return "", &errs.NotFoundError{Entity: "ledger account", ID: accountID + "/" + string(line.SubAccount)}
		}

		newBalance := account.Balance.Add(domain.ApplyDelta(account.Category, line.Direction, line.Amount))
		if err := s.repo.UpdateBalance(ctx, accountID, line.SubAccount, newBalance); err != nil {
			return "", fmt.Errorf("failed to update balance: %w", err)
		}

		entries = append(entries, &domain.LedgerEntry{
			EntryID:       idgen.NewEventID(),
			TransactionID: transactionID,
			AccountID:     accountID,
			SubAccount:    line.SubAccount,
			Direction:     line.Direction,
			Amount:        line.Amount,
			ReferenceType: line.ReferenceType,
			ReferenceID:   line.ReferenceID,
		})
	}

	if err := s.repo.AppendEntries(ctx, entries); err != nil {
		return "", fmt.Errorf("failed to append ledger entries: %w", err)
	}

	return transactionID, nil
}

// GetBalance 读取某子账户余额
func (s *LedgerService) GetBalance(ctx context.Context, accountID string, sub domain.SubAccountType) (decimal.Decimal, error) {
	account, err := s.repo.GetAccount(ctx, accountID, sub)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load ledger account: %w", err)
	}
	if account == nil {
		return decimal.Zero, &errs.NotFoundError{Entity: "ledger account", ID: accountID + "/" + string(sub)}
	}
	return account.Balance, nil
}

// ListEntries 分页读取分录历史
func (s *LedgerService) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, int64, error) {
	return s.repo.ListEntries(ctx, accountID, limit, offset)
}

// VerifyIntegrity 按当前余额重算会计恒等式
// Cash + Securities = InitialCapital + RealizedGains - RealizedLosses - Commission - Fees
func (s *LedgerService) VerifyIntegrity(ctx context.Context, accountID string) (*domain.IntegrityReport, error) {
	accounts, err := s.repo.ListAccounts(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, &errs.NotFoundError{Entity: "ledger", ID: accountID}
	}

	balances := make(map[domain.SubAccountType]decimal.Decimal, len(accounts))
	for _, account := range accounts {
		balances[account.SubAccount] = account.Balance
	}

	assets := balances[domain.SubAccountCash].Add(balances[domain.SubAccountSecurities])
	equity := balances[domain.SubAccountInitialCapital].
		Add(balances[domain.SubAccountRealizedGains]).
		Sub(balances[domain.SubAccountRealizedLosses]).
		Sub(balances[domain.SubAccountCommission]).
		Sub(balances[domain.SubAccountFees])

	diff := assets.Sub(equity)
	report := &domain.IntegrityReport{
		Valid:      diff.IsZero(),
		Assets:     assets,
		Equity:     equity,
		Difference: diff,
	}

	if !report.Valid {
		logger.Error(ctx, "Accounting equation violated",
			"account_id", accountID,
			"assets", assets,
			"equity", equity,
			"difference", diff,
		)
	}

	return report, nil
}
