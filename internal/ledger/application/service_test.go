package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/loganrenz/trade-io-sub000/internal/ledger/domain"
)

// fakeLedgerRepo 内存账本仓储
type fakeLedgerRepo struct {
	accounts map[string]*domain.LedgerAccount // accountID/sub -> account
	entries  []*domain.LedgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{accounts: make(map[string]*domain.LedgerAccount)}
}

func key(accountID string, sub domain.SubAccountType) string {
	return accountID + "/" + string(sub)
}

func (f *fakeLedgerRepo) CreateAccounts(_ context.Context, accounts []*domain.LedgerAccount) error {
	for _, a := range accounts {
		f.accounts[key(a.AccountID, a.SubAccount)] = a
	}
	return nil
}

func (f *fakeLedgerRepo) GetAccount(_ context.Context, accountID string, sub domain.SubAccountType) (*domain.LedgerAccount, error) {
	return f.accounts[key(accountID, sub)], nil
}

func (f *fakeLedgerRepo) ListAccounts(_ context.Context, accountID string) ([]*domain.LedgerAccount, error) {
	var out []*domain.LedgerAccount
	for _, a := range f.accounts {
		if a.AccountID == accountID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) UpdateBalance(_ context.Context, accountID string, sub domain.SubAccountType, balance decimal.Decimal) error {
	f.accounts[key(accountID, sub)].Balance = balance
	return nil
}

func (f *fakeLedgerRepo) AppendEntries(_ context.Context, entries []*domain.LedgerEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeLedgerRepo) ListEntries(_ context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, int64, error) {
	var out []*domain.LedgerEntry
	for _, e := range f.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

// nopTx 测试用事务边界，直接执行回调
type nopTx struct{}

func (nopTx) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*LedgerService, *fakeLedgerRepo) {
	repo := newFakeLedgerRepo()
	return NewLedgerService(repo, nopTx{}), repo
}

func TestInitializeChartOfAccounts(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if err := svc.InitializeChartOfAccounts(ctx, "ACC-1", decimal.NewFromInt(10000)); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if len(repo.accounts) != len(domain.ChartOfAccounts) {
		t.Fatalf("created %d sub-accounts, want %d", len(repo.accounts), len(domain.ChartOfAccounts))
	}

	cash, err := svc.GetBalance(ctx, "ACC-1", domain.SubAccountCash)
	if err != nil {
		t.Fatalf("get cash balance: %v", err)
	}
	if !cash.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("cash = %s, want 10000", cash)
	}

	capital, _ := svc.GetBalance(ctx, "ACC-1", domain.SubAccountInitialCapital)
	if !capital.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("initial capital = %s, want 10000", capital)
	}
}

func TestInitializeChartOfAccountsIdempotent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if err := svc.InitializeChartOfAccounts(ctx, "ACC-1", decimal.NewFromInt(5000)); err != nil {
		t.Fatalf("first initialize failed: %v", err)
	}
	if err := svc.InitializeChartOfAccounts(ctx, "ACC-1", decimal.NewFromInt(5000)); err != nil {
		t.Fatalf("second initialize failed: %v", err)
	}

	cash, _ := svc.GetBalance(ctx, "ACC-1", domain.SubAccountCash)
	if !cash.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("cash = %s after repeated init, want 5000", cash)
	}
	if got := len(repo.entries); got != 2 {
		t.Fatalf("entry count = %d after repeated init, want 2", got)
	}
}

func TestRecordTransactionRejectsUnbalanced(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if err := svc.InitializeChartOfAccounts(ctx, "ACC-1", decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	entriesBefore := len(repo.entries)

	_, err := svc.RecordTransaction(ctx, "ACC-1", []domain.EntryLine{
		{SubAccount: domain.SubAccountCash, Direction: domain.DirectionDebit, Amount: decimal.NewFromInt(100)},
		{SubAccount: domain.SubAccountInitialCapital, Direction: domain.DirectionCredit, Amount: decimal.NewFromInt(90)},
	})
	if err == nil {
		t.Fatal("expected unbalanced transaction to be rejected")
	}
	if len(repo.entries) != entriesBefore {
		t.Fatal("rejected transaction must not append entries")
	}
}

func TestIntegrityAfterTradeRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.InitializeChartOfAccounts(ctx, "ACC-1", decimal.NewFromInt(10000)); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	// 买入 100 股 @10，佣金 1
	buy := domain.BuildTradePostings(true, decimal.NewFromInt(1000), decimal.NewFromInt(1), decimal.Zero, "EXE-1")
	if _, err := svc.RecordTransaction(ctx, "ACC-1", buy); err != nil {
		t.Fatalf("record buy: %v", err)
	}

	// 卖出 100 股 @12，佣金 1，消耗摊佣后成本基础 1001
	sell := domain.BuildTradePostings(false, decimal.NewFromInt(1200), decimal.NewFromInt(1), decimal.NewFromInt(1001), "EXE-2")
	if _, err := svc.RecordTransaction(ctx, "ACC-1", sell); err != nil {
		t.Fatalf("record sell: %v", err)
	}

	report, err := svc.VerifyIntegrity(ctx, "ACC-1")
	if err != nil {
		t.Fatalf("verify integrity: %v", err)
	}
	if !report.Valid {
		t.Fatalf("accounting equation violated: assets %s, equity %s, diff %s",
			report.Assets, report.Equity, report.Difference)
	}

	cash, _ := svc.GetBalance(ctx, "ACC-1", domain.SubAccountCash)
	// 10000 - 1000 - 1 + 1200 - 1 = 10198
	if !cash.Equal(decimal.NewFromInt(10198)) {
		t.Fatalf("cash = %s, want 10198", cash)
	}
}

func TestGetBalanceUnknownAccount(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetBalance(context.Background(), "ACC-MISSING", domain.SubAccountCash)
	if err == nil {
		t.Fatal("expected error for unknown ledger account")
	}
}
