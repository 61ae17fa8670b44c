// Package domain 账本服务的领域模型
// 复式记账：每笔业务事件拆为借贷两侧金额相等的分录集合，
// 余额只能由交易记录器变更，分录只追加不修改。
package domain

import (
	"context"

	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubAccountType 子账户类型
type SubAccountType string

const (
	SubAccountCash           SubAccountType = "CASH"
	SubAccountSecurities     SubAccountType = "SECURITIES"
	SubAccountInitialCapital SubAccountType = "INITIAL_CAPITAL"
	SubAccountCommission     SubAccountType = "COMMISSION"
	SubAccountFees           SubAccountType = "FEES"
	SubAccountRealizedGains  SubAccountType = "REALIZED_GAINS"
	SubAccountRealizedLosses SubAccountType = "REALIZED_LOSSES"
)

// AccountCategory 会计科目分类
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "ASSET"
	CategoryLiability AccountCategory = "LIABILITY"
	CategoryEquity    AccountCategory = "EQUITY"
	CategoryRevenue   AccountCategory = "REVENUE"
	CategoryExpense   AccountCategory = "EXPENSE"
)

// Direction 记账方向
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// ChartOfAccounts 标准子账户及其科目分类
var ChartOfAccounts = map[SubAccountType]AccountCategory{
	SubAccountCash:           CategoryAsset,
	SubAccountSecurities:     CategoryAsset,
	SubAccountInitialCapital: CategoryEquity,
	SubAccountCommission:     CategoryExpense,
	SubAccountFees:           CategoryExpense,
	SubAccountRealizedGains:  CategoryRevenue,
	SubAccountRealizedLosses: CategoryExpense,
}

// DebitIncreases 借方是否增加该科目余额
// 资产与费用类科目借增贷减，负债/权益/收入类相反
func (c AccountCategory) DebitIncreases() bool {
	return c == CategoryAsset || c == CategoryExpense
}

// LedgerAccount 子账户实体，每个交易账户按类型各一条
type LedgerAccount struct {
	gorm.Model
	// 交易账户 ID
	AccountID string `gorm:"column:account_id;type:varchar(32);uniqueIndex:idx_account_sub;not null" json:"account_id"`
	// 子账户类型
	SubAccount SubAccountType `gorm:"column:sub_account;type:varchar(20);uniqueIndex:idx_account_sub;not null" json:"sub_account"`
	// 科目分类
	Category AccountCategory `gorm:"column:category;type:varchar(10);not null" json:"category"`
	// 当前余额
	Balance decimal.Decimal `gorm:"column:balance;type:decimal(32,8);not null;default:0" json:"balance"`
}

// TableName 指定表名
func (LedgerAccount) TableName() string {
	return "ledger_accounts"
}

// LedgerEntry 账本分录，属于某笔交易的一条借方或贷方记录
// 只追加，提交后不更新不删除，更正通过新的冲销交易完成
type LedgerEntry struct {
	gorm.Model
	// 分录 ID（业务主键）
	EntryID string `gorm:"column:entry_id;type:varchar(32);uniqueIndex;not null" json:"entry_id"`
	// 交易 ID，同一交易的分录借贷必须平衡
	TransactionID string `gorm:"column:transaction_id;type:varchar(32);index;not null" json:"transaction_id"`
	// 交易账户 ID
	AccountID string `gorm:"column:account_id;type:varchar(32);index;not null" json:"account_id"`
	// 子账户类型
	SubAccount SubAccountType `gorm:"column:sub_account;type:varchar(20);not null" json:"sub_account"`
	// 记账方向
	Direction Direction `gorm:"column:direction;type:varchar(10);not null" json:"direction"`
	// 金额，严格为正
	Amount decimal.Decimal `gorm:"column:amount;type:decimal(32,8);not null" json:"amount"`
	// 业务事件类型（EXECUTION, DEPOSIT, ADJUSTMENT）
	ReferenceType string `gorm:"column:reference_type;type:varchar(20)" json:"reference_type"`
	// 业务事件 ID
	ReferenceID string `gorm:"column:reference_id;type:varchar(32);index" json:"reference_id"`
}

// TableName 指定表名
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// EntryLine 一条待记账的分录输入
type EntryLine struct {
	SubAccount    SubAccountType
	Direction     Direction
	Amount        decimal.Decimal
	ReferenceType string
	ReferenceID   string
}

// ValidateBalanced 校验分录集合：金额为正、科目合法、借贷平衡
func ValidateBalanced(lines []EntryLine) error {
	if len(lines) < 2 {
		return errs.NewValidation("entries", "a transaction requires at least two entries")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if !line.Amount.IsPositive() {
			return errs.NewValidation("amount", "entry amount must be strictly positive")
		}
		if _, ok := ChartOfAccounts[line.SubAccount]; !ok {
			return errs.NewValidation("sub_account", "unknown sub-account "+string(line.SubAccount))
		}
		switch line.Direction {
		case DirectionDebit:
			debits = debits.Add(line.Amount)
		case DirectionCredit:
			credits = credits.Add(line.Amount)
		default:
			return errs.NewValidation("direction", "direction must be DEBIT or CREDIT")
		}
	}

	if !debits.Equal(credits) {
		return errs.NewValidation("entries", "debits "+debits.String()+" do not equal credits "+credits.String())
	}
	return nil
}

// ApplyDelta 按科目规则计算方向对余额的增量
func ApplyDelta(category AccountCategory, direction Direction, amount decimal.Decimal) decimal.Decimal {
	increases := category.DebitIncreases() == (direction == DirectionDebit)
	if increases {
		return amount
	}
	return amount.Neg()
}

// IntegrityReport 会计恒等式校验结果
// Cash + Securities = InitialCapital + RealizedGains - RealizedLosses - Commission - Fees
type IntegrityReport struct {
	Valid      bool            `json:"valid"`
	Assets     decimal.Decimal `json:"assets"`
	Equity     decimal.Decimal `json:"equity"`
	Difference decimal.Decimal `json:"difference"`
}

// LedgerRepository 账本仓储接口
type LedgerRepository interface {
	// CreateAccounts 批量创建子账户
	CreateAccounts(ctx context.Context, accounts []*LedgerAccount) error
	// GetAccount 获取某账户的指定子账户
	GetAccount(ctx context.Context, accountID string, sub SubAccountType) (*LedgerAccount, error)
	// ListAccounts 获取某账户的全部子账户
	ListAccounts(ctx context.Context, accountID string) ([]*LedgerAccount, error)
	// UpdateBalance 覆盖写子账户余额（仅交易记录器在事务内调用）
	UpdateBalance(ctx context.Context, accountID string, sub SubAccountType, balance decimal.Decimal) error
	// AppendEntries 追加分录行
	AppendEntries(ctx context.Context, entries []*LedgerEntry) error
	// ListEntries 分页读取某账户的分录历史
	ListEntries(ctx context.Context, accountID string, limit, offset int) ([]*LedgerEntry, int64, error)
}
