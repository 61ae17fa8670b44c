package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateBalanced(t *testing.T) {
	tests := []struct {
		name    string
		lines   []EntryLine
		wantErr bool
	}{
		{
			name: "balanced deposit",
			lines: []EntryLine{
				{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: decimal.NewFromInt(1000)},
				{SubAccount: SubAccountInitialCapital, Direction: DirectionCredit, Amount: decimal.NewFromInt(1000)},
			},
		},
		{
			name: "unbalanced amounts",
			lines: []EntryLine{
				{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: decimal.NewFromInt(1000)},
				{SubAccount: SubAccountInitialCapital, Direction: DirectionCredit, Amount: decimal.NewFromInt(999)},
			},
			wantErr: true,
		},
		{
			name: "single entry",
			lines: []EntryLine{
				{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: decimal.NewFromInt(1000)},
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			lines: []EntryLine{
				{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: decimal.Zero},
				{SubAccount: SubAccountInitialCapital, Direction: DirectionCredit, Amount: decimal.Zero},
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			lines: []EntryLine{
				{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: decimal.NewFromInt(-5)},
				{SubAccount: SubAccountInitialCapital, Direction: DirectionCredit, Amount: decimal.NewFromInt(-5)},
			},
			wantErr: true,
		},
		{
			name: "unknown sub-account",
			lines: []EntryLine{
				{SubAccount: "MARGIN", Direction: DirectionDebit, Amount: decimal.NewFromInt(10)},
				{SubAccount: SubAccountCash, Direction: DirectionCredit, Amount: decimal.NewFromInt(10)},
			},
			wantErr: true,
		},
		{
			name: "bad direction",
			lines: []EntryLine{
				{SubAccount: SubAccountCash, Direction: "SIDEWAYS", Amount: decimal.NewFromInt(10)},
				{SubAccount: SubAccountInitialCapital, Direction: DirectionCredit, Amount: decimal.NewFromInt(10)},
			},
			wantErr: true,
		},
		{
			name: "multi-leg balanced sell",
			lines: []EntryLine{
				{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: decimal.NewFromInt(3500)},
				{SubAccount: SubAccountSecurities, Direction: DirectionCredit, Amount: decimal.NewFromInt(2500)},
				{SubAccount: SubAccountRealizedGains, Direction: DirectionCredit, Amount: decimal.NewFromInt(1000)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBalanced(tt.lines)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBalanced() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDelta(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name      string
		category  AccountCategory
		direction Direction
		want      string
	}{
		{"asset debit increases", CategoryAsset, DirectionDebit, "100"},
		{"asset credit decreases", CategoryAsset, DirectionCredit, "-100"},
		{"expense debit increases", CategoryExpense, DirectionDebit, "100"},
		{"equity credit increases", CategoryEquity, DirectionCredit, "100"},
		{"equity debit decreases", CategoryEquity, DirectionDebit, "-100"},
		{"revenue credit increases", CategoryRevenue, DirectionCredit, "100"},
		{"liability credit increases", CategoryLiability, DirectionCredit, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDelta(tt.category, tt.direction, amount)
			if got.String() != tt.want {
				t.Fatalf("ApplyDelta(%s, %s) = %s, want %s", tt.category, tt.direction, got, tt.want)
			}
		})
	}
}

func sumByDirection(lines []EntryLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range lines {
		if line.Direction == DirectionDebit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	return debits, credits
}

func TestBuildTradePostingsBuy(t *testing.T) {
	lines := BuildTradePostings(true, decimal.NewFromInt(1000), decimal.NewFromInt(1), decimal.Zero, "EXE-1")

	if err := ValidateBalanced(lines); err != nil {
		t.Fatalf("buy postings are not balanced: %v", err)
	}

	debits, credits := sumByDirection(lines)
	// 1000 进证券 + 1 进佣金，现金一共出 1001
	if !debits.Equal(decimal.NewFromInt(1001)) || !credits.Equal(decimal.NewFromInt(1001)) {
		t.Fatalf("debits = %s, credits = %s, want both 1001", debits, credits)
	}
}

func TestBuildTradePostingsSellWithGain(t *testing.T) {
	// 卖出成交额 3500，消耗成本基础 2500，佣金 1
	lines := BuildTradePostings(false, decimal.NewFromInt(3500), decimal.NewFromInt(1), decimal.NewFromInt(2500), "EXE-2")

	if err := ValidateBalanced(lines); err != nil {
		t.Fatalf("sell postings are not balanced: %v", err)
	}

	var gain decimal.Decimal
	for _, line := range lines {
		if line.SubAccount == SubAccountRealizedGains {
			gain = line.Amount
		}
		if line.SubAccount == SubAccountRealizedLosses {
			t.Fatalf("profitable sale must not touch realized losses")
		}
	}
	if !gain.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("realized gain = %s, want 1000", gain)
	}
}

func TestBuildTradePostingsSellWithLoss(t *testing.T) {
	// 卖出成交额 2000，成本基础 2500：亏损 500 记入 Realized Losses 借方
	lines := BuildTradePostings(false, decimal.NewFromInt(2000), decimal.NewFromInt(1), decimal.NewFromInt(2500), "EXE-3")

	if err := ValidateBalanced(lines); err != nil {
		t.Fatalf("sell postings are not balanced: %v", err)
	}

	var loss decimal.Decimal
	for _, line := range lines {
		if line.SubAccount == SubAccountRealizedLosses {
			if line.Direction != DirectionDebit {
				t.Fatalf("realized loss must be a debit, got %s", line.Direction)
			}
			loss = line.Amount
		}
	}
	if !loss.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("realized loss = %s, want 500", loss)
	}
}

func TestBuildDepositPostings(t *testing.T) {
	lines := BuildDepositPostings(decimal.NewFromInt(10000), "ACC-1")

	if err := ValidateBalanced(lines); err != nil {
		t.Fatalf("deposit postings are not balanced: %v", err)
	}
	if lines[0].SubAccount != SubAccountCash || lines[0].Direction != DirectionDebit {
		t.Fatalf("deposit must debit cash, got %s %s", lines[0].SubAccount, lines[0].Direction)
	}
}
