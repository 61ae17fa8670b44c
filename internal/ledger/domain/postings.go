package domain

import (
	"github.com/shopspring/decimal"
)

// 业务事件类型
const (
	ReferenceExecution  = "EXECUTION"
	ReferenceDeposit    = "DEPOSIT"
	ReferenceAdjustment = "ADJUSTMENT"
)

// BuildDepositPostings 初始注资分录：借 Cash / 贷 Initial Capital
func BuildDepositPostings(amount decimal.Decimal, referenceID string) []EntryLine {
	return []EntryLine{
		{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: amount, ReferenceType: ReferenceDeposit, ReferenceID: referenceID},
		{SubAccount: SubAccountInitialCapital, Direction: DirectionCredit, Amount: amount, ReferenceType: ReferenceDeposit, ReferenceID: referenceID},
	}
}

// BuildTradePostings 成交分录
// 买入：借 Securities / 贷 Cash；卖出为镜像。
// 佣金单独一组：借 Commission / 贷 Cash。
// 卖出时证券按消耗的成本基础 costBasis 出账，成交额与成本的差额
// 记实现盈亏：正数贷 Realized Gains，负数借 Realized Losses，
// 保证整笔交易借贷平衡且会计恒等式在交易后依然成立。
func BuildTradePostings(isBuy bool, tradeValue, commission, costBasis decimal.Decimal, executionID string) []EntryLine {
	var lines []EntryLine

	if isBuy {
		lines = append(lines,
			EntryLine{SubAccount: SubAccountSecurities, Direction: DirectionDebit, Amount: tradeValue, ReferenceType: ReferenceExecution, ReferenceID: executionID},
			EntryLine{SubAccount: SubAccountCash, Direction: DirectionCredit, Amount: tradeValue, ReferenceType: ReferenceExecution, ReferenceID: executionID},
		)
	} else {
		lines = append(lines,
			EntryLine{SubAccount: SubAccountCash, Direction: DirectionDebit, Amount: tradeValue, ReferenceType: ReferenceExecution, ReferenceID: executionID},
		)
		if costBasis.IsPositive() {
			lines = append(lines,
				EntryLine{SubAccount: SubAccountSecurities, Direction: DirectionCredit, Amount: costBasis, ReferenceType: ReferenceExecution, ReferenceID: executionID},
			)
		}
		diff := tradeValue.Sub(costBasis)
		switch {
		case diff.IsPositive():
			lines = append(lines,
				EntryLine{SubAccount: SubAccountRealizedGains, Direction: DirectionCredit, Amount: diff, ReferenceType: ReferenceExecution, ReferenceID: executionID},
			)
		case diff.IsNegative():
			lines = append(lines,
				EntryLine{SubAccount: SubAccountRealizedLosses, Direction: DirectionDebit, Amount: diff.Neg(), ReferenceType: ReferenceExecution, ReferenceID: executionID},
			)
		}
	}

	if commission.IsPositive() {
		lines = append(lines,
			EntryLine{SubAccount: SubAccountCommission, Direction: DirectionDebit, Amount: commission, ReferenceType: ReferenceExecution, ReferenceID: executionID},
			EntryLine{SubAccount: SubAccountCash, Direction: DirectionCredit, Amount: commission, ReferenceType: ReferenceExecution, ReferenceID: executionID},
		)
	}

	return lines
}
