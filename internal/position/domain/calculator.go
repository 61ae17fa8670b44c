package domain

import (
	"github.com/shopspring/decimal"
)

// Lot 一批以特定成本获得的份额，按先进先出消耗
// Quantity 带符号，负数为空头批次；同一批次簿内符号一致
type Lot struct {
	Quantity     decimal.Decimal `json:"quantity"`
	CostPerShare decimal.Decimal `json:"cost_per_share"`
}

// ExecutionEffect 单笔成交对批次簿的影响
type ExecutionEffect struct {
	// 本笔实现的盈亏
	RealizedPnL decimal.Decimal
	// 本笔消耗的多头成本基础（供账本卖出分录使用）
	CostBasisConsumed decimal.Decimal
}

// Snapshot 从成交历史重算出的持仓切片
type Snapshot struct {
	Symbol      string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	RealizedPnL decimal.Decimal
	Lots        []Lot
}

// IsFlat 持仓是否已归零
func (s *Snapshot) IsFlat() bool {
	return s.Quantity.IsZero()
}

// netPerShare 摊佣后的每股净额：买入摊入佣金，卖出从所得中扣除
func netPerShare(exec *Execution) decimal.Decimal {
	gross := exec.GrossValue()
	if exec.Side == SideBuy {
		return gross.Add(exec.Commission).Div(exec.Quantity)
	}
	return gross.Sub(exec.Commission).Div(exec.Quantity)
}

// ApplyToLots 将一笔成交应用到批次簿
// 同向成交追加新批次；反向成交从最旧批次起消耗并实现盈亏；
// 消耗完仍有剩余时发生反手，剩余量成为反方向的新批次。
func ApplyToLots(lots []Lot, exec *Execution) ([]Lot, ExecutionEffect) {
	effect := ExecutionEffect{
		RealizedPnL:       decimal.Zero,
		CostBasisConsumed: decimal.Zero,
	}

	isBuy := exec.Side == SideBuy
	perShare := netPerShare(exec)

	signedQty := exec.Quantity
	if !isBuy {
		signedQty = signedQty.Neg()
	}

	// 空仓或同向：开新批次
	if len(lots) == 0 || lots[0].Quantity.Sign() == signedQty.Sign() {
		return append(lots, Lot{Quantity: signedQty, CostPerShare: perShare}), effect
	}

	remaining := exec.Quantity
	for remaining.IsPositive() && len(lots) > 0 {
		lot := &lots[0]
		available := lot.Quantity.Abs()
		take := decimal.Min(remaining, available)

		if isBuy {
			// 买入回补空头：空头批次的 CostPerShare 是开空时的每股净所得
			effect.RealizedPnL = effect.RealizedPnL.Add(take.Mul(lot.CostPerShare.Sub(perShare)))
		} else {
			// 卖出消耗多头批次
			effect.RealizedPnL = effect.RealizedPnL.Add(take.Mul(perShare.Sub(lot.CostPerShare)))
			effect.CostBasisConsumed = effect.CostBasisConsumed.Add(take.Mul(lot.CostPerShare))
		}

		if lot.Quantity.IsPositive() {
			lot.Quantity = lot.Quantity.Sub(take)
		} else {
			lot.Quantity = lot.Quantity.Add(take)
		}
		if lot.Quantity.IsZero() {
			lots = lots[1:]
		}
		remaining = remaining.Sub(take)
	}

	// 反手：剩余量成为反方向新批次
	if remaining.IsPositive() {
		flipped := remaining
		if !isBuy {
			flipped = flipped.Neg()
		}
		lots = append(lots, Lot{Quantity: flipped, CostPerShare: perShare})
	}

	return lots, effect
}

// CalculatePosition 从按时间排序的成交历史重算持仓
// 纯函数：相同输入必然得到相同的数量、均价与已实现盈亏
func CalculatePosition(symbol string, executions []*Execution) *Snapshot {
	var lots []Lot
	realized := decimal.Zero

	for _, exec := range executions {
		var effect ExecutionEffect
		lots, effect = ApplyToLots(lots, exec)
		realized = realized.Add(effect.RealizedPnL)
	}

	return buildSnapshot(symbol, lots, realized)
}

// CalculateWithEffect 重算持仓并返回最后一笔成交的影响
// 供成交回报流程一次遍历同时拿到新持仓与账本分录所需的成本基础
func CalculateWithEffect(symbol string, executions []*Execution) (*Snapshot, ExecutionEffect) {
	var lots []Lot
	realized := decimal.Zero
	var last ExecutionEffect

	for _, exec := range executions {
		lots, last = ApplyToLots(lots, exec)
		realized = realized.Add(last.RealizedPnL)
	}

	return buildSnapshot(symbol, lots, realized), last
}

func buildSnapshot(symbol string, lots []Lot, realized decimal.Decimal) *Snapshot {
	quantity := decimal.Zero
	weightedCost := decimal.Zero
	absTotal := decimal.Zero

	for _, lot := range lots {
		quantity = quantity.Add(lot.Quantity)
		abs := lot.Quantity.Abs()
		weightedCost = weightedCost.Add(abs.Mul(lot.CostPerShare))
		absTotal = absTotal.Add(abs)
	}

	averageCost := decimal.Zero
	if absTotal.IsPositive() {
		averageCost = weightedCost.Div(absTotal)
	}

	return &Snapshot{
		Symbol:      symbol,
		Quantity:    quantity,
		AverageCost: averageCost,
		RealizedPnL: realized,
		Lots:        lots,
	}
}
