// Package domain 模拟撮合的领域逻辑
// 单账户模拟盘：不与其他参与者撮合，只对外部报价做成交判定。
package domain

import (
	marketdomain "github.com/loganrenz/trade-io-sub000/internal/marketdata/domain"
	orderdomain "github.com/loganrenz/trade-io-sub000/internal/order/domain"
	"github.com/shopspring/decimal"
)

// ReasonNoMarketPrice 无报价拒单原因
const ReasonNoMarketPrice = "no market price available"

// Outcome 模拟结果类型
type Outcome string

const (
	// OutcomeFilled 产生成交
	OutcomeFilled Outcome = "FILLED"
	// OutcomeResting 条件未满足，继续挂单等待后续重估
	OutcomeResting Outcome = "RESTING"
	// OutcomeRejected 拒单
	OutcomeRejected Outcome = "REJECTED"
)

// Result 一次模拟判定的结果
type Result struct {
	Outcome Outcome
	// 成交价（Outcome 为 FILLED 时有效）
	Price decimal.Decimal
	// 成交数量（当前实现整单成交剩余数量）
	Quantity decimal.Decimal
	// 拒单原因
	Reason string
}

// Config 模拟器参数
type Config struct {
	// 市价单滑点系数：买入按卖一价上浮，卖出按买一价下浮
	SlippageRate decimal.Decimal
	// 每笔固定佣金
	CommissionPerTrade decimal.Decimal
	// 每股佣金
	CommissionPerShare decimal.Decimal
}

// Simulator 执行模拟器：给定订单与当前报价判定是否成交、以什么价格成交
// 纯函数，不持有状态；整单成交是有意的简化，扩展为分笔成交
// 不影响其上层的合约
type Simulator struct {
	cfg Config
}

// NewSimulator 创建模拟器
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Commission 计算一笔成交的佣金
func (s *Simulator) Commission(quantity decimal.Decimal) decimal.Decimal {
	return s.cfg.CommissionPerTrade.Add(s.cfg.CommissionPerShare.Mul(quantity))
}

// Simulate 判定一次成交
// 市价单：买入按 ask*(1+slippage)，卖出按 bid*(1-slippage)，
// 模拟不利成交而不是盘口价；无报价直接拒单，绝不静默挂起。
// 限价单：价格穿越限价才成交（买 current<=limit，卖 current>=limit），
// 否则保持挂单等待后续重估。
// 止损单：触发前挂单；触发后按市价（STOP）或限价判定（STOP_LIMIT）。
func (s *Simulator) Simulate(order *orderdomain.Order, quote *marketdomain.Quote) Result {
	remaining := order.RemainingQuantity()

	switch order.Type {
	case orderdomain.OrderTypeMarket:
		return s.simulateMarket(order, quote, remaining)
	case orderdomain.OrderTypeLimit:
		return s.simulateLimit(order, quote, remaining)
	case orderdomain.OrderTypeStop:
		if !s.stopTriggered(order, quote) {
			return Result{Outcome: OutcomeResting}
		}
		return s.simulateMarket(order, quote, remaining)
	case orderdomain.OrderTypeStopLimit:
		if !s.stopTriggered(order, quote) {
			return Result{Outcome: OutcomeResting}
		}
		return s.simulateLimit(order, quote, remaining)
	}

	return Result{Outcome: OutcomeRejected, Reason: "unsupported order type"}
}

func (s *Simulator) simulateMarket(order *orderdomain.Order, quote *marketdomain.Quote, remaining decimal.Decimal) Result {
	if !hasUsableQuote(quote) {
		return Result{Outcome: OutcomeRejected, Reason: ReasonNoMarketPrice}
	}

	one := decimal.NewFromInt(1)
	var price decimal.Decimal
	if order.Side == orderdomain.OrderSideBuy {
		price = quote.Ask.Mul(one.Add(s.cfg.SlippageRate))
	} else {
		price = quote.Bid.Mul(one.Sub(s.cfg.SlippageRate))
	}

	return Result{Outcome: OutcomeFilled, Price: price, Quantity: remaining}
}

func (s *Simulator) simulateLimit(order *orderdomain.Order, quote *marketdomain.Quote, remaining decimal.Decimal) Result {
	if !hasUsableQuote(quote) {
		// 限价单缺报价时保持挂单，等待下一次重估
		return Result{Outcome: OutcomeResting}
	}

	if order.Side == orderdomain.OrderSideBuy {
		if quote.Ask.LessThanOrEqual(order.LimitPrice) {
			return Result{Outcome: OutcomeFilled, Price: quote.Ask, Quantity: remaining}
		}
	} else {
		if quote.Bid.GreaterThanOrEqual(order.LimitPrice) {
			return Result{Outcome: OutcomeFilled, Price: quote.Bid, Quantity: remaining}
		}
	}

	return Result{Outcome: OutcomeResting}
}

// stopTriggered 止损触发判定：买单在卖一价升破止损价时触发，
// 卖单在买一价跌破止损价时触发
func (s *Simulator) stopTriggered(order *orderdomain.Order, quote *marketdomain.Quote) bool {
	if !hasUsableQuote(quote) {
		return false
	}
	if order.Side == orderdomain.OrderSideBuy {
		return quote.Ask.GreaterThanOrEqual(order.StopPrice)
	}
	return quote.Bid.LessThanOrEqual(order.StopPrice)
}

func hasUsableQuote(quote *marketdomain.Quote) bool {
	return quote != nil && quote.Bid.IsPositive() && quote.Ask.IsPositive()
}
