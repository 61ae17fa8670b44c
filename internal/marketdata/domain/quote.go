// Package domain 行情服务的领域模型
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote 单个标的的当前报价
type Quote struct {
	// 标的代码
	Symbol string `json:"symbol"`
	// 买一价
	Bid decimal.Decimal `json:"bid"`
	// 卖一价
	Ask decimal.Decimal `json:"ask"`
	// 最新成交价
	Last decimal.Decimal `json:"last"`
	// 报价时间
	UpdatedAt time.Time `json:"updated_at"`
}

// MidPrice 中间价，bid/ask 缺失时退化为 last
func (q *Quote) MidPrice() decimal.Decimal {
	if q.Bid.IsPositive() && q.Ask.IsPositive() {
		return q.Bid.Add(q.Ask).Div(decimal.NewFromInt(2))
	}
	return q.Last
}

// PricingService 报价协作方接口
// 核心只依赖该接口做市价单成本预估与模拟成交定价
type PricingService interface {
	// CurrentQuote 返回标的当前报价，无报价时返回 nil
	CurrentQuote(ctx context.Context, symbol string) (*Quote, error)
}

// VenueCalendar 交易时段协作方接口
type VenueCalendar interface {
	// IsOpen 市场当前是否开市
	IsOpen(ctx context.Context, exchange string) (bool, error)
	// NextOpen 下一次开市时间，未知时返回 nil
	NextOpen(ctx context.Context, exchange string) (*time.Time, error)
}

// SymbolDirectory 标的目录协作方接口
type SymbolDirectory interface {
	// IsTradeable 标的是否可交易（存在且未被限制）
	IsTradeable(ctx context.Context, symbol string) (bool, error)
}
