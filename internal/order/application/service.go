// Package application 订单服务的应用层
// 编排订单生命周期：前置校验、模拟撮合、成交落账。
// 成交是一个原子事务：成交记录、持仓刷新、账本分录与订单状态
// 在同一个数据库事务内提交，任何一步失败整体回滚。
package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	accountdomain "github.com/loganrenz/trade-io-sub000/internal/account/domain"
	"github.com/loganrenz/trade-io-sub000/internal/audit"
	execdomain "github.com/loganrenz/trade-io-sub000/internal/execution/domain"
	ledgerdomain "github.com/loganrenz/trade-io-sub000/internal/ledger/domain"
	marketdomain "github.com/loganrenz/trade-io-sub000/internal/marketdata/domain"
	"github.com/loganrenz/trade-io-sub000/internal/order/domain"
	posdomain "github.com/loganrenz/trade-io-sub000/internal/position/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/metrics"
)

// 模拟盘只有一个交易所
const defaultExchange = "SIM"

// Transactor 事务边界
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountDirectory 账户协作方接口
type AccountDirectory interface {
	GetAccount(ctx context.Context, accountID string) (*accountdomain.Account, error)
}

// PositionBook 持仓协作方接口
type PositionBook interface {
	// RecordExecution 保存成交并刷新持仓，必须在调用方事务内执行
	RecordExecution(ctx context.Context, execution *posdomain.Execution) (*posdomain.Snapshot, posdomain.ExecutionEffect, error)
	// HeldQuantity 当前持仓数量
	HeldQuantity(ctx context.Context, accountID, symbol string) (decimal.Decimal, error)
}

// Ledger 账本协作方接口
type Ledger interface {
	// RecordTransactionInTx 在调用方事务内记一笔平衡交易
	RecordTransactionInTx(ctx context.Context, accountID string, lines []ledgerdomain.EntryLine) (string, error)
	// GetBalance 读取子账户余额
	GetBalance(ctx context.Context, accountID string, sub ledgerdomain.SubAccountType) (decimal.Decimal, error)
}

// OrderService 订单应用服务
type OrderService struct {
	orders    domain.OrderRepository
	events    domain.OrderEventRepository
	accounts  AccountDirectory
	positions PositionBook
	ledger    Ledger
	pricing   marketdomain.PricingService
	calendar  marketdomain.VenueCalendar
	symbols   marketdomain.SymbolDirectory
	sim       *execdomain.Simulator
	tx        Transactor
	auditor   audit.Recorder
	metrics   *metrics.Metrics

	// 购买力校验的价格缓冲系数（0.05 表示按 105% 预估成本）
	buyingPowerBuffer decimal.Decimal

	// 可注入时钟，测试用
	now func() time.Time
}

// Deps 订单服务的依赖集合
type Deps struct {
	Orders    domain.OrderRepository
	Events    domain.OrderEventRepository
	Accounts  AccountDirectory
	Positions PositionBook
	Ledger    Ledger
	Pricing   marketdomain.PricingService
	Calendar  marketdomain.VenueCalendar
	Symbols   marketdomain.SymbolDirectory
	Simulator *execdomain.Simulator
	Tx        Transactor
	Auditor   audit.Recorder
	Metrics   *metrics.Metrics

	BuyingPowerBuffer decimal.Decimal
}

// NewOrderService 创建订单应用服务
func NewOrderService(deps Deps) *OrderService {
	auditor := deps.Auditor
	if auditor == nil {
		auditor = audit.NewNop()
	}
	return &OrderService{
		orders:            deps.Orders,
		events:            deps.Events,
		accounts:          deps.Accounts,
		positions:         deps.Positions,
		ledger:            deps.Ledger,
		pricing:           deps.Pricing,
		calendar:          deps.Calendar,
		symbols:           deps.Symbols,
		sim:               deps.Simulator,
		tx:                deps.Tx,
		auditor:           auditor,
		metrics:           deps.Metrics,
		buyingPowerBuffer: deps.BuyingPowerBuffer,
		now:               time.Now,
	}
}
