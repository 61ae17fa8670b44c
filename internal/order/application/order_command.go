package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loganrenz/trade-io-sub000/internal/audit"
	execdomain "github.com/loganrenz/trade-io-sub000/internal/execution/domain"
	ledgerdomain "github.com/loganrenz/trade-io-sub000/internal/ledger/domain"
	marketdomain "github.com/loganrenz/trade-io-sub000/internal/marketdata/domain"
	"github.com/loganrenz/trade-io-sub000/internal/order/domain"
	posdomain "github.com/loganrenz/trade-io-sub000/internal/position/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/errs"
	"github.com/loganrenz/trade-io-sub000/pkg/idgen"
	"github.com/loganrenz/trade-io-sub000/pkg/logger"
)

// PlaceOrder 下单
// 幂等：同一幂等键只会创建一条订单，重复提交返回首次创建的订单，
// 不做任何二次校验或二次执行。
// 市价单在前置校验通过后立即模拟成交；限价/止损单先受理挂起，
// 可成交时当场成交，否则等待行情重估。
func (s *OrderService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	key := cmd.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	existing, err := s.orders.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Info(ctx, "幂等键命中，返回已有订单",
			"idempotency_key", key,
			"order_id", existing.OrderID)
		return existing, nil
	}

	order := domain.NewOrder(idgen.NewOrderID(), cmd.AccountID, cmd.Symbol,
		cmd.Side, cmd.Type, cmd.Quantity, cmd.LimitPrice, cmd.StopPrice,
		cmd.TimeInForce, key)
	if err := order.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.preCheck(ctx, order)
	if err != nil {
		return nil, err
	}

	err = s.tx.Transact(ctx, func(txCtx context.Context) error {
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}
		return s.events.Append(txCtx, &domain.OrderEvent{
			EventID:  idgen.NewEventID(),
			OrderID:  order.OrderID,
			ToStatus: domain.OrderStatusPending,
			Reason:   "order placed",
		})
	})
	if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		// 并发重复提交输掉了插入竞争，读回赢家写入的订单
		return s.orders.GetByIdempotencyKey(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersPlaced.Inc()
	s.recordAudit(ctx, audit.EventOrderPlaced, order, "")

	if err := s.evaluate(ctx, order, quote); err != nil {
		return nil, err
	}
	return order, nil
}

// preCheck 下单前置校验，返回校验时读到的报价供立即执行复用
func (s *OrderService) preCheck(ctx context.Context, order *domain.Order) (*marketdomain.Quote, error) {
	account, err := s.accounts.GetAccount(ctx, order.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, &errs.ForbiddenError{Reason: "account " + order.AccountID + " is " + string(account.Status)}
	}

	tradeable, err := s.symbols.IsTradeable(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}
	if !tradeable {
		return nil, &errs.InvalidSymbolError{Symbol: order.Symbol, Reason: "symbol is not tradeable"}
	}

	// 只有市价单要求开市：限价/止损单可以在闭市时挂入，等待开市重估
	if order.Type == domain.OrderTypeMarket {
		open, err := s.calendar.IsOpen(ctx, defaultExchange)
		if err != nil {
			return nil, err
		}
		if !open {
			nextOpen, _ := s.calendar.NextOpen(ctx, defaultExchange)
			return nil, &errs.MarketClosedError{Exchange: defaultExchange, NextOpen: nextOpen}
		}
	}

	quote, err := s.pricing.CurrentQuote(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	switch order.Side {
	case domain.OrderSideBuy:
		if err := s.checkBuyingPower(ctx, order, quote); err != nil {
			return nil, err
		}
	case domain.OrderSideSell:
		held, err := s.positions.HeldQuantity(ctx, order.AccountID, order.Symbol)
		if err != nil {
			return nil, err
		}
		if held.LessThan(order.Quantity) {
			return nil, &errs.InvalidOrderError{
				Reason: fmt.Sprintf("insufficient position: held %s, selling %s", held, order.Quantity),
			}
		}
	}

	return quote, nil
}

// checkBuyingPower 买单购买力校验：预估成交价上浮缓冲比例后
// 与现金余额比较，余额不足直接拒单
func (s *OrderService) checkBuyingPower(ctx context.Context, order *domain.Order, quote *marketdomain.Quote) error {
	var unitPrice decimal.Decimal
	switch order.Type {
	case domain.OrderTypeLimit, domain.OrderTypeStopLimit:
		unitPrice = order.LimitPrice
	case domain.OrderTypeStop:
		unitPrice = order.StopPrice
	default:
		// 市价单按卖一价预估；无报价时交由模拟器拒单
		if quote == nil || !quote.Ask.IsPositive() {
			return nil
		}
		unitPrice = quote.Ask
	}

	one := decimal.NewFromInt(1)
	required := unitPrice.Mul(order.Quantity).Mul(one.Add(s.buyingPowerBuffer))

	cash, err := s.ledger.GetBalance(ctx, order.AccountID, ledgerdomain.SubAccountCash)
	if err != nil {
		return err
	}
	if cash.LessThan(required) {
		return &errs.InsufficientFundsError{Required: required, Available: cash}
	}
	return nil
}

// evaluate 对一张未终态订单做一次成交判定并落地结果
func (s *OrderService) evaluate(ctx context.Context, order *domain.Order, quote *marketdomain.Quote) error {
	if order.Status == domain.OrderStatusPending {
		if err := s.transitionAndSave(ctx, order, domain.OrderStatusAccepted, "order accepted"); err != nil {
			return err
		}
	}

	result := s.sim.Simulate(order, quote)
	switch result.Outcome {
	case execdomain.OutcomeFilled:
		return s.applyFill(ctx, order, result.Price, result.Quantity)

	case execdomain.OutcomeRejected:
		if err := s.transitionAndSave(ctx, order, domain.OrderStatusRejected, result.Reason); err != nil {
			return err
		}
		s.metrics.OrdersRejected.Inc()
		s.recordAudit(ctx, audit.EventOrderRejected, order, result.Reason)
		return nil

	default: // 继续挂单
		if order.TimeInForce == domain.TimeInForceIOC || order.TimeInForce == domain.TimeInForceFOK {
			reason := "unfilled " + string(order.TimeInForce) + " order cancelled"
			if err := s.transitionAndSave(ctx, order, domain.OrderStatusCancelled, reason); err != nil {
				return err
			}
			s.metrics.OrdersCanceled.Inc()
			s.recordAudit(ctx, audit.EventOrderCancelled, order, reason)
		}
		return nil
	}
}

// applyFill 成交落地：成交记录、持仓刷新、账本分录与订单状态
// 在同一个事务内提交，失败整体回滚，订单停留在成交前的状态
func (s *OrderService) applyFill(ctx context.Context, order *domain.Order, price, quantity decimal.Decimal) error {
	executedAt := s.now()
	commission := s.sim.Commission(quantity)

	execution := &posdomain.Execution{
		ExecutionID: idgen.NewExecutionID(),
		OrderID:     order.OrderID,
		AccountID:   order.AccountID,
		Symbol:      order.Symbol,
		Side:        posdomain.Side(order.Side),
		Quantity:    quantity,
		Price:       price,
		Commission:  commission,
		ExecutedAt:  executedAt,
	}

	prev := order.Status
	err := s.tx.Transact(ctx, func(txCtx context.Context) error {
		_, effect, err := s.positions.RecordExecution(txCtx, execution)
		if err != nil {
			return err
		}

		lines := ledgerdomain.BuildTradePostings(
			order.Side == domain.OrderSideBuy,
			price.Mul(quantity),
			commission,
			effect.CostBasisConsumed,
			execution.ExecutionID,
		)
		if _, err := s.ledger.RecordTransactionInTx(txCtx, order.AccountID, lines); err != nil {
			return err
		}

		if err := order.ApplyFill(quantity, price); err != nil {
			return err
		}
		if err := s.orders.UpdateVersioned(txCtx, order, order.Version); err != nil {
			return err
		}
		return s.events.Append(txCtx, &domain.OrderEvent{
			EventID:    idgen.NewEventID(),
			OrderID:    order.OrderID,
			FromStatus: prev,
			ToStatus:   order.Status,
			Reason:     fmt.Sprintf("filled %s @ %s", quantity, price),
		})
	})
	if err != nil {
		// 回滚后内存里的订单可能已被改写，从存储读回真实状态
		if fresh, readErr := s.orders.Get(ctx, order.OrderID); readErr == nil && fresh != nil {
			*order = *fresh
		}
		return err
	}

	s.metrics.ExecutionsTotal.Inc()
	if order.Status == domain.OrderStatusFilled {
		s.metrics.OrdersFilled.Inc()
		s.metrics.FillLatency.Observe(executedAt.Sub(order.CreatedAt).Seconds())
	}
	s.metrics.LedgerTransactionsTotal.Inc()

	logger.Info(ctx, "订单成交",
		"order_id", order.OrderID,
		"execution_id", execution.ExecutionID,
		"price", price.String(),
		"quantity", quantity.String(),
		"status", string(order.Status))
	s.recordAudit(ctx, audit.EventOrderFilled, order, execution.ExecutionID)
	return nil
}

// CancelOrder 撤单
// 带 ExpectedVersion 时做乐观锁校验，版本不符返回 ConcurrencyError；
// 终态订单不可撤
func (s *OrderService) CancelOrder(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	order, err := s.getOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.CanBeCancelled() {
		return nil, &errs.InvalidOrderError{
			Reason: "order " + order.OrderID + " is already " + string(order.Status) + " and cannot be cancelled",
		}
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "cancelled by client"
	}
	if err := s.transitionAndSaveVersioned(ctx, order, domain.OrderStatusCancelled, reason, cmd.ExpectedVersion); err != nil {
		return nil, err
	}

	s.metrics.OrdersCanceled.Inc()
	s.recordAudit(ctx, audit.EventOrderCancelled, order, reason)
	return order, nil
}

// ModifyOrder 改单：数量、限价、止损价可改，方向与类型不可改
// 终态订单不可改；新数量不得低于已成交数量
func (s *OrderService) ModifyOrder(ctx context.Context, cmd ModifyOrderCommand) (*domain.Order, error) {
	order, err := s.getOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, &errs.InvalidOrderError{
			Reason: "order " + order.OrderID + " is already " + string(order.Status) + " and cannot be modified",
		}
	}

	modified := *order
	if !cmd.Quantity.IsZero() {
		if cmd.Quantity.LessThan(order.FilledQuantity) {
			return nil, errs.NewValidation("quantity", "new quantity is below the filled quantity")
		}
		modified.Quantity = cmd.Quantity
	}
	if !cmd.LimitPrice.IsZero() {
		modified.LimitPrice = cmd.LimitPrice
	}
	if !cmd.StopPrice.IsZero() {
		modified.StopPrice = cmd.StopPrice
	}
	if err := modified.Validate(); err != nil {
		return nil, err
	}

	expected := cmd.ExpectedVersion
	if expected == 0 {
		expected = order.Version
	}
	err = s.tx.Transact(ctx, func(txCtx context.Context) error {
		if err := s.orders.UpdateVersioned(txCtx, &modified, expected); err != nil {
			return err
		}
		return s.events.Append(txCtx, &domain.OrderEvent{
			EventID:    idgen.NewEventID(),
			OrderID:    order.OrderID,
			FromStatus: order.Status,
			ToStatus:   modified.Status,
			Reason:     "order modified",
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, audit.EventOrderModified, &modified, "")
	return &modified, nil
}

// EvaluateOpenOrders 用一条新报价重估某标的的全部挂单
// 行情消费侧每收到一条报价调用一次；返回本轮成交的订单数。
// 单个订单的失败只记日志，不影响其余订单的重估。
func (s *OrderService) EvaluateOpenOrders(ctx context.Context, symbol string, quote *marketdomain.Quote) (int, error) {
	orders, err := s.orders.ListOpenBySymbol(ctx, symbol)
	if err != nil {
		return 0, err
	}

	filled := 0
	for _, order := range orders {
		before := order.FilledQuantity
		if err := s.evaluate(ctx, order, quote); err != nil {
			if errs.IsConcurrency(err) {
				// 并发修改先行，放弃本轮，下一条报价会重试
				continue
			}
			logger.Error(ctx, "挂单重估失败", "order_id", order.OrderID, "error", err)
			continue
		}
		if order.FilledQuantity.GreaterThan(before) {
			filled++
		}
	}
	return filled, nil
}

// ExpireDayOrders 将指定时刻前创建的未终态 DAY 单置为过期
// 收盘任务调用；返回过期的订单数
func (s *OrderService) ExpireDayOrders(ctx context.Context, before time.Time) (int, error) {
	orders, err := s.orders.ListOpenDayOrders(ctx, before)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, order := range orders {
		if err := s.transitionAndSave(ctx, order, domain.OrderStatusExpired, "day order expired"); err != nil {
			logger.Error(ctx, "DAY 单过期处理失败", "order_id", order.OrderID, "error", err)
			continue
		}
		s.recordAudit(ctx, audit.EventOrderExpired, order, "")
		expired++
	}
	return expired, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &errs.NotFoundError{Entity: "order", ID: orderID}
	}
	return order, nil
}

// transitionAndSave 按当前版本号做一次状态流转并持久化
func (s *OrderService) transitionAndSave(ctx context.Context, order *domain.Order, next domain.OrderStatus, reason string) error {
	return s.transitionAndSaveVersioned(ctx, order, next, reason, 0)
}

// transitionAndSaveVersioned 状态流转 + 乐观锁写回 + 生命周期事件
// expectedVersion 为零时用订单当前版本；写回失败恢复内存状态
func (s *OrderService) transitionAndSaveVersioned(ctx context.Context, order *domain.Order, next domain.OrderStatus, reason string, expectedVersion int64) error {
	prev := order.Status
	if err := order.Transition(next); err != nil {
		return err
	}

	expected := expectedVersion
	if expected == 0 {
		expected = order.Version
	}
	err := s.tx.Transact(ctx, func(txCtx context.Context) error {
		if err := s.orders.UpdateVersioned(txCtx, order, expected); err != nil {
			return err
		}
		return s.events.Append(txCtx, &domain.OrderEvent{
			EventID:    idgen.NewEventID(),
			OrderID:    order.OrderID,
			FromStatus: prev,
			ToStatus:   next,
			Reason:     reason,
		})
	})
	if err != nil {
		order.Status = prev
		if errs.IsConcurrency(err) {
			s.metrics.ConcurrencyConflicts.Inc()
		}
		return err
	}
	return nil
}

func (s *OrderService) recordAudit(ctx context.Context, eventType string, order *domain.Order, detail string) {
	event := audit.Event{
		EventID:    idgen.NewEventID(),
		Type:       eventType,
		AccountID:  order.AccountID,
		OrderID:    order.OrderID,
		OccurredAt: s.now(),
	}
	if detail != "" {
		event.Detail = map[string]string{"detail": detail}
	}
	s.auditor.Record(ctx, event)
}
