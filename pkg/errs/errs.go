// Package errs 定义交易核心的业务错误分类
// 所有业务失败都是确定性的同步错误，携带足够的结构化上下文，
// 由接口层统一映射为 HTTP 状态码。
package errs

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError 参数校验失败（非法或自相矛盾的订单参数）
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidation 创建参数校验错误
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidSymbolError 标的不存在、停牌或被限制交易
type InvalidSymbolError struct {
	Symbol string
	Reason string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %s: %s", e.Symbol, e.Reason)
}

// InvalidOrderError 业务规则冲突（卖出未持有、取消终态订单等）
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order: %s", e.Reason)
}

// InsufficientFundsError 购买力不足，携带所需与可用金额
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

// MarketClosedError 市价单在非交易时段提交
type MarketClosedError struct {
	Exchange string
	NextOpen *time.Time
}

func (e *MarketClosedError) Error() string {
	if e.NextOpen != nil {
		return fmt.Sprintf("market %s is closed, next open at %s", e.Exchange, e.NextOpen.Format(time.RFC3339))
	}
	return fmt.Sprintf("market %s is closed", e.Exchange)
}

// PositionLimitError 突破风控持仓上限
type PositionLimitError struct {
	Symbol    string
	Limit     decimal.Decimal
	Requested decimal.Decimal
}

func (e *PositionLimitError) Error() string {
	return fmt.Sprintf("position limit exceeded for %s: limit %s, requested %s", e.Symbol, e.Limit, e.Requested)
}

// ConcurrencyError 乐观锁冲突，调用方应重新读取后重试
type ConcurrencyError struct {
	Entity          string
	ID              string
	ExpectedVersion int64
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrent modification of %s %s (expected version %d)", e.Entity, e.ID, e.ExpectedVersion)
}

// NotFoundError 资源不存在
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ForbiddenError 鉴权失败（由外部协作方抛出，原样透传）
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

// IsConcurrency 判断是否为乐观锁冲突（可重试）
func IsConcurrency(err error) bool {
	var ce *ConcurrencyError
	return errors.As(err, &ce)
}

// IsNotFound 判断是否为资源不存在
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
