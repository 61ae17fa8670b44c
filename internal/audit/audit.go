// Package audit 审计事件发布
// 订单生命周期的关键动作异步投递到 Kafka，供风控与对账消费。
// 投递失败只记日志，绝不阻断交易主流程。
package audit

import (
	"context"
	"time"
)

// 审计事件类型
const (
	EventOrderPlaced    = "ORDER_PLACED"
	EventOrderFilled    = "ORDER_FILLED"
	EventOrderRejected  = "ORDER_REJECTED"
	EventOrderCancelled = "ORDER_CANCELLED"
	EventOrderModified  = "ORDER_MODIFIED"
	EventOrderExpired   = "ORDER_EXPIRED"
	EventAccountOpened  = "ACCOUNT_OPENED"
)

// Event 一条审计事件
type Event struct {
	EventID    string            `json:"event_id"`
	Type       string            `json:"type"`
	AccountID  string            `json:"account_id"`
	OrderID    string            `json:"order_id,omitempty"`
	Detail     map[string]string `json:"detail,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Recorder 审计事件记录接口
type Recorder interface {
	// Record 投递一条审计事件，实现必须自行吞掉投递错误
	Record(ctx context.Context, event Event)
	// Close 释放底层资源
	Close() error
}

// nopRecorder 空实现，测试与未配置 Kafka 时使用
type nopRecorder struct{}

// NewNop 创建空审计记录器
func NewNop() Recorder {
	return nopRecorder{}
}

func (nopRecorder) Record(ctx context.Context, event Event) {}

func (nopRecorder) Close() error { return nil }
