// Package metrics 提供 Prometheus 指标注册与 HTTP 暴露
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	// 订单下单计数（按状态区分）
	OrdersPlaced   prometheus.Counter
	OrdersFilled   prometheus.Counter
	OrdersRejected prometheus.Counter
	OrdersCanceled prometheus.Counter

	// 成交计数
	ExecutionsTotal prometheus.Counter
	// 成交耗时（下单到成交）
	FillLatency prometheus.Histogram

	// 账本交易计数
	LedgerTransactionsTotal prometheus.Counter
	// 账本完整性校验失败计数
	LedgerIntegrityFailures prometheus.Counter

	// 当前活跃持仓数
	PositionsActive prometheus.Gauge

	// 乐观锁冲突计数
	ConcurrencyConflicts prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "orders_placed_total",
			Help:      "Total orders accepted for placement",
		}),
		OrdersFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "orders_filled_total",
			Help:      "Total orders fully filled",
		}),
		OrdersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "orders_rejected_total",
			Help:      "Total orders rejected",
		}),
		OrdersCanceled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "orders_canceled_total",
			Help:      "Total orders canceled",
		}),
		ExecutionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "executions_total",
			Help:      "Total trade executions recorded",
		}),
		FillLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "fill_latency_seconds",
			Help:      "Latency from order placement to fill",
			Buckets:   prometheus.DefBuckets,
		}),
		LedgerTransactionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "ledger_transactions_total",
			Help:      "Total balanced ledger transactions committed",
		}),
		LedgerIntegrityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "ledger_integrity_failures_total",
			Help:      "Total accounting equation violations detected",
		}),
		PositionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "positions_active",
			Help:      "Number of open positions",
		}),
		ConcurrencyConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trading",
			Subsystem: serviceName,
			Name:      "concurrency_conflicts_total",
			Help:      "Total optimistic lock conflicts",
		}),
	}
}

// Register 注册全部指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.OrdersPlaced,
		m.OrdersFilled,
		m.OrdersRejected,
		m.OrdersCanceled,
		m.ExecutionsTotal,
		m.FillLatency,
		m.LedgerTransactionsTotal,
		m.LedgerIntegrityFailures,
		m.PositionsActive,
		m.ConcurrencyConflicts,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// StartHTTPServer 启动指标 HTTP 服务
func StartHTTPServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()

	return nil
}
