// Package infrastructure 行情服务的基础设施实现
package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/loganrenz/trade-io-sub000/internal/marketdata/domain"
	"github.com/loganrenz/trade-io-sub000/pkg/cache"
	"github.com/loganrenz/trade-io-sub000/pkg/logger"
)

const quoteKeyPrefix = "quote:"

// 报价超过该时长视为过期，等同于无报价
const quoteTTL = 5 * time.Minute

// RedisQuoteStore 基于 Redis 的报价存取
// 行情摄取方写入，交易核心只读
type RedisQuoteStore struct {
	cache *cache.RedisCache
}

// NewRedisQuoteStore 创建 Redis 报价存储
func NewRedisQuoteStore(c *cache.RedisCache) *RedisQuoteStore {
	return &RedisQuoteStore{cache: c}
}

// CurrentQuote 读取标的当前报价，无报价或已过期时返回 nil
func (s *RedisQuoteStore) CurrentQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var quote domain.Quote
	if err := s.cache.GetJSON(ctx, quoteKeyPrefix+symbol, &quote); err != nil {
		return nil, fmt.Errorf("failed to read quote for %s: %w", symbol, err)
	}
	if quote.Symbol == "" {
		return nil, nil
	}
	if time.Since(quote.UpdatedAt) > quoteTTL {
		logger.Warn(ctx, "Stale quote discarded", "symbol", symbol, "updated_at", quote.UpdatedAt)
		return nil, nil
	}
	return &quote, nil
}

// SaveQuote 写入报价（行情摄取侧调用）
func (s *RedisQuoteStore) SaveQuote(ctx context.Context, quote *domain.Quote) error {
	if quote.UpdatedAt.IsZero() {
		quote.UpdatedAt = time.Now()
	}
	return s.cache.SetJSON(ctx, quoteKeyPrefix+quote.Symbol, quote, quoteTTL)
}
