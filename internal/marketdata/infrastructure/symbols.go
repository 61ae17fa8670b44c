package infrastructure

import (
	"context"
	"strings"
)

// StaticSymbolDirectory 基于配置白名单的标的目录
// 白名单为空时放行全部非空标的
type StaticSymbolDirectory struct {
	symbols map[string]struct{}
}

// NewStaticSymbolDirectory 创建标的目录
func NewStaticSymbolDirectory(symbols []string) *StaticSymbolDirectory {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return &StaticSymbolDirectory{symbols: set}
}

// IsTradeable 标的是否可交易
func (d *StaticSymbolDirectory) IsTradeable(ctx context.Context, symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, nil
	}
	if len(d.symbols) == 0 {
		return true, nil
	}
	_, ok := d.symbols[symbol]
	return ok, nil
}
