package db

import (
	"context"
	"errors"
	"time"

	pkglogger "github.com/loganrenz/trade-io-sub000/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 将 GORM 日志桥接到 slog
type GormLogger struct {
	enabled       bool
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

// NewGormLogger 创建 GORM 日志记录器
func NewGormLogger(enabled bool, slowThreshold time.Duration) *GormLogger {
	level := gormlogger.Warn
	if enabled {
		level = gormlogger.Info
	}
	return &GormLogger{
		enabled:       enabled,
		slowThreshold: slowThreshold,
		level:         level,
	}
}

// LogMode 设置日志级别
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info 输出 info 级别日志
func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		pkglogger.Info(ctx, msg, "args", args)
	}
}

// Warn 输出 warn 级别日志
func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		pkglogger.Warn(ctx, msg, "args", args)
	}
}

// Error 输出 error 级别日志
func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		pkglogger.Error(ctx, msg, "args", args)
	}
}

// Trace 记录 SQL 执行情况，慢查询单独告警
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		pkglogger.Error(ctx, "SQL error", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		pkglogger.Warn(ctx, "Slow SQL", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.enabled:
		pkglogger.Debug(ctx, "SQL", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
