package infrastructure

import (
	"context"
	"fmt"
	"time"
)

// ClockCalendar 基于本地时钟与配置时段的交易日历
// 周六周日休市，不含节假日表
type ClockCalendar struct {
	openHour   int
	openMin    int
	closeHour  int
	closeMin   int
	alwaysOpen bool
	now        func() time.Time
}

// NewClockCalendar 创建交易日历，open/close 形如 "09:30"、"16:00"
func NewClockCalendar(open, close string, alwaysOpen bool) (*ClockCalendar, error) {
	c := &ClockCalendar{alwaysOpen: alwaysOpen, now: time.Now}
	var err error
	if c.openHour, c.openMin, err = parseClock(open); err != nil {
		return nil, fmt.Errorf("invalid market open time %q: %w", open, err)
	}
	if c.closeHour, c.closeMin, err = parseClock(close); err != nil {
		return nil, fmt.Errorf("invalid market close time %q: %w", close, err)
	}
	return c, nil
}

func parseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// IsOpen 市场当前是否开市
func (c *ClockCalendar) IsOpen(ctx context.Context, exchange string) (bool, error) {
	if c.alwaysOpen {
		return true, nil
	}
	now := c.now()
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false, nil
	}
	open := time.Date(now.Year(), now.Month(), now.Day(), c.openHour, c.openMin, 0, 0, now.Location())
	close := time.Date(now.Year(), now.Month(), now.Day(), c.closeHour, c.closeMin, 0, 0, now.Location())
	return !now.Before(open) && now.Before(close), nil
}

// NextOpen 下一次开市时间
func (c *ClockCalendar) NextOpen(ctx context.Context, exchange string) (*time.Time, error) {
	if c.alwaysOpen {
		return nil, nil
	}
	now := c.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), c.openHour, c.openMin, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return &next, nil
}
