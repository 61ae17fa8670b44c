package infrastructure

import (
	"context"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestClockCalendarIsOpen(t *testing.T) {
	calendar, err := NewClockCalendar("09:30", "16:00", false)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		// 2026-08-28 是周五
		{"weekday mid-session", time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC), true},
		{"weekday at open", time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC), true},
		{"weekday before open", time.Date(2026, 8, 28, 9, 29, 0, 0, time.UTC), false},
		{"weekday at close", time.Date(2026, 8, 28, 16, 0, 0, 0, time.UTC), false},
		{"saturday", time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), false},
		{"sunday", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calendar.now = fixedClock(tt.at)
			open, err := calendar.IsOpen(ctx, "SIM")
			if err != nil {
				t.Fatalf("IsOpen: %v", err)
			}
			if open != tt.want {
				t.Fatalf("IsOpen at %s = %v, want %v", tt.at, open, tt.want)
			}
		})
	}
}

func TestClockCalendarNextOpenSkipsWeekend(t *testing.T) {
	calendar, err := NewClockCalendar("09:30", "16:00", false)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}

	// 周五收盘后，下一次开市是周一早上
	calendar.now = fixedClock(time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC))
	next, err := calendar.NextOpen(context.Background(), "SIM")
	if err != nil {
		t.Fatalf("NextOpen: %v", err)
	}
	want := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	if next == nil || !next.Equal(want) {
		t.Fatalf("next open = %v, want %v", next, want)
	}
}

func TestClockCalendarAlwaysOpen(t *testing.T) {
	calendar, err := NewClockCalendar("09:30", "16:00", true)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	calendar.now = fixedClock(time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC))

	open, err := calendar.IsOpen(context.Background(), "SIM")
	if err != nil {
		t.Fatalf("IsOpen: %v", err)
	}
	if !open {
		t.Fatal("always-open calendar reported closed")
	}
}

func TestClockCalendarRejectsBadClock(t *testing.T) {
	if _, err := NewClockCalendar("9am", "16:00", false); err == nil {
		t.Fatal("expected error for malformed open time")
	}
}

func TestStaticSymbolDirectory(t *testing.T) {
	ctx := context.Background()

	whitelist := NewStaticSymbolDirectory([]string{"AAPL", " msft "})
	tests := []struct {
		symbol string
		want   bool
	}{
		{"AAPL", true},
		{"aapl", true},
		{"MSFT", true},
		{"TSLA", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := whitelist.IsTradeable(ctx, tt.symbol)
		if err != nil {
			t.Fatalf("IsTradeable(%q): %v", tt.symbol, err)
		}
		if got != tt.want {
			t.Fatalf("IsTradeable(%q) = %v, want %v", tt.symbol, got, tt.want)
		}
	}

	openDirectory := NewStaticSymbolDirectory(nil)
	got, _ := openDirectory.IsTradeable(ctx, "ANYTHING")
	if !got {
		t.Fatal("empty whitelist must allow all non-empty symbols")
	}
}
