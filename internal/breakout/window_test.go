package breakout

import (
	"testing"
	"time"

	"rangetrader/internal/config"
	"rangetrader/internal/timeframe"
)

func rangeCfg(id, refTF string, hour, minute int, brTF string, specific bool) config.RangeConfig {
	return config.RangeConfig{
		ID:                 id,
		ReferenceTimeframe: timeframe.MustParse(refTF),
		ReferenceTime:      config.TimeOfDay{Hour: hour, Minute: minute},
		BreakoutTimeframe:  timeframe.MustParse(brTF),
		UseSpecificTime:    specific,
	}
}

func atClock(hour, minute int) time.Time {
	return time.Date(2024, 3, 11, hour, minute, 0, 0, time.UTC)
}

func TestIsRestricted_H4Window(t *testing.T) {
	cfg := rangeCfg("4H_5M", "H4", 4, 0, "M5", true)

	cases := []struct {
		hour, minute int
		want         bool
	}{
		{3, 59, false},
		{4, 0, true},
		{5, 30, true},
		{7, 59, true},
		{8, 0, false}, // reference candle just closed, evaluation may begin
		{12, 0, false},
	}

	for _, tc := range cases {
		if got := IsRestricted(cfg, atClock(tc.hour, tc.minute)); got != tc.want {
			t.Errorf("IsRestricted(%02d:%02d) = %v, want %v", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestIsRestricted_MidnightCrossing(t *testing.T) {
	cfg := rangeCfg("1H_1M", "H1", 23, 0, "M1", true)

	cases := []struct {
		hour, minute int
		want         bool
	}{
		{22, 59, false},
		{23, 0, true},
		{23, 59, true},
		{0, 0, false},
		{0, 1, false},
	}

	for _, tc := range cases {
		if got := IsRestricted(cfg, atClock(tc.hour, tc.minute)); got != tc.want {
			t.Errorf("IsRestricted(%02d:%02d) = %v, want %v", tc.hour, tc.minute, got, tc.want)
		}
	}
}

func TestIsRestricted_WrapCoversEarlyMorning(t *testing.T) {
	// 22:00 + 4h wraps to 02:00 next day.
	cfg := rangeCfg("4H_5M", "H4", 22, 0, "M5", true)

	if !IsRestricted(cfg, atClock(23, 30)) {
		t.Errorf("expected 23:30 to be restricted")
	}
	if !IsRestricted(cfg, atClock(1, 59)) {
		t.Errorf("expected 01:59 to be restricted")
	}
	if IsRestricted(cfg, atClock(2, 0)) {
		t.Errorf("expected 02:00 to be unrestricted")
	}
	if IsRestricted(cfg, atClock(21, 59)) {
		t.Errorf("expected 21:59 to be unrestricted")
	}
}

func TestIsRestricted_NonSpecificTimeNeverRestricted(t *testing.T) {
	cfg := rangeCfg("15M_1M", "M15", 0, 0, "M1", false)

	for hour := 0; hour < 24; hour++ {
		if IsRestricted(cfg, atClock(hour, 7)) {
			t.Fatalf("non-specific range restricted at %02d:07", hour)
		}
	}
}
