package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rangetrader/internal/timeframe"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

const minimalConfig = `
symbols:
  universe:
    - EURUSD
    - EURUSDr
ranges:
  - id: 4H_5M
    reference_timeframe: H4
    reference_time: "04:00"
    breakout_timeframe: M5
    use_specific_time: true
  - id: 15M_1M
    reference_timeframe: M15
    breakout_timeframe: M1
    use_specific_time: false
`

func TestLoad_MinimalConfigWithDefaults(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Breakout.TimeoutCandles != 24 {
		t.Errorf("default timeout_candles = %d, want 24", cfg.Breakout.TimeoutCandles)
	}
	if !cfg.Breakout.ExpireAtBoundary {
		t.Errorf("expire_at_boundary should default to true")
	}
	if cfg.Cooldown.Duration != 5*time.Minute {
		t.Errorf("default cooldown duration = %v, want 5m", cfg.Cooldown.Duration)
	}
	if cfg.Cooldown.LogInterval != time.Minute {
		t.Errorf("default cooldown log interval = %v, want 1m", cfg.Cooldown.LogInterval)
	}
	if !cfg.Execution.Simulation {
		t.Errorf("execution should default to simulation mode")
	}

	if len(cfg.Ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(cfg.Ranges))
	}
	first := cfg.Ranges[0]
	if first.ReferenceTimeframe.Code != "H4" || first.BreakoutTimeframe.Code != "M5" {
		t.Errorf("timeframe decode hook failed: %+v", first)
	}
	if first.ReferenceTime.Hour != 4 || first.ReferenceTime.Minute != 0 {
		t.Errorf("time-of-day decode hook failed: %+v", first.ReferenceTime)
	}
	if cfg.Ranges[1].UseSpecificTime {
		t.Errorf("second range must not use a specific time")
	}
}

func TestLoad_InvalidTimeframeFails(t *testing.T) {
	path := writeConfigFile(t, strings.Replace(minimalConfig, "H4", "X9", 1))

	if _, err := Load(path); err == nil {
		t.Fatalf("invalid timeframe code must fail at load time")
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing config file must fail")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("04:00")
	if err != nil || tod.Hour != 4 || tod.Minute != 0 {
		t.Errorf("ParseTimeOfDay(04:00) = %+v, %v", tod, err)
	}

	tod, err = ParseTimeOfDay("23:59")
	if err != nil || tod.MinuteOfDay() != 23*60+59 {
		t.Errorf("ParseTimeOfDay(23:59) = %+v, %v", tod, err)
	}

	for _, s := range []string{"", "4", "24:00", "12:60", "ab:cd", "12:00:00"} {
		if _, err := ParseTimeOfDay(s); err == nil {
			t.Errorf("ParseTimeOfDay(%q) should fail", s)
		}
	}
}

func TestValidate_CatchesMultipleErrors(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("empty config must fail validation")
	}

	msg := err.Error()
	for _, want := range []string{"symbols.universe", "ranges", "execution.order_volume"} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation error should mention %q, got: %s", want, msg)
		}
	}
}

func TestValidate_RejectsDuplicateRangeIDs(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Ranges[1].ID = cfg.Ranges[0].ID
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "重复") {
		t.Fatalf("duplicate range ids must fail validation, got %v", err)
	}
}

func TestValidate_BreakoutMustBeFinerThanReference(t *testing.T) {
	path := writeConfigFile(t, minimalConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Ranges[0].BreakoutTimeframe = timeframe.MustParse("H4")
	if err := cfg.Validate(); err == nil {
		t.Fatalf("breakout timeframe equal to reference must fail validation")
	}
}
