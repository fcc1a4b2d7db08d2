package guard

import (
	"testing"
	"time"

	"rangetrader/internal/config"
)

func newTestGate(duration time.Duration) (*CooldownGate, *time.Time) {
	gate := NewCooldownGate(config.CooldownConfig{Duration: duration, LogInterval: time.Minute}, nil)
	clock := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return clock }
	return gate, &clock
}

func TestCooldownGate_InactiveByDefault(t *testing.T) {
	gate, _ := newTestGate(5 * time.Minute)

	if gate.IsActive() {
		t.Fatalf("fresh gate must be inactive")
	}
	if _, ok := gate.Remaining(); ok {
		t.Fatalf("fresh gate must have no remaining time")
	}
}

func TestCooldownGate_ActivateBlocksUntilExpiry(t *testing.T) {
	gate, clock := newTestGate(5 * time.Minute)

	gate.Activate("trading is disabled")
	if !gate.IsActive() {
		t.Fatalf("gate must be active right after activation")
	}

	*clock = clock.Add(4 * time.Minute)
	if !gate.IsActive() {
		t.Fatalf("gate must stay active inside the window")
	}
	if remaining, ok := gate.Remaining(); !ok || remaining != time.Minute {
		t.Errorf("expected 1m remaining, got %v ok=%v", remaining, ok)
	}

	*clock = clock.Add(time.Minute)
	if gate.IsActive() {
		t.Fatalf("gate must clear exactly at expiry")
	}
	if gate.IsActive() {
		t.Fatalf("gate must stay clear after expiry")
	}
	if _, ok := gate.Remaining(); ok {
		t.Errorf("no remaining time after expiry")
	}
}

func TestCooldownGate_ReactivateExtendsWindow(t *testing.T) {
	gate, clock := newTestGate(5 * time.Minute)

	gate.Activate("first rejection")
	*clock = clock.Add(4 * time.Minute)
	gate.Activate("second rejection")

	*clock = clock.Add(4 * time.Minute)
	if !gate.IsActive() {
		t.Fatalf("reactivation must restart the full window")
	}
	*clock = clock.Add(time.Minute)
	if gate.IsActive() {
		t.Fatalf("extended window must still expire")
	}
}

func TestCooldownGate_Reset(t *testing.T) {
	gate, _ := newTestGate(5 * time.Minute)

	gate.Activate("trading is disabled")
	gate.Reset()
	if gate.IsActive() {
		t.Fatalf("reset must clear the cooldown")
	}
}

func TestCooldownGate_ThrottledStatusLog(t *testing.T) {
	gate, clock := newTestGate(10 * time.Minute)

	gate.Activate("trading is disabled")

	// Polls inside logInterval must not refresh lastLog.
	*clock = clock.Add(30 * time.Second)
	gate.IsActive()
	before := gate.lastLog

	*clock = clock.Add(20 * time.Second)
	gate.IsActive()
	if !gate.lastLog.Equal(before) {
		t.Fatalf("status log must be throttled inside the interval")
	}

	*clock = clock.Add(30 * time.Second)
	gate.IsActive()
	if gate.lastLog.Equal(before) {
		t.Fatalf("status log must fire once the interval elapses")
	}
}

func TestCooldownGate_DefaultsApplied(t *testing.T) {
	gate := NewCooldownGate(config.CooldownConfig{}, nil)
	if gate.duration != 5*time.Minute {
		t.Errorf("default duration wrong: %v", gate.duration)
	}
	if gate.logInterval != time.Minute {
		t.Errorf("default log interval wrong: %v", gate.logInterval)
	}
}
