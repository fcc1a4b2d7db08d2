package breakout

import (
	"testing"

	"rangetrader/internal/market"
)

var testRef = ReferenceRange{High: 1.1000, Low: 1.0900}

func candle(open, close float64) market.Candle {
	return market.Candle{Open: open, Close: close}
}

func TestClassify_BreakoutAbove(t *testing.T) {
	if got := Classify(testRef, candle(1.0950, 1.1010)); got != SignalAbove {
		t.Errorf("expected above breakout, got %s", got)
	}
}

func TestClassify_BreakoutBelow(t *testing.T) {
	if got := Classify(testRef, candle(1.0950, 1.0890)); got != SignalBelow {
		t.Errorf("expected below breakout, got %s", got)
	}
}

func TestClassify_InsideRange(t *testing.T) {
	if got := Classify(testRef, candle(1.0950, 1.0990)); got != SignalNone {
		t.Errorf("expected none, got %s", got)
	}
}

func TestClassify_OpenOnBoundaryCountsInside(t *testing.T) {
	if got := Classify(testRef, candle(1.0900, 1.1010)); got != SignalAbove {
		t.Errorf("open == low should count as inside, got %s", got)
	}
	if got := Classify(testRef, candle(1.1000, 1.0890)); got != SignalBelow {
		t.Errorf("open == high should count as inside, got %s", got)
	}
}

func TestClassify_CloseOnBoundaryIsNotBreakout(t *testing.T) {
	if got := Classify(testRef, candle(1.0950, 1.1000)); got != SignalNone {
		t.Errorf("close == high must not break out, got %s", got)
	}
	if got := Classify(testRef, candle(1.0950, 1.0900)); got != SignalNone {
		t.Errorf("close == low must not break out, got %s", got)
	}
}

func TestClassify_GapMoveRejected(t *testing.T) {
	// Opened above the range and closed above: a gap, never a breakout.
	if got := Classify(testRef, candle(1.1050, 1.1100)); got != SignalGapRejected {
		t.Errorf("expected gap rejection, got %s", got)
	}
	// Opened below, closed below.
	if got := Classify(testRef, candle(1.0850, 1.0800)); got != SignalGapRejected {
		t.Errorf("expected gap rejection, got %s", got)
	}
	// Opened above, closed below the range: still a gap move.
	if got := Classify(testRef, candle(1.1050, 1.0850)); got != SignalGapRejected {
		t.Errorf("expected gap rejection on cross move, got %s", got)
	}
}

func TestClassify_GapOpenButCloseInsideIsNone(t *testing.T) {
	if got := Classify(testRef, candle(1.1050, 1.0950)); got != SignalNone {
		t.Errorf("gap open returning inside should be none, got %s", got)
	}
}
