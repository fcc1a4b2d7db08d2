package strategy

import "testing"

func taggedPosition(instrument string, dir Direction, comment string) Position {
	return Position{Instrument: instrument, Direction: dir, Volume: 0.01, Comment: comment}
}

func TestPositionsFor_SeparatesStrategiesAndRanges(t *testing.T) {
	positions := []Position{
		taggedPosition("EURUSD", DirectionBuy, "TB|BUY|V|4H5M"),
		taggedPosition("EURUSD", DirectionBuy, "FB|BUY|VD|4H5M"),
		taggedPosition("EURUSD", DirectionBuy, "TB|BUY|V|15M1M"),
	}

	got := PositionsFor(positions, "EURUSD", DirectionBuy, TrueBreakout, "4H_5M")
	if len(got) != 1 || got[0].Comment != "TB|BUY|V|4H5M" {
		t.Fatalf("TB/4H_5M filter wrong: %+v", got)
	}

	got = PositionsFor(positions, "EURUSD", DirectionBuy, TrueBreakout, "15M_1M")
	if len(got) != 1 || got[0].Comment != "TB|BUY|V|15M1M" {
		t.Fatalf("TB/15M_1M filter wrong: %+v", got)
	}

	got = PositionsFor(positions, "EURUSD", DirectionBuy, FalseBreakout, "4H_5M")
	if len(got) != 1 || got[0].Comment != "FB|BUY|VD|4H5M" {
		t.Fatalf("FB/4H_5M filter wrong: %+v", got)
	}
}

func TestPositionsFor_InstrumentAndDirectionMustMatch(t *testing.T) {
	positions := []Position{
		taggedPosition("EURUSD", DirectionBuy, "TB|BUY|V|4H5M"),
		taggedPosition("GBPUSD", DirectionBuy, "TB|BUY|V|4H5M"),
		taggedPosition("EURUSD", DirectionSell, "TB|SELL|V|4H5M"),
	}

	got := PositionsFor(positions, "EURUSD", DirectionBuy, TrueBreakout, "4H_5M")
	if len(got) != 1 || got[0].Instrument != "EURUSD" || got[0].Direction != DirectionBuy {
		t.Fatalf("instrument/direction filter wrong: %+v", got)
	}
}

func TestPositionsFor_MalformedCommentNeverMatches(t *testing.T) {
	positions := []Position{
		taggedPosition("EURUSD", DirectionBuy, ""),
		taggedPosition("EURUSD", DirectionBuy, "manual order"),
		taggedPosition("EURUSD", DirectionBuy, "TB|BUY"),
	}

	if got := PositionsFor(positions, "EURUSD", DirectionBuy, TrueBreakout, "4H_5M"); len(got) != 0 {
		t.Fatalf("malformed comments must not match, got %+v", got)
	}
}

func TestPositionsFor_AcceptsRawOrCompactRangeID(t *testing.T) {
	positions := []Position{
		taggedPosition("EURUSD", DirectionBuy, "TB|BUY|V|4H5M"),
	}

	if got := PositionsFor(positions, "EURUSD", DirectionBuy, TrueBreakout, "4H5M"); len(got) != 1 {
		t.Fatalf("compact range id must match too, got %+v", got)
	}
}
