package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rangetrader/internal/config"
	"rangetrader/internal/timeframe"
)

type stubFetcher struct {
	mu     sync.Mutex
	series map[string][]Candle
	limits map[string]int64
	err    error
}

func (f *stubFetcher) Symbol() string { return "EURUSD" }

func (f *stubFetcher) FetchCandles(_ context.Context, tf string, limit int64) ([]Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.limits == nil {
		f.limits = make(map[string]int64)
	}
	f.limits[tf] = limit
	return f.series[tf], nil
}

func snapshotRange() config.RangeConfig {
	return config.RangeConfig{
		ID:                 "4H_5M",
		ReferenceTimeframe: timeframe.MustParse("H4"),
		BreakoutTimeframe:  timeframe.MustParse("M5"),
	}
}

func TestGetSnapshot_FetchesBothTimeframes(t *testing.T) {
	base := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{
		series: map[string][]Candle{
			"4h": {{Timestamp: base, Close: 1.10}},
			"5m": {{Timestamp: base, Close: 1.10}, {Timestamp: base.Add(5 * time.Minute), Close: 1.11}},
		},
	}
	svc := NewSnapshotService(fetcher, nil)

	snap, err := svc.GetSnapshot(context.Background(), SnapshotRequest{Range: snapshotRange()})
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}

	if snap.Instrument != "EURUSD" || snap.RangeID != "4H_5M" {
		t.Errorf("snapshot identity wrong: %+v", snap)
	}
	if len(snap.Reference) != 1 || len(snap.Breakout) != 2 {
		t.Errorf("series lengths wrong: ref=%d breakout=%d", len(snap.Reference), len(snap.Breakout))
	}
	if snap.RetrievedAt.IsZero() {
		t.Errorf("retrieval timestamp must be set")
	}
}

func TestGetSnapshot_AppliesDefaultLimits(t *testing.T) {
	fetcher := &stubFetcher{series: map[string][]Candle{}}
	svc := NewSnapshotService(fetcher, nil)

	if _, err := svc.GetSnapshot(context.Background(), SnapshotRequest{Range: snapshotRange()}); err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}

	if fetcher.limits["4h"] != DefaultReferenceLimit {
		t.Errorf("reference limit = %d, want %d", fetcher.limits["4h"], DefaultReferenceLimit)
	}
	if fetcher.limits["5m"] != DefaultBreakoutLimit {
		t.Errorf("breakout limit = %d, want %d", fetcher.limits["5m"], DefaultBreakoutLimit)
	}
}

func TestGetSnapshot_PropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("feed unavailable")
	fetcher := &stubFetcher{err: fetchErr}
	svc := NewSnapshotService(fetcher, nil)

	if _, err := svc.GetSnapshot(context.Background(), SnapshotRequest{Range: snapshotRange()}); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}
}
