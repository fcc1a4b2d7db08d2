package market

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CandleFetcher 抽象K线来源，便于在测试中替换真实客户端。
type CandleFetcher interface {
	Symbol() string
	FetchCandles(ctx context.Context, timeframe string, limit int64) ([]Candle, error)
}

var _ CandleFetcher = (*Client)(nil)

// SnapshotService 按区间设定并行拉取参考周期与突破周期K线。
type SnapshotService struct {
	client CandleFetcher
	logger *zap.Logger
}

// NewSnapshotService 创建快照服务。
func NewSnapshotService(client CandleFetcher, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		client: client,
		logger: logger,
	}
}

// GetSnapshot 拉取一个区间设定所需的两组K线。
func (s *SnapshotService) GetSnapshot(ctx context.Context, req SnapshotRequest) (RangeSnapshot, error) {
	if req.ReferenceLimit <= 0 {
		req.ReferenceLimit = DefaultReferenceLimit
	}
	if req.BreakoutLimit <= 0 {
		req.BreakoutLimit = DefaultBreakoutLimit
	}

	var (
		reference []Candle
		breakout  []Candle
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		data, err := s.client.FetchCandles(groupCtx, req.Range.ReferenceTimeframe.Exchange(), int64(req.ReferenceLimit))
		if err != nil {
			return err
		}
		reference = data
		return nil
	})

	group.Go(func() error {
		data, err := s.client.FetchCandles(groupCtx, req.Range.BreakoutTimeframe.Exchange(), int64(req.BreakoutLimit))
		if err != nil {
			return err
		}
		breakout = data
		return nil
	})

	if err := group.Wait(); err != nil {
		return RangeSnapshot{}, err
	}

	snapshot := RangeSnapshot{
		Instrument:  s.client.Symbol(),
		RangeID:     req.Range.ID,
		Reference:   reference,
		Breakout:    breakout,
		RetrievedAt: time.Now().UTC(),
	}

	s.logger.Debug("区间快照获取完成",
		zap.String("symbol", snapshot.Instrument),
		zap.String("range", snapshot.RangeID),
		zap.Int("reference_count", len(snapshot.Reference)),
		zap.Int("breakout_count", len(snapshot.Breakout)),
	)

	return snapshot, nil
}
