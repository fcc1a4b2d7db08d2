package gateway

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"rangetrader/internal/strategy"
)

// SimulatedTrader 在内存中记录开仓，用于干跑模式与测试。
// 持仓快照与真实网关同构，过滤逻辑可以完整走通。
type SimulatedTrader struct {
	mu        sync.Mutex
	positions []strategy.Position
	nextMagic int64
	logger    *zap.Logger
	now       func() time.Time
}

// NewSimulatedTrader 创建模拟执行器。
func NewSimulatedTrader(logger *zap.Logger) *SimulatedTrader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedTrader{
		nextMagic: 1,
		logger:    logger,
		now:       time.Now,
	}
}

var _ Trader = (*SimulatedTrader)(nil)

// OpenPosition 登记一笔模拟持仓。
func (t *SimulatedTrader) OpenPosition(ctx context.Context, intent OrderIntent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.positions = append(t.positions, strategy.Position{
		Instrument: intent.Instrument,
		Direction:  intent.Direction,
		Volume:     intent.Volume,
		StopLoss:   intent.StopLoss,
		TakeProfit: intent.TakeProfit,
		OpenTime:   t.now().UTC(),
		Magic:      t.nextMagic,
		Comment:    intent.Comment,
	})
	t.nextMagic++

	t.logger.Info("模拟开仓",
		zap.String("instrument", intent.Instrument),
		zap.String("direction", string(intent.Direction)),
		zap.Float64("volume", intent.Volume),
		zap.String("comment", intent.Comment),
	)
	return nil
}

// Positions 返回当前模拟持仓的副本。
func (t *SimulatedTrader) Positions(ctx context.Context) ([]strategy.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]strategy.Position, len(t.positions))
	copy(out, t.positions)
	return out, nil
}

// Close 平掉指定下标的模拟持仓，测试用。
func (t *SimulatedTrader) Close(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 || index >= len(t.positions) {
		return
	}
	t.positions = append(t.positions[:index], t.positions[index+1:]...)
}
