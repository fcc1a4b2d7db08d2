package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rangetrader/internal/breakout"
	"rangetrader/internal/config"
	"rangetrader/internal/gateway"
	"rangetrader/internal/guard"
	"rangetrader/internal/market"
	"rangetrader/internal/monitor"
	"rangetrader/internal/strategy"
)

// SnapshotSource 抽象区间快照来源，便于在测试中替换真实行情服务。
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, req market.SnapshotRequest) (market.RangeSnapshot, error)
}

var _ SnapshotSource = (*market.SnapshotService)(nil)

// worker 负责单个品种的轮询循环。
// 各 worker 互相独立，突破判定只依赖自身品种的数据；
// 跨 worker 共享的只有状态跟踪器、冷却闸门与执行网关。
type worker struct {
	instrument string
	ranges     []config.RangeConfig
	execCfg    config.ExecutionConfig
	stratCfg   config.StrategyConfig

	snapshots SnapshotSource
	tracker   *breakout.Tracker
	trader    gateway.Trader
	gate      *guard.CooldownGate
	monitor   *monitor.Service
	logger    *zap.Logger
	now       func() time.Time
}

// run 以固定间隔驱动 tick，直到上下文取消。
// 单轮失败只记录，不终止循环。
func (w *worker) run(ctx context.Context, interval time.Duration) error {
	w.tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker 停止", zap.String("instrument", w.instrument))
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *worker) tick(ctx context.Context) {
	for _, rc := range w.ranges {
		if err := w.processRange(ctx, rc); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Warn("区间处理失败",
				zap.String("instrument", w.instrument),
				zap.String("range", rc.ID),
				zap.Error(err),
			)
			w.monitor.RecordError(ctx, "区间处理失败", err, map[string]interface{}{
				"instrument": w.instrument,
				"range":      rc.ID,
			})
		}
	}
}

// processRange 执行一个区间设定的完整判定流程。
func (w *worker) processRange(ctx context.Context, rc config.RangeConfig) error {
	now := w.now().UTC()

	// 参考K线尚未收盘时跳过本轮，窗口判定每轮都要重新计算。
	if breakout.IsRestricted(rc, now) {
		w.logger.Debug("处于区间形成窗口，跳过",
			zap.String("instrument", w.instrument),
			zap.String("range", rc.ID),
		)
		return nil
	}

	snap, err := w.snapshots.GetSnapshot(ctx, market.SnapshotRequest{Range: rc})
	if err != nil {
		// 请求窗口内没有K线按"本轮无观测"处理，状态保持不变。
		if errors.Is(err, market.ErrNoCandles) {
			w.logger.Debug("无K线数据，跳过本轮",
				zap.String("instrument", w.instrument),
				zap.String("range", rc.ID),
			)
			return nil
		}
		return fmt.Errorf("拉取区间快照失败: %w", err)
	}

	ref, ok := breakout.SelectReference(snap.Reference, rc, now)
	if !ok {
		// 数据不可用视为本轮无观测，状态保持不变。
		return nil
	}

	if w.tracker.BeginRange(w.instrument, rc.ID, ref.OpenTime) {
		w.monitor.RecordRollover(ctx, monitor.RolloverPayload{
			Instrument: w.instrument,
			RangeID:    rc.ID,
			RangeStart: ref.OpenTime,
		})
	}

	candle, ok := breakout.LastClosed(snap.Breakout, rc.BreakoutTimeframe.Duration, now)
	if !ok || candle.Timestamp.Before(ref.CloseTime) {
		return nil
	}

	closeTime := candle.Timestamp.Add(rc.BreakoutTimeframe.Duration)

	switch sig := breakout.Classify(ref, candle); sig {
	case breakout.SignalGapRejected:
		w.monitor.RecordGapRejected(ctx, monitor.GapPayload{
			Instrument: w.instrument,
			RangeID:    rc.ID,
			RangeHigh:  ref.High,
			RangeLow:   ref.Low,
			Open:       candle.Open,
			Close:      candle.Close,
		})
	case breakout.SignalAbove, breakout.SignalBelow:
		if w.tracker.Observe(w.instrument, rc.ID, sig, closeTime, candle.Volume) {
			w.logger.Info("检出突破",
				zap.String("instrument", w.instrument),
				zap.String("range", rc.ID),
				zap.String("direction", string(sig)),
				zap.Float64("close", candle.Close),
			)
			w.monitor.RecordBreakout(ctx, monitor.BreakoutPayload{
				Instrument: w.instrument,
				RangeID:    rc.ID,
				Direction:  string(sig),
				RangeHigh:  ref.High,
				RangeLow:   ref.Low,
				Close:      candle.Close,
				Volume:     candle.Volume,
				DetectedAt: closeTime,
			})
		}
	}

	state, expired := w.tracker.Current(w.instrument, rc.ID, rc.BreakoutTimeframe.Duration, now)
	for _, e := range expired {
		w.monitor.RecordExpiry(ctx, monitor.ExpiryPayload{
			Instrument: w.instrument,
			RangeID:    rc.ID,
			Direction:  string(e.Direction),
			DetectedAt: e.Detected,
			AgeSeconds: e.Age.Seconds(),
		})
	}

	var breakDir strategy.Direction
	var detection breakout.DirectionState
	switch {
	case state.Above.Detected:
		breakDir = strategy.DirectionBuy
		detection = state.Above
	case state.Below.Detected:
		breakDir = strategy.DirectionSell
		detection = state.Below
	default:
		return nil
	}

	return w.placeOrders(ctx, rc, ref, detection, breakDir, snap)
}

// placeOrders 为启用的策略逐个检查持仓并请求开仓。
func (w *worker) placeOrders(ctx context.Context, rc config.RangeConfig, ref breakout.ReferenceRange, detection breakout.DirectionState, breakDir strategy.Direction, snap market.RangeSnapshot) error {
	volClass := strategy.ClassifyVolume(detection.Volume, candleVolumes(snap.Breakout), w.stratCfg.Volume)

	positions, err := w.trader.Positions(ctx)
	if err != nil {
		return fmt.Errorf("获取持仓快照失败: %w", err)
	}

	for _, entry := range w.enabledStrategies(breakDir) {
		if len(strategy.PositionsFor(positions, w.instrument, entry.dir, entry.id, rc.ID)) > 0 {
			continue
		}

		if w.gate.IsActive() {
			continue
		}

		tag := strategy.Tag{
			Strategy:    entry.id,
			Direction:   entry.dir,
			VolumeClass: volClass,
			RangeID:     rc.ID,
		}
		comment, err := tag.Encode()
		if err != nil {
			w.monitor.RecordError(ctx, "编码订单标记失败", err, map[string]interface{}{
				"instrument": w.instrument,
				"range":      rc.ID,
			})
			continue
		}

		stopLoss, takeProfit := protectionLevels(entry.dir, ref)

		intent := gateway.OrderIntent{
			Instrument: w.instrument,
			Direction:  entry.dir,
			Volume:     w.execCfg.OrderVolume,
			StopLoss:   stopLoss,
			TakeProfit: takeProfit,
			Comment:    comment,
		}

		payload := monitor.OrderPayload{
			Instrument: w.instrument,
			RangeID:    rc.ID,
			Strategy:   string(entry.id),
			Direction:  string(entry.dir),
			Volume:     intent.Volume,
			Comment:    comment,
		}

		if err := w.trader.OpenPosition(ctx, intent); err != nil {
			if errors.Is(err, gateway.ErrAutoTradingDisabled) {
				w.gate.Activate(err.Error())
				w.monitor.RecordCooldown(ctx, monitor.CooldownPayload{
					Reason: err.Error(),
				})
			}
			payload.Error = err.Error()
			w.monitor.RecordOrder(ctx, payload)
			continue
		}

		w.monitor.RecordOrder(ctx, payload)
	}

	return nil
}

type strategyEntry struct {
	id  strategy.ID
	dir strategy.Direction
}

// enabledStrategies 返回启用策略及各自交易方向：
// 顺势策略跟随突破方向，假突破策略反向。
func (w *worker) enabledStrategies(breakDir strategy.Direction) []strategyEntry {
	entries := make([]strategyEntry, 0, 2)
	if w.stratCfg.TrueBreakout {
		entries = append(entries, strategyEntry{id: strategy.TrueBreakout, dir: breakDir})
	}
	if w.stratCfg.FalseBreakout {
		entries = append(entries, strategyEntry{id: strategy.FalseBreakout, dir: breakDir.Opposite()})
	}
	return entries
}

// protectionLevels 以参考区间推导保护价位：
// 止损设在区间另一侧，止盈按区间高度等距外推。
func protectionLevels(dir strategy.Direction, ref breakout.ReferenceRange) (stopLoss, takeProfit float64) {
	height := ref.High - ref.Low
	if dir == strategy.DirectionBuy {
		return ref.Low, ref.High + height
	}
	return ref.High, ref.Low - height
}

func candleVolumes(candles []market.Candle) []float64 {
	volumes := make([]float64, 0, len(candles))
	for _, c := range candles {
		volumes = append(volumes, c.Volume)
	}
	return volumes
}
