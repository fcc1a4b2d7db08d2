package breakout

import (
	"time"

	"rangetrader/internal/config"
	"rangetrader/internal/market"
)

// SelectReference 从参考周期K线序列中挑出当前生效的参考区间。
//
// 固定参考时刻的设定取最近一根开盘时刻等于 reference_time 且已经收盘的
// K线；其余设定取最近一根已收盘的K线。序列为空或找不到符合条件的K线时
// 返回 ok=false，按"本轮无观测"处理。
func SelectReference(candles []market.Candle, cfg config.RangeConfig, now time.Time) (ReferenceRange, bool) {
	dur := cfg.ReferenceTimeframe.Duration
	if dur <= 0 || len(candles) == 0 {
		return ReferenceRange{}, false
	}

	for i := len(candles) - 1; i >= 0; i-- {
		c := candles[i]
		closeTime := c.Timestamp.Add(dur)
		if closeTime.After(now) {
			continue // 尚在形成中
		}

		if cfg.UseSpecificTime {
			open := c.Timestamp.UTC()
			if open.Hour() != cfg.ReferenceTime.Hour || open.Minute() != cfg.ReferenceTime.Minute {
				continue
			}
		}

		return ReferenceRange{
			High:      c.High,
			Low:       c.Low,
			Open:      c.Open,
			Close:     c.Close,
			OpenTime:  c.Timestamp,
			CloseTime: closeTime,
		}, true
	}

	return ReferenceRange{}, false
}

// LastClosed 返回序列中最近一根已收盘的突破周期K线。
func LastClosed(candles []market.Candle, tf time.Duration, now time.Time) (market.Candle, bool) {
	for i := len(candles) - 1; i >= 0; i-- {
		c := candles[i]
		if !c.Timestamp.Add(tf).After(now) {
			return c, true
		}
	}
	return market.Candle{}, false
}
