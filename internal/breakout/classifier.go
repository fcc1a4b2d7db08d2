package breakout

import "rangetrader/internal/market"

// Classify 判定一根突破周期K线相对参考区间的走势。
//
// 开盘价恰好等于区间上下沿视为区间内；收盘价恰好等于上下沿不构成突破
// （收盘价用严格不等号比较）。开盘在区间外而收盘也在区间外的走势属于
// 跳空，只做记录，永远不会触发交易。
func Classify(ref ReferenceRange, c market.Candle) Signal {
	openInside := c.Open >= ref.Low && c.Open <= ref.High

	if openInside {
		switch {
		case c.Close > ref.High:
			return SignalAbove
		case c.Close < ref.Low:
			return SignalBelow
		default:
			return SignalNone
		}
	}

	if c.Close > ref.High || c.Close < ref.Low {
		return SignalGapRejected
	}

	return SignalNone
}
