package strategy

import (
	talib "github.com/markcheno/go-talib"

	"rangetrader/internal/config"
)

// 成交量等级代码，写入订单标记。
const (
	VolumeClassHigh      = "VH"
	VolumeClassNormal    = "V"
	VolumeClassDepressed = "VD"
	VolumeClassUnknown   = "V0"
)

// ClassifyVolume 将突破K线成交量相对近期均量分级。
// 基线为突破周期成交量的简单移动平均；样本不足时返回未知等级，
// 分级只影响标记内容，不影响交易决策。
func ClassifyVolume(volume float64, volumes []float64, cfg config.VolumeClassConfig) string {
	lookback := cfg.Lookback
	if lookback <= 1 || len(volumes) < lookback {
		return VolumeClassUnknown
	}

	sma := talib.Sma(volumes, lookback)
	baseline := sma[len(sma)-1]
	if baseline <= 0 {
		return VolumeClassUnknown
	}

	ratio := volume / baseline
	switch {
	case ratio >= cfg.HighRatio:
		return VolumeClassHigh
	case ratio <= cfg.LowRatio:
		return VolumeClassDepressed
	default:
		return VolumeClassNormal
	}
}
