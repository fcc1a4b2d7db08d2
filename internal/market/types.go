package market

import (
	"time"

	"rangetrader/internal/config"
)

// Candle 代表单根K线。
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// RangeSnapshot 聚合一个区间设定所需的参考周期与突破周期K线。
type RangeSnapshot struct {
	Instrument  string
	RangeID     string
	Reference   []Candle
	Breakout    []Candle
	RetrievedAt time.Time
}

// SnapshotRequest 控制一次快照采集的参数。
type SnapshotRequest struct {
	Range          config.RangeConfig
	ReferenceLimit int
	BreakoutLimit  int
}

// DefaultLimits 返回默认的K线拉取数量。
// 参考周期只需最近几根，突破周期需要覆盖成交量基线窗口。
const (
	DefaultReferenceLimit = 10
	DefaultBreakoutLimit  = 64
)
