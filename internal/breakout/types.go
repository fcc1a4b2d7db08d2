package breakout

import "time"

// Signal 为单根K线相对参考区间的分类结果。
type Signal string

const (
	SignalNone        Signal = "none"
	SignalAbove       Signal = "above"
	SignalBelow       Signal = "below"
	SignalGapRejected Signal = "gap_rejected"
)

// Direction 表示突破方向。
type Direction string

const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// ReferenceRange 为一根已完成参考周期K线的高低点，后续突破K线与其比较。
type ReferenceRange struct {
	High      float64
	Low       float64
	Open      float64
	Close     float64
	OpenTime  time.Time
	CloseTime time.Time
}

// DirectionState 记录某一方向的突破检测状态。
type DirectionState struct {
	Detected bool
	Time     time.Time
	Volume   float64
}

// Snapshot 为某 (品种, 区间) 键的状态快照。
// 快照只保证读取瞬间有效，下一轮轮询后不可复用。
type Snapshot struct {
	Above DirectionState
	Below DirectionState
}

// Expiry 描述一次因老化触发的状态重置。
type Expiry struct {
	Direction Direction
	Detected  time.Time
	Age       time.Duration
}
