package strategy

import "time"

// ID 标识互相竞争的两套策略。
type ID string

const (
	// TrueBreakout 顺突破方向开仓。
	TrueBreakout ID = "TB"
	// FalseBreakout 反向博弈假突破。
	FalseBreakout ID = "FB"
)

// Direction 表示持仓方向。
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Opposite 返回相反方向。
func (d Direction) Opposite() Direction {
	if d == DirectionBuy {
		return DirectionSell
	}
	return DirectionBuy
}

// Position 为执行端持仓的只读视图，核心逻辑不修改其中字段。
type Position struct {
	Instrument   string
	Direction    Direction
	Volume       float64
	OpenPrice    float64
	CurrentPrice float64
	StopLoss     float64
	TakeProfit   float64
	Profit       float64
	OpenTime     time.Time
	Magic        int64
	Comment      string
}
