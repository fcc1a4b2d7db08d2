package monitor

import "time"

// EventType 表示监控事件类型。
type EventType string

const (
	EventBreakoutDetected  EventType = "breakout_detected"
	EventGapRejected       EventType = "gap_rejected"
	EventBreakoutExpired   EventType = "breakout_expired"
	EventRangeRollover     EventType = "range_rollover"
	EventOrderSubmitted    EventType = "order_submitted"
	EventOrderRejected     EventType = "order_rejected"
	EventCooldownActivated EventType = "cooldown_activated"
	EventError             EventType = "error"
)

// Event 封装通用监控事件。
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BreakoutPayload 记录一次突破检出。
type BreakoutPayload struct {
	Instrument string    `json:"instrument"`
	RangeID    string    `json:"range_id"`
	Direction  string    `json:"direction"`
	RangeHigh  float64   `json:"range_high"`
	RangeLow   float64   `json:"range_low"`
	Close      float64   `json:"close"`
	Volume     float64   `json:"volume"`
	DetectedAt time.Time `json:"detected_at"`
}

// GapPayload 记录一次被拒绝的跳空走势。
type GapPayload struct {
	Instrument string  `json:"instrument"`
	RangeID    string  `json:"range_id"`
	RangeHigh  float64 `json:"range_high"`
	RangeLow   float64 `json:"range_low"`
	Open       float64 `json:"open"`
	Close      float64 `json:"close"`
}

// ExpiryPayload 记录一次突破状态超时重置。
type ExpiryPayload struct {
	Instrument string    `json:"instrument"`
	RangeID    string    `json:"range_id"`
	Direction  string    `json:"direction"`
	DetectedAt time.Time `json:"detected_at"`
	AgeSeconds float64   `json:"age_seconds"`
}

// RolloverPayload 记录参考区间换代。
type RolloverPayload struct {
	Instrument string    `json:"instrument"`
	RangeID    string    `json:"range_id"`
	RangeStart time.Time `json:"range_start"`
}

// OrderPayload 记录一次开仓请求的结果。
type OrderPayload struct {
	Instrument string  `json:"instrument"`
	RangeID    string  `json:"range_id"`
	Strategy   string  `json:"strategy"`
	Direction  string  `json:"direction"`
	Volume     float64 `json:"volume"`
	Comment    string  `json:"comment"`
	Error      string  `json:"error,omitempty"`
}

// CooldownPayload 记录冷却窗口激活。
type CooldownPayload struct {
	Reason          string  `json:"reason"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// ErrorPayload 记录异常。
type ErrorPayload struct {
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}
