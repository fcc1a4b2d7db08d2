package timeframe

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timeframe 表示一个K线周期，保留配置里的原始代码（如 "H4"、"M5"）。
type Timeframe struct {
	Code     string
	Duration time.Duration
}

// Parse 将 "M1"/"M15"/"H1"/"H4"/"D1" 形式的周期代码解析为 Timeframe。
// 非法代码视为配置错误，在启动阶段直接失败。
func Parse(code string) (Timeframe, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) < 2 {
		return Timeframe{}, fmt.Errorf("timeframe: 无法解析周期代码 %q", code)
	}

	n, err := strconv.Atoi(c[1:])
	if err != nil || n <= 0 {
		return Timeframe{}, fmt.Errorf("timeframe: 无法解析周期代码 %q", code)
	}

	var unit time.Duration
	switch c[0] {
	case 'M':
		unit = time.Minute
	case 'H':
		unit = time.Hour
	case 'D':
		unit = 24 * time.Hour
	default:
		return Timeframe{}, fmt.Errorf("timeframe: 不支持的周期单位 %q", code)
	}

	return Timeframe{Code: c, Duration: time.Duration(n) * unit}, nil
}

// MustParse 解析周期代码，失败时 panic，仅用于测试与常量初始化。
func MustParse(code string) Timeframe {
	tf, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return tf
}

// Minutes 返回周期的分钟数。
func (t Timeframe) Minutes() int {
	return int(t.Duration / time.Minute)
}

// Exchange 返回交易所接口使用的周期标识（如 "5m"、"4h"、"1d"）。
func (t Timeframe) Exchange() string {
	d := t.Duration
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	default:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
}

// IsZero 判断是否为未初始化的周期。
func (t Timeframe) IsZero() bool {
	return t.Duration == 0
}

func (t Timeframe) String() string {
	return t.Code
}
