package breakout

import (
	"time"

	"rangetrader/internal/config"
)

const minutesPerDay = 24 * 60

// IsRestricted 判断当前时刻是否落在参考K线尚未收盘的形成窗口内。
// 窗口内不做突破评估。仅对固定参考时刻的区间设定生效；
// 非固定时刻的设定总是以上一根已完成K线为参考，不需要限制窗口。
func IsRestricted(cfg config.RangeConfig, now time.Time) bool {
	if !cfg.UseSpecificTime {
		return false
	}

	utc := now.UTC()
	nowMinute := utc.Hour()*60 + utc.Minute()

	return inFormationWindow(cfg.ReferenceTime.MinuteOfDay(), cfg.ReferenceTimeframe.Minutes(), nowMinute)
}

// inFormationWindow 用整数分钟运算判断 now 是否位于 [start, start+duration)。
// 窗口结束分钟本身不受限：此刻参考K线刚收盘，突破评估可以开始。
func inFormationWindow(startMinute, durationMinutes, nowMinute int) bool {
	endMinute := startMinute + durationMinutes

	if endMinute >= minutesPerDay {
		// 跨越午夜的窗口。
		return nowMinute >= startMinute || nowMinute < endMinute-minutesPerDay
	}

	return nowMinute >= startMinute && nowMinute < endMinute
}
