package strategy

// PositionsFor 从持仓快照中筛出与 (品种, 方向, 策略, 区间) 键完全匹配
// 的持仓。策略与区间是独立维度：同品种同方向下，不同策略或不同区间
// 的持仓互不干扰。调用方用它保证每个键至多一个在场持仓。
func PositionsFor(positions []Position, instrument string, dir Direction, strat ID, rangeID string) []Position {
	compact := CompactRangeID(rangeID)

	var matched []Position
	for _, p := range positions {
		if p.Instrument != instrument || p.Direction != dir {
			continue
		}

		tag := ParseTag(p.Comment)
		if tag.Strategy != strat || tag.RangeID != compact {
			continue
		}

		matched = append(matched, p)
	}

	return matched
}
