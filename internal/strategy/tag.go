package strategy

import (
	"fmt"
	"strings"
)

const tagSeparator = "|"

// Tag 为订单备注中嵌入的紧凑标记，标识产生该订单的策略、方向、
// 成交量等级与区间设定。与备注字符串无损互转。
type Tag struct {
	Strategy    ID
	Direction   Direction
	VolumeClass string
	RangeID     string
}

// CompactRangeID 去掉区间标识中的分隔符（"4H_5M" → "4H5M"），
// 以适配券商备注长度限制。
func CompactRangeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Encode 将标记编码为备注字符串，对字段约束做严格校验。
func (t Tag) Encode() (string, error) {
	if t.Strategy == "" || t.Direction == "" || t.RangeID == "" {
		return "", fmt.Errorf("strategy: 标记字段不完整: %+v", t)
	}

	fields := []string{string(t.Strategy), string(t.Direction), t.VolumeClass, CompactRangeID(t.RangeID)}
	for _, f := range fields {
		if strings.Contains(f, tagSeparator) {
			return "", fmt.Errorf("strategy: 标记字段 %q 含有分隔符", f)
		}
	}

	return strings.Join(fields, tagSeparator), nil
}

// ParseTag 解析备注字符串。解析是全函数：格式不符时返回零值标记，
// 零值匹配不到任何过滤条件，不会抛出错误。
func ParseTag(comment string) Tag {
	parts := strings.Split(comment, tagSeparator)
	if len(parts) != 4 {
		return Tag{}
	}

	return Tag{
		Strategy:    ID(parts[0]),
		Direction:   Direction(parts[1]),
		VolumeClass: parts[2],
		RangeID:     parts[3],
	}
}
