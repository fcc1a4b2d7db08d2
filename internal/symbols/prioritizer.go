package symbols

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// 后缀优先级：raw 盘 < 标准盘 < 微型盘 < 未知。
const (
	priorityRaw      = 1
	priorityStandard = 2
	priorityMicro    = 3
	priorityUnknown  = 999
)

// Variant 为同一基础市场的一个品种变体。
type Variant struct {
	Name   string
	Suffix string
}

// Group 将基础市场名映射到观察到的变体集合，每次筛选过程中临时构建。
type Group struct {
	Base     string
	Variants []Variant
}

// AuditEntry 记录被淘汰变体及原因，仅用于日志审计。
type AuditEntry struct {
	Name   string
	Reason string
}

// Prioritizer 对品种全集做去重与优先级筛选，进程启动时单线程执行一次。
type Prioritizer struct {
	logger *zap.Logger
}

// NewPrioritizer 创建筛选器。
func NewPrioritizer(logger *zap.Logger) *Prioritizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prioritizer{logger: logger}
}

// SplitSuffix 拆出品种名尾部的优先级后缀（'r' 或 'm'），没有则后缀为空。
func SplitSuffix(name string) (base, suffix string) {
	if name == "" {
		return "", ""
	}
	last := name[len(name)-1]
	if last == 'r' || last == 'm' {
		return name[:len(name)-1], string(last)
	}
	return name, ""
}

func suffixPriority(suffix string) int {
	switch suffix {
	case "r":
		return priorityRaw
	case "":
		return priorityStandard
	case "m":
		return priorityMicro
	default:
		return priorityUnknown
	}
}

// GroupByBase 按基础市场名分组，组内按优先级排序，组间按名称排序。
func GroupByBase(names []string) []Group {
	byBase := make(map[string][]Variant)
	for _, name := range names {
		n := strings.TrimSpace(name)
		if n == "" {
			continue
		}
		base, suffix := SplitSuffix(n)
		byBase[base] = append(byBase[base], Variant{Name: n, Suffix: suffix})
	}

	groups := make([]Group, 0, len(byBase))
	for base, variants := range byBase {
		sort.SliceStable(variants, func(i, j int) bool {
			return suffixPriority(variants[i].Suffix) < suffixPriority(variants[j].Suffix)
		})
		groups = append(groups, Group{Base: base, Variants: variants})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Base < groups[j].Base })
	return groups
}

// SelectBest 返回组内优先级最高且可交易的变体。
func SelectBest(g Group, tradeable func(string) bool) (Variant, bool) {
	for _, v := range g.Variants {
		if tradeable(v.Name) {
			return v, true
		}
	}
	return Variant{}, false
}

// Filter 对整个品种全集执行分组与选优，返回去重后的工作集与审计清单。
// 不修改输入。
func (p *Prioritizer) Filter(names []string, tradeable func(string) bool) ([]string, []AuditEntry) {
	groups := GroupByBase(names)

	selected := make([]string, 0, len(groups))
	var audit []AuditEntry

	for _, g := range groups {
		best, ok := SelectBest(g, tradeable)
		if !ok {
			for _, v := range g.Variants {
				audit = append(audit, AuditEntry{Name: v.Name, Reason: "not tradeable"})
			}
			continue
		}

		selected = append(selected, best.Name)
		for _, v := range g.Variants {
			if v.Name == best.Name {
				continue
			}
			reason := fmt.Sprintf("duplicate of %s", best.Name)
			if !tradeable(v.Name) {
				reason = "not tradeable"
			}
			audit = append(audit, AuditEntry{Name: v.Name, Reason: reason})
		}
	}

	for _, entry := range audit {
		p.logger.Info("品种变体被淘汰",
			zap.String("symbol", entry.Name),
			zap.String("reason", entry.Reason),
		)
	}

	return selected, audit
}
