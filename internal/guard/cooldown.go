package guard

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"rangetrader/internal/config"
)

// CooldownGate 在执行端报告自动交易被禁用后，让全部交易操作暂停一个
// 固定窗口。所有 worker 共享同一实例，操作都在一把互斥锁下串行；
// 该状态写入稀少、读取廉价，单锁足够。
//
// 每次开仓或改单前必须调用 IsActive 并在返回 true 时放弃操作。
type CooldownGate struct {
	mu            sync.Mutex
	cooldownUntil time.Time
	lastLog       time.Time

	duration    time.Duration
	logInterval time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewCooldownGate 创建冷却闸门。
func NewCooldownGate(cfg config.CooldownConfig, logger *zap.Logger) *CooldownGate {
	if logger == nil {
		logger = zap.NewNop()
	}

	duration := cfg.Duration
	if duration <= 0 {
		duration = 5 * time.Minute
	}
	logInterval := cfg.LogInterval
	if logInterval <= 0 {
		logInterval = time.Minute
	}

	return &CooldownGate{
		duration:    duration,
		logInterval: logInterval,
		logger:      logger,
		now:         time.Now,
	}
}

// Activate 启动冷却窗口。
func (g *CooldownGate) Activate(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.cooldownUntil = now.Add(g.duration)
	g.lastLog = now

	g.logger.Warn("自动交易被禁用，进入冷却窗口",
		zap.String("reason", reason),
		zap.Duration("duration", g.duration),
		zap.Time("until", g.cooldownUntil),
	)
}

// IsActive 返回冷却是否生效。窗口自然到期时就地清除状态，清除只发生
// 一次，之后的调用视为无冷却。生效期间按 logInterval 节流输出状态，
// 避免多个 worker 高频轮询刷屏。
func (g *CooldownGate) IsActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cooldownUntil.IsZero() {
		return false
	}

	now := g.now()
	if !now.Before(g.cooldownUntil) {
		g.logger.Info("冷却窗口结束，恢复交易")
		g.cooldownUntil = time.Time{}
		g.lastLog = time.Time{}
		return false
	}

	if now.Sub(g.lastLog) >= g.logInterval {
		g.logger.Info("冷却窗口生效中，跳过交易操作",
			zap.Duration("remaining", g.cooldownUntil.Sub(now)),
		)
		g.lastLog = now
	}

	return true
}

// Remaining 返回剩余冷却时长；无冷却时 ok=false。
func (g *CooldownGate) Remaining() (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cooldownUntil.IsZero() {
		return 0, false
	}

	remaining := g.cooldownUntil.Sub(g.now())
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}

// Reset 手工清除冷却状态。
func (g *CooldownGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.cooldownUntil.IsZero() {
		g.logger.Info("冷却状态被手工清除")
	}
	g.cooldownUntil = time.Time{}
	g.lastLog = time.Time{}
}
