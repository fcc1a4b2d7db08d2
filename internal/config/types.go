package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"rangetrader/internal/timeframe"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Symbols   SymbolsConfig   `mapstructure:"symbols"`
	Ranges    []RangeConfig   `mapstructure:"ranges"`
	Breakout  BreakoutConfig  `mapstructure:"breakout"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Cooldown  CooldownConfig  `mapstructure:"cooldown"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// FeedConfig 描述行情数据源连接信息。
type FeedConfig struct {
	Name       string      `mapstructure:"name"`
	APIKey     string      `mapstructure:"api_key"`
	APISecret  string      `mapstructure:"api_secret"`
	APIPass    string      `mapstructure:"api_password"`
	UseSandbox bool        `mapstructure:"use_sandbox"`
	Retry      RetryConfig `mapstructure:"retry"`
}

// RetryConfig 统一控制重试机制。
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// ExecutionConfig 控制下单行为。
type ExecutionConfig struct {
	Simulation  bool    `mapstructure:"simulation"`
	OrderVolume float64 `mapstructure:"order_volume"`
	Slippage    float64 `mapstructure:"slippage"`
	TimeInForce string  `mapstructure:"time_in_force"`
}

// SymbolsConfig 描述候选交易品种全集。
// Universe 中允许出现同一市场的多个后缀变体，启动时做去重与优先级筛选。
type SymbolsConfig struct {
	Universe []string `mapstructure:"universe"`
}

// TimeOfDay 表示一天内的 UTC 时刻。
type TimeOfDay struct {
	Hour   int
	Minute int
}

// MinuteOfDay 返回从零点起算的分钟数。
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// RangeConfig 描述一个参考区间设定。
type RangeConfig struct {
	ID                 string              `mapstructure:"id"`
	ReferenceTimeframe timeframe.Timeframe `mapstructure:"reference_timeframe"`
	ReferenceTime      TimeOfDay           `mapstructure:"reference_time"`
	BreakoutTimeframe  timeframe.Timeframe `mapstructure:"breakout_timeframe"`
	UseSpecificTime    bool                `mapstructure:"use_specific_time"`
}

// BreakoutConfig 控制突破状态的老化策略。
// ExpireAtBoundary 为 true 时，存活时长恰好等于上限的突破同样被重置。
type BreakoutConfig struct {
	TimeoutCandles   int  `mapstructure:"timeout_candles"`
	ExpireAtBoundary bool `mapstructure:"expire_at_boundary"`
}

// VolumeClassConfig 控制成交量分级阈值。
type VolumeClassConfig struct {
	Lookback  int     `mapstructure:"lookback"`
	HighRatio float64 `mapstructure:"high_ratio"`
	LowRatio  float64 `mapstructure:"low_ratio"`
}

// StrategyConfig 控制启用的策略及成交量分级。
type StrategyConfig struct {
	TrueBreakout  bool              `mapstructure:"true_breakout"`
	FalseBreakout bool              `mapstructure:"false_breakout"`
	Volume        VolumeClassConfig `mapstructure:"volume"`
}

// CooldownConfig 控制自动交易失败后的冷却窗口。
type CooldownConfig struct {
	Duration    time.Duration `mapstructure:"duration"`
	LogInterval time.Duration `mapstructure:"log_interval"`
}

// SchedulerConfig 控制轮询节奏。
type SchedulerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MonitorConfig 控制监控接口。
type MonitorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Feed.Name == "" {
		err = multierr.Append(err, errors.New("feed.name 不能为空"))
	}
	if c.Feed.Retry.MaxAttempts <= 0 {
		err = multierr.Append(err, errors.New("feed.retry.max_attempts 必须大于0"))
	}
	if c.Feed.Retry.MinDelay <= 0 || c.Feed.Retry.MaxDelay <= 0 {
		err = multierr.Append(err, errors.New("feed.retry.delay 必须为正"))
	}
	if c.Feed.Retry.MinDelay > c.Feed.Retry.MaxDelay {
		err = multierr.Append(err, errors.New("feed.retry.min_delay 不能大于 max_delay"))
	}
	if c.Execution.OrderVolume <= 0 {
		err = multierr.Append(err, errors.New("execution.order_volume 必须大于0"))
	}
	if c.Execution.Slippage < 0 || c.Execution.Slippage > 0.2 {
		err = multierr.Append(err, errors.New("execution.slippage 应位于[0,0.2]"))
	}
	if len(c.Symbols.Universe) == 0 {
		err = multierr.Append(err, errors.New("symbols.universe 至少包含一个品种"))
	}
	if len(c.Ranges) == 0 {
		err = multierr.Append(err, errors.New("ranges 至少包含一个区间设定"))
	}

	seen := make(map[string]struct{}, len(c.Ranges))
	for i, r := range c.Ranges {
		if r.ID == "" {
			err = multierr.Append(err, fmt.Errorf("ranges[%d].id 不能为空", i))
			continue
		}
		if _, dup := seen[r.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("ranges[%d].id %q 重复", i, r.ID))
		}
		seen[r.ID] = struct{}{}

		if r.ReferenceTimeframe.IsZero() {
			err = multierr.Append(err, fmt.Errorf("ranges[%d].reference_timeframe 不能为空", i))
		}
		if r.BreakoutTimeframe.IsZero() {
			err = multierr.Append(err, fmt.Errorf("ranges[%d].breakout_timeframe 不能为空", i))
		}
		if !r.ReferenceTimeframe.IsZero() && !r.BreakoutTimeframe.IsZero() &&
			r.BreakoutTimeframe.Duration >= r.ReferenceTimeframe.Duration {
			err = multierr.Append(err, fmt.Errorf("ranges[%d].breakout_timeframe 必须小于 reference_timeframe", i))
		}
		if r.ReferenceTime.Hour < 0 || r.ReferenceTime.Hour > 23 || r.ReferenceTime.Minute < 0 || r.ReferenceTime.Minute > 59 {
			err = multierr.Append(err, fmt.Errorf("ranges[%d].reference_time 非法", i))
		}
	}

	if c.Breakout.TimeoutCandles <= 0 {
		err = multierr.Append(err, errors.New("breakout.timeout_candles 必须大于0"))
	}
	if !c.Strategy.TrueBreakout && !c.Strategy.FalseBreakout {
		err = multierr.Append(err, errors.New("strategy 至少启用一个策略"))
	}
	if c.Strategy.Volume.Lookback <= 1 {
		err = multierr.Append(err, errors.New("strategy.volume.lookback 必须大于1"))
	}
	if c.Strategy.Volume.HighRatio <= c.Strategy.Volume.LowRatio {
		err = multierr.Append(err, errors.New("strategy.volume.high_ratio 必须大于 low_ratio"))
	}
	if c.Cooldown.Duration <= 0 {
		err = multierr.Append(err, errors.New("cooldown.duration 必须大于0"))
	}
	if c.Cooldown.LogInterval <= 0 {
		err = multierr.Append(err, errors.New("cooldown.log_interval 必须大于0"))
	}
	if c.Scheduler.PollInterval <= 0 {
		err = multierr.Append(err, errors.New("scheduler.poll_interval 必须大于0"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}
	if c.Monitor.Enabled && (c.Monitor.Port <= 0 || c.Monitor.Port > 65535) {
		err = multierr.Append(err, errors.New("monitor.port 必须位于(0,65535]"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
