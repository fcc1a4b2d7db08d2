package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"rangetrader/internal/timeframe"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "rangetrader"
)

// Load 读取配置文件并结合环境变量返回 Config。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("未找到配置文件 %q: %w", path, err)
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")

	v.SetDefault("feed.name", "binanceusdm")
	v.SetDefault("feed.use_sandbox", false)
	v.SetDefault("feed.retry.max_attempts", 5)
	v.SetDefault("feed.retry.min_delay", "500ms")
	v.SetDefault("feed.retry.max_delay", "5s")

	v.SetDefault("execution.simulation", true)
	v.SetDefault("execution.order_volume", 0.01)
	v.SetDefault("execution.slippage", 0.01)
	v.SetDefault("execution.time_in_force", "GTC")

	v.SetDefault("breakout.timeout_candles", 24)
	v.SetDefault("breakout.expire_at_boundary", true)

	v.SetDefault("strategy.true_breakout", true)
	v.SetDefault("strategy.false_breakout", true)
	v.SetDefault("strategy.volume.lookback", 20)
	v.SetDefault("strategy.volume.high_ratio", 1.5)
	v.SetDefault("strategy.volume.low_ratio", 0.5)

	v.SetDefault("cooldown.duration", "5m")
	v.SetDefault("cooldown.log_interval", "60s")

	v.SetDefault("scheduler.poll_interval", "15s")

	v.SetDefault("database.path", "data/rangetrader.db")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.in_memory", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})

	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.port", 8787)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			stringToTimeframeHookFunc(),
			stringToTimeOfDayHookFunc(),
		)
	}
}

// stringToTimeframeHookFunc 将 "H4"/"M5" 形式的周期代码解析为 timeframe.Timeframe。
func stringToTimeframeHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(timeframe.Timeframe{}) {
			return data, nil
		}
		return timeframe.Parse(data.(string))
	}
}

// stringToTimeOfDayHookFunc 将 "HH:MM" 形式的 UTC 时刻解析为 TimeOfDay。
func stringToTimeOfDayHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(TimeOfDay{}) {
			return data, nil
		}
		return ParseTimeOfDay(data.(string))
	}
}

// ParseTimeOfDay 解析 "HH:MM" 形式的 UTC 时刻。
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("无法解析时刻 %q，期望 HH:MM 格式", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("无法解析时刻 %q：小时非法", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("无法解析时刻 %q：分钟非法", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}
