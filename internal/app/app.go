package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rangetrader/internal/breakout"
	"rangetrader/internal/config"
	"rangetrader/internal/gateway"
	"rangetrader/internal/guard"
	"rangetrader/internal/market"
	"rangetrader/internal/monitor"
	"rangetrader/internal/store"
	"rangetrader/internal/symbols"
)

// App 聚合核心依赖并驱动系统生命周期。
// 跟踪器、冷却闸门与筛选器都在这里显式构造并注入 worker，
// 生命周期跟随进程启停。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 完成启动期装配并驱动全部 worker，直到收到退出信号。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("交易系统已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("feed", a.cfg.Feed.Name),
		zap.Int("universe", len(a.cfg.Symbols.Universe)),
		zap.Int("ranges", len(a.cfg.Ranges)),
		zap.Bool("simulation", a.cfg.Execution.Simulation),
	)

	monitorSvc, err := monitor.NewService(a.store, a.logger)
	if err != nil {
		return fmt.Errorf("初始化监控服务失败: %w", err)
	}

	if a.cfg.Monitor.Enabled {
		if err := startMonitorServer(ctx, monitorSvc, a.cfg.Monitor.Port, a.logger); err != nil {
			return fmt.Errorf("启动监控接口失败: %w", err)
		}
	}

	clients := make(map[string]*market.Client, len(a.cfg.Symbols.Universe))
	for _, name := range a.cfg.Symbols.Universe {
		client, err := market.NewClient(a.cfg.Feed, name, a.logger)
		if err != nil {
			return fmt.Errorf("初始化行情客户端失败 (%s): %w", name, err)
		}
		clients[name] = client
	}

	// 启动期执行一次品种去重与选优，之后 worker 集合固定不变。
	probeTimeframe := a.cfg.Ranges[0].BreakoutTimeframe.Exchange()
	prioritizer := symbols.NewPrioritizer(a.logger)
	selected, audit := prioritizer.Filter(a.cfg.Symbols.Universe, func(name string) bool {
		client, ok := clients[name]
		if !ok {
			return false
		}
		return client.Probe(ctx, probeTimeframe)
	})
	if len(selected) == 0 {
		return errors.New("没有可交易品种，拒绝启动")
	}
	a.logger.Info("品种筛选完成",
		zap.Strings("selected", selected),
		zap.Int("discarded", len(audit)),
	)

	var trader gateway.Trader
	if a.cfg.Execution.Simulation {
		a.logger.Info("执行器处于模拟模式")
		trader = gateway.NewSimulatedTrader(a.logger)
	} else {
		trader = gateway.NewLiveTrader(gateway.NewLiveClient(a.cfg.Feed), a.cfg.Execution, a.logger)
	}

	tracker := breakout.NewTracker(a.cfg.Breakout, a.logger)
	gate := guard.NewCooldownGate(a.cfg.Cooldown, a.logger)

	pollInterval := a.cfg.Scheduler.PollInterval
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, name := range selected {
		w := &worker{
			instrument: name,
			ranges:     a.cfg.Ranges,
			execCfg:    a.cfg.Execution,
			stratCfg:   a.cfg.Strategy,
			snapshots:  market.NewSnapshotService(clients[name], a.logger),
			tracker:    tracker,
			trader:     trader,
			gate:       gate,
			monitor:    monitorSvc,
			logger:     a.logger,
			now:        time.Now,
		}
		group.Go(func() error {
			return w.run(groupCtx, pollInterval)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("系统异常退出: %w", err)
	}

	a.logger.Info("系统收到退出信号，已停止")
	return nil
}
