package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	ccxt "github.com/ccxt/ccxt/go/v4"
	"go.uber.org/zap"

	"rangetrader/internal/config"
	"rangetrader/internal/strategy"
)

type orderClient interface {
	CreateMarketOrder(symbol string, side string, amount float64, options ...ccxt.CreateMarketOrderOptions) (ccxt.Order, error)
	FetchPositions(options ...ccxt.FetchPositionsOptions) ([]ccxt.Position, error)
}

// LiveTrader 将开仓请求转换为真实交易所委托，并把持仓映射为只读快照。
type LiveTrader struct {
	client orderClient
	opts   config.ExecutionConfig
	logger *zap.Logger
}

// NewLiveClient 构造执行端 ccxt 客户端。
func NewLiveClient(cfg config.FeedConfig) *ccxt.Binanceusdm {
	userConfig := map[string]interface{}{
		"enableRateLimit": true,
	}
	if cfg.APIKey != "" {
		userConfig["apiKey"] = cfg.APIKey
	}
	if cfg.APISecret != "" {
		userConfig["secret"] = cfg.APISecret
	}
	if cfg.APIPass != "" {
		userConfig["password"] = cfg.APIPass
	}

	client := ccxt.NewBinanceusdm(userConfig)
	if cfg.UseSandbox {
		client.SetSandboxMode(true)
	}
	return client
}

// NewLiveTrader 创建真实执行器。
func NewLiveTrader(client orderClient, opts config.ExecutionConfig, logger *zap.Logger) *LiveTrader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveTrader{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

var _ Trader = (*LiveTrader)(nil)

// OpenPosition 提交市价开仓单，备注随委托一并带到执行端。
func (t *LiveTrader) OpenPosition(ctx context.Context, intent OrderIntent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if intent.Volume <= 0 {
		return fmt.Errorf("gateway: 下单手数无效 %.6f", intent.Volume)
	}

	side := "buy"
	if intent.Direction == strategy.DirectionSell {
		side = "sell"
	}

	params := map[string]interface{}{
		"clientOrderId": intent.Comment,
	}
	if t.opts.Slippage > 0 {
		params["slippage"] = fmt.Sprintf("%.6f", t.opts.Slippage)
	}
	if t.opts.TimeInForce != "" {
		params["timeInForce"] = strings.ToLower(t.opts.TimeInForce)
	}
	if intent.StopLoss > 0 {
		params["stopLossPrice"] = intent.StopLoss
	}
	if intent.TakeProfit > 0 {
		params["takeProfitPrice"] = intent.TakeProfit
	}

	_, err := t.client.CreateMarketOrder(intent.Instrument, side, intent.Volume,
		ccxt.WithCreateMarketOrderParams(params))
	if err != nil {
		normalized := classifyGatewayError(err)
		t.logger.Error("开仓失败",
			zap.String("instrument", intent.Instrument),
			zap.String("side", side),
			zap.Float64("volume", intent.Volume),
			zap.Error(normalized),
		)
		return normalized
	}

	t.logger.Info("开仓成功",
		zap.String("instrument", intent.Instrument),
		zap.String("side", side),
		zap.Float64("volume", intent.Volume),
		zap.String("comment", intent.Comment),
	)
	return nil
}

// Positions 拉取当前持仓快照。备注缺失或无法解析时快照的 Comment 为空，
// 过滤逻辑会把它视为不匹配任何键。
func (t *LiveTrader) Positions(ctx context.Context) ([]strategy.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawPositions, err := t.client.FetchPositions()
	if err != nil {
		return nil, fmt.Errorf("gateway: 获取持仓失败: %w", classifyGatewayError(err))
	}

	positions := make([]strategy.Position, 0, len(rawPositions))
	for _, rawPos := range rawPositions {
		symbol := derefString(rawPos.Symbol)
		size := derefFloat(rawPos.Contracts)
		if symbol == "" || size == 0 {
			continue
		}

		dir := strategy.DirectionBuy
		if strings.EqualFold(derefString(rawPos.Side), "short") {
			dir = strategy.DirectionSell
		}

		positions = append(positions, strategy.Position{
			Instrument:   symbol,
			Direction:    dir,
			Volume:       size,
			OpenPrice:    derefFloat(rawPos.EntryPrice),
			CurrentPrice: derefFloat(rawPos.MarkPrice),
			Profit:       derefFloat(rawPos.UnrealizedPnl),
			OpenTime:     positionOpenTime(rawPos.Info),
			Magic:        positionMagic(rawPos.Info),
			Comment:      positionComment(rawPos.Info),
		})
	}

	return positions, nil
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func positionComment(info map[string]interface{}) string {
	if info == nil {
		return ""
	}
	for _, key := range []string{"clientOrderId", "comment"} {
		if v, ok := info[key].(string); ok {
			return v
		}
	}
	return ""
}

func positionMagic(info map[string]interface{}) int64 {
	if info == nil {
		return 0
	}
	switch v := info["positionIdx"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func positionOpenTime(info map[string]interface{}) time.Time {
	if info == nil {
		return time.Time{}
	}
	switch v := info["updateTime"].(type) {
	case float64:
		return time.UnixMilli(int64(v)).UTC()
	case string:
		if ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
	}
	return time.Time{}
}
