package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ccxt "github.com/ccxt/ccxt/go/v4"

	"rangetrader/internal/strategy"
)

// OrderIntent 描述一次开仓请求。Comment 携带编码后的策略标记。
type OrderIntent struct {
	Instrument string
	Direction  strategy.Direction
	Volume     float64
	StopLoss   float64
	TakeProfit float64
	Comment    string
}

// Trader 抽象执行端网关，方便切换真实或模拟下单。
type Trader interface {
	OpenPosition(ctx context.Context, intent OrderIntent) error
	Positions(ctx context.Context) ([]strategy.Position, error)
}

var (
	// ErrAutoTradingDisabled 表示执行端报告自动交易被禁用。
	// 这是唯一会传导进冷却闸门的错误；恢复动作只有激活冷却，不重试原单。
	ErrAutoTradingDisabled = errors.New("autotrading disabled by gateway")
	// ErrMaintenance 表示执行端处于维护状态。维护是交易所侧的临时状态，
	// 下一轮轮询自然重试，不进入冷却。
	ErrMaintenance = errors.New("gateway on maintenance")
)

// classifyGatewayError 归一化执行端错误：区分维护与"交易被禁用"。
func classifyGatewayError(err error) error {
	if err == nil {
		return nil
	}

	var ccxtErr *ccxt.Error
	if errors.As(err, &ccxtErr) {
		message := strings.TrimSpace(ccxtErr.Message)

		if ccxtErr.Type == ccxt.OnMaintenanceErrType {
			if message == "" {
				message = "gateway under maintenance"
			}
			return fmt.Errorf("%w: %s", ErrMaintenance, message)
		}

		msg := strings.ToLower(message)
		if strings.Contains(msg, "trading is disabled") ||
			strings.Contains(msg, "trading disabled") ||
			strings.Contains(msg, "account suspended") {
			if message == "" {
				message = "gateway rejected trading"
			}
			return fmt.Errorf("%w: %s", ErrAutoTradingDisabled, message)
		}
	}

	return err
}
