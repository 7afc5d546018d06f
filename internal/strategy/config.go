package strategy

import (
	"fmt"

	"binance-trader/internal/config"
)

// FromConfig builds the configured strategy variant.
func FromConfig(cfg config.StrategyConfig) (Strategy, error) {
	if cfg.Choice == "combined" {
		if len(cfg.Combine) == 0 {
			return nil, fmt.Errorf("combined strategy requires at least one sub-strategy")
		}
		subs := make([]Strategy, 0, len(cfg.Combine))
		for _, name := range cfg.Combine {
			if name == "combined" {
				return nil, fmt.Errorf("combined strategy cannot nest itself")
			}
			sub, err := variantFromConfig(name, cfg)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		return NewCombined(subs...), nil
	}
	return variantFromConfig(cfg.Choice, cfg)
}

func variantFromConfig(name string, cfg config.StrategyConfig) (Strategy, error) {
	switch name {
	case "ma_cross":
		return NewMovingAverageCross(cfg.MACross.FastWindow, cfg.MACross.SlowWindow), nil
	case "rsi":
		return NewRSIThreshold(cfg.RSI.Period, cfg.RSI.BuyBelow, cfg.RSI.SellAbove), nil
	case "bollinger":
		return NewBollinger(cfg.Bollinger.Window, cfg.Bollinger.StdDevMul), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}
