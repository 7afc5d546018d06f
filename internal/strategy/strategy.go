// Package strategy provides signal-generating trading strategies.
//
// A Strategy evaluates a candle series snapshot and returns a Signal. It is
// pure with respect to its input: indicator arrays are computed per call
// and the series is never mutated. A series shorter than a strategy's
// required window always evaluates to Hold, never an error.
package strategy

import (
	"binance-trader/internal/models"
)

// Strategy evaluates a candle series and returns a trade signal.
type Strategy interface {
	Name() string
	Evaluate(series *models.CandleSeries) models.Signal
}

// Combined evaluates an ordered list of sub-strategies with conservative
// veto semantics: Buy only if every sub-strategy says Buy, Sell only if
// every sub-strategy says Sell. Any divergence, and any Hold, holds.
type Combined struct {
	strategies []Strategy
}

// NewCombined creates a Combined strategy over the given sub-strategies.
func NewCombined(strategies ...Strategy) *Combined {
	return &Combined{strategies: strategies}
}

func (c *Combined) Name() string {
	return "combined"
}

func (c *Combined) Evaluate(series *models.CandleSeries) models.Signal {
	if len(c.strategies) == 0 {
		return models.SignalHold
	}

	first := c.strategies[0].Evaluate(series)
	if first == models.SignalHold {
		return models.SignalHold
	}
	for _, s := range c.strategies[1:] {
		if s.Evaluate(series) != first {
			return models.SignalHold
		}
	}
	return first
}
