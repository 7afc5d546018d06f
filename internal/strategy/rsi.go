package strategy

import (
	"fmt"

	"binance-trader/internal/indicators"
	"binance-trader/internal/models"
)

// RSIThreshold signals when the RSI leaves the neutral zone: oversold
// below the buy threshold, overbought above the sell threshold.
type RSIThreshold struct {
	period    int
	buyBelow  float64
	sellAbove float64
}

// NewRSIThreshold creates an RSI threshold strategy. Customary values are
// period 14, buy below 30, sell above 70.
func NewRSIThreshold(period int, buyBelow, sellAbove float64) *RSIThreshold {
	return &RSIThreshold{
		period:    period,
		buyBelow:  buyBelow,
		sellAbove: sellAbove,
	}
}

func (r *RSIThreshold) Name() string {
	return fmt.Sprintf("rsi_%d", r.period)
}

func (r *RSIThreshold) Evaluate(series *models.CandleSeries) models.Signal {
	if r.period <= 0 || series.Len() < r.period+1 {
		return models.SignalHold
	}

	values, err := indicators.NewRSI(r.period).Calculate(series.Candles())
	if err != nil {
		return models.SignalHold
	}

	last := values[len(values)-1]
	if !indicators.Defined(last) {
		return models.SignalHold
	}

	switch {
	case last < r.buyBelow:
		return models.SignalBuy
	case last > r.sellAbove:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}
