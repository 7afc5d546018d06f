package strategy

import (
	"fmt"

	"binance-trader/internal/indicators"
	"binance-trader/internal/models"
)

// Bollinger signals on closes outside the Bollinger bands: a close below
// the lower band is oversold, a close above the upper band overbought.
type Bollinger struct {
	window    int
	stdDevMul float64
}

// NewBollinger creates a Bollinger band strategy. Customary values are
// window 20 and multiplier 2.0.
func NewBollinger(window int, stdDevMul float64) *Bollinger {
	return &Bollinger{
		window:    window,
		stdDevMul: stdDevMul,
	}
}

func (b *Bollinger) Name() string {
	return fmt.Sprintf("bollinger_%d", b.window)
}

func (b *Bollinger) Evaluate(series *models.CandleSeries) models.Signal {
	if b.window <= 0 || series.Len() < b.window {
		return models.SignalHold
	}

	bands, err := indicators.NewBollingerBands(b.window, b.stdDevMul).Calculate(series.Candles())
	if err != nil {
		return models.SignalHold
	}

	n := series.Len()
	lower := bands[indicators.BandLower][n-1]
	upper := bands[indicators.BandUpper][n-1]
	if !indicators.Defined(lower) || !indicators.Defined(upper) {
		return models.SignalHold
	}

	lastClose := series.LastClose()
	switch {
	case lastClose < lower:
		return models.SignalBuy
	case lastClose > upper:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}
