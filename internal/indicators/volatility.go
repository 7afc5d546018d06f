package indicators

import (
	"fmt"

	"binance-trader/internal/models"
)

// Bollinger band component keys.
const (
	BandMiddle = "middle"
	BandUpper  = "upper"
	BandLower  = "lower"
)

// BollingerBands calculates Bollinger Bands: a middle SMA with upper and
// lower bands k population standard deviations away.
type BollingerBands struct {
	period    int
	stdDevMul float64
}

// NewBollingerBands creates a new Bollinger Bands indicator. The customary
// parameters are period 20 and multiplier 2.0.
func NewBollingerBands(period int, stdDevMul float64) *BollingerBands {
	return &BollingerBands{
		period:    period,
		stdDevMul: stdDevMul,
	}
}

func (b *BollingerBands) Name() string {
	return fmt.Sprintf("BollingerBands_%d_%.1f", b.period, b.stdDevMul)
}

func (b *BollingerBands) Period() int {
	return b.period
}

func (b *BollingerBands) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if b.period <= 0 || b.stdDevMul <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < b.period {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	closes := closePrices(candles)

	middle := make([]float64, n)
	upper := make([]float64, n)
	lower := make([]float64, n)
	nanPrefix(middle, b.period-1)
	nanPrefix(upper, b.period-1)
	nanPrefix(lower, b.period-1)

	for i := b.period - 1; i < n; i++ {
		window := closes[i-b.period+1 : i+1]
		sma := mean(window)
		sd := stdDev(window)

		middle[i] = sma
		upper[i] = sma + b.stdDevMul*sd
		lower[i] = sma - b.stdDevMul*sd
	}

	return map[string][]float64{
		BandMiddle: middle,
		BandUpper:  upper,
		BandLower:  lower,
	}, nil
}
