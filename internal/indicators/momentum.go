package indicators

import (
	"fmt"

	"binance-trader/internal/models"
)

// rsiEpsilon guards the relative-strength division when gains or losses
// are absent. Applied to both sides so a flat series (no gains, no
// losses) reads as neutral 50 rather than degenerate 0.
const rsiEpsilon = 1e-10

// RSI calculates the Relative Strength Index with Wilder smoothing.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator. The customary period is 14.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI_%d", r.period)
}

func (r *RSI) Period() int {
	return r.period
}

func (r *RSI) Calculate(candles []models.Candle) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < r.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	closes := closePrices(candles)

	gains := make([]float64, n-1)
	losses := make([]float64, n-1)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := wilderSmooth(gains, r.period)
	avgLoss := wilderSmooth(losses, r.period)

	result := make([]float64, n)
	nanPrefix(result, r.period)
	for i := r.period; i < n; i++ {
		rs := (avgGain[i-1] + rsiEpsilon) / (avgLoss[i-1] + rsiEpsilon)
		result[i] = 100 - 100/(1+rs)
	}

	return result, nil
}
