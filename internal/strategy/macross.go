package strategy

import (
	"fmt"

	"binance-trader/internal/indicators"
	"binance-trader/internal/models"
)

// MovingAverageCross signals on crossings of a fast SMA over a slow SMA.
// It inspects the previous and current sample so a signal fires exactly
// once per crossing, not on every candle where fast sits above slow.
type MovingAverageCross struct {
	fastWindow int
	slowWindow int
}

// NewMovingAverageCross creates a moving-average-cross strategy.
func NewMovingAverageCross(fastWindow, slowWindow int) *MovingAverageCross {
	return &MovingAverageCross{
		fastWindow: fastWindow,
		slowWindow: slowWindow,
	}
}

func (m *MovingAverageCross) Name() string {
	return fmt.Sprintf("ma_cross_%d_%d", m.fastWindow, m.slowWindow)
}

func (m *MovingAverageCross) Evaluate(series *models.CandleSeries) models.Signal {
	// The crossing needs a defined slow SMA at the previous sample too.
	if m.fastWindow <= 0 || m.slowWindow <= 0 || series.Len() < m.slowWindow+1 {
		return models.SignalHold
	}

	closes := series.Closes()
	fast := indicators.CalculateSMA(closes, m.fastWindow)
	slow := indicators.CalculateSMA(closes, m.slowWindow)

	n := len(closes)
	prevFast, curFast := fast[n-2], fast[n-1]
	prevSlow, curSlow := slow[n-2], slow[n-1]
	if !indicators.Defined(prevFast) || !indicators.Defined(prevSlow) ||
		!indicators.Defined(curFast) || !indicators.Defined(curSlow) {
		return models.SignalHold
	}

	switch {
	case prevFast <= prevSlow && curFast > curSlow:
		return models.SignalBuy
	case prevFast >= prevSlow && curFast < curSlow:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}
