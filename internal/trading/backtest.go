package trading

import (
	"fmt"

	"binance-trader/internal/models"
	"binance-trader/internal/strategy"
)

// Backtest trade types.
const (
	TradeBuy  = "buy"
	TradeSell = "sell"
)

// BacktestTrade is one entry in the backtest trade log.
type BacktestTrade struct {
	Type     string
	Price    float64
	Quantity float64
	Index    int
}

// BacktestResult holds the outcome of a backtest run.
type BacktestResult struct {
	InitialCapital float64
	FinalCapital   float64
	Trades         []BacktestTrade
}

// Return reports the total return fraction of the run.
func (r *BacktestResult) Return() float64 {
	if r.InitialCapital == 0 {
		return 0
	}
	return (r.FinalCapital - r.InitialCapital) / r.InitialCapital
}

// RunBacktest replays a historical series through the strategy and the
// same position state machine the live loop uses, with order execution
// stubbed to immediate, slippage-free fills at the evaluated close. Each
// buy commits the full running capital; any position still open after the
// last candle is closed at the final price so the result is fully
// realized. The run is deterministic: same strategy, series and capital
// always produce the same result.
func RunBacktest(strat strategy.Strategy, series *models.CandleSeries, initialCapital float64) (*BacktestResult, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive")
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("series is empty")
	}

	tracker := NewTracker()
	capital := initialCapital
	var held float64

	result := &BacktestResult{InitialCapital: initialCapital}

	for i := 0; i < series.Len(); i++ {
		snapshot := series.Slice(i + 1)
		price := snapshot.LastClose()
		if price <= 0 {
			continue
		}

		switch strat.Evaluate(snapshot) {
		case models.SignalBuy:
			if tracker.State() != models.PositionFlat {
				continue
			}
			held = capital / price
			capital = 0
			if err := tracker.EnterLong(price, snapshot.At(i).OpenTime); err != nil {
				return nil, err
			}
			result.Trades = append(result.Trades, BacktestTrade{
				Type:     TradeBuy,
				Price:    price,
				Quantity: held,
				Index:    i,
			})

		case models.SignalSell:
			if tracker.State() != models.PositionLong {
				continue
			}
			capital = held * price
			if err := tracker.ExitLong(); err != nil {
				return nil, err
			}
			result.Trades = append(result.Trades, BacktestTrade{
				Type:     TradeSell,
				Price:    price,
				Quantity: held,
				Index:    i,
			})
			held = 0
		}
	}

	// Force-close so final capital carries no leftover notional.
	if tracker.State() == models.PositionLong {
		finalPrice := series.LastClose()
		capital = held * finalPrice
		if err := tracker.ExitLong(); err != nil {
			return nil, err
		}
		result.Trades = append(result.Trades, BacktestTrade{
			Type:     TradeSell,
			Price:    finalPrice,
			Quantity: held,
			Index:    series.Len() - 1,
		})
	}

	result.FinalCapital = capital
	return result, nil
}
