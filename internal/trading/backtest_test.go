package trading

import (
	"math"
	"reflect"
	"testing"
	"time"

	"binance-trader/internal/models"
)

// scriptedStrategy replays a fixed sequence of signals keyed by series
// length, holding beyond the script.
type scriptedStrategy struct {
	signals map[int]models.Signal
}

func (s scriptedStrategy) Name() string { return "scripted" }

func (s scriptedStrategy) Evaluate(series *models.CandleSeries) models.Signal {
	if sig, ok := s.signals[series.Len()]; ok {
		return sig
	}
	return models.SignalHold
}

func backtestSeries(closes ...float64) *models.CandleSeries {
	series := models.NewCandleSeries("BTCUSDT", models.Interval1m, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		series.Append(models.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Minute),
			Open:     c, High: c, Low: c, Close: c, Volume: 1000,
		})
	}
	return series
}

func TestBacktestBuyThenSell(t *testing.T) {
	// Buy at 10, sell at 12: 1000 -> 100 units -> 1200.
	strat := scriptedStrategy{signals: map[int]models.Signal{
		2: models.SignalBuy,
		4: models.SignalSell,
	}}
	series := backtestSeries(10, 10, 11, 12, 12)

	result, err := RunBacktest(strat, series, 1000)
	if err != nil {
		t.Fatalf("RunBacktest() error = %v", err)
	}

	if math.Abs(result.FinalCapital-1200) > 1e-9 {
		t.Errorf("FinalCapital = %v, want 1200", result.FinalCapital)
	}
	if len(result.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(result.Trades))
	}
	if result.Trades[0].Type != TradeBuy || result.Trades[0].Price != 10 {
		t.Errorf("Trades[0] = %+v, want buy at 10", result.Trades[0])
	}
	if result.Trades[1].Type != TradeSell || result.Trades[1].Price != 12 {
		t.Errorf("Trades[1] = %+v, want sell at 12", result.Trades[1])
	}
	if math.Abs(result.Return()-0.2) > 1e-9 {
		t.Errorf("Return() = %v, want 0.2", result.Return())
	}
}

func TestBacktestForcesCloseAtFinalPrice(t *testing.T) {
	strat := scriptedStrategy{signals: map[int]models.Signal{
		1: models.SignalBuy,
	}}
	series := backtestSeries(10, 11, 15)

	result, err := RunBacktest(strat, series, 1000)
	if err != nil {
		t.Fatalf("RunBacktest() error = %v", err)
	}

	// 100 units bought at 10, force-closed at the final close of 15.
	if math.Abs(result.FinalCapital-1500) > 1e-9 {
		t.Errorf("FinalCapital = %v, want 1500 after forced close", result.FinalCapital)
	}
	last := result.Trades[len(result.Trades)-1]
	if last.Type != TradeSell || last.Price != 15 || last.Index != 2 {
		t.Errorf("final trade = %+v, want forced sell at 15 on last candle", last)
	}
}

func TestBacktestIgnoresRedundantSignals(t *testing.T) {
	// A second Buy while long and a Sell while flat are both no-ops.
	strat := scriptedStrategy{signals: map[int]models.Signal{
		1: models.SignalSell,
		2: models.SignalBuy,
		3: models.SignalBuy,
		4: models.SignalSell,
	}}
	series := backtestSeries(10, 10, 10, 20, 20)

	result, err := RunBacktest(strat, series, 1000)
	if err != nil {
		t.Fatalf("RunBacktest() error = %v", err)
	}
	if len(result.Trades) != 2 {
		t.Fatalf("got %d trades %+v, want 2", len(result.Trades), result.Trades)
	}
	if math.Abs(result.FinalCapital-2000) > 1e-9 {
		t.Errorf("FinalCapital = %v, want 2000", result.FinalCapital)
	}
}

func TestBacktestHoldOnlyKeepsCapital(t *testing.T) {
	strat := scriptedStrategy{}
	series := backtestSeries(10, 20, 30)

	result, err := RunBacktest(strat, series, 1000)
	if err != nil {
		t.Fatalf("RunBacktest() error = %v", err)
	}
	if result.FinalCapital != 1000 {
		t.Errorf("FinalCapital = %v, want untouched 1000", result.FinalCapital)
	}
	if len(result.Trades) != 0 {
		t.Errorf("Trades = %+v, want none", result.Trades)
	}
}

func TestBacktestDeterministic(t *testing.T) {
	strat := scriptedStrategy{signals: map[int]models.Signal{
		2: models.SignalBuy,
		4: models.SignalSell,
	}}
	series := backtestSeries(10, 10, 11, 12, 12)

	first, err := RunBacktest(strat, series, 1000)
	if err != nil {
		t.Fatalf("RunBacktest() error = %v", err)
	}
	second, err := RunBacktest(strat, series, 1000)
	if err != nil {
		t.Fatalf("RunBacktest() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between identical runs: %+v vs %+v", first, second)
	}
}

func TestBacktestRejectsBadInput(t *testing.T) {
	strat := scriptedStrategy{}

	if _, err := RunBacktest(strat, backtestSeries(10), 0); err == nil {
		t.Error("RunBacktest() with zero capital expected error")
	}
	if _, err := RunBacktest(strat, backtestSeries(), 1000); err == nil {
		t.Error("RunBacktest() with empty series expected error")
	}
}
