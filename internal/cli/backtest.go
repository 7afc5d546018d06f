package cli

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"binance-trader/internal/models"
	"binance-trader/internal/strategy"
	"binance-trader/internal/trading"
	"binance-trader/pkg/utils"
)

// candleRow is the CSV representation of a candle. Open time is unix
// milliseconds, matching the venue's kline timestamps.
type candleRow struct {
	OpenTime int64   `csv:"open_time"`
	Open     float64 `csv:"open"`
	High     float64 `csv:"high"`
	Low      float64 `csv:"low"`
	Close    float64 `csv:"close"`
	Volume   float64 `csv:"volume"`
}

func newBacktestCmd(app *App) *cobra.Command {
	var (
		dataFile string
		capital  float64
		candles  int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay the strategy over historical candles",
		Long: `Run the configured strategy over a historical candle series.

Candles are loaded from a CSV file (columns: open_time, open, high, low,
close, volume; open_time in unix milliseconds). Without --data a random-walk
series is generated for a quick smoke run. Fills are immediate and
slippage-free at the evaluated close; each buy commits the full running
capital and any open position is closed at the final price.`,
		Example: `  trader backtest --data candles.csv
  trader backtest --data candles.csv --capital 5000
  trader backtest --candles 500 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg := app.Config

			strat, err := strategy.FromConfig(cfg.Strategy)
			if err != nil {
				return err
			}

			var series *models.CandleSeries
			if dataFile != "" {
				series, err = loadCandleCSV(dataFile, cfg.Trading.Symbol, models.Interval(cfg.Trading.Interval))
				if err != nil {
					return err
				}
			} else {
				series = generateRandomWalk(cfg.Trading.Symbol, models.Interval(cfg.Trading.Interval), candles, seed)
			}

			result, err := trading.RunBacktest(strat, series, capital)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Backtest: %s on %s (%d candles)", strat.Name(), series.Symbol, series.Len())
			output.Println()
			for _, trade := range result.Trades {
				label := output.Buy("BUY ")
				if trade.Type == trading.TradeSell {
					label = output.Sell("SELL")
				}
				output.Printf("  %s  #%-5d %10.6f @ %s\n",
					label, trade.Index, trade.Quantity, utils.FormatNumber(trade.Price, 2))
			}
			output.Println()
			output.Printf("  Initial capital: %s\n", utils.FormatNumber(result.InitialCapital, 2))
			output.Printf("  Final capital:   %s\n", utils.FormatNumber(result.FinalCapital, 2))
			ret := result.Return() * 100
			if ret >= 0 {
				output.Success("  Return:          +%.2f%%", ret)
			} else {
				output.Error("  Return:          %.2f%%", ret)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "CSV file with historical candles")
	cmd.Flags().Float64Var(&capital, "capital", 1000, "initial capital in quote currency")
	cmd.Flags().IntVar(&candles, "candles", 200, "candles to generate when no data file is given")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the generated series")

	return cmd
}

func loadCandleCSV(path, symbol string, interval models.Interval) (*models.CandleSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	var rows []*candleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s contains no candles", path)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, models.Candle{
			OpenTime: time.UnixMilli(row.OpenTime),
			Open:     row.Open,
			High:     row.High,
			Low:      row.Low,
			Close:    row.Close,
			Volume:   row.Volume,
		})
	}
	return models.NewCandleSeriesFrom(symbol, interval, len(candles), candles), nil
}

// generateRandomWalk produces a synthetic price series for smoke runs. The
// walk is seeded, so the same seed always yields the same backtest.
func generateRandomWalk(symbol string, interval models.Interval, n int, seed int64) *models.CandleSeries {
	rng := rand.New(rand.NewSource(seed))
	series := models.NewCandleSeries(symbol, interval, n)

	price := 100.0
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		open := price
		price *= 1 + (rng.Float64()-0.5)*0.02
		high := open
		low := open
		if price > high {
			high = price
		}
		if price < low {
			low = price
		}
		series.Append(models.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Minute),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    price,
			Volume:   1000 + rng.Float64()*500,
		})
	}
	return series
}
