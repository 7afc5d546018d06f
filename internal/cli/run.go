package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"binance-trader/internal/config"
	"binance-trader/internal/models"
	"binance-trader/internal/store"
	"binance-trader/internal/strategy"
	"binance-trader/internal/trading"
	"binance-trader/internal/venue"
)

func newRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the trading loop",
		Long: `Start the autonomous trading loop.

The loop fetches candles at the configured poll interval, evaluates the
strategy and manages a single long position. In paper mode market data is
real but orders fill against simulated balances. Stop with Ctrl-C; the
in-flight cycle finishes and open protective orders are cancelled.`,
		Example: `  trader run
  trader run --debug
  TRADING_MODE=paper trader run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg := app.Config

			v, err := buildVenue(cfg)
			if err != nil {
				return err
			}

			strat, err := strategy.FromConfig(cfg.Strategy)
			if err != nil {
				return err
			}

			var journal trading.OrderJournal
			if cfg.Journal.Enabled {
				sqlStore, err := store.NewSQLiteStore(cfg.Journal.DBPath)
				if err != nil {
					return fmt.Errorf("opening order journal: %w", err)
				}
				defer sqlStore.Close()
				journal = sqlStore
			}

			tracker := trading.NewTracker()
			engine := trading.NewEngine(v, tracker, journal, trading.EngineConfig{
				Symbol:       cfg.Trading.Symbol,
				BaseAsset:    cfg.Trading.BaseAsset,
				QuoteAsset:   cfg.Trading.QuoteAsset,
				BaseQuantity: cfg.Trading.BaseQuantity,
				MinQuantity:  cfg.Trading.MinQuantity,
				Risk: models.RiskPolicy{
					Enabled:         cfg.Risk.Enabled,
					StopLossRatio:   cfg.Risk.StopLossRatio,
					TakeProfitRatio: cfg.Risk.TakeProfitRatio,
				},
			}, app.Logger)

			scheduler := trading.NewScheduler(v, strat, engine, tracker, trading.SchedulerConfig{
				Symbol:        cfg.Trading.Symbol,
				Interval:      models.Interval(cfg.Trading.Interval),
				Lookback:      cfg.Trading.Lookback,
				PollInterval:  time.Duration(cfg.Trading.PollIntervalSeconds) * time.Second,
				BaseAsset:     cfg.Trading.BaseAsset,
				DustThreshold: cfg.Trading.DustThreshold,
			}, app.Logger)

			output.Bold("Binance Trader")
			output.Printf("  Mode:     %s\n", cfg.Trading.Mode)
			output.Printf("  Symbol:   %s @ %s\n", cfg.Trading.Symbol, cfg.Trading.Interval)
			output.Printf("  Strategy: %s\n", strat.Name())
			if cfg.IsPaperMode() {
				output.Warning("Paper trading: orders fill against simulated balances")
			}
			output.Println()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			output.Success("✓ Trading loop stopped")
			return nil
		},
	}
}

// buildVenue constructs the venue for the configured mode. Paper mode keeps
// real market data behind simulated execution; testnet routes orders to the
// exchange testnet.
func buildVenue(cfg *config.Config) (venue.MarketVenue, error) {
	switch {
	case cfg.IsPaperMode():
		data := venue.NewBinanceVenue(venue.BinanceConfig{
			APIKey:    cfg.Credentials.APIKey,
			APISecret: cfg.Credentials.APISecret,
		})
		return venue.NewPaperVenue(venue.PaperVenueConfig{
			DataVenue:  data,
			Symbol:     cfg.Trading.Symbol,
			BaseAsset:  cfg.Trading.BaseAsset,
			QuoteAsset: cfg.Trading.QuoteAsset,
		}), nil

	default:
		if cfg.Credentials.APIKey == "" || cfg.Credentials.APISecret == "" {
			return nil, fmt.Errorf("API credentials required for %s mode (set BINANCE_API_KEY / BINANCE_API_SECRET or credentials.toml)", cfg.Trading.Mode)
		}
		return venue.NewBinanceVenue(venue.BinanceConfig{
			APIKey:    cfg.Credentials.APIKey,
			APISecret: cfg.Credentials.APISecret,
			Testnet:   cfg.IsTestnetMode(),
		}), nil
	}
}
