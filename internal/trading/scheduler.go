package trading

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "binance-trader/internal/errors"
	"binance-trader/internal/models"
	"binance-trader/internal/strategy"
	"binance-trader/internal/venue"
	"binance-trader/pkg/utils"
)

// SchedulerConfig holds trading loop configuration.
type SchedulerConfig struct {
	Symbol        string
	Interval      models.Interval
	Lookback      int
	PollInterval  time.Duration
	BaseAsset     string
	DustThreshold float64
}

// Scheduler drives the trading cycle at a fixed cadence: fetch candles,
// evaluate the strategy, drive the state machine, sleep until the next
// boundary. Cycles are strictly sequential; order placement for one cycle
// always completes before the next fetch. A failing cycle is logged and
// the loop continues at the next interval.
type Scheduler struct {
	venue    venue.MarketVenue
	strategy strategy.Strategy
	engine   *Engine
	tracker  *Tracker
	cfg      SchedulerConfig
	retry    utils.RetryConfig
	logger   zerolog.Logger
}

// NewScheduler creates a new trading loop.
func NewScheduler(v venue.MarketVenue, strat strategy.Strategy, engine *Engine, tracker *Tracker, cfg SchedulerConfig, logger zerolog.Logger) *Scheduler {
	retry := utils.DefaultRetryConfig()
	retry.ShouldRetry = apperrors.IsTransient
	return &Scheduler{
		venue:    v,
		strategy: strat,
		engine:   engine,
		tracker:  tracker,
		cfg:      cfg,
		retry:    retry,
		logger:   logger,
	}
}

// Run executes the trading loop until ctx is cancelled. The in-flight
// cycle, including any order call, always finishes before Run returns;
// dangling protective orders are cancelled best-effort on the way out.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().
		Str("symbol", s.cfg.Symbol).
		Str("interval", string(s.cfg.Interval)).
		Str("strategy", s.strategy.Name()).
		Dur("poll_interval", s.cfg.PollInterval).
		Msg("Trading loop starting")

	// Derive the starting position from the venue, never assume Flat:
	// a restart must pick up whatever the account already holds.
	if err := s.reconcile(ctx); err != nil {
		if apperrors.Is(err, apperrors.ErrReconciliationMismatch) {
			s.logger.Warn().Err(err).Msg("Initial position derived from venue balance")
		} else {
			return apperrors.Wrap(err, "initial reconciliation")
		}
	}
	s.logger.Info().
		Str("position", string(s.tracker.State())).
		Msg("Initial position established")

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runCycle performs one fetch -> decide -> act pass. Errors are contained:
// they are logged and the position is left consistent for the next cycle.
func (s *Scheduler) runCycle(ctx context.Context) {
	started := time.Now()

	if s.tracker.Dirty() {
		// The outcome of a previous order is unknown; re-derive the
		// position before trusting it with another decision.
		if err := s.reconcile(ctx); err != nil {
			if apperrors.Is(err, apperrors.ErrReconciliationMismatch) {
				s.logger.Warn().Err(err).Msg("Position corrected from venue balance")
			} else {
				s.logger.Error().Err(err).Msg("Reconciliation failed, skipping cycle")
				return
			}
		}
	}

	series, err := s.fetchSeries(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Candle fetch failed, skipping cycle")
		return
	}

	signal := s.strategy.Evaluate(series)
	s.logger.Debug().
		Str("signal", string(signal)).
		Str("position", string(s.tracker.State())).
		Float64("last_close", series.LastClose()).
		Int("candles", series.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("Cycle evaluated")

	s.act(ctx, signal, series)
}

func (s *Scheduler) fetchSeries(ctx context.Context) (*models.CandleSeries, error) {
	candles, err := utils.RetryWithResult(ctx, s.retry, func() ([]models.Candle, error) {
		return s.venue.GetCandles(ctx, s.cfg.Symbol, s.cfg.Interval, s.cfg.Lookback)
	})
	if err != nil {
		return nil, err
	}
	return models.NewCandleSeriesFrom(s.cfg.Symbol, s.cfg.Interval, s.cfg.Lookback, candles), nil
}

func (s *Scheduler) act(ctx context.Context, signal models.Signal, series *models.CandleSeries) {
	var err error
	switch signal {
	case models.SignalBuy:
		_, err = s.engine.Buy(ctx, series)
	case models.SignalSell:
		_, err = s.engine.Sell(ctx, series)
	default:
		return
	}
	if err == nil {
		return
	}

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidTransition),
		apperrors.Is(err, apperrors.ErrInsufficientBalance):
		// Local decisions: surfaced as a hold-equivalent no-op.
		s.logger.Info().Err(err).Str("signal", string(signal)).Msg("Signal not acted on")
	case apperrors.Is(err, apperrors.ErrVenueRejected):
		s.logger.Error().Err(err).Str("signal", string(signal)).Msg("Order rejected by venue")
	case apperrors.IsTransient(err):
		s.logger.Warn().Err(err).Str("signal", string(signal)).Msg("Order outcome unknown, will reconcile next cycle")
	default:
		s.logger.Error().Err(err).Str("signal", string(signal)).Msg("Order failed")
	}
}

func (s *Scheduler) reconcile(ctx context.Context) error {
	balance, err := utils.RetryWithResult(ctx, s.retry, func() (float64, error) {
		return s.venue.GetBalance(ctx, s.cfg.BaseAsset)
	})
	if err != nil {
		return apperrors.Wrap(err, "fetching base balance")
	}

	priceHint := s.tracker.Snapshot().EntryPrice
	if priceHint == 0 {
		if candles, err := s.venue.GetCandles(ctx, s.cfg.Symbol, s.cfg.Interval, 1); err == nil && len(candles) > 0 {
			priceHint = candles[len(candles)-1].Close
		}
	}

	return s.tracker.Reconcile(balance, s.cfg.DustThreshold, priceHint, time.Now())
}

// shutdown runs after the loop exits. Cancelling protective orders is
// best-effort: the process is leaving and nobody will manage them.
func (s *Scheduler) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.engine.CancelProtectiveOrders(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Could not cancel open orders on shutdown")
		return
	}
	s.logger.Info().Msg("Trading loop stopped")
}
