package trading

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	apperrors "binance-trader/internal/errors"
	"binance-trader/internal/models"
	"binance-trader/internal/venue"
)

// OrderJournal records completed orders. The SQLite store implements it;
// a nil journal disables recording.
type OrderJournal interface {
	RecordOrder(ctx context.Context, event models.OrderEvent) error
}

// EngineConfig holds execution engine configuration.
type EngineConfig struct {
	Symbol       string
	BaseAsset    string
	QuoteAsset   string
	BaseQuantity float64
	MinQuantity  float64
	Risk         models.RiskPolicy
}

// Engine turns signals into venue calls: market buys and sells, protective
// OCO attachment, and open-order cancellation. It owns the sequencing
// around the tracker: the position only transitions after the venue
// confirms a fill, and an outcome-unknown failure marks the tracker dirty
// instead of guessing.
type Engine struct {
	venue   venue.MarketVenue
	tracker *Tracker
	journal OrderJournal
	cfg     EngineConfig
	logger  zerolog.Logger

	now func() time.Time
}

// NewEngine creates a new execution engine.
func NewEngine(v venue.MarketVenue, tracker *Tracker, journal OrderJournal, cfg EngineConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		venue:   v,
		tracker: tracker,
		journal: journal,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// NormalizeQuantity floors the requested quantity to the venue's tradable
// increment and raises it to the venue minimum: rounding never goes below
// the venue floor, and the requested size is never inflated past it.
func NormalizeQuantity(requested, venueMinQty float64) float64 {
	rounded := math.Round(requested*1e6) / 1e6
	return math.Max(rounded, venueMinQty)
}

// Buy places a market buy. Preconditions: position Flat, quote balance
// covering the notional at the last close. On success the position
// transitions to Long and, when the risk policy is enabled, a protective
// OCO order is attached at the fill price.
func (e *Engine) Buy(ctx context.Context, series *models.CandleSeries) (*models.OrderResult, error) {
	if e.tracker.State() != models.PositionFlat {
		return nil, apperrors.NewOrderError(e.cfg.Symbol, "buy", "position not flat", apperrors.ErrInvalidTransition)
	}

	qty := NormalizeQuantity(e.cfg.BaseQuantity, e.cfg.MinQuantity)
	priceHint := series.LastClose()

	quoteBalance, err := e.venue.GetBalance(ctx, e.cfg.QuoteAsset)
	if err != nil {
		return nil, apperrors.Wrap(err, "checking quote balance")
	}
	if quoteBalance < qty*priceHint {
		return nil, apperrors.NewOrderError(e.cfg.Symbol, "buy", "quote balance below notional", apperrors.ErrInsufficientBalance)
	}

	result, err := e.venue.PlaceMarketOrder(ctx, models.OrderRequest{
		Symbol:   e.cfg.Symbol,
		Side:     models.OrderSideBuy,
		Quantity: qty,
	})
	if err != nil {
		if apperrors.IsTransient(err) {
			// Outcome unknown: the order may have filled. Never guess.
			e.tracker.MarkDirty()
		}
		return nil, apperrors.Wrap(err, "placing buy order")
	}

	fillPrice := result.FilledPrice
	if fillPrice == 0 {
		fillPrice = priceHint
	}
	now := e.now()
	if err := e.tracker.EnterLong(fillPrice, now); err != nil {
		return result, err
	}

	if e.cfg.Risk.Enabled {
		e.placeProtectiveOrder(ctx, fillPrice, qty)
	}

	e.recordOrder(ctx, models.OrderEvent{
		Side:         models.OrderSideBuy,
		Symbol:       e.cfg.Symbol,
		Quantity:     qty,
		Price:        fillPrice,
		TotalValue:   qty * fillPrice,
		Timestamp:    now,
		VenueOrderID: result.VenueOrderID,
		Raw:          result.Raw,
	})
	return result, nil
}

// placeProtectiveOrder attaches the OCO stop-loss/take-profit pair after a
// fill. A failure here leaves the position unprotected but open, so it is
// logged and not propagated, matching the entry having already happened.
func (e *Engine) placeProtectiveOrder(ctx context.Context, fillPrice, qty float64) {
	stopPrice := round2(fillPrice * e.cfg.Risk.StopLossRatio)
	req := models.OCORequest{
		Symbol:          e.cfg.Symbol,
		Quantity:        qty,
		TakeProfitPrice: round2(fillPrice * e.cfg.Risk.TakeProfitRatio),
		StopPrice:       stopPrice,
		// The stop's limit leg sits slightly below the trigger so it
		// fills ahead of the market moving further away.
		StopLimitPrice: round2(stopPrice * 0.995),
	}

	result, err := e.venue.PlaceOCOOrder(ctx, req)
	if err != nil {
		e.logger.Error().Err(err).
			Str("symbol", e.cfg.Symbol).
			Float64("stop_price", req.StopPrice).
			Float64("take_profit_price", req.TakeProfitPrice).
			Msg("Protective order failed, position is unprotected")
		return
	}
	e.logger.Info().
		Str("symbol", e.cfg.Symbol).
		Str("order_id", result.VenueOrderID).
		Float64("stop_price", req.StopPrice).
		Float64("take_profit_price", req.TakeProfitPrice).
		Msg("Protective order placed")
}

// Sell cancels all open protective orders for the symbol and places a
// market sell of the held base balance. Precondition: position Long. On
// success the position transitions to Flat.
func (e *Engine) Sell(ctx context.Context, series *models.CandleSeries) (*models.OrderResult, error) {
	if e.tracker.State() != models.PositionLong {
		return nil, apperrors.NewOrderError(e.cfg.Symbol, "sell", "position not long", apperrors.ErrInvalidTransition)
	}

	// A stale protective order left live during the sell risks an
	// unintended double exit, so cancellation must complete first.
	if err := e.cancelOpenOrders(ctx); err != nil {
		return nil, apperrors.Wrap(err, "cancelling protective orders")
	}

	baseBalance, err := e.venue.GetBalance(ctx, e.cfg.BaseAsset)
	if err != nil {
		return nil, apperrors.Wrap(err, "checking base balance")
	}
	qty := NormalizeQuantity(baseBalance, e.cfg.MinQuantity)

	result, err := e.venue.PlaceMarketOrder(ctx, models.OrderRequest{
		Symbol:   e.cfg.Symbol,
		Side:     models.OrderSideSell,
		Quantity: qty,
	})
	if err != nil {
		if apperrors.IsTransient(err) {
			e.tracker.MarkDirty()
		}
		return nil, apperrors.Wrap(err, "placing sell order")
	}

	fillPrice := result.FilledPrice
	if fillPrice == 0 {
		fillPrice = series.LastClose()
	}
	if err := e.tracker.ExitLong(); err != nil {
		return result, err
	}

	e.recordOrder(ctx, models.OrderEvent{
		Side:         models.OrderSideSell,
		Symbol:       e.cfg.Symbol,
		Quantity:     qty,
		Price:        fillPrice,
		TotalValue:   qty * fillPrice,
		Timestamp:    e.now(),
		VenueOrderID: result.VenueOrderID,
		Raw:          result.Raw,
	})
	return result, nil
}

// CancelProtectiveOrders is the best-effort cleanup used on shutdown.
func (e *Engine) CancelProtectiveOrders(ctx context.Context) error {
	return e.cancelOpenOrders(ctx)
}

func (e *Engine) cancelOpenOrders(ctx context.Context) error {
	open, err := e.venue.ListOpenOrders(ctx, e.cfg.Symbol)
	if err != nil {
		return apperrors.Wrap(err, "listing open orders")
	}
	for _, ref := range open {
		if err := e.venue.CancelOrder(ctx, e.cfg.Symbol, ref.OrderID); err != nil {
			return apperrors.Wrapf(err, "cancelling order %s", ref.OrderID)
		}
		e.logger.Info().
			Str("symbol", e.cfg.Symbol).
			Str("order_id", ref.OrderID).
			Msg("Open order cancelled")
	}
	return nil
}

func (e *Engine) recordOrder(ctx context.Context, event models.OrderEvent) {
	e.logger.Info().
		Str("event", "order").
		Str("side", string(event.Side)).
		Str("symbol", event.Symbol).
		Float64("quantity", event.Quantity).
		Float64("price", event.Price).
		Float64("total_value", event.TotalValue).
		Str("order_id", event.VenueOrderID).
		Msg("Order executed")

	if e.journal == nil {
		return
	}
	if err := e.journal.RecordOrder(ctx, event); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to journal order")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
