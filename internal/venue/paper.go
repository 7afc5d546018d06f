package venue

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "binance-trader/internal/errors"
	"binance-trader/internal/models"
)

// PaperVenue implements the MarketVenue interface for paper trading. Market
// data comes from a real data venue when one is configured; orders fill
// instantly against the last seen close price and only mutate simulated
// balances.
type PaperVenue struct {
	// Real venue for market data
	dataVenue MarketVenue

	baseAsset  string
	quoteAsset string
	symbol     string

	// Simulated state
	balances   map[string]float64
	openOrders map[string]models.OrderRef
	lastPrice  float64

	orderCounter int

	mu sync.RWMutex
}

// PaperVenueConfig holds configuration for the paper venue.
type PaperVenueConfig struct {
	DataVenue    MarketVenue
	Symbol       string
	BaseAsset    string
	QuoteAsset   string
	InitialQuote float64
	InitialBase  float64
}

// NewPaperVenue creates a new paper trading venue.
func NewPaperVenue(cfg PaperVenueConfig) *PaperVenue {
	initialQuote := cfg.InitialQuote
	if initialQuote == 0 {
		initialQuote = 10000
	}

	return &PaperVenue{
		dataVenue:  cfg.DataVenue,
		symbol:     cfg.Symbol,
		baseAsset:  cfg.BaseAsset,
		quoteAsset: cfg.QuoteAsset,
		balances: map[string]float64{
			cfg.QuoteAsset: initialQuote,
			cfg.BaseAsset:  cfg.InitialBase,
		},
		openOrders: make(map[string]models.OrderRef),
	}
}

// GetCandles fetches candles from the data venue and caches the last close
// as the simulated fill price.
func (p *PaperVenue) GetCandles(ctx context.Context, symbol string, interval models.Interval, limit int) ([]models.Candle, error) {
	if p.dataVenue == nil {
		return nil, fmt.Errorf("no data venue configured")
	}
	candles, err := p.dataVenue.GetCandles(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	if len(candles) > 0 {
		p.mu.Lock()
		p.lastPrice = candles[len(candles)-1].Close
		p.mu.Unlock()
	}
	return candles, nil
}

// SetPrice sets the simulated fill price directly. Used by tests and by
// replay harnesses that bypass GetCandles.
func (p *PaperVenue) SetPrice(price float64) {
	p.mu.Lock()
	p.lastPrice = price
	p.mu.Unlock()
}

// GetBalance returns the simulated free balance of the asset.
func (p *PaperVenue) GetBalance(ctx context.Context, asset string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.balances[asset], nil
}

// PlaceMarketOrder simulates an instant, slippage-free fill at the last
// seen price.
func (p *PaperVenue) PlaceMarketOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastPrice == 0 {
		return nil, apperrors.NewVenueError("PAPER", "no market price seen yet", apperrors.ErrVenueRejected)
	}
	if req.Quantity <= 0 {
		return nil, apperrors.NewVenueError("PAPER", "quantity must be positive", apperrors.ErrVenueRejected)
	}

	notional := req.Quantity * p.lastPrice
	switch req.Side {
	case models.OrderSideBuy:
		if p.balances[p.quoteAsset] < notional {
			return nil, apperrors.Wrap(apperrors.ErrInsufficientBalance, "paper buy")
		}
		p.balances[p.quoteAsset] -= notional
		p.balances[p.baseAsset] += req.Quantity
	case models.OrderSideSell:
		if p.balances[p.baseAsset] < req.Quantity {
			return nil, apperrors.Wrap(apperrors.ErrInsufficientBalance, "paper sell")
		}
		p.balances[p.baseAsset] -= req.Quantity
		p.balances[p.quoteAsset] += notional
	default:
		return nil, apperrors.NewVenueError("PAPER", fmt.Sprintf("unknown side %q", req.Side), apperrors.ErrVenueRejected)
	}

	p.orderCounter++
	return &models.OrderResult{
		Accepted:     true,
		VenueOrderID: fmt.Sprintf("PAPER_%d_%d", time.Now().Unix(), p.orderCounter),
		FilledPrice:  p.lastPrice,
		FilledQty:    req.Quantity,
		Raw:          fmt.Sprintf(`{"paper":true,"side":%q,"qty":%f,"price":%f}`, req.Side, req.Quantity, p.lastPrice),
	}, nil
}

// PlaceOCOOrder records a simulated protective order. It never fills on
// its own; the execution engine cancels it before any market sell.
func (p *PaperVenue) PlaceOCOOrder(ctx context.Context, req models.OCORequest) (*models.OrderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if req.Quantity <= 0 {
		return nil, apperrors.NewVenueError("PAPER", "quantity must be positive", apperrors.ErrVenueRejected)
	}

	p.orderCounter++
	id := fmt.Sprintf("PAPER_OCO_%d", p.orderCounter)
	p.openOrders[id] = models.OrderRef{
		OrderID: id,
		Symbol:  req.Symbol,
		Side:    models.OrderSideSell,
	}

	return &models.OrderResult{
		Accepted:     true,
		VenueOrderID: id,
		Raw:          fmt.Sprintf(`{"paper":true,"oco":true,"tp":%f,"stop":%f}`, req.TakeProfitPrice, req.StopPrice),
	}, nil
}

// ListOpenOrders returns the simulated open orders for the symbol.
func (p *PaperVenue) ListOpenOrders(ctx context.Context, symbol string) ([]models.OrderRef, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	refs := make([]models.OrderRef, 0, len(p.openOrders))
	for _, ref := range p.openOrders {
		if ref.Symbol == symbol {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// CancelOrder removes a simulated open order.
func (p *PaperVenue) CancelOrder(ctx context.Context, symbol, orderID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.openOrders[orderID]; !ok {
		return apperrors.NewVenueError("PAPER", fmt.Sprintf("unknown order %s", orderID), apperrors.ErrVenueRejected)
	}
	delete(p.openOrders, orderID)
	return nil
}
