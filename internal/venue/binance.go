package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	apperrors "binance-trader/internal/errors"
	"binance-trader/internal/models"
)

// Binance API error codes worth mapping to domain errors.
const (
	binanceCodeInsufficientBalance = -2010
)

// BinanceVenue implements the MarketVenue interface for Binance spot.
type BinanceVenue struct {
	client *binance.Client
}

// BinanceConfig holds configuration for the Binance venue.
type BinanceConfig struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// NewBinanceVenue creates a new Binance venue instance.
func NewBinanceVenue(cfg BinanceConfig) *BinanceVenue {
	binance.UseTestnet = cfg.Testnet
	return &BinanceVenue{
		client: binance.NewClient(cfg.APIKey, cfg.APISecret),
	}
}

// GetCandles fetches the most recent limit candles for symbol/interval.
func (b *BinanceVenue) GetCandles(ctx context.Context, symbol string, interval models.Interval, limit int) ([]models.Candle, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(string(interval)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, mapVenueError("fetching candles", err)
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		c, err := candleFromKline(k)
		if err != nil {
			return nil, apperrors.Wrapf(err, "parsing kline for %s", symbol)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func candleFromKline(k *binance.Kline) (models.Candle, error) {
	var c models.Candle
	var err error

	if c.Open, err = strconv.ParseFloat(k.Open, 64); err != nil {
		return c, err
	}
	if c.High, err = strconv.ParseFloat(k.High, 64); err != nil {
		return c, err
	}
	if c.Low, err = strconv.ParseFloat(k.Low, 64); err != nil {
		return c, err
	}
	if c.Close, err = strconv.ParseFloat(k.Close, 64); err != nil {
		return c, err
	}
	if c.Volume, err = strconv.ParseFloat(k.Volume, 64); err != nil {
		return c, err
	}
	c.OpenTime = time.UnixMilli(k.OpenTime)
	return c, nil
}

// GetBalance returns the free balance of the given asset.
func (b *BinanceVenue) GetBalance(ctx context.Context, asset string) (float64, error) {
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, mapVenueError("fetching account", err)
	}

	for _, bal := range account.Balances {
		if bal.Asset == asset {
			free, err := strconv.ParseFloat(bal.Free, 64)
			if err != nil {
				return 0, apperrors.Wrapf(err, "parsing %s balance", asset)
			}
			return free, nil
		}
	}
	return 0, nil
}

// PlaceMarketOrder places a market order and reports the fill.
func (b *BinanceVenue) PlaceMarketOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	side := binance.SideTypeBuy
	if req.Side == models.OrderSideSell {
		side = binance.SideTypeSell
	}

	resp, err := b.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(formatQuantity(req.Quantity)).
		Do(ctx)
	if err != nil {
		return nil, mapVenueError("placing market order", err)
	}

	result := &models.OrderResult{
		Accepted:     true,
		VenueOrderID: strconv.FormatInt(resp.OrderID, 10),
	}
	if qty, err := strconv.ParseFloat(resp.ExecutedQuantity, 64); err == nil {
		result.FilledQty = qty
	}
	if len(resp.Fills) > 0 {
		if price, err := strconv.ParseFloat(resp.Fills[0].Price, 64); err == nil {
			result.FilledPrice = price
		}
	}
	if raw, err := json.Marshal(resp); err == nil {
		result.Raw = string(raw)
	}
	return result, nil
}

// PlaceOCOOrder places a sell-side OCO protective order: a take-profit
// limit paired with a stop-loss whose limit leg sits at StopLimitPrice.
func (b *BinanceVenue) PlaceOCOOrder(ctx context.Context, req models.OCORequest) (*models.OrderResult, error) {
	resp, err := b.client.NewCreateOCOService().
		Symbol(req.Symbol).
		Side(binance.SideTypeSell).
		Quantity(formatQuantity(req.Quantity)).
		Price(formatPrice(req.TakeProfitPrice)).
		StopPrice(formatPrice(req.StopPrice)).
		StopLimitPrice(formatPrice(req.StopLimitPrice)).
		StopLimitTimeInForce(binance.TimeInForceTypeGTC).
		Do(ctx)
	if err != nil {
		return nil, mapVenueError("placing OCO order", err)
	}

	result := &models.OrderResult{
		Accepted:     true,
		VenueOrderID: strconv.FormatInt(resp.OrderListID, 10),
	}
	if raw, err := json.Marshal(resp); err == nil {
		result.Raw = string(raw)
	}
	return result, nil
}

// ListOpenOrders returns all open orders for the symbol.
func (b *BinanceVenue) ListOpenOrders(ctx context.Context, symbol string) ([]models.OrderRef, error) {
	orders, err := b.client.NewListOpenOrdersService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, mapVenueError("listing open orders", err)
	}

	refs := make([]models.OrderRef, 0, len(orders))
	for _, o := range orders {
		side := models.OrderSideBuy
		if o.Side == binance.SideTypeSell {
			side = models.OrderSideSell
		}
		refs = append(refs, models.OrderRef{
			OrderID: strconv.FormatInt(o.OrderID, 10),
			Symbol:  o.Symbol,
			Side:    side,
		})
	}
	return refs, nil
}

// CancelOrder cancels a single open order.
func (b *BinanceVenue) CancelOrder(ctx context.Context, symbol, orderID string) error {
	id, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return apperrors.Wrapf(err, "invalid order id %q", orderID)
	}

	_, err = b.client.NewCancelOrderService().Symbol(symbol).OrderID(id).Do(ctx)
	if err != nil {
		return mapVenueError("cancelling order", err)
	}
	return nil
}

// mapVenueError translates SDK errors into the domain error taxonomy.
// API errors are definitive venue responses; anything else is a network
// failure whose outcome is unknown.
func mapVenueError(op string, err error) error {
	var apiErr *common.APIError
	if apperrors.As(err, &apiErr) {
		if apiErr.Code == binanceCodeInsufficientBalance {
			return apperrors.Wrap(apperrors.ErrInsufficientBalance, op)
		}
		return apperrors.NewVenueError(
			strconv.FormatInt(apiErr.Code, 10),
			fmt.Sprintf("%s: %s", op, apiErr.Message),
			apperrors.ErrVenueRejected,
		)
	}
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrTransient, err)
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', 6, 64)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
