// Package venue provides execution venue interfaces and implementations.
package venue

import (
	"context"

	"binance-trader/internal/models"
)

// MarketVenue defines the interface for exchange operations the trading
// core depends on. Implementations must distinguish transient failures
// (network, timeout) from venue rejections through the sentinel errors in
// internal/errors.
type MarketVenue interface {
	// Market Data
	GetCandles(ctx context.Context, symbol string, interval models.Interval, limit int) ([]models.Candle, error)

	// Account
	GetBalance(ctx context.Context, asset string) (float64, error)

	// Orders
	PlaceMarketOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error)
	PlaceOCOOrder(ctx context.Context, req models.OCORequest) (*models.OrderResult, error)
	ListOpenOrders(ctx context.Context, symbol string) ([]models.OrderRef, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
}
