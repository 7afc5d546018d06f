package venue

import (
	"context"
	"testing"

	apperrors "binance-trader/internal/errors"
	"binance-trader/internal/models"
)

func newTestPaperVenue() *PaperVenue {
	return NewPaperVenue(PaperVenueConfig{
		Symbol:       "BTCUSDT",
		BaseAsset:    "BTC",
		QuoteAsset:   "USDT",
		InitialQuote: 10000,
	})
}

func TestPaperVenueBuySellRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestPaperVenue()
	p.SetPrice(50000)

	result, err := p.PlaceMarketOrder(ctx, models.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     models.OrderSideBuy,
		Quantity: 0.1,
	})
	if err != nil {
		t.Fatalf("buy error = %v", err)
	}
	if result.FilledPrice != 50000 || result.FilledQty != 0.1 {
		t.Errorf("fill = %v @ %v, want 0.1 @ 50000", result.FilledQty, result.FilledPrice)
	}

	base, _ := p.GetBalance(ctx, "BTC")
	quote, _ := p.GetBalance(ctx, "USDT")
	if base != 0.1 || quote != 5000 {
		t.Errorf("balances = %v BTC / %v USDT, want 0.1 / 5000", base, quote)
	}

	p.SetPrice(60000)
	if _, err := p.PlaceMarketOrder(ctx, models.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     models.OrderSideSell,
		Quantity: 0.1,
	}); err != nil {
		t.Fatalf("sell error = %v", err)
	}

	base, _ = p.GetBalance(ctx, "BTC")
	quote, _ = p.GetBalance(ctx, "USDT")
	if base != 0 || quote != 11000 {
		t.Errorf("balances = %v BTC / %v USDT, want 0 / 11000", base, quote)
	}
}

func TestPaperVenueRejectsOverdraft(t *testing.T) {
	ctx := context.Background()
	p := newTestPaperVenue()
	p.SetPrice(50000)

	_, err := p.PlaceMarketOrder(ctx, models.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     models.OrderSideBuy,
		Quantity: 1, // notional 50000 > 10000 quote
	})
	if !apperrors.Is(err, apperrors.ErrInsufficientBalance) {
		t.Fatalf("buy error = %v, want ErrInsufficientBalance", err)
	}

	_, err = p.PlaceMarketOrder(ctx, models.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     models.OrderSideSell,
		Quantity: 0.1,
	})
	if !apperrors.Is(err, apperrors.ErrInsufficientBalance) {
		t.Fatalf("sell error = %v, want ErrInsufficientBalance", err)
	}
}

func TestPaperVenueRejectsOrderBeforePrice(t *testing.T) {
	p := newTestPaperVenue()

	_, err := p.PlaceMarketOrder(context.Background(), models.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     models.OrderSideBuy,
		Quantity: 0.1,
	})
	if !apperrors.Is(err, apperrors.ErrVenueRejected) {
		t.Fatalf("error = %v, want ErrVenueRejected with no market price", err)
	}
}

func TestPaperVenueOCOLifecycle(t *testing.T) {
	ctx := context.Background()
	p := newTestPaperVenue()
	p.SetPrice(50000)

	result, err := p.PlaceOCOOrder(ctx, models.OCORequest{
		Symbol:          "BTCUSDT",
		Quantity:        0.1,
		TakeProfitPrice: 51000,
		StopPrice:       49000,
		StopLimitPrice:  48755,
	})
	if err != nil {
		t.Fatalf("oco error = %v", err)
	}

	open, err := p.ListOpenOrders(ctx, "BTCUSDT")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if len(open) != 1 || open[0].OrderID != result.VenueOrderID {
		t.Fatalf("open = %+v, want the placed OCO", open)
	}

	if err := p.CancelOrder(ctx, "BTCUSDT", result.VenueOrderID); err != nil {
		t.Fatalf("cancel error = %v", err)
	}
	open, _ = p.ListOpenOrders(ctx, "BTCUSDT")
	if len(open) != 0 {
		t.Errorf("open = %+v, want empty after cancel", open)
	}

	if err := p.CancelOrder(ctx, "BTCUSDT", "nope"); !apperrors.Is(err, apperrors.ErrVenueRejected) {
		t.Errorf("cancel unknown order error = %v, want ErrVenueRejected", err)
	}
}
