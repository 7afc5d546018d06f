package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"binance-trader/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "trader.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndListOrders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []models.OrderEvent{
		{
			Side: models.OrderSideBuy, Symbol: "BTCUSDT",
			Quantity: 0.001, Price: 50000, TotalValue: 50,
			VenueOrderID: "1", Timestamp: base,
		},
		{
			Side: models.OrderSideSell, Symbol: "BTCUSDT",
			Quantity: 0.001, Price: 51000, TotalValue: 51,
			VenueOrderID: "2", Timestamp: base.Add(time.Hour),
		},
		{
			Side: models.OrderSideBuy, Symbol: "ETHUSDT",
			Quantity: 0.05, Price: 3000, TotalValue: 150,
			VenueOrderID: "3", Timestamp: base.Add(2 * time.Hour),
		},
	}
	for _, e := range events {
		if err := store.RecordOrder(ctx, e); err != nil {
			t.Fatalf("RecordOrder() error = %v", err)
		}
	}

	got, err := store.ListOrders(ctx, "BTCUSDT", 10)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d orders, want 2 for BTCUSDT", len(got))
	}
	// Newest first.
	if got[0].VenueOrderID != "2" || got[1].VenueOrderID != "1" {
		t.Errorf("order ids = %s, %s, want 2, 1", got[0].VenueOrderID, got[1].VenueOrderID)
	}
	if got[0].Side != models.OrderSideSell || got[0].Price != 51000 {
		t.Errorf("got[0] = %+v", got[0])
	}

	all, err := store.ListOrders(ctx, "", 10)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d orders, want 3 across symbols", len(all))
	}
}

func TestListOrdersLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.RecordOrder(ctx, models.OrderEvent{
			Side: models.OrderSideBuy, Symbol: "BTCUSDT",
			Quantity: 0.001, Price: 50000, TotalValue: 50,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordOrder() error = %v", err)
		}
	}

	got, err := store.ListOrders(ctx, "BTCUSDT", 2)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d orders, want limit of 2", len(got))
	}
}

func TestListOrdersEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ListOrders(context.Background(), "BTCUSDT", 10)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d orders, want none", len(got))
	}
}
