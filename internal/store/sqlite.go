// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"binance-trader/internal/models"
)

// SQLiteStore is the append-only order journal. Every completed order is
// recorded with the same fields the structured order log event carries,
// plus the raw venue response for forensics.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based order journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		side TEXT NOT NULL,
		symbol TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		total_value REAL NOT NULL,
		venue_order_id TEXT,
		raw_response TEXT,
		executed_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_orders_symbol ON orders(symbol, executed_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordOrder appends a completed order to the journal.
func (s *SQLiteStore) RecordOrder(ctx context.Context, event models.OrderEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (side, symbol, quantity, price, total_value, venue_order_id, raw_response, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(event.Side),
		event.Symbol,
		event.Quantity,
		event.Price,
		event.TotalValue,
		event.VenueOrderID,
		event.Raw,
		event.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// ListOrders returns the most recent orders for a symbol, newest first.
// An empty symbol returns orders across all symbols.
func (s *SQLiteStore) ListOrders(ctx context.Context, symbol string, limit int) ([]models.OrderEvent, error) {
	query := `
		SELECT side, symbol, quantity, price, total_value, venue_order_id, raw_response, executed_at
		FROM orders`
	args := []interface{}{}
	if symbol != "" {
		query += " WHERE symbol = ?"
		args = append(args, symbol)
	}
	query += " ORDER BY executed_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var events []models.OrderEvent
	for rows.Next() {
		var e models.OrderEvent
		var side string
		var executedAt time.Time
		if err := rows.Scan(&side, &e.Symbol, &e.Quantity, &e.Price, &e.TotalValue, &e.VenueOrderID, &e.Raw, &executedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		e.Side = models.OrderSide(side)
		e.Timestamp = executedAt
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
