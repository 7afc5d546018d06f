package models

import "time"

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderRequest represents a market order to be placed at the venue.
type OrderRequest struct {
	Symbol   string
	Side     OrderSide
	Quantity float64
}

// OCORequest represents a one-cancels-other protective order: a sell limit
// at TakeProfitPrice paired with a stop at StopPrice whose limit leg sits
// at StopLimitPrice, slightly below the trigger so it fills first.
type OCORequest struct {
	Symbol          string
	Quantity        float64
	TakeProfitPrice float64
	StopPrice       float64
	StopLimitPrice  float64
}

// OrderResult represents the venue's response to an order placement.
// Results are never persisted beyond the execution call except through the
// order journal.
type OrderResult struct {
	Accepted     bool
	VenueOrderID string
	FilledPrice  float64
	FilledQty    float64
	Raw          string
}

// OrderRef identifies an open order at the venue.
type OrderRef struct {
	OrderID string
	Symbol  string
	Side    OrderSide
}

// OrderEvent is the structured record emitted once per completed order,
// journaled and logged.
type OrderEvent struct {
	Side         OrderSide
	Symbol       string
	Quantity     float64
	Price        float64
	TotalValue   float64
	Timestamp    time.Time
	VenueOrderID string
	Raw          string
}
