// Package models provides domain models for the trading application.
package models

import (
	"time"
)

// Interval represents a candle interval accepted by the venue.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// Signal represents a strategy decision for a single evaluation.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// PositionState represents the current exposure of the trading instance.
type PositionState string

const (
	PositionFlat PositionState = "FLAT"
	PositionLong PositionState = "LONG"
)

// Candle represents OHLCV data for a time period. Immutable once produced.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Position represents the single position owned by a trading instance.
// EntryPrice and EntryTime are only populated while State is PositionLong.
type Position struct {
	State      PositionState
	EntryPrice float64
	EntryTime  time.Time
}

// RiskPolicy configures protective order placement after a buy.
// Ratios are multiplied against the fill price: a StopLossRatio of 0.98
// places the stop 2% below entry, a TakeProfitRatio of 1.02 the target
// 2% above.
type RiskPolicy struct {
	Enabled         bool
	StopLossRatio   float64
	TakeProfitRatio float64
}

// DefaultRiskPolicy returns the default protective-order configuration.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		Enabled:         true,
		StopLossRatio:   0.98,
		TakeProfitRatio: 1.02,
	}
}
