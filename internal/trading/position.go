// Package trading provides the position state machine, order execution
// engine, trading loop, and backtest harness.
package trading

import (
	"time"

	apperrors "binance-trader/internal/errors"
	"binance-trader/internal/models"
)

// Tracker is the single source of truth for "am I in a position". It owns
// the one Position object of a trading instance and enforces valid
// transitions: Flat -> Long on a buy, Long -> Flat on a sell, anything
// else is rejected. The tracker is mutated only from the scheduler's
// goroutine; other readers must take a Snapshot.
type Tracker struct {
	position models.Position

	// dirty is set when an order's outcome is unknown (transient failure
	// mid-placement). While dirty, the position must be re-derived from
	// venue balances before the next trading decision.
	dirty bool
}

// NewTracker creates a tracker in the Flat state.
func NewTracker() *Tracker {
	return &Tracker{
		position: models.Position{State: models.PositionFlat},
	}
}

// Snapshot returns a copy of the current position.
func (t *Tracker) Snapshot() models.Position {
	return t.position
}

// State returns the current position state.
func (t *Tracker) State() models.PositionState {
	return t.position.State
}

// EnterLong transitions Flat -> Long, recording the entry price and time.
// Buying while already Long is an invalid transition and leaves the
// position unchanged.
func (t *Tracker) EnterLong(price float64, at time.Time) error {
	if t.position.State != models.PositionFlat {
		return apperrors.Wrap(apperrors.ErrInvalidTransition, "buy while already long")
	}
	t.position = models.Position{
		State:      models.PositionLong,
		EntryPrice: price,
		EntryTime:  at,
	}
	return nil
}

// ExitLong transitions Long -> Flat, clearing the entry price and time.
// Selling while Flat is an invalid transition and leaves the position
// unchanged.
func (t *Tracker) ExitLong() error {
	if t.position.State != models.PositionLong {
		return apperrors.Wrap(apperrors.ErrInvalidTransition, "sell while flat")
	}
	t.position = models.Position{State: models.PositionFlat}
	return nil
}

// MarkDirty flags the position as untrusted after an order whose outcome
// is unknown.
func (t *Tracker) MarkDirty() {
	t.dirty = true
}

// Dirty reports whether the position needs reconciliation before the next
// trading decision.
func (t *Tracker) Dirty() bool {
	return t.dirty
}

// Reconcile derives the position state from the venue-reported base-asset
// balance: above the dust threshold means Long, otherwise Flat. priceHint
// and at seed the entry fields when reconciliation discovers a long
// position the tracker did not know about (the true entry fill is lost
// with the process that placed it).
//
// It returns ErrReconciliationMismatch when the in-memory state disagreed
// with the venue and the tracker was not already marked dirty; the
// position is corrected either way.
func (t *Tracker) Reconcile(balance, dustThreshold, priceHint float64, at time.Time) error {
	venueState := models.PositionFlat
	if balance > dustThreshold {
		venueState = models.PositionLong
	}

	mismatch := venueState != t.position.State && !t.dirty
	if venueState != t.position.State {
		if venueState == models.PositionLong {
			t.position = models.Position{
				State:      models.PositionLong,
				EntryPrice: priceHint,
				EntryTime:  at,
			}
		} else {
			t.position = models.Position{State: models.PositionFlat}
		}
	}
	t.dirty = false

	if mismatch {
		return apperrors.Wrapf(apperrors.ErrReconciliationMismatch,
			"venue balance %.8f implies %s", balance, venueState)
	}
	return nil
}
