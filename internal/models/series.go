package models

import "time"

// CandleSeries is an ordered, append-only view of candles for one
// (symbol, interval) pair. OpenTime is strictly increasing; appending a
// candle with a known OpenTime replaces the stored one. Length is bounded
// by the lookback window, the oldest candle is dropped on overflow.
type CandleSeries struct {
	Symbol   string
	Interval Interval
	lookback int
	candles  []Candle
}

// NewCandleSeries creates an empty series bounded to lookback candles.
// A lookback of zero or less means unbounded.
func NewCandleSeries(symbol string, interval Interval, lookback int) *CandleSeries {
	return &CandleSeries{
		Symbol:   symbol,
		Interval: interval,
		lookback: lookback,
	}
}

// NewCandleSeriesFrom builds a series from pre-sorted candles, applying the
// same dedup and lookback rules as repeated Append calls.
func NewCandleSeriesFrom(symbol string, interval Interval, lookback int, candles []Candle) *CandleSeries {
	s := NewCandleSeries(symbol, interval, lookback)
	for _, c := range candles {
		s.Append(c)
	}
	return s
}

// Append adds a candle to the series. Candles older than the newest stored
// one are rejected; a duplicate OpenTime replaces the stored candle (the
// venue re-reports the still-open candle on every poll).
func (s *CandleSeries) Append(c Candle) bool {
	n := len(s.candles)
	if n > 0 {
		last := s.candles[n-1].OpenTime
		if c.OpenTime.Before(last) {
			return false
		}
		if c.OpenTime.Equal(last) {
			s.candles[n-1] = c
			return true
		}
	}
	s.candles = append(s.candles, c)
	if s.lookback > 0 && len(s.candles) > s.lookback {
		s.candles = s.candles[len(s.candles)-s.lookback:]
	}
	return true
}

// Len returns the number of candles in the series.
func (s *CandleSeries) Len() int {
	return len(s.candles)
}

// Candles returns the underlying candles. Callers must not mutate the
// returned slice.
func (s *CandleSeries) Candles() []Candle {
	return s.candles
}

// At returns the candle at index i.
func (s *CandleSeries) At(i int) Candle {
	return s.candles[i]
}

// Last returns the most recent candle and whether the series is non-empty.
func (s *CandleSeries) Last() (Candle, bool) {
	if len(s.candles) == 0 {
		return Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// LastClose returns the close price of the most recent candle, or zero for
// an empty series.
func (s *CandleSeries) LastClose() float64 {
	c, ok := s.Last()
	if !ok {
		return 0
	}
	return c.Close
}

// Closes extracts the close-price projection of the series.
func (s *CandleSeries) Closes() []float64 {
	closes := make([]float64, len(s.candles))
	for i, c := range s.candles {
		closes[i] = c.Close
	}
	return closes
}

// Slice returns a new series holding the first n candles. The backtest
// harness uses this to replay history one candle at a time.
func (s *CandleSeries) Slice(n int) *CandleSeries {
	if n > len(s.candles) {
		n = len(s.candles)
	}
	return &CandleSeries{
		Symbol:   s.Symbol,
		Interval: s.Interval,
		lookback: s.lookback,
		candles:  s.candles[:n],
	}
}

// Span returns the open times of the first and last candle.
func (s *CandleSeries) Span() (from, to time.Time) {
	if len(s.candles) == 0 {
		return
	}
	return s.candles[0].OpenTime, s.candles[len(s.candles)-1].OpenTime
}
