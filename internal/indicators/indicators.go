// Package indicators provides technical indicator calculations over candle
// series. Indicators are pure functions of their input: they allocate new
// output slices and never mutate the candles they are given.
//
// Outputs align index-for-index with the input. Values before an
// indicator's warm-up period are math.NaN, never zero, so callers can
// refuse to act on insufficient history.
package indicators

import (
	"errors"
	"math"

	"binance-trader/internal/models"
)

var (
	// ErrInsufficientData is returned when there's not enough data for calculation.
	ErrInsufficientData = errors.New("insufficient data for calculation")
	// ErrInvalidPeriod is returned when the period is invalid.
	ErrInvalidPeriod = errors.New("invalid period")
)

// Indicator defines the interface for single-value technical indicators.
type Indicator interface {
	Name() string
	Calculate(candles []models.Candle) ([]float64, error)
	Period() int
}

// MultiValueIndicator defines the interface for indicators that return
// multiple series, keyed by component name.
type MultiValueIndicator interface {
	Name() string
	Calculate(candles []models.Candle) (map[string][]float64, error)
	Period() int
}

// Defined reports whether an indicator value is past its warm-up period.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// nanPrefix fills result[0:n] with NaN so warm-up values are explicit.
func nanPrefix(result []float64, n int) {
	if n > len(result) {
		n = len(result)
	}
	for i := 0; i < n; i++ {
		result[i] = math.NaN()
	}
}
