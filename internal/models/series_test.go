package models

import (
	"testing"
	"time"
)

func candleAt(minute int, close float64) Candle {
	return Candle{
		OpenTime: time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
		Open:     close,
		High:     close,
		Low:      close,
		Close:    close,
		Volume:   1000,
	}
}

func TestCandleSeriesAppendOrdering(t *testing.T) {
	series := NewCandleSeries("BTCUSDT", Interval1m, 0)

	if !series.Append(candleAt(0, 100)) {
		t.Fatal("Append() of first candle rejected")
	}
	if !series.Append(candleAt(1, 101)) {
		t.Fatal("Append() of newer candle rejected")
	}
	if series.Append(candleAt(0, 99)) {
		t.Error("Append() of older candle should be rejected")
	}
	if series.Len() != 2 {
		t.Errorf("Len() = %d, want 2", series.Len())
	}
}

func TestCandleSeriesDuplicateOpenTimeReplaces(t *testing.T) {
	series := NewCandleSeries("BTCUSDT", Interval1m, 0)
	series.Append(candleAt(0, 100))
	series.Append(candleAt(1, 101))

	// The venue re-reports the still-open candle with an updated close.
	if !series.Append(candleAt(1, 105)) {
		t.Fatal("Append() of same-open-time candle rejected")
	}
	if series.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after replacement", series.Len())
	}
	if series.LastClose() != 105 {
		t.Errorf("LastClose() = %v, want replaced close 105", series.LastClose())
	}
}

func TestCandleSeriesLookbackBound(t *testing.T) {
	series := NewCandleSeries("BTCUSDT", Interval1m, 3)
	for i := 0; i < 5; i++ {
		series.Append(candleAt(i, 100+float64(i)))
	}

	if series.Len() != 3 {
		t.Fatalf("Len() = %d, want lookback bound 3", series.Len())
	}
	if series.At(0).Close != 102 {
		t.Errorf("At(0).Close = %v, oldest candles should be dropped", series.At(0).Close)
	}
	if series.LastClose() != 104 {
		t.Errorf("LastClose() = %v, want 104", series.LastClose())
	}
}

func TestCandleSeriesCloses(t *testing.T) {
	series := NewCandleSeriesFrom("BTCUSDT", Interval1m, 0, []Candle{
		candleAt(0, 1), candleAt(1, 2), candleAt(2, 3),
	})

	closes := series.Closes()
	want := []float64{1, 2, 3}
	for i, w := range want {
		if closes[i] != w {
			t.Errorf("Closes()[%d] = %v, want %v", i, closes[i], w)
		}
	}
}

func TestCandleSeriesSlice(t *testing.T) {
	series := NewCandleSeriesFrom("BTCUSDT", Interval1m, 0, []Candle{
		candleAt(0, 1), candleAt(1, 2), candleAt(2, 3),
	})

	head := series.Slice(2)
	if head.Len() != 2 || head.LastClose() != 2 {
		t.Errorf("Slice(2): Len=%d LastClose=%v, want 2 and 2", head.Len(), head.LastClose())
	}

	over := series.Slice(10)
	if over.Len() != 3 {
		t.Errorf("Slice(10).Len() = %d, want clamped 3", over.Len())
	}
}

func TestCandleSeriesEmpty(t *testing.T) {
	series := NewCandleSeries("BTCUSDT", Interval1m, 0)

	if _, ok := series.Last(); ok {
		t.Error("Last() on empty series reported a candle")
	}
	if series.LastClose() != 0 {
		t.Errorf("LastClose() = %v, want 0 for empty series", series.LastClose())
	}
}
