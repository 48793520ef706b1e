package structure

import (
	"math"

	"github.com/Brxzee/scalping-bot/pkg/models"
)

// ATR computes the rolling average true range aligned to the input bars.
// The first period indices are NaN: no value exists until a full window of
// true ranges is available. Consumers must check Defined before reading.
func ATR(bars []models.Bar, period int) []float64 {
	values := make([]float64, len(bars))
	for i := range values {
		values[i] = math.NaN()
	}
	if period < 1 || len(bars) <= period {
		return values
	}

	tr := make([]float64, len(bars))
	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	values[period] = sum / float64(period)
	for i := period + 1; i < len(bars); i++ {
		sum += tr[i] - tr[i-period]
		values[i] = sum / float64(period)
	}
	return values
}

// Defined reports whether a rolling-series value exists at an index.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}
