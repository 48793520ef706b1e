package structure

import (
	"math"
)

// RollingMean computes a trailing simple mean over window values, aligned to
// the input. Indices without a full window are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 1 || len(values) < window {
		return out
	}

	sum := 0.0
	for i := 0; i < window; i++ {
		sum += values[i]
	}
	out[window-1] = sum / float64(window)
	for i := window; i < len(values); i++ {
		sum += values[i] - values[i-window]
		out[i] = sum / float64(window)
	}
	return out
}
