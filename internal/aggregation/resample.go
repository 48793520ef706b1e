// Package aggregation combines bars into coarser timeframes.
package aggregation

import (
	"time"

	"github.com/Brxzee/scalping-bot/pkg/models"
)

// Resample rolls an ascending bar series up into interval-sized buckets:
// first open, max high, min low, last close, summed volume. Buckets align to
// interval boundaries in UTC. Partial trailing buckets are kept; the caller
// decides whether an unfinished bar matters.
func Resample(bars []models.Bar, interval time.Duration) []models.Bar {
	if interval <= 0 || len(bars) == 0 {
		return nil
	}

	var out []models.Bar
	var current *models.Bar
	var bucketStart time.Time

	for _, bar := range bars {
		start := bar.Timestamp.UTC().Truncate(interval)
		if current == nil || !start.Equal(bucketStart) {
			if current != nil {
				out = append(out, *current)
			}
			bucketStart = start
			combined := bar
			combined.Timestamp = start
			current = &combined
			continue
		}

		if bar.High > current.High {
			current.High = bar.High
		}
		if bar.Low < current.Low {
			current.Low = bar.Low
		}
		current.Close = bar.Close
		current.Volume += bar.Volume
		current.TradeCount += bar.TradeCount
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}
