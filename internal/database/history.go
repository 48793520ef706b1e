package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Brxzee/scalping-bot/internal/aggregation"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// HistoryReader adapts the Influx store to the limit-based bar source shape
// used by the scanner and backtester.
type HistoryReader struct {
	db *InfluxClient
}

// NewHistoryReader creates a reader backed by the given Influx client.
func NewHistoryReader(db *InfluxClient) *HistoryReader {
	return &HistoryReader{db: db}
}

// GetBars returns the most recent limit bars for a symbol and interval.
func (hr *HistoryReader) GetBars(ctx context.Context, symbol, interval string, limit int) ([]models.Bar, error) {
	step, err := aggregation.IntervalDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve interval: %w", err)
	}

	// Fetch a slightly wider window to absorb gaps in stored history.
	now := time.Now().UTC()
	from := now.Add(-time.Duration(limit+limit/4) * step)

	bars, err := hr.db.GetBars(ctx, symbol, interval, from, now)
	if err != nil {
		return nil, err
	}
	if len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}
