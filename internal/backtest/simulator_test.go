package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brxzee/scalping-bot/pkg/models"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func mkBars(hl ...[2]float64) []models.Bar {
	bars := make([]models.Bar, len(hl))
	for i, v := range hl {
		mid := (v[0] + v[1]) / 2
		bars[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * 5 * time.Minute),
			Open:      mid, High: v[0], Low: v[1], Close: mid,
		}
	}
	return bars
}

func bullSetup() models.SetupRecord {
	return models.SetupRecord{
		Symbol:        "ESUSDT",
		Timeframe:     "5m",
		Direction:     models.Bullish,
		EntryZoneHigh: 101,
		EntryZoneLow:  99,
		Stop:          95,
		Target:        110,
		Timestamp:     t0,
	}
}

func TestSimulateWin(t *testing.T) {
	bars := mkBars(
		[2]float64{102, 101.5}, // anchor, at the setup timestamp
		[2]float64{103, 100},   // overlaps the entry zone
		[2]float64{111, 102},   // reaches the target
	)

	result, ok := Simulate(bars, bullSetup(), 10)

	require.True(t, ok)
	assert.Equal(t, models.OutcomeWin, result.Outcome)
	assert.InDelta(t, 110.0, result.ExitPrice, 1e-9)
	assert.InDelta(t, 10.0, result.PnLPoints, 1e-9, "entry at the zone midpoint of 100")
	assert.Equal(t, 1, result.BarsHeld)
}

func TestSimulateStopBeforeTargetSameBar(t *testing.T) {
	bars := mkBars(
		[2]float64{102, 101.5},
		[2]float64{103, 100},
		[2]float64{112, 94}, // touches both stop and target
	)

	result, ok := Simulate(bars, bullSetup(), 10)

	require.True(t, ok)
	assert.Equal(t, models.OutcomeLoss, result.Outcome, "stop is checked first on every bar")
	assert.InDelta(t, 95.0, result.ExitPrice, 1e-9)
	assert.InDelta(t, -5.0, result.PnLPoints, 1e-9)
}

func TestSimulateNeverFilled(t *testing.T) {
	// Price runs away without ever retracing into the 99-101 zone.
	bars := mkBars(
		[2]float64{102, 101.5},
		[2]float64{104, 102},
		[2]float64{106, 103},
		[2]float64{108, 105},
	)

	_, ok := Simulate(bars, bullSetup(), 10)
	assert.False(t, ok)
}

func TestSimulateFillWindowExpires(t *testing.T) {
	bars := mkBars(
		[2]float64{102, 101.5},
		[2]float64{104, 102},
		[2]float64{103, 100}, // would fill, but only on bar 2
	)

	_, ok := Simulate(bars, bullSetup(), 1)
	assert.False(t, ok)
}

func TestSimulateStillOpenExcluded(t *testing.T) {
	bars := mkBars(
		[2]float64{102, 101.5},
		[2]float64{103, 100},
		[2]float64{104, 101}, // neither stop nor target before data ends
	)

	_, ok := Simulate(bars, bullSetup(), 10)
	assert.False(t, ok)
}

func TestSimulateBearish(t *testing.T) {
	setup := models.SetupRecord{
		Direction:     models.Bearish,
		EntryZoneHigh: 101,
		EntryZoneLow:  99,
		Stop:          105,
		Target:        90,
		Timestamp:     t0,
	}
	bars := mkBars(
		[2]float64{98, 97},
		[2]float64{100, 96}, // fills at the zone midpoint of 100
		[2]float64{95, 89},  // reaches the target
	)

	result, ok := Simulate(bars, setup, 10)

	require.True(t, ok)
	assert.Equal(t, models.OutcomeWin, result.Outcome)
	assert.InDelta(t, 10.0, result.PnLPoints, 1e-9)
}

func TestSimulateNoAnchor(t *testing.T) {
	setup := bullSetup()
	setup.Timestamp = t0.Add(-time.Hour) // before the first bar

	_, ok := Simulate(mkBars([2]float64{102, 101.5}), setup, 10)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	results := []models.TradeResult{
		{Outcome: models.OutcomeWin, PnLPoints: 10, BarsHeld: 2},
		{Outcome: models.OutcomeLoss, PnLPoints: -5, BarsHeld: 1},
		{Outcome: models.OutcomeWin, PnLPoints: 10, BarsHeld: 3},
	}

	s := Summarize(results)

	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 66.666, s.WinRatePct, 0.01)
	assert.InDelta(t, 15.0, s.TotalPnLPoints, 1e-9)
	assert.InDelta(t, 5.0, s.MaxDrawdownPoints, 1e-9, "equity dips 5 points off its peak")
	assert.InDelta(t, 2.0, s.AvgBarsHeld, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalTrades)
	assert.Zero(t, s.WinRatePct)
	assert.Zero(t, s.AvgBarsHeld)
}

func TestRunAggregates(t *testing.T) {
	bars := mkBars(
		[2]float64{102, 101.5},
		[2]float64{103, 100},
		[2]float64{111, 102},
	)
	unfillable := bullSetup()
	unfillable.EntryZoneHigh = 90
	unfillable.EntryZoneLow = 88

	results, summary := Run(bars, []models.SetupRecord{bullSetup(), unfillable}, 10)

	require.Len(t, results, 1, "unfilled setups are excluded")
	assert.Equal(t, 1, summary.TotalTrades)
	assert.Equal(t, 1, summary.Wins)
}
