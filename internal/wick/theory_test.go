package wick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

func testConfig() *config.StrategyConfig {
	return &config.StrategyConfig{
		Structure: config.StructureConfig{
			SwingLookback: 2,
			ATRPeriod:     14, // undefined over short fixtures, disables the ATR floor
		},
		Wick: config.WickConfig{
			WickToBodyRatioMin:  2.0,
			BodyToRangeMax:      0.5,
			ATRMinMult:          0.3,
			RespectBarsLookback: 5,
		},
	}
}

func mkBars(ohlc ...[4]float64) []models.Bar {
	bars := make([]models.Bar, len(ohlc))
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	for i, v := range ohlc {
		bars[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      v[0], High: v[1], Low: v[2], Close: v[3],
		}
	}
	return bars
}

// hammerSeries has a long-lower-wick candle on the swing low at index 4.
func hammerSeries() []models.Bar {
	return mkBars(
		[4]float64{106, 106.5, 104.5, 105},
		[4]float64{105, 105.5, 103.5, 104},
		[4]float64{104, 104.5, 102.5, 103},
		[4]float64{103, 103.5, 101.5, 102},
		[4]float64{102, 102.2, 99.8, 101.8},
		[4]float64{101.8, 102.6, 101.5, 102.5},
		[4]float64{102.5, 103.5, 102.3, 103.4},
		[4]float64{103.4, 104.4, 103.2, 104.3},
		[4]float64{104.3, 105.3, 104.1, 105.2},
		[4]float64{105.2, 106.2, 105, 106.1},
	)
}

func TestFindRespectedWick(t *testing.T) {
	events := Find(hammerSeries(), testConfig())

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, models.Bullish, ev.Direction)
	assert.Equal(t, 4, ev.BarIndex)
	assert.Equal(t, 4, ev.SwingBarIndex, "the hammer is itself the swing low")
	assert.InDelta(t, 100.8, ev.Midpoint, 1e-9)
	assert.Equal(t, models.WickRespected, ev.Outcome,
		"bar 5 closes above the hammer body without touching the midpoint")
}

func TestFindDisrespectedWick(t *testing.T) {
	bars := hammerSeries()
	// The bar after the hammer closes below the wick midpoint (100.8).
	bars[5] = models.Bar{Timestamp: bars[5].Timestamp, Open: 101.8, High: 101.9, Low: 100.3, Close: 100.5}

	events := Find(bars, testConfig())

	var hammer *models.WickEvent
	for i := range events {
		if events[i].BarIndex == 4 && events[i].Direction == models.Bullish {
			hammer = &events[i]
		}
	}
	require.NotNil(t, hammer)
	assert.Equal(t, models.WickDisrespected, hammer.Outcome)
}

func TestFindUndeterminedWick(t *testing.T) {
	bars := hammerSeries()
	cfg := testConfig()
	cfg.Wick.RespectBarsLookback = 5

	// Hold every later close inside the hammer body: above the midpoint but
	// never beyond the body top (102).
	for i := 5; i < len(bars); i++ {
		bars[i] = models.Bar{Timestamp: bars[i].Timestamp, Open: 101.4, High: 101.9, Low: 101.2, Close: 101.6}
	}

	events := Find(bars, cfg)

	var hammer *models.WickEvent
	for i := range events {
		if events[i].BarIndex == 4 && events[i].Direction == models.Bullish {
			hammer = &events[i]
		}
	}
	require.NotNil(t, hammer)
	assert.Equal(t, models.WickUndetermined, hammer.Outcome)
}

func TestFindBodyTooLargeSkipped(t *testing.T) {
	bars := hammerSeries()
	// Turn the hammer into a full-body candle.
	bars[4] = models.Bar{Timestamp: bars[4].Timestamp, Open: 102, High: 102.2, Low: 99.8, Close: 100}

	for _, ev := range Find(bars, testConfig()) {
		assert.NotEqual(t, 4, ev.BarIndex)
	}
}
