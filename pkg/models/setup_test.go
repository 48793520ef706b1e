package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBarGeometry(t *testing.T) {
	hammer := Bar{Open: 102, High: 102.2, Low: 99.8, Close: 101.8}

	assert.InDelta(t, 0.2, hammer.Body(), 1e-9)
	assert.InDelta(t, 102.0, hammer.BodyTop(), 1e-9)
	assert.InDelta(t, 101.8, hammer.BodyBottom(), 1e-9)
	assert.InDelta(t, 0.2, hammer.UpperWick(), 1e-9)
	assert.InDelta(t, 2.0, hammer.LowerWick(), 1e-9)
	assert.InDelta(t, 2.4, hammer.Range(), 1e-9)
	assert.True(t, hammer.IsBearish())
	assert.False(t, hammer.IsBullish())

	doji := Bar{Open: 100, High: 101, Low: 99, Close: 100}
	assert.Zero(t, doji.Body())
	assert.False(t, doji.IsBullish())
	assert.False(t, doji.IsBearish())
}

func TestSetupRecordDerivedValues(t *testing.T) {
	s := SetupRecord{
		Symbol:        "ESUSDT",
		Timeframe:     "5m",
		Direction:     Bullish,
		EntryZoneHigh: 101.8,
		EntryZoneLow:  99.8,
		Stop:          98.8,
		Target:        110.8,
		Timestamp:     time.Unix(1705309200, 0).UTC(),
	}

	assert.InDelta(t, 100.8, s.EntryMid(), 1e-9)
	assert.InDelta(t, 2.0, s.RiskPoints(), 1e-9)
	assert.InDelta(t, 10.0, s.RewardPoints(), 1e-9)
	assert.InDelta(t, 5.0, s.RR(), 1e-9)
	assert.Equal(t, "ESUSDT:5m:bullish:1705309200", s.Fingerprint())
}

func TestSetupRecordZeroRisk(t *testing.T) {
	s := SetupRecord{EntryZoneHigh: 100, EntryZoneLow: 100, Stop: 100, Target: 105}
	assert.Zero(t, s.RR())
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, Bearish, Bullish.Opposite())
	assert.Equal(t, Bullish, Bearish.Opposite())
}
