package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brxzee/scalping-bot/pkg/config"
)

func testKillzoneConfig() *config.KillzoneConfig {
	return &config.KillzoneConfig{
		LondonStart:        "02:00",
		LondonEnd:          "05:00",
		NewYorkStart:       "07:00",
		NewYorkEnd:         "10:00",
		ExtendMinutesAfter: 30,
		Timezone:           "America/New_York",
	}
}

func TestClockWindowBoundaries(t *testing.T) {
	clock, err := NewClock(testKillzoneConfig())
	require.NoError(t, err)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	at := func(hour, min int) time.Time {
		return time.Date(2024, 1, 15, hour, min, 0, 0, loc)
	}

	tests := []struct {
		name   string
		ts     time.Time
		window string
		inside bool
	}{
		{"london start inclusive", at(2, 0), "london", true},
		{"london mid", at(3, 30), "london", true},
		{"london end plus extension", at(5, 30), "london", true},
		{"one minute past extension", at(5, 31), "", false},
		{"before london", at(1, 59), "", false},
		{"newyork start", at(7, 0), "newyork", true},
		{"newyork end plus extension", at(10, 30), "newyork", true},
		{"past newyork extension", at(10, 31), "", false},
		{"afternoon", at(14, 0), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name, ok := clock.WindowName(tc.ts)
			assert.Equal(t, tc.inside, ok)
			assert.Equal(t, tc.window, name)
			assert.Equal(t, tc.inside, clock.InKillzone(tc.ts))
		})
	}
}

func TestClockConvertsTimezone(t *testing.T) {
	clock, err := NewClock(testKillzoneConfig())
	require.NoError(t, err)

	// 08:00 UTC on a January day is 03:00 in New York.
	assert.True(t, clock.InKillzone(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)))
	// 18:00 UTC is 13:00 in New York, outside both windows.
	assert.False(t, clock.InKillzone(time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)))
}

func TestWindowWrapsMidnight(t *testing.T) {
	w := Window{Name: "overnight", StartMin: 23 * 60, EndMin: 60, ExtendMin: 0}

	assert.True(t, w.Contains(23*60))
	assert.True(t, w.Contains(10))
	assert.True(t, w.Contains(60))
	assert.False(t, w.Contains(12*60))
}

func TestNewClockRejectsBadInput(t *testing.T) {
	cfg := testKillzoneConfig()
	cfg.LondonStart = "2am"
	_, err := NewClock(cfg)
	assert.Error(t, err)

	cfg = testKillzoneConfig()
	cfg.Timezone = "Mars/Olympus"
	_, err = NewClock(cfg)
	assert.Error(t, err)
}
