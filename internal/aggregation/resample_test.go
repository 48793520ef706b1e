package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brxzee/scalping-bot/pkg/models"
)

func TestResampleFiveToFifteenMinutes(t *testing.T) {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		{Timestamp: base, Open: 100, High: 102, Low: 99, Close: 101, Volume: 10},
		{Timestamp: base.Add(5 * time.Minute), Open: 101, High: 104, Low: 100, Close: 103, Volume: 20},
		{Timestamp: base.Add(10 * time.Minute), Open: 103, High: 103.5, Low: 101, Close: 102, Volume: 5},
		{Timestamp: base.Add(15 * time.Minute), Open: 102, High: 105, Low: 101.5, Close: 104, Volume: 7},
	}

	out := Resample(bars, 15*time.Minute)

	require.Len(t, out, 2)

	full := out[0]
	assert.Equal(t, base, full.Timestamp)
	assert.Equal(t, 100.0, full.Open)
	assert.Equal(t, 104.0, full.High)
	assert.Equal(t, 99.0, full.Low)
	assert.Equal(t, 102.0, full.Close)
	assert.Equal(t, 35.0, full.Volume)

	partial := out[1]
	assert.Equal(t, base.Add(15*time.Minute), partial.Timestamp)
	assert.Equal(t, 102.0, partial.Open)
	assert.Equal(t, 104.0, partial.Close)
	assert.Equal(t, 7.0, partial.Volume)
}

func TestResampleEmpty(t *testing.T) {
	assert.Nil(t, Resample(nil, time.Hour))
	assert.Nil(t, Resample([]models.Bar{{}}, 0))
}

func TestIntervalDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1m", time.Minute, false},
		{"5m", 5 * time.Minute, false},
		{"1h", time.Hour, false},
		{"4h", 4 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 7 * 24 * time.Hour, false},
		{"", 0, true},
		{"m", 0, true},
		{"10x", 0, true},
		{"-5m", 0, true},
	}
	for _, tc := range tests {
		got, err := IntervalDuration(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
