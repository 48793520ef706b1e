package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasurement(t *testing.T) {
	assert.Equal(t, "ohlcv", measurement(""))
	assert.Equal(t, "ohlcv", measurement("1m"))
	assert.Equal(t, "ohlcv_5m", measurement("5m"))
	assert.Equal(t, "ohlcv_1h", measurement("1h"))
	assert.Equal(t, "ohlcv_1d", measurement("1d"))
}
