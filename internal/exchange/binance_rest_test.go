package exchange

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brxzee/scalping-bot/pkg/config"
)

func testClient(baseURL string) *BinanceRESTClient {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewBinanceRESTClient(&config.BinanceConfig{
		APIURL:    baseURL,
		RateLimit: 0,
		Timeout:   5 * time.Second,
	}, log)
}

func TestParseKline(t *testing.T) {
	raw := []interface{}{
		float64(1705309200000),
		"100.5", "102.0", "99.5", "101.0", "1234.5",
		float64(1705309499999), "124000.0", float64(321),
	}

	bar, err := parseKline("BTCUSDT", raw)

	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", bar.Symbol)
	assert.Equal(t, time.UnixMilli(1705309200000).UTC(), bar.Timestamp)
	assert.Equal(t, 100.5, bar.Open)
	assert.Equal(t, 102.0, bar.High)
	assert.Equal(t, 99.5, bar.Low)
	assert.Equal(t, 101.0, bar.Close)
	assert.Equal(t, 1234.5, bar.Volume)
	assert.Equal(t, int64(321), bar.TradeCount)
}

func TestParseKlineBadField(t *testing.T) {
	raw := []interface{}{
		float64(1705309200000),
		"100.5", "not-a-number", "99.5", "101.0", "1234.5",
	}
	_, err := parseKline("BTCUSDT", raw)
	assert.Error(t, err)
}

func TestGetBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "5m", r.URL.Query().Get("interval"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			[1705309200000, "100.5", "102.0", "99.5", "101.0", "10.0", 1705309499999, "1000", 5],
			[1705309500000, "101.0", "103.0", "100.5", "102.5", "12.0", 1705309799999, "1200", 7]
		]`)
	}))
	defer server.Close()

	bars, err := testClient(server.URL).GetBars(context.Background(), "BTCUSDT", "5m", 2)

	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 100.5, bars[0].Open)
	assert.Equal(t, 102.5, bars[1].Close)
	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp))
}

func TestGetBarsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetBars(context.Background(), "NOPE", "5m", 10)
	assert.Error(t, err)
}

func TestGetBarsSkipsMalformedKlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			[1705309200000, "100.5", "102.0", "99.5", "101.0", "10.0"],
			[1705309500000, "bad"]
		]`)
	}))
	defer server.Close()

	bars, err := testClient(server.URL).GetBars(context.Background(), "BTCUSDT", "5m", 10)

	require.NoError(t, err)
	assert.Len(t, bars, 1)
}
