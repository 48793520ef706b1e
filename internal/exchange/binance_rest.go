// Package exchange fetches OHLCV bar history from Binance's REST API.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// BinanceRESTClient handles REST API calls to Binance
type BinanceRESTClient struct {
	client    *http.Client
	baseURL   string
	logger    *logrus.Entry
	rateLimit time.Duration
	lastCall  time.Time
}

// NewBinanceRESTClient creates a new Binance REST API client
func NewBinanceRESTClient(cfg *config.BinanceConfig, log *logrus.Logger) *BinanceRESTClient {
	return &BinanceRESTClient{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.APIURL,
		logger:    log.WithField("component", "binance-rest"),
		rateLimit: cfg.RateLimit,
	}
}

// GetBars fetches the most recent limit bars for a symbol and interval,
// ordered by open time ascending.
func (b *BinanceRESTClient) GetBars(ctx context.Context, symbol, interval string, limit int) ([]models.Bar, error) {
	return b.getBars(ctx, symbol, interval, 0, 0, limit)
}

// GetBarsRange fetches bars between start and end, paging through the
// 1000-kline request cap.
func (b *BinanceRESTClient) GetBarsRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]models.Bar, error) {
	var all []models.Bar
	currentStart := start.UnixMilli()
	endMs := end.UnixMilli()

	for currentStart < endMs {
		bars, err := b.getBars(ctx, symbol, interval, currentStart, endMs, 1000)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch batch: %w", err)
		}
		if len(bars) == 0 {
			break
		}
		all = append(all, bars...)
		currentStart = bars[len(bars)-1].Timestamp.UnixMilli() + 1

		b.logger.WithFields(logrus.Fields{
			"symbol":  symbol,
			"fetched": len(all),
		}).Debug("Loading historical bars")
	}
	return all, nil
}

func (b *BinanceRESTClient) getBars(ctx context.Context, symbol, interval string, startMs, endMs int64, limit int) ([]models.Bar, error) {
	b.enforceRateLimit()

	endpoint := fmt.Sprintf("%s/api/v3/klines", b.baseURL)
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("interval", interval)
	if startMs > 0 {
		params.Add("startTime", strconv.FormatInt(startMs, 10))
	}
	if endMs > 0 {
		params.Add("endTime", strconv.FormatInt(endMs, 10))
	}
	switch {
	case limit > 1000:
		params.Add("limit", "1000")
	case limit > 0:
		params.Add("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var rawKlines [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&rawKlines); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	bars := make([]models.Bar, 0, len(rawKlines))
	for _, raw := range rawKlines {
		if len(raw) < 6 {
			continue
		}
		bar, err := parseKline(symbol, raw)
		if err != nil {
			b.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping malformed kline")
			continue
		}
		bars = append(bars, bar)
	}

	b.logger.WithFields(logrus.Fields{
		"symbol":   symbol,
		"interval": interval,
		"count":    len(bars),
	}).Debug("Fetched bars")

	return bars, nil
}

func parseKline(symbol string, raw []interface{}) (models.Bar, error) {
	openTime, ok := raw[0].(float64)
	if !ok {
		return models.Bar{}, fmt.Errorf("unexpected open time type %T", raw[0])
	}

	fields := make([]float64, 5)
	for i := 0; i < 5; i++ {
		s, ok := raw[i+1].(string)
		if !ok {
			return models.Bar{}, fmt.Errorf("unexpected kline field type %T", raw[i+1])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Bar{}, fmt.Errorf("failed to parse kline field: %w", err)
		}
		fields[i] = v
	}

	bar := models.Bar{
		Symbol:    symbol,
		Timestamp: time.UnixMilli(int64(openTime)).UTC(),
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}
	if len(raw) > 8 {
		if trades, ok := raw[8].(float64); ok {
			bar.TradeCount = int64(trades)
		}
	}
	return bar, nil
}

func (b *BinanceRESTClient) enforceRateLimit() {
	elapsed := time.Since(b.lastCall)
	if elapsed < b.rateLimit {
		time.Sleep(b.rateLimit - elapsed)
	}
	b.lastCall = time.Now()
}
