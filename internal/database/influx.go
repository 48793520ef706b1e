// Package database stores and retrieves bar history in InfluxDB.
package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// InfluxClient handles InfluxDB time-series operations
type InfluxClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	logger   *logrus.Entry
	bucket   string
}

// NewInfluxClient creates a new InfluxDB client
func NewInfluxClient(cfg *config.InfluxConfig, log *logrus.Logger) *InfluxClient {
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetHTTPRequestTimeout(uint(cfg.Timeout.Seconds())).
			SetLogLevel(0),
	)

	return &InfluxClient{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		queryAPI: client.QueryAPI(cfg.Org),
		logger:   log.WithField("component", "influxdb"),
		bucket:   cfg.Bucket,
	}
}

// Close closes the InfluxDB client
func (ic *InfluxClient) Close() {
	ic.client.Close()
}

// Health checks InfluxDB health
func (ic *InfluxClient) Health(ctx context.Context) error {
	health, err := ic.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to check health: %w", err)
	}
	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return fmt.Errorf("influxdb health check failed: %s", msg)
	}
	return nil
}

// WriteBars writes a batch of bars for one interval.
func (ic *InfluxClient) WriteBars(ctx context.Context, bars []models.Bar, interval string) error {
	points := make([]*write.Point, 0, len(bars))
	for _, bar := range bars {
		point := influxdb2.NewPoint(
			measurement(interval),
			map[string]string{
				"symbol": bar.Symbol,
			},
			map[string]interface{}{
				"open":   bar.Open,
				"high":   bar.High,
				"low":    bar.Low,
				"close":  bar.Close,
				"volume": bar.Volume,
			},
			bar.Timestamp,
		)
		points = append(points, point)
	}

	if err := ic.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("failed to write bars: %w", err)
	}

	ic.logger.WithFields(logrus.Fields{
		"interval": interval,
		"count":    len(points),
	}).Debug("Wrote bars")
	return nil
}

// GetBars reads bars for a symbol and interval within [from, to), ordered by
// timestamp ascending.
func (ic *InfluxClient) GetBars(ctx context.Context, symbol, interval string, from, to time.Time) ([]models.Bar, error) {
	query := fmt.Sprintf(`
		from(bucket: "%s")
			|> range(start: %s, stop: %s)
			|> filter(fn: (r) => r._measurement == "%s")
			|> filter(fn: (r) => r.symbol == "%s")
			|> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
			|> sort(columns: ["_time"])
	`, ic.bucket, from.Format(time.RFC3339), to.Format(time.RFC3339), measurement(interval), symbol)

	result, err := ic.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer result.Close()

	var bars []models.Bar
	for result.Next() {
		record := result.Record()
		bar := models.Bar{
			Symbol:    symbol,
			Timestamp: record.Time(),
		}
		values := record.Values()
		if v, ok := values["open"].(float64); ok {
			bar.Open = v
		}
		if v, ok := values["high"].(float64); ok {
			bar.High = v
		}
		if v, ok := values["low"].(float64); ok {
			bar.Low = v
		}
		if v, ok := values["close"].(float64); ok {
			bar.Close = v
		}
		if v, ok := values["volume"].(float64); ok {
			bar.Volume = v
		}
		bars = append(bars, bar)
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("query error: %w", result.Err())
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

func measurement(interval string) string {
	if interval == "" || interval == "1m" {
		return "ohlcv"
	}
	return fmt.Sprintf("ohlcv_%s", interval)
}
