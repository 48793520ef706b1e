// Package cache owns the Redis-backed state the detection core must not:
// the dedup set of already-alerted setup fingerprints and the latest-setups
// snapshot served by the API.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// RedisClient handles Redis caching operations
type RedisClient struct {
	client *redis.Client
	logger *logrus.Entry
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.RedisConfig, log *logrus.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		logger: log.WithField("component", "redis"),
	}, nil
}

// Close closes the Redis connection
func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

// Health checks Redis health
func (rc *RedisClient) Health(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// MarkSetupOnce records a setup fingerprint and reports whether it was new.
// An already-seen fingerprint means the setup was alerted in a prior cycle.
func (rc *RedisClient) MarkSetupOnce(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("setup:seen:%s", fingerprint)
	fresh, err := rc.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark setup: %w", err)
	}
	return fresh, nil
}

// SetLatestSetups stores the most recent scan output for a symbol.
func (rc *RedisClient) SetLatestSetups(ctx context.Context, symbol string, setups []models.SetupRecord, ttl time.Duration) error {
	key := fmt.Sprintf("setups:latest:%s", symbol)

	data, err := json.Marshal(setups)
	if err != nil {
		return fmt.Errorf("failed to marshal setups: %w", err)
	}
	return rc.client.Set(ctx, key, data, ttl).Err()
}

// GetLatestSetups returns the most recent scan output for a symbol, or nil
// when no scan has run yet.
func (rc *RedisClient) GetLatestSetups(ctx context.Context, symbol string) ([]models.SetupRecord, error) {
	key := fmt.Sprintf("setups:latest:%s", symbol)

	data, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setups: %w", err)
	}

	var setups []models.SetupRecord
	if err := json.Unmarshal([]byte(data), &setups); err != nil {
		return nil, fmt.Errorf("failed to unmarshal setups: %w", err)
	}
	return setups, nil
}
