// Package app wires the components together and owns the process lifecycle.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/internal/api"
	"github.com/Brxzee/scalping-bot/internal/cache"
	"github.com/Brxzee/scalping-bot/internal/database"
	"github.com/Brxzee/scalping-bot/internal/engine"
	"github.com/Brxzee/scalping-bot/internal/exchange"
	"github.com/Brxzee/scalping-bot/internal/messaging"
	"github.com/Brxzee/scalping-bot/internal/notify"
	"github.com/Brxzee/scalping-bot/internal/scanner"
	"github.com/Brxzee/scalping-bot/internal/session"
	"github.com/Brxzee/scalping-bot/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.Config
	logger *logrus.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Connections
	binance    *exchange.BinanceRESTClient
	influxDB   *database.InfluxClient
	redisCache *cache.RedisClient
	natsClient *messaging.NATSClient

	// Services
	engine    *engine.Engine
	scanner   *scanner.Service
	apiServer *api.Server
}

// New creates a new application instance
func New(cfg *config.Config, logger *logrus.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Initialize initializes all application components
func (a *App) Initialize() error {
	a.binance = exchange.NewBinanceRESTClient(&a.cfg.Binance, a.logger)
	a.influxDB = database.NewInfluxClient(&a.cfg.InfluxDB, a.logger)

	redisCache, err := cache.NewRedisClient(&a.cfg.Redis, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	a.redisCache = redisCache

	natsClient, err := messaging.NewNATSClient(&a.cfg.NATS, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	a.natsClient = natsClient

	clock, err := session.NewClock(&a.cfg.Strategy.Killzone)
	if err != nil {
		return fmt.Errorf("failed to initialize session clock: %w", err)
	}
	a.engine = engine.New(&a.cfg.Strategy, clock.WindowName, a.logger)

	var alerter scanner.Alerter
	if a.cfg.Telegram.Enabled {
		alerter = notify.NewTelegramNotifier(&a.cfg.Telegram, a.logger)
	}

	var source scanner.BarSource = a.binance
	if a.cfg.Scan.UseStoredHistory {
		source = database.NewHistoryReader(a.influxDB)
	}

	a.scanner = scanner.New(
		&a.cfg.Scan,
		a.engine,
		source,
		a.redisCache,
		a.natsClient,
		alerter,
		a.logger,
	)

	if a.cfg.API.Enabled {
		a.apiServer = api.NewServer(a.cfg, a.logger, a.influxDB, a.redisCache, a.natsClient)
	}

	return nil
}

// Start starts the application
func (a *App) Start() error {
	if err := a.scanner.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start scanner: %w", err)
	}

	if a.apiServer != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.apiServer.Start(); err != nil {
				a.logger.WithError(err).Error("API server error")
			}
		}()
	}

	return nil
}

// Stop gracefully stops the application
func (a *App) Stop() error {
	a.logger.Info("Stopping application...")

	a.cancel()

	if a.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.WithError(err).Error("Error stopping API server")
		}
		cancel()
	}

	if a.scanner != nil {
		if err := a.scanner.Stop(); err != nil {
			a.logger.WithError(err).Error("Error stopping scanner")
		}
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		a.logger.Warn("Timeout waiting for goroutines to finish")
	}

	if a.natsClient != nil {
		if err := a.natsClient.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing NATS connection")
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing Redis connection")
		}
	}
	if a.influxDB != nil {
		a.influxDB.Close()
	}

	a.logger.Info("Application stopped")
	return nil
}
