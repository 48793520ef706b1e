// Package scanner runs the live polling loop: fetch bars, detect setups,
// dedup, alert, publish.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/internal/aggregation"
	"github.com/Brxzee/scalping-bot/internal/engine"
	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// BarSource fetches the most recent bars for a symbol and interval.
type BarSource interface {
	GetBars(ctx context.Context, symbol, interval string, limit int) ([]models.Bar, error)
}

// SetupStore owns the cross-cycle state: fingerprint dedup and the
// latest-setups snapshot.
type SetupStore interface {
	MarkSetupOnce(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
	SetLatestSetups(ctx context.Context, symbol string, setups []models.SetupRecord, ttl time.Duration) error
}

// SetupPublisher distributes fresh setups to downstream consumers.
type SetupPublisher interface {
	PublishSetup(setup models.SetupRecord) error
}

// Alerter sends a human-facing alert for a fresh setup.
type Alerter interface {
	SendSetupAlert(ctx context.Context, setup models.SetupRecord) error
}

// Service polls bar history on an interval and pushes every fresh setup
// through the store, publisher, and alerter.
type Service struct {
	cfg       *config.ScanConfig
	engine    *engine.Engine
	source    BarSource
	store     SetupStore
	publisher SetupPublisher
	alerter   Alerter
	logger    *logrus.Entry

	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a scanner service. The publisher and alerter may be nil when
// those channels are disabled.
func New(
	cfg *config.ScanConfig,
	eng *engine.Engine,
	source BarSource,
	store SetupStore,
	publisher SetupPublisher,
	alerter Alerter,
	log *logrus.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		engine:    eng,
		source:    source,
		store:     store,
		publisher: publisher,
		alerter:   alerter,
		logger:    log.WithField("component", "scanner"),
		done:      make(chan struct{}),
	}
}

// Start launches the polling loop.
func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("scanner already running")
	}
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.WithFields(logrus.Fields{
		"symbols":  s.cfg.Symbols,
		"interval": s.cfg.PollInterval,
	}).Info("Scanner started")
	return nil
}

// Stop stops the polling loop and waits for the current cycle to finish.
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}
	close(s.done)
	s.wg.Wait()
	s.running = false
	s.logger.Info("Scanner stopped")
	return nil
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.RunCycle(ctx)
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle scans every configured symbol once.
func (s *Service) RunCycle(ctx context.Context) {
	start := time.Now()
	total := 0
	for _, symbol := range s.cfg.Symbols {
		n, err := s.scanSymbol(ctx, symbol)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Error("Scan failed")
			continue
		}
		total += n
	}
	s.logger.WithFields(logrus.Fields{
		"duration": time.Since(start).Round(time.Millisecond),
		"fresh":    total,
	}).Debug("Scan cycle completed")
}

func (s *Service) scanSymbol(ctx context.Context, symbol string) (int, error) {
	bars, err := s.source.GetBars(ctx, symbol, s.cfg.TimeframePrimary, s.cfg.LookbackBars)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s bars: %w", s.cfg.TimeframePrimary, err)
	}
	if len(bars) < s.cfg.MinBarsForScan {
		s.logger.WithFields(logrus.Fields{
			"symbol": symbol,
			"bars":   len(bars),
		}).Debug("Not enough data, skipping")
		return 0, nil
	}

	htf := s.fetchHTF(ctx, symbol)
	setups := s.engine.BuildSetups(bars, symbol, s.cfg.TimeframePrimary, htf)

	if err := s.store.SetLatestSetups(ctx, symbol, setups, s.cfg.DedupTTL); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to cache setups")
	}

	fresh := 0
	for _, setup := range setups {
		isNew, err := s.store.MarkSetupOnce(ctx, setup.Fingerprint(), s.cfg.DedupTTL)
		if err != nil {
			s.logger.WithError(err).Warn("Dedup check failed, skipping alert")
			continue
		}
		if !isNew {
			continue
		}
		fresh++
		s.logger.Info(engine.LogLine(setup))

		if s.publisher != nil {
			if err := s.publisher.PublishSetup(setup); err != nil {
				s.logger.WithError(err).Warn("Failed to publish setup")
			}
		}
		if s.alerter != nil {
			if err := s.alerter.SendSetupAlert(ctx, setup); err != nil {
				s.logger.WithError(err).Warn("Failed to send alert")
			}
		}
	}
	return fresh, nil
}

// fetchHTF gathers the higher-timeframe series. The 4h series is resampled
// from 1h bars; a failed fetch leaves that timeframe empty, which the engine
// treats as undetermined bias.
func (s *Service) fetchHTF(ctx context.Context, symbol string) engine.HTFSeries {
	var htf engine.HTFSeries

	h1, err := s.source.GetBars(ctx, symbol, s.cfg.TimeframeHTF, s.cfg.HTFLookbackBars)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to fetch HTF bars")
	} else {
		htf.H1 = h1
		htf.H4 = aggregation.Resample(h1, 4*time.Hour)
	}

	daily, err := s.source.GetBars(ctx, symbol, s.cfg.TimeframeDaily, 365)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to fetch daily bars")
	} else {
		htf.Daily = daily
	}
	return htf
}
