// Package engine combines rejection blocks with wick theory, key levels,
// killzone timing, and higher-timeframe bias into scored trade setups.
package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/internal/rejection"
	"github.com/Brxzee/scalping-bot/internal/structure"
	"github.com/Brxzee/scalping-bot/internal/wick"
	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// wickProximityBars is how far a wick event may sit from a rejection block
// and still count as the same move.
const wickProximityBars = 3

// SessionPredicate names the killzone containing a timestamp, or reports
// false when outside every window.
type SessionPredicate func(time.Time) (string, bool)

// HTFSeries carries the optional higher-timeframe bar sequences.
type HTFSeries struct {
	H1    []models.Bar
	H4    []models.Bar
	Daily []models.Bar
}

// Engine builds scored setups from a primary-timeframe series.
type Engine struct {
	cfg      *config.StrategyConfig
	inWindow SessionPredicate
	logger   *logrus.Entry
}

// New creates a confluence engine. The session predicate is injected so the
// engine stays timezone-agnostic.
func New(cfg *config.StrategyConfig, inWindow SessionPredicate, log *logrus.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		inWindow: inWindow,
		logger:   log.WithField("component", "engine"),
	}
}

// BuildSetups runs the full detection pipeline and returns the qualifying
// setups in bar order. Higher-timeframe alignment is a scoring bonus applied
// after the min-score gate; it never removes an otherwise-qualified setup.
func (e *Engine) BuildSetups(bars []models.Bar, symbol, timeframe string, htf HTFSeries) []models.SetupRecord {
	var setups []models.SetupRecord
	if len(bars) == 0 {
		return setups
	}

	blocks := rejection.Find(bars, e.cfg)
	wickEvents := wick.Find(bars, e.cfg)

	biases := e.biases(htf)
	risk := &e.cfg.Risk
	weights := e.cfg.Confluence.Weights
	class := risk.ClassFor(symbol)

	volumes := make([]float64, len(bars))
	for i, bar := range bars {
		volumes[i] = bar.Volume
	}
	volumeAvg := structure.RollingMean(volumes, 20)

	for _, rb := range blocks {
		if rb.BarIndex >= len(bars) {
			continue
		}
		if risk.RequireReversalConfirmed && !rb.ReversalConfirmed {
			continue
		}

		windowName, inside := e.inWindow(rb.Timestamp)
		if !inside {
			continue
		}

		score := weights.RejectionBlock
		confluences := []string{"Rejection Block"}

		score += weights.Killzone
		confluences = append(confluences, fmt.Sprintf("Killzone (%s)", windowName))

		if respected, ok := nearbyWickRespect(wickEvents, rb); ok && respected {
			score += weights.WickRespect
			confluences = append(confluences, "Wick 50% respect")
		}

		for _, k := range rb.KeyLevelsNearby {
			switch k {
			case models.KeyOrderBlock:
				score += weights.OrderBlock
				confluences = append(confluences, "Order Block")
			case models.KeyFVG:
				score += weights.FVG
				confluences = append(confluences, "FVG")
			case models.KeyLiquiditySweep:
				score += weights.LiquiditySweep
				confluences = append(confluences, "Liquidity sweep")
			case models.KeySwingHigh, models.KeySwingLow:
				score += weights.SwingLevel
				confluences = append(confluences, "Swing level")
			}
		}

		if score < e.cfg.Confluence.MinScore {
			continue
		}

		// HTF bias raises confidence but never suppresses a qualified setup.
		if e.cfg.HTF.Enabled && Aligned(rb.Direction, biases, &e.cfg.HTF) {
			score += weights.HTFAligned
			confluences = append(confluences, "HTF aligned (1H+4H+daily)")
		}

		wickRange := rb.ZoneHigh - rb.ZoneLow
		var entryLevel float64
		if rb.Direction == models.Bullish {
			entryLevel = rb.ZoneLow + risk.EntryFibInWick*wickRange
		} else {
			entryLevel = rb.ZoneHigh - risk.EntryFibInWick*wickRange
		}
		entryHigh := entryLevel + class.EntryTolerancePoints
		entryLow := entryLevel - class.EntryTolerancePoints

		buffer := class.StopBufferPoints
		vol := bars[rb.BarIndex].Volume
		avg := vol
		if structure.Defined(volumeAvg[rb.BarIndex]) {
			avg = volumeAvg[rb.BarIndex]
		}
		if avg > 0 && vol >= risk.VolumeAboveAvgMult*avg {
			buffer += class.VolumeBufferExtraPoints
		}

		var stop float64
		if rb.Direction == models.Bullish {
			stop = rb.CandleLow - buffer
		} else {
			stop = rb.CandleHigh + buffer
		}

		riskPoints := entryLevel - stop
		if riskPoints < 0 {
			riskPoints = -riskPoints
		}
		if riskPoints < class.MinRiskPoints || riskPoints > class.MaxRiskPoints {
			continue
		}

		reward := riskPoints * risk.TargetRR
		var target float64
		if rb.Direction == models.Bullish {
			target = entryLevel + reward
		} else {
			target = entryLevel - reward
		}

		keyType := "Rejection Block"
		if len(rb.KeyLevelsNearby) > 0 {
			keyType = string(rb.KeyLevelsNearby[0])
		}

		setups = append(setups, models.SetupRecord{
			Symbol:              symbol,
			Timeframe:           timeframe,
			Direction:           rb.Direction,
			EntryZoneHigh:       entryHigh,
			EntryZoneLow:        entryLow,
			Stop:                stop,
			Target:              target,
			Confluences:         confluences,
			Score:               score,
			Timestamp:           rb.Timestamp,
			KeyLevelType:        keyType,
			KeyLevelPrice:       entryLevel,
			RejectionCandleHigh: rb.CandleHigh,
			RejectionCandleLow:  rb.CandleLow,
		})
	}

	if len(setups) > 0 {
		e.logger.WithFields(logrus.Fields{
			"symbol":    symbol,
			"timeframe": timeframe,
			"setups":    len(setups),
		}).Debug("Built setups")
	}
	return setups
}

// biases evaluates each configured higher timeframe, or leaves everything
// undetermined when HTF bias is disabled or a series is absent.
func (e *Engine) biases(htf HTFSeries) BiasSet {
	set := BiasSet{H1: models.BiasNone, H4: models.BiasNone, Daily: models.BiasNone}
	if !e.cfg.HTF.Enabled {
		return set
	}
	lookback := e.cfg.HTF.LookbackBars
	if len(htf.H1) > 0 {
		set.H1 = BiasOf(htf.H1, lookback)
	}
	if len(htf.H4) > 0 {
		set.H4 = BiasOf(htf.H4, lookback)
	}
	if len(htf.Daily) > 0 {
		dailyLookback := lookback
		if len(htf.Daily) < dailyLookback {
			dailyLookback = len(htf.Daily)
		}
		set.Daily = BiasOf(htf.Daily, dailyLookback)
	}
	return set
}

// nearbyWickRespect finds the first same-direction wick event within
// wickProximityBars of the block and reports whether it resolved to respect.
// Only the first match is consulted.
func nearbyWickRespect(events []models.WickEvent, rb models.RejectionBlock) (respected, found bool) {
	for _, ev := range events {
		if ev.Direction != rb.Direction {
			continue
		}
		d := ev.BarIndex - rb.BarIndex
		if d < 0 {
			d = -d
		}
		if d <= wickProximityBars {
			return ev.Outcome == models.WickRespected, true
		}
	}
	return false, false
}
