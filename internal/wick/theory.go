// Package wick finds significant wicks at swing extremes and resolves
// whether price respected their 50%-retracement midpoint.
package wick

import (
	"github.com/Brxzee/scalping-bot/internal/structure"
	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// Find scans interior candles near swing extremes for pin-bar wicks. A wick
// qualifies when it clears both the ratio-to-body threshold and the absolute
// ATR-derived minimum, and the candle body stays under the body-to-range cap.
// The midpoint is the 50% retracement of the wick; the forward scan resolves
// respect or disrespect, or leaves the outcome undetermined when neither
// triggers within the lookback window.
func Find(bars []models.Bar, cfg *config.StrategyConfig) []models.WickEvent {
	var events []models.WickEvent
	if len(bars) < 3 {
		return events
	}

	wc := cfg.Wick
	st := cfg.Structure

	swingHighs, swingLows := structure.FindSwings(bars, st.SwingLookback)
	atr := structure.ATR(bars, st.ATRPeriod)

	highIndex := make(map[int]struct{}, len(swingHighs))
	for _, s := range swingHighs {
		highIndex[s.BarIndex] = struct{}{}
	}
	lowIndex := make(map[int]struct{}, len(swingLows))
	for _, s := range swingLows {
		lowIndex[s.BarIndex] = struct{}{}
	}

	for i := 1; i < len(bars)-1; i++ {
		bar := bars[i]
		fullRange := bar.Range()
		if fullRange <= 0 {
			continue
		}
		if wc.BodyToRangeMax > 0 && bar.Body()/fullRange > wc.BodyToRangeMax {
			continue // not a pin bar
		}

		minWickSize := 0.0
		if wc.ATRMinMult > 0 && structure.Defined(atr[i]) && atr[i] > 0 {
			minWickSize = wc.ATRMinMult * atr[i]
		}

		lowerWick := bar.LowerWick()
		if lowerWick >= wc.WickToBodyRatioMin*bar.Body() && lowerWick >= minWickSize &&
			nearSwing(i, lowIndex, swingLows, st.SwingLookback) {
			midpoint := bar.Low + (bar.BodyBottom()-bar.Low)*0.5
			events = append(events, models.WickEvent{
				Timestamp:     bar.Timestamp,
				Direction:     models.Bullish,
				Midpoint:      midpoint,
				WickHigh:      bar.High,
				WickLow:       bar.Low,
				BarIndex:      i,
				Outcome:       resolveBullish(bars, i, midpoint, bar.BodyTop(), wc.RespectBarsLookback),
				SwingBarIndex: exactSwingIndex(i, lowIndex),
			})
		}

		upperWick := bar.UpperWick()
		if upperWick >= wc.WickToBodyRatioMin*bar.Body() && upperWick >= minWickSize &&
			nearSwing(i, highIndex, swingHighs, st.SwingLookback) {
			midpoint := bar.BodyTop() + (bar.High-bar.BodyTop())*0.5
			events = append(events, models.WickEvent{
				Timestamp:     bar.Timestamp,
				Direction:     models.Bearish,
				Midpoint:      midpoint,
				WickHigh:      bar.High,
				WickLow:       bar.Low,
				BarIndex:      i,
				Outcome:       resolveBearish(bars, i, midpoint, bar.BodyBottom(), wc.RespectBarsLookback),
				SwingBarIndex: exactSwingIndex(i, highIndex),
			})
		}
	}
	return events
}

// nearSwing reports whether bar i is itself a swing of the matching side or
// lies within 2*lookback bars of one.
func nearSwing(i int, exact map[int]struct{}, swings []models.SwingLevel, lookback int) bool {
	if _, ok := exact[i]; ok {
		return true
	}
	for _, s := range swings {
		d := i - s.BarIndex
		if d < 0 {
			d = -d
		}
		if d <= lookback*2 {
			return true
		}
	}
	return false
}

func exactSwingIndex(i int, exact map[int]struct{}) int {
	if _, ok := exact[i]; ok {
		return i
	}
	return -1
}

// resolveBullish scans forward: a close below the midpoint is disrespect, a
// close above the body's far edge is respect, whichever comes first.
func resolveBullish(bars []models.Bar, i int, midpoint, bodyTop float64, lookback int) models.WickOutcome {
	end := i + lookback
	if end >= len(bars) {
		end = len(bars) - 1
	}
	for j := i + 1; j <= end; j++ {
		if bars[j].Close < midpoint {
			return models.WickDisrespected
		}
		if bars[j].Close > bodyTop {
			return models.WickRespected
		}
	}
	return models.WickUndetermined
}

func resolveBearish(bars []models.Bar, i int, midpoint, bodyBottom float64, lookback int) models.WickOutcome {
	end := i + lookback
	if end >= len(bars) {
		end = len(bars) - 1
	}
	for j := i + 1; j <= end; j++ {
		if bars[j].Close > midpoint {
			return models.WickDisrespected
		}
		if bars[j].Close < bodyBottom {
			return models.WickRespected
		}
	}
	return models.WickUndetermined
}
