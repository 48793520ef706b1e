package engine

import (
	"github.com/Brxzee/scalping-bot/internal/structure"
	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// BiasSet holds the structural bias of each higher timeframe.
type BiasSet struct {
	H1    models.Bias
	H4    models.Bias
	Daily models.Bias
}

// BiasOf computes a timeframe's structural lean from its last lookback bars:
// bullish when the latest close clears the highest swing high in the window,
// bearish when it sits below the lowest swing low, otherwise undetermined.
func BiasOf(bars []models.Bar, lookback int) models.Bias {
	if lookback < 1 || len(bars) < lookback {
		return models.BiasNone
	}
	tail := bars[len(bars)-lookback:]

	swingLookback := lookback / 5
	if swingLookback > 5 {
		swingLookback = 5
	}
	if swingLookback < 1 {
		swingLookback = 1
	}
	swingHighs, swingLows := structure.FindSwings(tail, swingLookback)
	if len(swingHighs) == 0 || len(swingLows) == 0 {
		return models.BiasNone
	}

	highest := swingHighs[0].Price
	for _, s := range swingHighs[1:] {
		if s.Price > highest {
			highest = s.Price
		}
	}
	lowest := swingLows[0].Price
	for _, s := range swingLows[1:] {
		if s.Price < lowest {
			lowest = s.Price
		}
	}

	close := tail[len(tail)-1].Close
	switch {
	case close > highest:
		return models.BiasBullish
	case close < lowest:
		return models.BiasBearish
	default:
		return models.BiasNone
	}
}

// Aligned reports whether a candidate direction agrees with the required
// higher-timeframe biases. Strict mode demands a determined, matching bias
// on every required timeframe; soft mode (TreatNoneAsAligned) only blocks on
// an explicitly opposite bias. Directions outside bullish/bearish are never
// aligned.
func Aligned(direction models.Direction, biases BiasSet, cfg *config.HTFConfig) bool {
	if direction != models.Bullish && direction != models.Bearish {
		return false
	}

	ok := func(bias models.Bias, required bool) bool {
		if !required {
			return true
		}
		if cfg.TreatNoneAsAligned {
			return bias == models.BiasNone || bias == models.Bias(direction)
		}
		return bias != models.BiasNone && bias == models.Bias(direction)
	}

	return ok(biases.H1, cfg.Require1H) &&
		ok(biases.H4, cfg.Require4H) &&
		ok(biases.Daily, cfg.RequireDaily)
}
