// Package backtest replays detected setups against historical bars,
// simulating entry fills and stop/target outcomes.
package backtest

import (
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// Summary aggregates the results of a backtest run.
type Summary struct {
	TotalTrades       int     `json:"total_trades"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	WinRatePct        float64 `json:"win_rate_pct"`
	TotalPnLPoints    float64 `json:"total_pnl_points"`
	MaxDrawdownPoints float64 `json:"max_drawdown_points"`
	AvgBarsHeld       float64 `json:"avg_bars_held"`
}

// Run simulates every setup against the bar series and aggregates the
// results. Setups that never fill, or fill but reach neither stop nor target
// before the data ends, are excluded rather than scored.
func Run(bars []models.Bar, setups []models.SetupRecord, maxBarsToFill int) ([]models.TradeResult, Summary) {
	var results []models.TradeResult
	for _, setup := range setups {
		if result, ok := Simulate(bars, setup, maxBarsToFill); ok {
			results = append(results, result)
		}
	}
	return results, Summarize(results)
}

// Simulate replays a single setup. The anchor is the last bar at or before
// the setup's timestamp; the fill is the first bar after it whose range
// overlaps the entry zone within maxBarsToFill bars. Entry is taken at the
// zone midpoint. From the fill bar onward the stop is checked before the
// target on every bar, so a bar that reaches both scores as a loss.
func Simulate(bars []models.Bar, setup models.SetupRecord, maxBarsToFill int) (models.TradeResult, bool) {
	anchor, ok := anchorIndex(bars, setup)
	if !ok {
		return models.TradeResult{}, false
	}

	entryBar := -1
	limit := anchor + maxBarsToFill
	if limit >= len(bars) {
		limit = len(bars) - 1
	}
	for j := anchor + 1; j <= limit; j++ {
		if bars[j].Low <= setup.EntryZoneHigh && bars[j].High >= setup.EntryZoneLow {
			entryBar = j
			break
		}
	}
	if entryBar < 0 {
		return models.TradeResult{}, false // price never retraced into the zone
	}

	entryPrice := setup.EntryMid()
	for j := entryBar; j < len(bars); j++ {
		bar := bars[j]
		if setup.Direction == models.Bullish {
			if bar.Low <= setup.Stop {
				return models.TradeResult{
					Setup:     setup,
					Outcome:   models.OutcomeLoss,
					ExitPrice: setup.Stop,
					BarsHeld:  j - entryBar,
					PnLPoints: setup.Stop - entryPrice,
				}, true
			}
			if bar.High >= setup.Target {
				return models.TradeResult{
					Setup:     setup,
					Outcome:   models.OutcomeWin,
					ExitPrice: setup.Target,
					BarsHeld:  j - entryBar,
					PnLPoints: setup.Target - entryPrice,
				}, true
			}
		} else {
			if bar.High >= setup.Stop {
				return models.TradeResult{
					Setup:     setup,
					Outcome:   models.OutcomeLoss,
					ExitPrice: setup.Stop,
					BarsHeld:  j - entryBar,
					PnLPoints: entryPrice - setup.Stop,
				}, true
			}
			if bar.Low <= setup.Target {
				return models.TradeResult{
					Setup:     setup,
					Outcome:   models.OutcomeWin,
					ExitPrice: setup.Target,
					BarsHeld:  j - entryBar,
					PnLPoints: entryPrice - setup.Target,
				}, true
			}
		}
	}
	return models.TradeResult{}, false // still open when the data ended
}

// Summarize computes trade statistics including the maximum drawdown of the
// running equity curve.
func Summarize(results []models.TradeResult) Summary {
	var s Summary
	s.TotalTrades = len(results)

	equity, peak, maxDD := 0.0, 0.0, 0.0
	barsHeld := 0
	for _, r := range results {
		switch r.Outcome {
		case models.OutcomeWin:
			s.Wins++
		case models.OutcomeLoss:
			s.Losses++
		}
		s.TotalPnLPoints += r.PnLPoints
		barsHeld += r.BarsHeld

		equity += r.PnLPoints
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > maxDD {
			maxDD = dd
		}
	}

	if s.TotalTrades > 0 {
		s.WinRatePct = 100 * float64(s.Wins) / float64(s.TotalTrades)
		s.AvgBarsHeld = float64(barsHeld) / float64(s.TotalTrades)
	}
	s.MaxDrawdownPoints = maxDD
	return s
}

// anchorIndex returns the index of the last bar at or before the setup's
// timestamp.
func anchorIndex(bars []models.Bar, setup models.SetupRecord) (int, bool) {
	for i := len(bars) - 1; i >= 0; i-- {
		if !bars[i].Timestamp.After(setup.Timestamp) {
			return i, true
		}
	}
	return 0, false
}
