package structure

import (
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// FindSwings scans a symmetric window of radius lookback around each
// interior bar. A bar is a swing high when its high equals the window
// maximum (ties are all reported); symmetric for swing lows. A flat bar can
// appear in both lists. Fewer than 2*lookback+1 bars yields empty results.
func FindSwings(bars []models.Bar, lookback int) (highs, lows []models.SwingLevel) {
	if lookback < 1 || len(bars) < lookback*2+1 {
		return nil, nil
	}

	for i := lookback; i < len(bars)-lookback; i++ {
		windowHigh := bars[i-lookback].High
		windowLow := bars[i-lookback].Low
		for j := i - lookback + 1; j <= i+lookback; j++ {
			if bars[j].High > windowHigh {
				windowHigh = bars[j].High
			}
			if bars[j].Low < windowLow {
				windowLow = bars[j].Low
			}
		}

		if bars[i].High == windowHigh {
			highs = append(highs, models.SwingLevel{
				Timestamp: bars[i].Timestamp,
				Price:     bars[i].High,
				IsHigh:    true,
				BarIndex:  i,
			})
		}
		if bars[i].Low == windowLow {
			lows = append(lows, models.SwingLevel{
				Timestamp: bars[i].Timestamp,
				Price:     bars[i].Low,
				IsHigh:    false,
				BarIndex:  i,
			})
		}
	}
	return highs, lows
}
