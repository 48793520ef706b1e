package structure

import (
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// FindOrderBlocks finds the last opposite-colored candle before a strong
// directional displacement. The candidate's body must be at least
// bodyATRMult times the ATR at that bar (bars with an undefined or
// non-positive ATR are skipped), and all of the following displacementBars
// candles must close in the displacement direction.
func FindOrderBlocks(bars []models.Bar, displacementBars int, bodyATRMult float64, atrPeriod int) []models.OrderBlock {
	var out []models.OrderBlock
	if displacementBars < 1 || len(bars) < displacementBars+2 {
		return out
	}
	atr := ATR(bars, atrPeriod)

	for i := 1; i < len(bars)-displacementBars-1; i++ {
		if !Defined(atr[i]) || atr[i] <= 0 {
			continue
		}
		if bars[i].Body() < bodyATRMult*atr[i] {
			continue
		}

		if bars[i].IsBearish() {
			upCount := 0
			for j := i + 1; j <= i+displacementBars && j < len(bars); j++ {
				if bars[j].IsBullish() {
					upCount++
				}
			}
			if upCount >= displacementBars {
				out = append(out, models.OrderBlock{
					Timestamp: bars[i].Timestamp,
					Direction: models.Bullish,
					ZoneHigh:  bars[i].High,
					ZoneLow:   bars[i].Low,
					BarIndex:  i,
				})
			}
		}
		if bars[i].IsBullish() {
			downCount := 0
			for j := i + 1; j <= i+displacementBars && j < len(bars); j++ {
				if bars[j].IsBearish() {
					downCount++
				}
			}
			if downCount >= displacementBars {
				out = append(out, models.OrderBlock{
					Timestamp: bars[i].Timestamp,
					Direction: models.Bearish,
					ZoneHigh:  bars[i].High,
					ZoneLow:   bars[i].Low,
					BarIndex:  i,
				})
			}
		}
	}
	return out
}
