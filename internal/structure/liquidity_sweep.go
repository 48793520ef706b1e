package structure

import (
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// FindLiquiditySweeps finds bars that breach a prior swing level intrabar by
// more than thresholdPct and close back on the origin side within the next
// bar. Only swings formed strictly before the breach bar are considered, and
// scanning stops at the first matching swing in detector output order, not
// the most extreme price.
func FindLiquiditySweeps(bars []models.Bar, swingLookback int, thresholdPct float64) []models.LiquiditySweep {
	var out []models.LiquiditySweep
	swingHighs, swingLows := FindSwings(bars, swingLookback)
	if len(swingHighs) == 0 && len(swingLows) == 0 {
		return out
	}

	for i := swingLookback * 2; i < len(bars)-2; i++ {
		next := bars[i+1]

		for _, sh := range swingHighs {
			if sh.BarIndex >= i {
				continue
			}
			breach := sh.Price * (1 + thresholdPct)
			if next.High >= breach && next.Close < sh.Price {
				out = append(out, models.LiquiditySweep{
					Timestamp: next.Timestamp,
					Direction: models.SweepHighs,
					Level:     sh.Price,
					BarIndex:  i + 1,
				})
				break
			}
		}
		for _, sl := range swingLows {
			if sl.BarIndex >= i {
				continue
			}
			breach := sl.Price * (1 - thresholdPct)
			if next.Low <= breach && next.Close > sl.Price {
				out = append(out, models.LiquiditySweep{
					Timestamp: next.Timestamp,
					Direction: models.SweepLows,
					Level:     sl.Price,
					BarIndex:  i + 1,
				})
				break
			}
		}
	}
	return out
}
