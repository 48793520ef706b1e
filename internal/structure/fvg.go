package structure

import (
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// FindFVGs scans every three-bar window for a fair value gap. Bullish when
// the first bar's low sits above the third bar's high; bearish when the
// first bar's high sits below the third bar's low. The gap is attributed to
// the middle bar.
func FindFVGs(bars []models.Bar) []models.FVG {
	var out []models.FVG
	if len(bars) < 3 {
		return out
	}
	for i := 0; i+2 < len(bars); i++ {
		first, mid, last := bars[i], bars[i+1], bars[i+2]

		if first.Low > last.High {
			out = append(out, models.FVG{
				Timestamp: mid.Timestamp,
				Direction: models.Bullish,
				ZoneHigh:  first.Low,
				ZoneLow:   last.High,
				BarIndex:  i + 1,
			})
		}
		if first.High < last.Low {
			out = append(out, models.FVG{
				Timestamp: mid.Timestamp,
				Direction: models.Bearish,
				ZoneHigh:  last.Low,
				ZoneLow:   first.High,
				BarIndex:  i + 1,
			})
		}
	}
	return out
}
