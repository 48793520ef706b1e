// Package rejection detects rejection blocks: candles whose dominant wick
// signals price being turned away at a level, tagged with the structure
// found nearby.
package rejection

import (
	"github.com/Brxzee/scalping-bot/internal/structure"
	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// volumeAvgWindow is the trailing window used for volume confirmation.
const volumeAvgWindow = 20

// Find scans the bar series for rejection blocks. One block per candle: when
// both wicks clear the ratio threshold the longer wick wins, and an exact tie
// classifies bearish. The trailing reversalConfirmationBars candles are
// excluded so every block gets a full confirmation lookahead.
func Find(bars []models.Bar, cfg *config.StrategyConfig) []models.RejectionBlock {
	var out []models.RejectionBlock
	if len(bars) < 4 {
		return out
	}

	rb := cfg.Rejection
	st := cfg.Structure

	swingHighs, swingLows := structure.FindSwings(bars, st.SwingLookback)
	fvgs := structure.FindFVGs(bars)
	orderBlocks := structure.FindOrderBlocks(bars, st.OrderBlockDisplacementBars, st.OrderBlockBodyATRMult, st.ATRPeriod)
	sweeps := structure.FindLiquiditySweeps(bars, st.SwingLookback, st.SweepThresholdPct)

	volumes := make([]float64, len(bars))
	for i, bar := range bars {
		volumes[i] = bar.Volume
	}
	volumeAvg := structure.RollingMean(volumes, volumeAvgWindow)

	for i := 1; i < len(bars)-rb.ReversalConfirmationBars; i++ {
		bar := bars[i]
		body := bar.Body()
		upperWick := bar.UpperWick()
		lowerWick := bar.LowerWick()

		bullishOK := lowerWick >= rb.WickToBodyRatioMin*body
		bearishOK := upperWick >= rb.WickToBodyRatioMin*body
		if !bullishOK && !bearishOK {
			continue
		}

		var direction models.Direction
		switch {
		case bullishOK && bearishOK:
			// Longer wick wins; equal wicks classify bearish.
			if upperWick >= lowerWick {
				direction = models.Bearish
			} else {
				direction = models.Bullish
			}
		case bullishOK:
			direction = models.Bullish
		default:
			direction = models.Bearish
		}

		var zoneHigh, zoneLow float64
		if direction == models.Bullish {
			zoneHigh = bar.BodyBottom()
			zoneLow = bar.Low
		} else {
			zoneHigh = bar.High
			zoneLow = bar.BodyTop()
		}

		keyLevels := tagKeyLevels(direction, zoneHigh, zoneLow, rb.KeyLevelProximityPct,
			swingHighs, swingLows, fvgs, orderBlocks, sweeps)

		confirmed := reversalConfirmed(bars, i, direction, rb.ReversalConfirmationBars)

		volOK := true
		if rb.VolumeAboveAvgMult > 0 && structure.Defined(volumeAvg[i]) && volumeAvg[i] > 0 {
			volOK = bar.Volume >= rb.VolumeAboveAvgMult*volumeAvg[i]
		}

		out = append(out, models.RejectionBlock{
			Timestamp:         bar.Timestamp,
			Direction:         direction,
			ZoneHigh:          zoneHigh,
			ZoneLow:           zoneLow,
			CandleHigh:        bar.High,
			CandleLow:         bar.Low,
			BarIndex:          i,
			KeyLevelsNearby:   keyLevels,
			ReversalConfirmed: confirmed,
			VolumeOK:          volOK,
		})
	}
	return out
}

// tagKeyLevels collects at most one tag per structure category, taking the
// first match in detector output order.
func tagKeyLevels(
	direction models.Direction,
	zoneHigh, zoneLow, proximityPct float64,
	swingHighs, swingLows []models.SwingLevel,
	fvgs []models.FVG,
	orderBlocks []models.OrderBlock,
	sweeps []models.LiquiditySweep,
) []models.KeyLevelKind {
	var tags []models.KeyLevelKind

	swings := swingLows
	swingTag := models.KeySwingLow
	sweepSide := models.SweepLows
	if direction == models.Bearish {
		swings = swingHighs
		swingTag = models.KeySwingHigh
		sweepSide = models.SweepHighs
	}

	for _, s := range swings {
		if zoneNearPrice(zoneHigh, zoneLow, s.Price, proximityPct) {
			tags = append(tags, swingTag)
			break
		}
	}
	for _, f := range fvgs {
		if f.Direction == direction && zonesOverlap(zoneHigh, zoneLow, f.ZoneHigh, f.ZoneLow, proximityPct) {
			tags = append(tags, models.KeyFVG)
			break
		}
	}
	for _, ob := range orderBlocks {
		if ob.Direction == direction && zonesOverlap(zoneHigh, zoneLow, ob.ZoneHigh, ob.ZoneLow, proximityPct) {
			tags = append(tags, models.KeyOrderBlock)
			break
		}
	}
	for _, sw := range sweeps {
		if sw.Direction == sweepSide && zoneNearPrice(zoneHigh, zoneLow, sw.Level, proximityPct) {
			tags = append(tags, models.KeyLiquiditySweep)
			break
		}
	}
	return tags
}

// reversalConfirmed scans forward up to confirmBars for a close beyond the
// rejection candle's own extreme. No such close within the window means not
// confirmed, never an error.
func reversalConfirmed(bars []models.Bar, i int, direction models.Direction, confirmBars int) bool {
	end := i + confirmBars
	if end >= len(bars) {
		end = len(bars) - 1
	}
	for j := i + 1; j <= end; j++ {
		if direction == models.Bullish && bars[j].Close > bars[i].High {
			return true
		}
		if direction == models.Bearish && bars[j].Close < bars[i].Low {
			return true
		}
	}
	return false
}

// zoneNearPrice reports whether a price lies within pct of the zone midpoint.
func zoneNearPrice(zoneHigh, zoneLow, price, pct float64) bool {
	mid := (zoneHigh + zoneLow) / 2
	if mid == 0 {
		return false
	}
	dist := price - mid
	if dist < 0 {
		dist = -dist
	}
	return dist <= mid*pct
}

// zonesOverlap reports whether two price ranges overlap, inclusively,
// after expanding the first by the proximity tolerance.
func zonesOverlap(high1, low1, high2, low2, pct float64) bool {
	mid := (high1 + low1) / 2
	tolerance := 0.0
	if mid != 0 {
		tolerance = mid * pct
	}
	return !(high1+tolerance < low2 || low1-tolerance > high2)
}
