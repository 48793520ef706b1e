package engine

import (
	"fmt"
	"strings"

	"github.com/Brxzee/scalping-bot/pkg/models"
)

// LogLine formats a setup as a single console line: timestamp, symbol,
// direction, score, levels, RR, and the confluence list.
func LogLine(s models.SetupRecord) string {
	conf := "-"
	if len(s.Confluences) > 0 {
		conf = strings.Join(s.Confluences, ", ")
	}
	return fmt.Sprintf("%s %s %s | bar=%s | score=%d | entry=%.2f stop=%.2f target=%.2f RR=1:%.1f | %s",
		s.Symbol, s.Timeframe, s.Direction,
		s.Timestamp.Format("2006-01-02 15:04"),
		s.Score,
		s.EntryMid(), s.Stop, s.Target, s.RR(),
		conf,
	)
}

// QualityRating buckets a confluence score for alert display.
func QualityRating(score int) string {
	switch {
	case score >= 6:
		return "High"
	case score >= 4:
		return "Medium"
	default:
		return "Low"
	}
}
