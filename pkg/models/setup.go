package models

import (
	"fmt"
	"time"
)

// KeyLevelKind tags the category of structure found near a rejection zone.
type KeyLevelKind string

const (
	KeySwingHigh      KeyLevelKind = "swing_high"
	KeySwingLow       KeyLevelKind = "swing_low"
	KeyFVG            KeyLevelKind = "fvg"
	KeyOrderBlock     KeyLevelKind = "order_block"
	KeyLiquiditySweep KeyLevelKind = "liquidity_sweep"
)

// RejectionBlock is a candle with a dominant rejection wick. The wick side
// of the candle forms the entry zone; the full candle extremes anchor the
// stop.
type RejectionBlock struct {
	Timestamp         time.Time      `json:"timestamp"`
	Direction         Direction      `json:"direction"`
	ZoneHigh          float64        `json:"zone_high"` // body boundary
	ZoneLow           float64        `json:"zone_low"`  // wick extreme side
	CandleHigh        float64        `json:"candle_high"`
	CandleLow         float64        `json:"candle_low"`
	BarIndex          int            `json:"bar_index"`
	KeyLevelsNearby   []KeyLevelKind `json:"key_levels_nearby"`
	ReversalConfirmed bool           `json:"reversal_confirmed"`
	VolumeOK          bool           `json:"volume_ok"`
}

// WickOutcome resolves a wick event's forward 50%-midpoint test. The zero
// value is undetermined, meaning the lookback window ended without a verdict.
type WickOutcome string

const (
	WickUndetermined WickOutcome = ""
	WickRespected    WickOutcome = "respected"
	WickDisrespected WickOutcome = "disrespected"
)

// WickEvent is a significant wick at a swing location with its
// 50%-retracement midpoint and forward respect/disrespect outcome.
type WickEvent struct {
	Timestamp     time.Time   `json:"timestamp"`
	Direction     Direction   `json:"direction"`
	Midpoint      float64     `json:"midpoint"`
	WickHigh      float64     `json:"wick_high"`
	WickLow       float64     `json:"wick_low"`
	BarIndex      int         `json:"bar_index"`
	Outcome       WickOutcome `json:"outcome"`
	SwingBarIndex int         `json:"swing_bar_index"` // -1 when not an exact swing bar
}

// SetupRecord is one qualified trade candidate emitted by the confluence
// engine. Immutable once created.
type SetupRecord struct {
	Symbol              string    `json:"symbol"`
	Timeframe           string    `json:"timeframe"`
	Direction           Direction `json:"direction"`
	EntryZoneHigh       float64   `json:"entry_zone_high"`
	EntryZoneLow        float64   `json:"entry_zone_low"`
	Stop                float64   `json:"stop"`
	Target              float64   `json:"target"`
	Confluences         []string  `json:"confluences"`
	Score               int       `json:"score"`
	Timestamp           time.Time `json:"timestamp"`
	KeyLevelType        string    `json:"key_level_type"`
	KeyLevelPrice       float64   `json:"key_level_price"`
	RejectionCandleHigh float64   `json:"rejection_candle_high"`
	RejectionCandleLow  float64   `json:"rejection_candle_low"`
}

// EntryMid returns the midpoint of the entry zone.
func (s SetupRecord) EntryMid() float64 {
	return (s.EntryZoneHigh + s.EntryZoneLow) / 2
}

// RiskPoints returns the entry-to-stop distance in price points.
func (s SetupRecord) RiskPoints() float64 {
	risk := s.EntryMid() - s.Stop
	if risk < 0 {
		return -risk
	}
	return risk
}

// RewardPoints returns the entry-to-target distance in price points.
func (s SetupRecord) RewardPoints() float64 {
	reward := s.Target - s.EntryMid()
	if reward < 0 {
		return -reward
	}
	return reward
}

// RR returns the reward-to-risk ratio, 0 when risk is zero.
func (s SetupRecord) RR() float64 {
	risk := s.RiskPoints()
	if risk <= 0 {
		return 0
	}
	return s.RewardPoints() / risk
}

// Fingerprint identifies a setup for dedup across scan cycles.
func (s SetupRecord) Fingerprint() string {
	return fmt.Sprintf("%s:%s:%s:%d", s.Symbol, s.Timeframe, s.Direction, s.Timestamp.Unix())
}

// TradeOutcome is the terminal state of a simulated trade.
type TradeOutcome string

const (
	OutcomeWin  TradeOutcome = "win"
	OutcomeLoss TradeOutcome = "loss"
)

// TradeResult is one simulated trade produced by the backtester.
type TradeResult struct {
	Setup     SetupRecord  `json:"setup"`
	Outcome   TradeOutcome `json:"outcome"`
	ExitPrice float64      `json:"exit_price"`
	BarsHeld  int          `json:"bars_held"`
	PnLPoints float64      `json:"pnl_points"`
}
