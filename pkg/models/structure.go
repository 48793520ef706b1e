package models

import (
	"time"
)

// Direction is the side a setup or zone trades toward.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
)

// Opposite returns the other trade direction.
func (d Direction) Opposite() Direction {
	if d == Bullish {
		return Bearish
	}
	return Bullish
}

// Bias is a higher-timeframe structural lean. Undetermined bias is a
// distinct state, never to be conflated with bearish.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNone    Bias = "none"
)

// SweepDirection tells which side of liquidity was taken.
type SweepDirection string

const (
	SweepHighs SweepDirection = "sweep_highs" // bearish: stops above swing highs
	SweepLows  SweepDirection = "sweep_lows"  // bullish: stops below swing lows
)

// SwingLevel is a local price extremum found by a symmetric-window scan.
type SwingLevel struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	IsHigh    bool      `json:"is_high"`
	BarIndex  int       `json:"bar_index"`
}

// FVG is a three-bar fair value gap. BarIndex addresses the middle bar.
type FVG struct {
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
	ZoneHigh  float64   `json:"zone_high"`
	ZoneLow   float64   `json:"zone_low"`
	BarIndex  int       `json:"bar_index"`
}

// OrderBlock is the last opposite-colored candle before a displacement run.
type OrderBlock struct {
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
	ZoneHigh  float64   `json:"zone_high"`
	ZoneLow   float64   `json:"zone_low"`
	BarIndex  int       `json:"bar_index"`
}

// LiquiditySweep is an intrabar breach of a prior swing level that closed
// back on the origin side within the next bar.
type LiquiditySweep struct {
	Timestamp time.Time      `json:"timestamp"`
	Direction SweepDirection `json:"direction"`
	Level     float64        `json:"level"`
	BarIndex  int            `json:"bar_index"`
}
