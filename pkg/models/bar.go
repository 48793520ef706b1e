package models

import (
	"time"
)

// Bar represents OHLCV candlestick data
type Bar struct {
	Symbol     string    `json:"symbol"`
	Timestamp  time.Time `json:"timestamp"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	Volume     float64   `json:"volume"`
	TradeCount int64     `json:"trade_count,omitempty"`
}

// Body returns the absolute candle body size.
func (b Bar) Body() float64 {
	body := b.Close - b.Open
	if body < 0 {
		return -body
	}
	return body
}

// BodyTop returns the higher of open and close.
func (b Bar) BodyTop() float64 {
	if b.Open > b.Close {
		return b.Open
	}
	return b.Close
}

// BodyBottom returns the lower of open and close.
func (b Bar) BodyBottom() float64 {
	if b.Open < b.Close {
		return b.Open
	}
	return b.Close
}

// UpperWick returns the distance from the body top to the high.
func (b Bar) UpperWick() float64 {
	return b.High - b.BodyTop()
}

// LowerWick returns the distance from the body bottom to the low.
func (b Bar) LowerWick() float64 {
	return b.BodyBottom() - b.Low
}

// Range returns the full high-low span of the candle.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// IsBullish reports whether the candle closed above its open.
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the candle closed below its open.
func (b Bar) IsBearish() bool {
	return b.Close < b.Open
}
