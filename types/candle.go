package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Indicator column keys. The price-series provider computes these; the engine
// and strategies only read them.
const (
	IndRSI         = "rsi"
	IndSMA25       = "sma_25"
	IndSMA200      = "sma_200"
	IndVolumeRatio = "volume_ratio"
	IndGoldenCross = "golden_cross"
)

type Candle struct {
	Ticker     string             `json:"ticker"`
	Open       decimal.Decimal    `json:"open"`
	Close      decimal.Decimal    `json:"close"`
	High       decimal.Decimal    `json:"high"`
	Low        decimal.Decimal    `json:"low"`
	Volume     decimal.Decimal    `json:"volume"`
	Interval   Interval           `json:"interval"`
	Timestamp  time.Time          `json:"timestamp"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
}

// Indicator returns the named indicator column, or 0 when the provider did not
// supply it (for example during a warm-up window shorter than the lookback).
func (c Candle) Indicator(key string) float64 {
	if c.Indicators == nil {
		return 0
	}
	return c.Indicators[key]
}

// IndicatorFlag treats an indicator column as a boolean (providers encode
// flags like golden_cross as 0/1).
func (c Candle) IndicatorFlag(key string) bool {
	return c.Indicator(key) != 0
}
