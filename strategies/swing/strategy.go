// Package swing implements the daily-timeframe swing trading rule set:
// entries on a golden cross with the RSI cooling off inside a band and volume
// running above average, exits on fixed profit/stop thresholds, RSI
// overbought readings or a close below the 25-day moving average, with a
// half-position partial exit at a lower profit threshold.
package swing

import (
	"time"

	"github.com/shopspring/decimal"

	"stocksim/internal/engine"
	"stocksim/types"
)

const Name = "swing_trading"

type Strategy struct {
	rsiLow              float64
	rsiHigh             float64
	volumeMultiplier    float64
	profitTarget        decimal.Decimal
	stopLoss            decimal.Decimal
	rsiOverbought       float64
	partialProfitTarget decimal.Decimal
}

func New() *Strategy {
	return &Strategy{
		rsiLow:              40,
		rsiHigh:             50,
		volumeMultiplier:    1.5,
		profitTarget:        decimal.NewFromFloat(0.075),
		stopLoss:            decimal.NewFromFloat(0.05),
		rsiOverbought:       70,
		partialProfitTarget: decimal.NewFromFloat(0.05),
	}
}

func (s *Strategy) Name() string { return Name }

func (s *Strategy) Config() engine.RuleConfig {
	return engine.RuleConfig{
		Timeframe:       types.Day,
		MaxPositions:    5,
		RiskPerTrade:    0.015,
		MaxPositionSize: 0.25,
		MaxHoldingDays:  30,
		PartialExits:    true,
	}
}

// EntrySignal requires all three conditions on the same bar: the 25-day
// average crossing above the 200-day, RSI pulled back into the band, and
// volume at least volumeMultiplier times its average.
func (s *Strategy) EntrySignal(bar types.Candle) (string, bool) {
	if !bar.IndicatorFlag(types.IndGoldenCross) {
		return "", false
	}
	rsi := bar.Indicator(types.IndRSI)
	if rsi < s.rsiLow || rsi > s.rsiHigh {
		return "", false
	}
	if bar.Indicator(types.IndVolumeRatio) < s.volumeMultiplier {
		return "", false
	}
	return "entry_conditions_met", true
}

func (s *Strategy) ExitSignal(bar types.Candle, pos *types.Position, date time.Time) engine.ExitDecision {
	change := bar.Close.Sub(pos.AvgPrice).Div(pos.AvgPrice)

	switch {
	case change.GreaterThanOrEqual(s.profitTarget):
		return engine.ExitDecision{Exit: true, Reason: "profit_target"}
	case change.LessThanOrEqual(s.stopLoss.Neg()):
		return engine.ExitDecision{Exit: true, Reason: "stop_loss"}
	case bar.Indicator(types.IndRSI) >= s.rsiOverbought:
		return engine.ExitDecision{Exit: true, Reason: "rsi_overbought"}
	case bar.Indicator(types.IndSMA25) > 0 && bar.Close.LessThan(decimal.NewFromFloat(bar.Indicator(types.IndSMA25))):
		return engine.ExitDecision{Exit: true, Reason: "below_ma25"}
	case change.GreaterThanOrEqual(s.partialProfitTarget):
		return engine.ExitDecision{PartialExit: true, Reason: "partial_profit"}
	}
	return engine.ExitDecision{}
}

func (s *Strategy) ParamSpace() map[string][]float64 {
	return map[string][]float64{
		"rsi_range_low":        {35, 40, 45},
		"rsi_range_high":       {50, 55, 60},
		"volume_multiplier":    {1.2, 1.5, 1.8, 2.0},
		"profit_target":        {0.05, 0.075, 0.10, 0.125},
		"stop_loss":            {0.03, 0.05, 0.07, 0.10},
		"partial_profit_first": {0.03, 0.05, 0.07},
	}
}

func (s *Strategy) WithParams(params types.Params) engine.RuleSet {
	out := *s
	if v, ok := params["rsi_range_low"]; ok {
		out.rsiLow = v
	}
	if v, ok := params["rsi_range_high"]; ok {
		out.rsiHigh = v
	}
	if v, ok := params["volume_multiplier"]; ok {
		out.volumeMultiplier = v
	}
	if v, ok := params["profit_target"]; ok {
		out.profitTarget = decimal.NewFromFloat(v)
	}
	if v, ok := params["stop_loss"]; ok {
		out.stopLoss = decimal.NewFromFloat(v)
	}
	if v, ok := params["partial_profit_first"]; ok {
		out.partialProfitTarget = decimal.NewFromFloat(v)
	}
	return &out
}
