// Package longterm implements the weekly-timeframe trend-following rule set:
// entries on closes above the 200-period average confirmed by a volume surge,
// exits on a wide profit target, stop loss or a close back below the average.
package longterm

import (
	"time"

	"github.com/shopspring/decimal"

	"stocksim/internal/engine"
	"stocksim/types"
)

const Name = "long_term"

type Strategy struct {
	volumeSurgeThreshold float64
	profitTarget         decimal.Decimal
	stopLoss             decimal.Decimal
}

func New() *Strategy {
	return &Strategy{
		volumeSurgeThreshold: 1.5,
		profitTarget:         decimal.NewFromFloat(0.30),
		stopLoss:             decimal.NewFromFloat(0.085),
	}
}

func (s *Strategy) Name() string { return Name }

func (s *Strategy) Config() engine.RuleConfig {
	return engine.RuleConfig{
		Timeframe:       types.Week,
		MaxPositions:    10,
		RiskPerTrade:    0.015,
		MaxPositionSize: 0.15,
		MaxHoldingDays:  730,
	}
}

func (s *Strategy) EntrySignal(bar types.Candle) (string, bool) {
	sma200 := bar.Indicator(types.IndSMA200)
	if sma200 <= 0 || !bar.Close.GreaterThan(decimal.NewFromFloat(sma200)) {
		return "", false
	}
	if bar.Indicator(types.IndVolumeRatio) < s.volumeSurgeThreshold {
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
	case bar.Indicator(types.IndSMA200) > 0 && bar.Close.LessThan(decimal.NewFromFloat(bar.Indicator(types.IndSMA200))):
		return engine.ExitDecision{Exit: true, Reason: "below_ma200"}
	}
	return engine.ExitDecision{}
}

func (s *Strategy) ParamSpace() map[string][]float64 {
	return map[string][]float64{
		"profit_target":          {0.20, 0.25, 0.30, 0.35},
		"stop_loss":              {0.05, 0.075, 0.10, 0.125},
		"volume_surge_threshold": {1.2, 1.5, 1.8, 2.0},
	}
}

func (s *Strategy) WithParams(params types.Params) engine.RuleSet {
	out := *s
	if v, ok := params["profit_target"]; ok {
		out.profitTarget = decimal.NewFromFloat(v)
	}
	if v, ok := params["stop_loss"]; ok {
		out.stopLoss = decimal.NewFromFloat(v)
	}
	if v, ok := params["volume_surge_threshold"]; ok {
		out.volumeSurgeThreshold = v
	}
	return &out
}
