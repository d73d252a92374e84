package longterm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/types"
)

var week0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func weeklyBar(close float64, indicators map[string]float64) types.Candle {
	return types.Candle{
		Ticker:     "AAPL",
		Close:      decimal.NewFromFloat(close),
		Timestamp:  week0,
		Interval:   types.Week,
		Indicators: indicators,
	}
}

func position(entryPrice float64) *types.Position {
	return &types.Position{
		Symbol:    "AAPL",
		Quantity:  100,
		AvgPrice:  decimal.NewFromFloat(entryPrice),
		EntryDate: week0.AddDate(0, 0, -28),
	}
}

func TestStrategy_EntrySignal(t *testing.T) {
	tests := []struct {
		name       string
		close      float64
		indicators map[string]float64
		want       bool
	}{
		{"above trend with volume surge", 110, map[string]float64{
			types.IndSMA200: 100, types.IndVolumeRatio: 1.6,
		}, true},
		{"below trend", 95, map[string]float64{
			types.IndSMA200: 100, types.IndVolumeRatio: 1.6,
		}, false},
		{"no volume surge", 110, map[string]float64{
			types.IndSMA200: 100, types.IndVolumeRatio: 1.0,
		}, false},
		{"sma still warming up", 110, map[string]float64{
			types.IndVolumeRatio: 1.6,
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := New().EntrySignal(weeklyBar(tt.close, tt.indicators))
			if ok != tt.want {
				t.Errorf("EntrySignal() ok = %v, want %v", ok, tt.want)
			}
			if ok && reason != "entry_conditions_met" {
				t.Errorf("reason = %q, want entry_conditions_met", reason)
			}
		})
	}
}

func TestStrategy_ExitSignal(t *testing.T) {
	tests := []struct {
		name       string
		close      float64
		indicators map[string]float64
		wantExit   bool
		wantReason string
	}{
		{"profit target hit", 135, map[string]float64{types.IndSMA200: 100}, true, "profit_target"},
		{"stop loss hit", 90, map[string]float64{types.IndSMA200: 80}, true, "stop_loss"},
		{"close back below trend", 98, map[string]float64{types.IndSMA200: 100}, true, "below_ma200"},
		{"riding the trend", 110, map[string]float64{types.IndSMA200: 100}, false, ""},
		{"no exit without sma warm-up", 98, nil, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := New().ExitSignal(weeklyBar(tt.close, tt.indicators), position(100), week0)
			if decision.Exit != tt.wantExit {
				t.Errorf("Exit = %v, want %v", decision.Exit, tt.wantExit)
			}
			if decision.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", decision.Reason, tt.wantReason)
			}
		})
	}
}

func TestStrategy_Config(t *testing.T) {
	cfg := New().Config()
	if cfg.Timeframe != types.Week {
		t.Errorf("Timeframe = %v, want weekly", cfg.Timeframe)
	}
	if cfg.MaxPositions != 10 || cfg.MaxHoldingDays != 730 {
		t.Errorf("caps = %d/%d, want 10/730", cfg.MaxPositions, cfg.MaxHoldingDays)
	}
	if cfg.MaxPositionSize != 0.15 {
		t.Errorf("MaxPositionSize = %v, want 0.15", cfg.MaxPositionSize)
	}
	if cfg.PartialExits {
		t.Error("PartialExits = true, want false")
	}
}

func TestStrategy_WithParams(t *testing.T) {
	tuned := New().WithParams(types.Params{
		"profit_target":          0.20,
		"volume_surge_threshold": 1.2,
	})

	// +25% clears the lowered target.
	decision := tuned.ExitSignal(weeklyBar(125, map[string]float64{types.IndSMA200: 100}), position(100), week0)
	if !decision.Exit || decision.Reason != "profit_target" {
		t.Errorf("decision = %+v, want profit_target", decision)
	}

	// Ratio 1.3 now qualifies as a surge.
	if _, ok := tuned.EntrySignal(weeklyBar(110, map[string]float64{
		types.IndSMA200: 100, types.IndVolumeRatio: 1.3,
	})); !ok {
		t.Error("EntrySignal() ok = false, want true with lowered threshold")
	}
}

func TestStrategy_ParamSpace(t *testing.T) {
	space := New().ParamSpace()
	for _, name := range []string{"profit_target", "stop_loss", "volume_surge_threshold"} {
		if len(space[name]) != 4 {
			t.Errorf("len(space[%q]) = %d, want 4", name, len(space[name]))
		}
	}
	if len(space) != 3 {
		t.Errorf("len(space) = %d, want 3", len(space))
	}
}
