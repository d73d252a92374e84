package engine

import (
	"math"
	"testing"
	"time"

	"stocksim/types"
)

func equityCurve(values ...float64) []types.EquityPoint {
	curve := make([]types.EquityPoint, len(values))
	for i, v := range values {
		curve[i] = types.EquityPoint{Date: day0.AddDate(0, 0, i), Value: d(v)}
	}
	return curve
}

func TestNewResult(t *testing.T) {
	t.Run("should reject zero trades", func(t *testing.T) {
		_, err := newResult("test", types.ModeSequential, d(100_000), nil, equityCurve(100_000))
		if err != ErrNoTrades {
			t.Errorf("error = %v, want ErrNoTrades", err)
		}
	})

	t.Run("should aggregate win/loss metrics", func(t *testing.T) {
		exit := day0.AddDate(0, 0, 5)
		trades := []types.Trade{
			types.NewTrade("AAPL", day0, exit, d(100), d(110), 10, "test", "signal", "profit_target"),
			types.NewTrade("MSFT", day0, exit, d(200), d(190), 10, "test", "signal", "stop_loss"),
			types.NewTrade("NVDA", day0, exit, d(50), d(60), 10, "test", "signal", "profit_target"),
		}
		result, err := newResult("test", types.ModeSequential, d(100_000), trades, equityCurve(100_000, 100_100, 100_200))
		if err != nil {
			t.Fatalf("newResult() error = %v", err)
		}

		if result.WinningTrades != 2 || result.LosingTrades != 1 {
			t.Errorf("wins/losses = %d/%d, want 2/1", result.WinningTrades, result.LosingTrades)
		}
		if math.Abs(result.WinRate-2.0/3.0) > 1e-9 {
			t.Errorf("WinRate = %v, want 2/3", result.WinRate)
		}
		if !result.AvgProfit.Equal(d(100)) {
			t.Errorf("AvgProfit = %v, want 100", result.AvgProfit)
		}
		if !result.AvgLoss.Equal(d(-100)) {
			t.Errorf("AvgLoss = %v, want -100", result.AvgLoss)
		}
		if math.Abs(result.TotalReturn-0.002) > 1e-9 {
			t.Errorf("TotalReturn = %v, want 0.002", result.TotalReturn)
		}
	})
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"peak then trough", []float64{100, 120, 90, 130}, -0.25},
		{"monotonic rise", []float64{100, 110, 120}, 0},
		{"empty curve", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maxDrawdown(equityCurve(tt.values...))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("maxDrawdown() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	t.Run("should return zero on constant returns", func(t *testing.T) {
		// 10% every day: zero variance, not NaN.
		if got := sharpeRatio(equityCurve(100, 110, 121)); got != 0 {
			t.Errorf("sharpeRatio() = %v, want 0", got)
		}
	})

	t.Run("should return zero on short curves", func(t *testing.T) {
		if got := sharpeRatio(equityCurve(100, 110)); got != 0 {
			t.Errorf("sharpeRatio() = %v, want 0", got)
		}
	})

	t.Run("should annualize with sqrt of 252", func(t *testing.T) {
		// Returns 0.10 and -0.05: mean 0.025, sample std sqrt(0.01125).
		got := sharpeRatio(equityCurve(100, 110, 104.5))
		want := 0.025 / math.Sqrt(0.01125) * math.Sqrt(252)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("sharpeRatio() = %v, want %v", got, want)
		}
	})
}

func TestHoldingDays(t *testing.T) {
	pos := &types.Position{EntryDate: day0}
	if got := pos.HoldingDays(day0.Add(36 * time.Hour)); got != 1 {
		t.Errorf("HoldingDays() = %d, want 1", got)
	}
}
