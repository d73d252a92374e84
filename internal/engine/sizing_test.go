package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPositionSize(t *testing.T) {
	cfg := RuleConfig{RiskPerTrade: 0.015, MaxPositionSize: 0.25}

	tests := []struct {
		name       string
		price      float64
		totalValue float64
		cash       float64
		want       int64
	}{
		{"risk budget binds", 100, 1_000_000, 500_000, 150},
		{"cash binds", 100, 1_000_000, 5_000, 50},
		{"fractional shares floored", 95, 1_000_000, 500_000, 157},
		{"no cash", 100, 1_000_000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positionSize(decimal.NewFromFloat(tt.price),
				decimal.NewFromFloat(tt.totalValue), decimal.NewFromFloat(tt.cash), cfg)
			if got != tt.want {
				t.Errorf("positionSize() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("non-positive price yields zero", func(t *testing.T) {
		if got := positionSize(decimal.Zero, decimal.NewFromInt(1000), decimal.NewFromInt(1000), cfg); got != 0 {
			t.Errorf("positionSize() = %d, want 0", got)
		}
	})

	t.Run("position cap binds", func(t *testing.T) {
		capped := RuleConfig{RiskPerTrade: 1, MaxPositionSize: 0.10}
		got := positionSize(decimal.NewFromInt(100), decimal.NewFromInt(100_000), decimal.NewFromInt(100_000), capped)
		if got != 100 {
			t.Errorf("positionSize() = %d, want 100", got)
		}
	})
}
