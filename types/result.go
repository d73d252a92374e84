package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode records which engine produced a result. Parallel results are a
// best-effort post-hoc reconstruction and do not enforce position or risk
// caps; sequential results are the audited path.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

type EquityPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Result is the stable output contract of one backtest run, consumed by
// reporting and aggregation collaborators.
type Result struct {
	Strategy       string          `json:"strategy"`
	Mode           Mode            `json:"mode"`
	TotalReturn    float64         `json:"totalReturn"`
	TotalTrades    int             `json:"totalTrades"`
	WinningTrades  int             `json:"winningTrades"`
	LosingTrades   int             `json:"losingTrades"`
	WinRate        float64         `json:"winRate"`
	AvgProfit      decimal.Decimal `json:"avgProfit"`
	AvgLoss        decimal.Decimal `json:"avgLoss"`
	MaxDrawdown    float64         `json:"maxDrawdown"`
	SharpeRatio    float64         `json:"sharpeRatio"`
	FinalEquity    decimal.Decimal `json:"finalEquity"`
	InitialCapital decimal.Decimal `json:"initialCapital"`
	Trades         []Trade         `json:"trades"`
	EquityCurve    []EquityPoint   `json:"equityCurve"`
}
