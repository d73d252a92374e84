package engine

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"stocksim/types"
)

var ErrNoData = errors.New("no usable price data for any requested symbol")
var ErrNoTrades = errors.New("backtest produced no trades")

const annualTradingDays = 252

// newResult computes the aggregate metrics for a completed run. A run with
// zero trades returns ErrNoTrades so callers never compute ratios on empty
// data.
func newResult(strategy string, mode types.Mode, initialCapital decimal.Decimal,
	trades []types.Trade, equity []types.EquityPoint) (*types.Result, error) {

	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	finalEquity := initialCapital
	if len(equity) > 0 {
		finalEquity = equity[len(equity)-1].Value
	}

	winning, losing := 0, 0
	sumProfit, sumLoss := decimal.Zero, decimal.Zero
	for _, trade := range trades {
		switch {
		case trade.ProfitLoss.GreaterThan(decimal.Zero):
			winning++
			sumProfit = sumProfit.Add(trade.ProfitLoss)
		case trade.ProfitLoss.LessThan(decimal.Zero):
			losing++
			sumLoss = sumLoss.Add(trade.ProfitLoss)
		}
	}

	avgProfit, avgLoss := decimal.Zero, decimal.Zero
	if winning > 0 {
		avgProfit = sumProfit.Div(decimal.NewFromInt(int64(winning)))
	}
	if losing > 0 {
		avgLoss = sumLoss.Div(decimal.NewFromInt(int64(losing)))
	}

	return &types.Result{
		Strategy:       strategy,
		Mode:           mode,
		TotalReturn:    finalEquity.Sub(initialCapital).Div(initialCapital).InexactFloat64(),
		TotalTrades:    len(trades),
		WinningTrades:  winning,
		LosingTrades:   losing,
		WinRate:        float64(winning) / float64(len(trades)),
		AvgProfit:      avgProfit,
		AvgLoss:        avgLoss,
		MaxDrawdown:    maxDrawdown(equity),
		SharpeRatio:    sharpeRatio(equity),
		FinalEquity:    finalEquity,
		InitialCapital: initialCapital,
		Trades:         trades,
		EquityCurve:    equity,
	}, nil
}

// maxDrawdown is the most negative (value - runningMax) / runningMax over
// the equity curve; 0 for a curve that never declines.
func maxDrawdown(equity []types.EquityPoint) float64 {
	maxDD := 0.0
	peak := 0.0
	for i, point := range equity {
		value := point.Value.InexactFloat64()
		if i == 0 || value > peak {
			peak = value
		}
		if peak > 0 {
			if dd := (value - peak) / peak; dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio annualizes mean/stddev of the day-over-day equity returns.
// Zero-variance curves yield 0, not NaN.
func sharpeRatio(equity []types.EquityPoint) float64 {
	if len(equity) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	prev := equity[0].Value.InexactFloat64()
	for _, point := range equity[1:] {
		cur := point.Value.InexactFloat64()
		if prev != 0 {
			returns = append(returns, cur/prev-1)
		}
		prev = cur
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var varianceSum float64
	for _, r := range returns {
		diff := r - mean
		varianceSum += diff * diff
	}
	std := math.Sqrt(varianceSum / float64(len(returns)-1))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(annualTradingDays)
}
