package optimizer

import (
	"math"
	"sort"

	"stocksim/types"
)

// summarize aggregates out-of-sample results across periods. Metric std
// deviations are population form since the periods are the whole population
// of windows walked, not a sample.
func summarize(totalPeriods int, results []types.PeriodResult) types.WFOSummary {
	summary := types.WFOSummary{
		TotalPeriods: totalPeriods,
		ValidPeriods: len(results),
	}
	if len(results) == 0 {
		return summary
	}

	returns := make([]float64, len(results))
	var sharpeSum, drawdownSum, winRateSum, tradeSum float64
	for i, pr := range results {
		returns[i] = pr.TestResult.TotalReturn
		sharpeSum += pr.TestResult.SharpeRatio
		drawdownSum += pr.TestResult.MaxDrawdown
		winRateSum += pr.TestResult.WinRate
		tradeSum += float64(pr.TestResult.TotalTrades)
		if pr.TestResult.TotalReturn > 0 {
			summary.PositivePeriods++
		} else {
			summary.NegativePeriods++
		}
	}

	n := float64(len(results))
	summary.AvgReturn, summary.StdReturn = meanStd(returns)
	summary.AvgSharpeRatio = sharpeSum / n
	summary.AvgMaxDrawdown = drawdownSum / n
	summary.AvgWinRate = winRateSum / n
	summary.AvgTradeCount = tradeSum / n

	best, worst := 0, 0
	for i, r := range returns {
		if r > returns[best] {
			best = i
		}
		if r < returns[worst] {
			worst = i
		}
	}
	summary.BestPeriod = best
	summary.WorstPeriod = worst

	summary.ParameterStability = stability(results)
	return summary
}

// stability reports per-parameter dispersion of the winning values across
// periods. A high coefficient of variation flags a parameter the walk kept
// flip-flopping on.
func stability(results []types.PeriodResult) map[string]types.ParamStability {
	values := make(map[string][]float64)
	for _, pr := range results {
		for name, value := range pr.OptimalParams {
			values[name] = append(values[name], value)
		}
	}

	out := make(map[string]types.ParamStability, len(values))
	for name, vs := range values {
		mean, std := meanStd(vs)

		cv := 0.0
		if mean != 0 {
			cv = std / math.Abs(mean)
		}

		sorted := append([]float64(nil), vs...)
		sort.Float64s(sorted)
		unique := 0
		for i, v := range sorted {
			if i == 0 || v != sorted[i-1] {
				unique++
			}
		}

		out[name] = types.ParamStability{
			Mean:         mean,
			Std:          std,
			CV:           cv,
			Min:          sorted[0],
			Max:          sorted[len(sorted)-1],
			UniqueValues: unique,
		}
	}
	return out
}

func meanStd(values []float64) (mean, std float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	std = math.Sqrt(varianceSum / float64(len(values)))
	return mean, std
}
