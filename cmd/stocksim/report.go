package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"stocksim/types"
)

func printResult(out io.Writer, result *types.Result) {
	fmt.Fprintf(out, "\n%s (%s mode)\n", result.Strategy, result.Mode)

	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")
	table.Append("Total return", fmt.Sprintf("%.2f%%", result.TotalReturn*100))
	table.Append("Total trades", fmt.Sprintf("%d", result.TotalTrades))
	table.Append("Win rate", fmt.Sprintf("%.1f%%", result.WinRate*100))
	table.Append("Avg profit", result.AvgProfit.StringFixed(2))
	table.Append("Avg loss", result.AvgLoss.StringFixed(2))
	table.Append("Max drawdown", fmt.Sprintf("%.2f%%", result.MaxDrawdown*100))
	table.Append("Sharpe ratio", fmt.Sprintf("%.2f", result.SharpeRatio))
	table.Append("Final equity", result.FinalEquity.StringFixed(2))
	table.Render()
}

func printWFOResult(out io.Writer, result *types.WFOResult) {
	summary := result.Summary
	fmt.Fprintf(out, "\n%s walk-forward summary (%d/%d valid periods)\n",
		result.Strategy, summary.ValidPeriods, summary.TotalPeriods)

	table := tablewriter.NewWriter(out)
	table.Header("Period", "Train end", "Test return", "Sharpe", "Trades")
	for i, pr := range result.Periods {
		table.Append(
			fmt.Sprintf("%d", i+1),
			pr.Period.TrainEnd.Format("2006-01-02"),
			fmt.Sprintf("%.2f%%", pr.TestResult.TotalReturn*100),
			fmt.Sprintf("%.2f", pr.TestResult.SharpeRatio),
			fmt.Sprintf("%d", pr.TestResult.TotalTrades),
		)
	}
	table.Render()

	fmt.Fprintf(out, "avg return %.2f%% (std %.2f%%), avg sharpe %.2f, %d up / %d down\n",
		summary.AvgReturn*100, summary.StdReturn*100, summary.AvgSharpeRatio,
		summary.PositivePeriods, summary.NegativePeriods)

	if len(summary.ParameterStability) == 0 {
		return
	}

	names := make([]string, 0, len(summary.ParameterStability))
	for name := range summary.ParameterStability {
		names = append(names, name)
	}
	sort.Strings(names)

	stability := tablewriter.NewWriter(out)
	stability.Header("Parameter", "Mean", "Std", "CV", "Min", "Max", "Distinct")
	for _, name := range names {
		st := summary.ParameterStability[name]
		stability.Append(
			name,
			fmt.Sprintf("%.3f", st.Mean),
			fmt.Sprintf("%.3f", st.Std),
			fmt.Sprintf("%.2f", st.CV),
			fmt.Sprintf("%.3f", st.Min),
			fmt.Sprintf("%.3f", st.Max),
			fmt.Sprintf("%d", st.UniqueValues),
		)
	}
	stability.Render()
}
