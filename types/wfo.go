package types

import "time"

// Params is one combination of strategy-tunable values, an element of the
// Cartesian product of the strategy's declared parameter ranges.
type Params map[string]float64

// Period is one walk-forward window pair. Test immediately follows train:
// TestStart = TrainEnd + 1 day.
type Period struct {
	TrainStart time.Time `json:"trainStart"`
	TrainEnd   time.Time `json:"trainEnd"`
	TestStart  time.Time `json:"testStart"`
	TestEnd    time.Time `json:"testEnd"`
}

// PeriodResult holds the parameters chosen on the train window and the
// out-of-sample result of running them on the disjoint test window.
type PeriodResult struct {
	Period        Period  `json:"period"`
	OptimalParams Params  `json:"optimalParams"`
	TrainScore    float64 `json:"trainScore"`
	TestResult    *Result `json:"testResult"`
}

// ParamStability describes how much one parameter's chosen value moved across
// periods. A high coefficient of variation signals an unstable, likely
// overfit strategy.
type ParamStability struct {
	Mean         float64 `json:"mean"`
	Std          float64 `json:"std"`
	CV           float64 `json:"cv"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	UniqueValues int     `json:"uniqueValues"`
}

type WFOSummary struct {
	TotalPeriods       int                       `json:"totalPeriods"`
	ValidPeriods       int                       `json:"validPeriods"`
	AvgReturn          float64                   `json:"avgReturn"`
	StdReturn          float64                   `json:"stdReturn"`
	AvgSharpeRatio     float64                   `json:"avgSharpeRatio"`
	AvgMaxDrawdown     float64                   `json:"avgMaxDrawdown"`
	AvgWinRate         float64                   `json:"avgWinRate"`
	AvgTradeCount      float64                   `json:"avgTradeCount"`
	BestPeriod         int                       `json:"bestPeriod"`
	WorstPeriod        int                       `json:"worstPeriod"`
	PositivePeriods    int                       `json:"positivePeriods"`
	NegativePeriods    int                       `json:"negativePeriods"`
	ParameterStability map[string]ParamStability `json:"parameterStability"`
}

type WFOResult struct {
	Strategy string         `json:"strategy"`
	Periods  []PeriodResult `json:"periods"`
	Summary  WFOSummary     `json:"summary"`
}
