package optimizer

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"stocksim/internal/engine"
	"stocksim/types"
)

var ErrNoPeriods = errors.New("date range too short for one train+test window")

// minTradesForScore guards against statistically insignificant parameter
// combinations: anything below it scores negative infinity and can never win
// the grid search.
const minTradesForScore = 10

type Config struct {
	TrainDays int
	TestDays  int
	StepDays  int
	// ShowProgress enables the console progress bar over grid-search
	// combinations. Off by default so concurrent optimizers don't interleave
	// bars.
	ShowProgress bool
}

// Optimizer performs walk-forward optimization: grid search on each rolling
// train window, out-of-sample validation on the disjoint test window that
// follows it, and cross-period aggregation. Only the sequential engine mode
// is used; optimization feeds on audited results.
type Optimizer struct {
	provider  engine.PriceProvider
	rules     engine.RuleSet
	engineCfg engine.Config
	cfg       Config
	log       zerolog.Logger
}

func New(provider engine.PriceProvider, rules engine.RuleSet, engineCfg engine.Config, cfg Config, logger zerolog.Logger) *Optimizer {
	return &Optimizer{
		provider:  provider,
		rules:     rules,
		engineCfg: engineCfg,
		cfg:       cfg,
		log:       logger.With().Str("strategy", rules.Name()).Logger(),
	}
}

// Run walks the full date range. Periods where every combination is
// guard-rejected, or where validation fails, are skipped and only counted in
// the summary's TotalPeriods/ValidPeriods.
func (o *Optimizer) Run(ctx context.Context, symbols []string, start, end time.Time) (*types.WFOResult, error) {
	periods := SplitPeriods(start, end, o.cfg.TrainDays, o.cfg.TestDays, o.cfg.StepDays)
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}
	o.log.Info().Int("periods", len(periods)).Msg("walk-forward optimization starting")

	var results []types.PeriodResult
	for i, period := range periods {
		o.log.Info().Int("period", i+1).Int("of", len(periods)).
			Time("trainStart", period.TrainStart).Time("testStart", period.TestStart).
			Msg("optimizing period")

		params, score := o.optimize(ctx, symbols, period.TrainStart, period.TrainEnd)
		if params == nil {
			o.log.Warn().Int("period", i+1).Msg("every combination rejected on train window")
			continue
		}

		// Out-of-sample validation on the disjoint test window is what
		// prevents look-ahead bias: the aggregate is fed by these results,
		// never by train-window scores.
		testResult, err := o.runWith(ctx, params, symbols, period.TestStart, period.TestEnd)
		if err != nil {
			o.log.Warn().Err(err).Int("period", i+1).Msg("validation failed")
			continue
		}

		results = append(results, types.PeriodResult{
			Period:        period,
			OptimalParams: params,
			TrainScore:    score,
			TestResult:    testResult,
		})
	}

	return &types.WFOResult{
		Strategy: o.rules.Name(),
		Periods:  results,
		Summary:  summarize(len(periods), results),
	}, nil
}

// SplitPeriods generates rolling train/test window pairs. The test window
// starts the day after training ends; successive periods advance by stepDays
// and the last one is included only if a full train+test span fits before
// end.
func SplitPeriods(start, end time.Time, trainDays, testDays, stepDays int) []types.Period {
	var periods []types.Period
	for cur := start; !cur.AddDate(0, 0, trainDays+testDays).After(end); cur = cur.AddDate(0, 0, stepDays) {
		trainEnd := cur.AddDate(0, 0, trainDays-1)
		testStart := trainEnd.AddDate(0, 0, 1)
		periods = append(periods, types.Period{
			TrainStart: cur,
			TrainEnd:   trainEnd,
			TestStart:  testStart,
			TestEnd:    testStart.AddDate(0, 0, testDays-1),
		})
	}
	return periods
}

// optimize grid-searches the rule set's parameter space on the train window
// and returns the arg-max combination, or nil when every combination errored
// or fell below the trade-count guard.
func (o *Optimizer) optimize(ctx context.Context, symbols []string, start, end time.Time) (types.Params, float64) {
	combos := Combinations(o.rules.ParamSpace())

	var bar *progressbar.ProgressBar
	if o.cfg.ShowProgress {
		bar = newProgressBar(len(combos))
	}

	var best types.Params
	bestScore := math.Inf(-1)
	for _, combo := range combos {
		result, err := o.runWith(ctx, combo, symbols, start, end)
		if bar != nil {
			bar.Add(1)
		}
		if err != nil {
			// ErrNoTrades / ErrNoData combos simply drop out of the search.
			o.log.Debug().Err(err).Interface("params", combo).Msg("combination rejected")
			continue
		}
		if score := Score(result); score > bestScore {
			bestScore = score
			best = combo
		}
	}

	if best != nil {
		o.log.Info().Interface("params", best).Float64("score", bestScore).Msg("optimal parameters")
	}
	return best, bestScore
}

func (o *Optimizer) runWith(ctx context.Context, params types.Params, symbols []string, start, end time.Time) (*types.Result, error) {
	eng := engine.NewEngine(o.provider, o.rules.WithParams(params), o.engineCfg, o.log)
	return eng.Run(ctx, symbols, start, end)
}

// Score is the composite optimization objective, Sharpe-weighted.
// Combinations with fewer than minTradesForScore trades score negative
// infinity regardless of their other metrics.
func Score(result *types.Result) float64 {
	if result.TotalTrades < minTradesForScore {
		return math.Inf(-1)
	}
	return 0.4*result.SharpeRatio +
		0.3*result.TotalReturn +
		0.2*(1-math.Abs(result.MaxDrawdown)) +
		0.1*result.WinRate
}

func newProgressBar(combos int) *progressbar.ProgressBar {
	return progressbar.NewOptions(combos,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Grid search in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
