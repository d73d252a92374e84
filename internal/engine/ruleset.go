package engine

import (
	"time"

	"stocksim/types"
)

// RuleConfig is the scalar configuration of a strategy rule set.
type RuleConfig struct {
	Timeframe       types.Interval
	MaxPositions    int
	RiskPerTrade    float64
	MaxPositionSize float64
	MaxHoldingDays  int
	// PartialExits declares that the rule set may request half-position
	// profit taking; the engine ignores partial-exit decisions otherwise.
	PartialExits bool
}

type ExitDecision struct {
	Exit        bool
	Reason      string
	PartialExit bool
}

// RuleSet is a named bundle of entry/exit predicates and risk parameters.
// A rule set is constructed once (optionally re-parameterized through
// WithParams) and selected at configuration time; the engine never inspects
// the strategy by name.
type RuleSet interface {
	Name() string
	Config() RuleConfig

	// EntrySignal reports whether the bar triggers an entry, and why.
	EntrySignal(bar types.Candle) (reason string, ok bool)

	// ExitSignal evaluates the open position against the bar. The engine
	// overrides the decision when the position exceeds MaxHoldingDays.
	ExitSignal(bar types.Candle, pos *types.Position, date time.Time) ExitDecision

	// ParamSpace declares the tunable parameter ranges used by the
	// walk-forward optimizer's grid search.
	ParamSpace() map[string][]float64

	// WithParams returns a copy of the rule set with the given parameter
	// values applied; unknown names are ignored.
	WithParams(params types.Params) RuleSet
}
