package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stocksim/types"
)

// PriceProvider returns cleaned, indicator-enriched bars for one symbol. The
// provider contract guarantees at least 30 chronological, duplicate-free rows
// with positive OHLC values, or an error; the engine treats any error as
// "symbol unusable for this window".
type PriceProvider interface {
	GetSeries(ctx context.Context, symbol string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
}

type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateCompleted
	StateFailed
)

type Config struct {
	InitialCapital decimal.Decimal
	// Workers bounds the per-symbol pool used by RunParallel.
	Workers int
}

const defaultWorkers = 4

// Engine runs one strategy rule set over historical bars against a single
// ledger. The zero value is not usable; construct with NewEngine.
type Engine struct {
	provider PriceProvider
	rules    RuleSet
	cfg      Config
	log      zerolog.Logger
	state    RunState
}

func NewEngine(provider PriceProvider, rules RuleSet, cfg Config, logger zerolog.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Engine{
		provider: provider,
		rules:    rules,
		cfg:      cfg,
		log:      logger.With().Str("strategy", rules.Name()).Logger(),
		state:    StateIdle,
	}
}

func (e *Engine) State() RunState { return e.state }

// Run executes the sequential, fully constrained simulation: one shared
// ledger, exits strictly before entries on every date, position-count and
// risk caps enforced live. This is the audited mode.
func (e *Engine) Run(ctx context.Context, symbols []string, start, end time.Time) (*types.Result, error) {
	e.state = StateRunning
	e.log.Info().Int("symbols", len(symbols)).
		Time("start", start).Time("end", end).Msg("backtest starting")

	series := e.loadSeries(ctx, symbols, start, end)
	if len(series) == 0 {
		e.state = StateFailed
		return nil, ErrNoData
	}

	clk := newClock(series)
	ledger := NewLedger(e.cfg.InitialCapital, start)

	for _, date := range clk.dates {
		bars := clk.barsAt(date)
		e.exitPass(ledger, bars, date)
		e.entryPass(ledger, bars, date)
		ledger.MarkToMarket(closePrices(bars), date)
	}

	result, err := newResult(e.rules.Name(), types.ModeSequential,
		ledger.InitialCapital(), ledger.Trades(), ledger.EquityCurve())
	if err != nil {
		e.state = StateFailed
		return nil, err
	}

	e.state = StateCompleted
	e.log.Info().Int("trades", result.TotalTrades).
		Float64("totalReturn", result.TotalReturn).Msg("backtest complete")
	return result, nil
}

// loadSeries fetches every symbol's bars and drops the ones the provider
// rejects. A run proceeds as long as at least one symbol survives.
func (e *Engine) loadSeries(ctx context.Context, symbols []string, start, end time.Time) map[string][]types.Candle {
	timeframe := e.rules.Config().Timeframe
	series := make(map[string][]types.Candle, len(symbols))
	for _, symbol := range symbols {
		candles, err := e.provider.GetSeries(ctx, symbol, timeframe, start, end)
		if err != nil {
			e.log.Warn().Err(err).Str("symbol", symbol).Msg("symbol excluded")
			continue
		}
		series[symbol] = candles
	}
	return series
}

// exitPass evaluates every held symbol that traded on date. Exits run before
// entries so capital freed by a close is available the same day.
func (e *Engine) exitPass(ledger *Ledger, bars map[string]types.Candle, date time.Time) {
	cfg := e.rules.Config()
	for _, symbol := range ledger.HeldSymbols() {
		bar, ok := bars[symbol]
		if !ok {
			continue
		}
		pos := ledger.Position(symbol)

		decision := e.rules.ExitSignal(bar, pos, date)
		if pos.HoldingDays(date) >= cfg.MaxHoldingDays {
			decision.Exit = true
			decision.Reason = "max_holding_days"
		}

		switch {
		case decision.Exit:
			if trade := ledger.Close(symbol, pos.Quantity, bar.Close, date, decision.Reason); trade != nil {
				e.log.Debug().Str("symbol", symbol).Str("reason", decision.Reason).
					Str("pnl", trade.ProfitLoss.String()).Msg("exit")
			}
		case decision.PartialExit && cfg.PartialExits:
			if half := pos.Quantity / 2; half > 0 {
				ledger.Close(symbol, half, bar.Close, date, "partial_profit")
				e.log.Debug().Str("symbol", symbol).Int64("quantity", half).Msg("partial exit")
			}
		}
	}
}

// entryPass opens new positions for symbols without one. The MaxPositions
// cap gates the whole pass: it is checked once, before any entries, so
// several symbols signaling on the same date are all admitted.
func (e *Engine) entryPass(ledger *Ledger, bars map[string]types.Candle, date time.Time) {
	cfg := e.rules.Config()
	if ledger.OpenPositions() >= cfg.MaxPositions {
		return
	}

	for _, symbol := range sortedSymbols(bars) {
		if ledger.Position(symbol) != nil {
			continue
		}
		bar := bars[symbol]
		reason, ok := e.rules.EntrySignal(bar)
		if !ok {
			continue
		}

		qty := positionSize(bar.Close, ledger.TotalValue(nil), ledger.Cash(), cfg)
		if qty <= 0 {
			continue
		}
		if err := ledger.OpenOrAdd(symbol, qty, bar.Close, date, e.rules.Name(), reason); err != nil {
			e.log.Warn().Err(err).Str("symbol", symbol).Msg("entry rejected")
			continue
		}
		e.log.Debug().Str("symbol", symbol).Int64("quantity", qty).
			Str("price", bar.Close.String()).Str("reason", reason).Msg("entry")
	}
}
