package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/types"
)

// Fixed exit thresholds for the stateless per-symbol walk.
var (
	parallelProfitTarget = decimal.NewFromFloat(0.10)
	parallelStopLoss     = decimal.NewFromFloat(-0.05)
)

type symbolOutcome struct {
	symbol  string
	candles []types.Candle
	trades  []types.Trade
}

// RunParallel generates signals per symbol on a bounded worker pool, then
// reconciles all trades into one global equity curve.
//
// Each worker walks its symbol statelessly: at most one open position, no
// shared cash, no MaxPositions cap, and fixed +10% profit-taking / -5%
// stop-loss exits on top of the rule set's own. The reconciliation step is a
// best-effort post-hoc reconstruction: it does not retroactively enforce
// the position-count or risk constraints the sequential mode applies live,
// which is why the result is tagged ModeParallel. Use Run for audited
// numbers.
func (e *Engine) RunParallel(ctx context.Context, symbols []string, start, end time.Time) (*types.Result, error) {
	e.state = StateRunning
	e.log.Info().Int("symbols", len(symbols)).Int("workers", e.cfg.Workers).
		Msg("parallel backtest starting")

	workCh := make(chan string, len(symbols))
	outCh := make(chan symbolOutcome, len(symbols))
	timeframe := e.rules.Config().Timeframe

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range workCh {
				candles, err := e.provider.GetSeries(ctx, symbol, timeframe, start, end)
				if err != nil {
					// Fail-soft: one symbol's failure never aborts its siblings.
					e.log.Warn().Err(err).Str("symbol", symbol).Msg("symbol excluded from parallel run")
					continue
				}
				outCh <- symbolOutcome{
					symbol:  symbol,
					candles: candles,
					trades:  e.walkSymbol(symbol, candles),
				}
			}
		}()
	}

	for _, symbol := range symbols {
		workCh <- symbol
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(outCh)
	}()

	series := make(map[string][]types.Candle)
	var trades []types.Trade
	for outcome := range outCh {
		series[outcome.symbol] = outcome.candles
		trades = append(trades, outcome.trades...)
	}
	if len(series) == 0 {
		e.state = StateFailed
		return nil, ErrNoData
	}

	// Chronological entry-date order, ties broken deterministically.
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].EntryDate.Equal(trades[j].EntryDate) {
			return trades[i].EntryDate.Before(trades[j].EntryDate)
		}
		return trades[i].Symbol < trades[j].Symbol
	})

	equity := e.reconcile(trades, series, start)
	result, err := newResult(e.rules.Name(), types.ModeParallel, e.cfg.InitialCapital, trades, equity)
	if err != nil {
		e.state = StateFailed
		return nil, err
	}

	e.state = StateCompleted
	e.log.Info().Int("trades", result.TotalTrades).Msg("parallel backtest complete")
	return result, nil
}

// walkSymbol emits closed trades for one symbol in isolation. Sizing uses
// the full initial capital as both valuation and cash since there is no
// shared ledger to consult.
func (e *Engine) walkSymbol(symbol string, candles []types.Candle) []types.Trade {
	cfg := e.rules.Config()
	var trades []types.Trade
	var pos *types.Position

	for _, bar := range candles {
		date := bar.Timestamp

		if pos != nil {
			change := bar.Close.Sub(pos.AvgPrice).Div(pos.AvgPrice)

			exit, reason := false, ""
			switch {
			case change.GreaterThanOrEqual(parallelProfitTarget):
				exit, reason = true, "profit_taking"
			case change.LessThanOrEqual(parallelStopLoss):
				exit, reason = true, "stop_loss"
			default:
				decision := e.rules.ExitSignal(bar, pos, date)
				if pos.HoldingDays(date) >= cfg.MaxHoldingDays {
					decision.Exit = true
					decision.Reason = "max_holding_days"
				}
				exit, reason = decision.Exit, decision.Reason
			}

			if exit {
				trades = append(trades, types.NewTrade(symbol, pos.EntryDate, date,
					pos.AvgPrice, bar.Close, pos.Quantity, e.rules.Name(), pos.EntryReason, reason))
				pos = nil
			}
			continue
		}

		entryReason, ok := e.rules.EntrySignal(bar)
		if !ok {
			continue
		}
		qty := positionSize(bar.Close, e.cfg.InitialCapital, e.cfg.InitialCapital, cfg)
		if qty <= 0 {
			continue
		}
		pos = &types.Position{
			Symbol:      symbol,
			Quantity:    qty,
			AvgPrice:    bar.Close,
			EntryDate:   date,
			Strategy:    e.rules.Name(),
			EntryReason: entryReason,
		}
	}
	return trades
}

// reconcile replays the merged trade list against a fresh cash account to
// rebuild one global equity curve over the union timeline: entries debit
// cash, exits credit it, and open quantities are priced from the
// already-loaded series on every date.
func (e *Engine) reconcile(trades []types.Trade, series map[string][]types.Candle, start time.Time) []types.EquityPoint {
	clk := newClock(series)
	cash := e.cfg.InitialCapital
	open := make(map[string]int64)

	entriesAt := make(map[int64][]types.Trade)
	exitsAt := make(map[int64][]types.Trade)
	for _, trade := range trades {
		entriesAt[trade.EntryDate.UnixNano()] = append(entriesAt[trade.EntryDate.UnixNano()], trade)
		exitsAt[trade.ExitDate.UnixNano()] = append(exitsAt[trade.ExitDate.UnixNano()], trade)
	}

	equity := make([]types.EquityPoint, 0, len(clk.dates)+1)
	equity = append(equity, types.EquityPoint{Date: start, Value: cash})

	for _, date := range clk.dates {
		key := date.UnixNano()
		for _, trade := range exitsAt[key] {
			cash = cash.Add(trade.ExitPrice.Mul(decimal.NewFromInt(trade.Quantity)))
			open[trade.Symbol] -= trade.Quantity
		}
		for _, trade := range entriesAt[key] {
			cash = cash.Sub(trade.EntryPrice.Mul(decimal.NewFromInt(trade.Quantity)))
			open[trade.Symbol] += trade.Quantity
		}

		prices := closePrices(clk.barsAt(date))
		value := cash
		for symbol, qty := range open {
			if qty == 0 {
				continue
			}
			if price, ok := prices[symbol]; ok {
				value = value.Add(price.Mul(decimal.NewFromInt(qty)))
			}
		}
		equity = append(equity, types.EquityPoint{Date: date, Value: value})
	}
	return equity
}
