package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/types"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")
var ErrInvalidPrice = errors.New("price must be positive")

// Ledger is the bookkeeping state machine for one backtest run: cash, open
// positions, the append-only trade list and the equity curve. It performs no
// I/O and is owned by exactly one engine run at a time.
type Ledger struct {
	initialCapital decimal.Decimal
	cash           decimal.Decimal
	positions      map[string]*types.Position
	trades         []types.Trade
	equity         []types.EquityPoint
}

// NewLedger seeds the equity curve with one point at seedDate so that the
// curve always holds 1 + number-of-simulated-dates entries.
func NewLedger(initialCapital decimal.Decimal, seedDate time.Time) *Ledger {
	return &Ledger{
		initialCapital: initialCapital,
		cash:           initialCapital,
		positions:      make(map[string]*types.Position),
		equity:         []types.EquityPoint{{Date: seedDate, Value: initialCapital}},
	}
}

// OpenOrAdd opens a position, or adds to an existing one recomputing the
// quantity-weighted average price. Cash is debited by qty*price.
func (l *Ledger) OpenOrAdd(symbol string, qty int64, price decimal.Decimal, date time.Time, strategy, reason string) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}

	if pos, ok := l.positions[symbol]; ok {
		pos.AvgPrice = weightedAvg(pos.AvgPrice, pos.Quantity, price, qty)
		pos.Quantity += qty
	} else {
		l.positions[symbol] = &types.Position{
			Symbol:      symbol,
			Quantity:    qty,
			AvgPrice:    price,
			EntryDate:   date,
			Strategy:    strategy,
			EntryReason: reason,
		}
	}

	l.cash = l.cash.Sub(price.Mul(decimal.NewFromInt(qty)))
	return nil
}

// Close sells qty shares at price and appends the resulting Trade. Returns
// nil when no position is open for symbol, which is a legitimate outcome when
// an exit signal arrives for a symbol already closed elsewhere.
//
// Closing more than held is not an error: the close is clamped to the held
// quantity and the position is removed. A partial close decrements quantity
// in place and preserves the average price on the remainder.
func (l *Ledger) Close(symbol string, qty int64, price decimal.Decimal, date time.Time, reason string) *types.Trade {
	pos, ok := l.positions[symbol]
	if !ok || qty <= 0 || price.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	closed := qty
	if qty >= pos.Quantity {
		closed = pos.Quantity
		delete(l.positions, symbol)
	} else {
		pos.Quantity -= qty
	}

	l.cash = l.cash.Add(price.Mul(decimal.NewFromInt(closed)))
	trade := types.NewTrade(symbol, pos.EntryDate, date, pos.AvgPrice, price,
		closed, pos.Strategy, pos.EntryReason, reason)
	l.trades = append(l.trades, trade)
	return &trade
}

// MarkToMarket appends one equity point valuing open positions at the given
// prices. Held symbols missing from prices are excluded from this day's
// total, so callers must supply prices for every held symbol to avoid
// undercounting.
func (l *Ledger) MarkToMarket(prices map[string]decimal.Decimal, date time.Time) {
	l.equity = append(l.equity, types.EquityPoint{Date: date, Value: l.TotalValue(prices)})
}

// TotalValue is cash plus the value of positions whose symbol appears in
// prices. With a nil or empty map it degrades to a cash-only valuation.
func (l *Ledger) TotalValue(prices map[string]decimal.Decimal) decimal.Decimal {
	total := l.cash
	for symbol, pos := range l.positions {
		if price, ok := prices[symbol]; ok {
			total = total.Add(price.Mul(decimal.NewFromInt(pos.Quantity)))
		}
	}
	return total
}

func (l *Ledger) Cash() decimal.Decimal           { return l.cash }
func (l *Ledger) InitialCapital() decimal.Decimal { return l.initialCapital }
func (l *Ledger) OpenPositions() int              { return len(l.positions) }
func (l *Ledger) Trades() []types.Trade           { return l.trades }
func (l *Ledger) EquityCurve() []types.EquityPoint {
	return l.equity
}

// Position returns the open position for symbol, or nil.
func (l *Ledger) Position(symbol string) *types.Position {
	return l.positions[symbol]
}

// HeldSymbols returns open-position symbols in sorted order so that callers
// iterating positions stay deterministic across runs.
func (l *Ledger) HeldSymbols() []string {
	symbols := make([]string, 0, len(l.positions))
	for symbol := range l.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func weightedAvg(existingAvgPrice decimal.Decimal, existingQty int64, newPrice decimal.Decimal, newQty int64) decimal.Decimal {
	if existingQty == 0 {
		return newPrice
	}
	oldQty := decimal.NewFromInt(existingQty)
	addQty := decimal.NewFromInt(newQty)
	return existingAvgPrice.Mul(oldQty).
		Add(newPrice.Mul(addQty)).
		Div(oldQty.Add(addQty))
}
