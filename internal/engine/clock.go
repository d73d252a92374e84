package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/types"
)

// simulationClock merges per-symbol bar timestamps into one ordered timeline
// and resolves which bars are present on each simulated date.
type simulationClock struct {
	dates []time.Time
	bars  map[string]map[int64]types.Candle
}

func newClock(series map[string][]types.Candle) *simulationClock {
	seen := make(map[int64]time.Time)
	bars := make(map[string]map[int64]types.Candle, len(series))

	for symbol, candles := range series {
		bySymbol := make(map[int64]types.Candle, len(candles))
		for _, c := range candles {
			key := c.Timestamp.UnixNano()
			bySymbol[key] = c
			seen[key] = c.Timestamp
		}
		bars[symbol] = bySymbol
	}

	dates := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return &simulationClock{dates: dates, bars: bars}
}

// barsAt returns the bar of every symbol that traded on date t.
func (c *simulationClock) barsAt(t time.Time) map[string]types.Candle {
	key := t.UnixNano()
	out := make(map[string]types.Candle)
	for symbol, bySymbol := range c.bars {
		if bar, ok := bySymbol[key]; ok {
			out[symbol] = bar
		}
	}
	return out
}

func closePrices(bars map[string]types.Candle) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(bars))
	for symbol, bar := range bars {
		prices[symbol] = bar.Close
	}
	return prices
}

func sortedSymbols(bars map[string]types.Candle) []string {
	symbols := make([]string, 0, len(bars))
	for symbol := range bars {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
