package repository

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"stocksim/types"
)

// MinSeriesRows is the smallest series the simulation will accept. Shorter
// series leave the indicator warm-up window covering most of the run.
const MinSeriesRows = 30

var (
	ErrSeriesTooShort   = errors.New("series shorter than minimum row count")
	ErrSeriesOutOfOrder = errors.New("series not strictly chronological")
	ErrBadPrice         = errors.New("series contains non-positive price")
)

// ValidateSeries checks a loaded candle series: length, strictly increasing
// timestamps (which also rules out duplicates) and positive OHLC prices.
func ValidateSeries(candles []types.Candle) error {
	if len(candles) < MinSeriesRows {
		return fmt.Errorf("%w: got %d, need %d", ErrSeriesTooShort, len(candles), MinSeriesRows)
	}

	for i, candle := range candles {
		if i > 0 && !candle.Timestamp.After(candles[i-1].Timestamp) {
			return fmt.Errorf("%w: at %s", ErrSeriesOutOfOrder, candle.Timestamp.Format("2006-01-02"))
		}
		for _, price := range []decimal.Decimal{candle.Open, candle.High, candle.Low, candle.Close} {
			if price.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("%w: %s at %s", ErrBadPrice, candle.Ticker, candle.Timestamp.Format("2006-01-02"))
			}
		}
	}
	return nil
}
