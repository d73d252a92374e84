package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"stocksim/types"
)

var bucketToInterval = map[types.Interval]string{
	types.Day:  "1 day",
	types.Week: "1 week",
}

// indicator_aggregates buckets raw candles into the requested timeframe and
// joins the precomputed indicator columns for each bucket.
const getIndicatorAggregates = `
SELECT bucket, open, high, low, close, volume,
       rsi, sma_25, sma_200, volume_ratio, golden_cross
FROM indicator_aggregates($1, $2::interval, $3, $4)
ORDER BY bucket`

// GetSeries loads the bucketed, indicator-enriched candle series for one
// symbol. It satisfies the engine's price provider contract; series failing
// validation are rejected here so the simulation never sees bad data.
func (db *Database) GetSeries(ctx context.Context, symbol string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	bucket, ok := bucketToInterval[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}

	asset, err := db.GetAssetByTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(ctx, getIndicatorAggregates, asset.Id, bucket, start, end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCandles
		}
		return nil, err
	}
	defer rows.Close()

	var candles []types.Candle
	for rows.Next() {
		var (
			ts                            time.Time
			open, high, low, cls, volume  decimal.Decimal
			rsi, sma25, sma200, volumeRat *float64
			goldenCross                   *bool
		)
		if err := rows.Scan(&ts, &open, &high, &low, &cls, &volume,
			&rsi, &sma25, &sma200, &volumeRat, &goldenCross); err != nil {
			return nil, err
		}

		candle := types.Candle{
			Ticker:    symbol,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     cls,
			Volume:    volume,
			Interval:  interval,
			Timestamp: ts,
		}
		candle.Indicators = make(map[string]float64)
		if rsi != nil {
			candle.Indicators[types.IndRSI] = *rsi
		}
		if sma25 != nil {
			candle.Indicators[types.IndSMA25] = *sma25
		}
		if sma200 != nil {
			candle.Indicators[types.IndSMA200] = *sma200
		}
		if volumeRat != nil {
			candle.Indicators[types.IndVolumeRatio] = *volumeRat
		}
		if goldenCross != nil && *goldenCross {
			candle.Indicators[types.IndGoldenCross] = 1
		}
		candles = append(candles, candle)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}

	if err := ValidateSeries(candles); err != nil {
		return nil, err
	}
	return candles, nil
}
