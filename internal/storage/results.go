// Package storage persists completed run results to a local sqlite database
// so runs can be compared across sessions without re-simulating.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"stocksim/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	strategy        TEXT NOT NULL,
	mode            TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	total_return    REAL NOT NULL,
	win_rate        REAL NOT NULL,
	max_drawdown    REAL NOT NULL,
	sharpe_ratio    REAL NOT NULL,
	total_trades    INTEGER NOT NULL,
	final_equity    REAL NOT NULL,
	initial_capital REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs (strategy, created_at);`

// RunRecord is one persisted run row.
type RunRecord struct {
	ID          string
	Strategy    string
	Mode        types.Mode
	CreatedAt   time.Time
	TotalReturn float64
	WinRate     float64
	SharpeRatio float64
	TotalTrades int
}

// Aggregate summarizes the persisted runs of one strategy.
type Aggregate struct {
	Runs        int
	AvgReturn   float64
	StdReturn   float64
	AvgSharpe   float64
	AvgDrawdown float64
	AvgWinRate  float64
	AvgTrades   float64
}

type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the results database at path.
// Use ":memory:" for an ephemeral store.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts a completed result and returns the generated run id.
func (s *Store) SaveRun(ctx context.Context, result *types.Result) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, strategy, mode, created_at, total_return, win_rate,
			max_drawdown, sharpe_ratio, total_trades, final_equity, initial_capital)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, result.Strategy, string(result.Mode), time.Now().UTC(),
		result.TotalReturn, result.WinRate, result.MaxDrawdown, result.SharpeRatio,
		result.TotalTrades, result.FinalEquity.InexactFloat64(),
		result.InitialCapital.InexactFloat64())
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

// AggregateByStrategy computes mean and standard deviation of returns across
// all persisted runs of one strategy.
func (s *Store) AggregateByStrategy(ctx context.Context, strategy string) (*Aggregate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT total_return, sharpe_ratio, max_drawdown, win_rate, total_trades
		FROM runs WHERE strategy = ?`, strategy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var returns []float64
	var sharpeSum, ddSum, winSum, tradeSum float64
	for rows.Next() {
		var ret, sharpe, dd, win float64
		var trades int
		if err := rows.Scan(&ret, &sharpe, &dd, &win, &trades); err != nil {
			return nil, err
		}
		returns = append(returns, ret)
		sharpeSum += sharpe
		ddSum += dd
		winSum += win
		tradeSum += float64(trades)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	agg := &Aggregate{Runs: len(returns)}
	if len(returns) == 0 {
		return agg, nil
	}

	n := float64(len(returns))
	var retSum float64
	for _, r := range returns {
		retSum += r
	}
	agg.AvgReturn = retSum / n
	agg.AvgSharpe = sharpeSum / n
	agg.AvgDrawdown = ddSum / n
	agg.AvgWinRate = winSum / n
	agg.AvgTrades = tradeSum / n

	var varianceSum float64
	for _, r := range returns {
		diff := r - agg.AvgReturn
		varianceSum += diff * diff
	}
	agg.StdReturn = math.Sqrt(varianceSum / float64(len(returns)))
	return agg, nil
}

// RecentRuns lists the newest persisted runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy, mode, created_at, total_return, win_rate, sharpe_ratio, total_trades
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var mode string
		if err := rows.Scan(&rec.ID, &rec.Strategy, &mode, &rec.CreatedAt,
			&rec.TotalReturn, &rec.WinRate, &rec.SharpeRatio, &rec.TotalTrades); err != nil {
			return nil, err
		}
		rec.Mode = types.Mode(mode)
		records = append(records, rec)
	}
	return records, rows.Err()
}
