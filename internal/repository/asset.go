package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"stocksim/types"
)

const getAssetByTicker = `
SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1`

// GetAssetByTicker retrieves a types.Asset by its ticker.
func (db *Database) GetAssetByTicker(ctx context.Context, ticker string) (*types.Asset, error) {
	var (
		asset                 types.Asset
		createdAt, modifiedAt *time.Time
	)
	row := db.conn.QueryRow(ctx, getAssetByTicker, ticker)
	err := row.Scan(&asset.Id, &asset.Ticker, &asset.Name, &asset.Type, &createdAt, &modifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticker %s %w", ticker, ErrAssetNotFound)
		}
		return nil, err
	}
	if createdAt != nil {
		asset.CreatedAt = *createdAt
	}
	if modifiedAt != nil {
		asset.ModifiedAt = *modifiedAt
	}
	return &asset, nil
}
