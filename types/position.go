package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is an open holding inside a ledger. AvgPrice is the
// quantity-weighted mean of all additions since the position was last fully
// closed; Quantity is always positive while the position exists.
type Position struct {
	Symbol      string
	Quantity    int64
	AvgPrice    decimal.Decimal
	EntryDate   time.Time
	Strategy    string
	EntryReason string
}

// HoldingDays is the whole number of days the position has been open at date.
func (p *Position) HoldingDays(date time.Time) int {
	return int(date.Sub(p.EntryDate) / (24 * time.Hour))
}
