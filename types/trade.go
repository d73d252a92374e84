package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
)

// Trade is one closed (possibly partial) exit. Trades are append-only and
// never mutated after creation.
type Trade struct {
	Symbol        string          `json:"symbol"`
	EntryDate     time.Time       `json:"entryDate"`
	ExitDate      time.Time       `json:"exitDate"`
	EntryPrice    decimal.Decimal `json:"entryPrice"`
	ExitPrice     decimal.Decimal `json:"exitPrice"`
	Quantity      int64           `json:"quantity"`
	Side          Side            `json:"side"`
	Strategy      string          `json:"strategy"`
	EntryReason   string          `json:"entryReason"`
	ExitReason    string          `json:"exitReason"`
	ProfitLoss    decimal.Decimal `json:"profitLoss"`
	ProfitLossPct decimal.Decimal `json:"profitLossPct"`
	HoldingDays   int             `json:"holdingDays"`
}

// NewTrade builds the immutable record for a close of quantity shares bought
// at entryPrice and sold at exitPrice.
func NewTrade(symbol string, entryDate, exitDate time.Time, entryPrice, exitPrice decimal.Decimal,
	quantity int64, strategy, entryReason, exitReason string) Trade {
	qty := decimal.NewFromInt(quantity)
	return Trade{
		Symbol:        symbol,
		EntryDate:     entryDate,
		ExitDate:      exitDate,
		EntryPrice:    entryPrice,
		ExitPrice:     exitPrice,
		Quantity:      quantity,
		Side:          SideTypeSell,
		Strategy:      strategy,
		EntryReason:   entryReason,
		ExitReason:    exitReason,
		ProfitLoss:    exitPrice.Sub(entryPrice).Mul(qty),
		ProfitLossPct: exitPrice.Sub(entryPrice).Div(entryPrice),
		HoldingDays:   int(exitDate.Sub(entryDate) / (24 * time.Hour)),
	}
}
