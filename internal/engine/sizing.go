package engine

import "github.com/shopspring/decimal"

// positionSize picks the largest whole-share quantity that satisfies the
// per-trade risk budget, the per-position value cap and available cash.
//
// The engine passes a cash-only valuation (TotalValue with no prices) as
// totalValue: open positions deliberately do not count toward the risk
// budget at sizing time. That conservative bias is part of the contract and
// must not be "fixed" to mark-to-market equity.
func positionSize(price, totalValue, cash decimal.Decimal, cfg RuleConfig) int64 {
	if price.LessThanOrEqual(decimal.Zero) {
		return 0
	}

	riskAmount := totalValue.Mul(decimal.NewFromFloat(cfg.RiskPerTrade))
	maxPositionValue := totalValue.Mul(decimal.NewFromFloat(cfg.MaxPositionSize))

	qty := minInt64(
		riskAmount.Div(price).IntPart(),
		maxPositionValue.Div(price).IntPart(),
		cash.Div(price).IntPart(),
	)
	if qty < 0 {
		return 0
	}
	return qty
}

func minInt64(values ...int64) int64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
