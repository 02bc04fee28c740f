// Package settlement reconciles order payments across instruments and rolls
// line-item profit up into per-model groups.
package settlement

import (
	"github.com/xenking/korzinka-settlement/internal/domain/money"
)

// Order is a normalized, validated order snapshot. Build one with Draft.Build.
type Order struct {
	Lines             []Line
	ExchangeRate      money.Rate
	Payment           Payment
	DiscountLocal     money.Local
	GrossTotalLocal   money.Local
	ClientDebtForeign money.Foreign
}

// Line is one sold product batch. GroupKey is the parent model display name
// and only selects the aggregation bucket.
type Line struct {
	GroupKey          string
	Quantity          int64
	UnitCostForeign   money.Foreign
	UnitSaleForeign   money.Foreign
	DeliveredQuantity int64
}

// Profit returns (sale - cost) * quantity. It may be negative.
func (l Line) Profit() money.Foreign {
	return l.UnitSaleForeign.Sub(l.UnitCostForeign).MulInt(l.Quantity)
}

// Payment holds the amounts received per payment instrument.
type Payment struct {
	CashForeign   money.Foreign
	CashLocal     money.Local
	TransferLocal money.Local
	TerminalLocal money.Local
}
