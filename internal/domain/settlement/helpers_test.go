package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/korzinka-settlement/internal/domain/money"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	x := d(v)
	return &x
}

func ip(v int64) *int64 {
	return &v
}

func fx(v string) money.Foreign { return money.ForeignFromString(v) }
func lc(v string) money.Local { return money.LocalFromString(v) }

func line(key string, qty int64, cost, sale string) Line {
	return Line{
		GroupKey:        key,
		Quantity:        qty,
		UnitCostForeign: fx(cost),
		UnitSaleForeign: fx(sale),
	}
}
