package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/korzinka-settlement/internal/domain/money"
)

// Warning is a non-fatal anomaly detected while assembling a report.
type Warning string

const (
	// WarnUnpricedRate means the order rate is not positive and every foreign
	// figure derived from local amounts is zero because it is unconvertible.
	WarnUnpricedRate Warning = "unpriced_rate"
	// WarnDiscountExceedsTotal means the discount was larger than the gross
	// total and the amount due was clamped to zero.
	WarnDiscountExceedsTotal Warning = "discount_exceeds_total"
	// WarnGrossTotalMismatch means the supplied gross total disagrees with
	// the line sale prices converted at the order rate.
	WarnGrossTotalMismatch Warning = "gross_total_mismatch"
)

// grossTolerance is the largest accepted gap, in local units, between the
// supplied gross total and the one derived from lines.
var grossTolerance = decimal.NewFromInt(1)

// Report is the settlement of one order. It is recomputed from the order on
// every call and never patched.
type Report struct {
	Rate            money.Rate
	GrossTotalLocal money.Local
	DiscountLocal   money.Local

	TotalPaidLocal   money.Local
	TotalPaidForeign money.Foreign
	AmountDueLocal   money.Local
	AmountDueForeign money.Foreign

	ClientDebtForeign money.Foreign
	ClientDebtLocal   money.Local

	Groups             []ProfitGroup
	GrandProfitForeign money.Foreign

	Warnings []Warning
}

// Unpriced reports whether foreign figures could not be derived.
func (r Report) Unpriced() bool {
	return r.HasWarning(WarnUnpricedRate)
}

// HasWarning reports whether w was raised.
func (r Report) HasWarning(w Warning) bool {
	for _, got := range r.Warnings {
		if got == w {
			return true
		}
	}
	return false
}

// Assemble reconciles payments, aggregates profit and merges both into a
// report. It does not modify o and is deterministic.
func Assemble(o Order) Report {
	rec := Reconcile(o.Payment, o.ExchangeRate, o.GrossTotalLocal, o.DiscountLocal)
	profit := Aggregate(o.Lines)

	var warnings []Warning
	if !o.ExchangeRate.Valid() {
		warnings = append(warnings, WarnUnpricedRate)
	}
	if rec.DiscountClamped {
		warnings = append(warnings, WarnDiscountExceedsTotal)
	}
	if o.ExchangeRate.Valid() && grossMismatch(o, profit) {
		warnings = append(warnings, WarnGrossTotalMismatch)
	}

	return Report{
		Rate:               o.ExchangeRate,
		GrossTotalLocal:    o.GrossTotalLocal,
		DiscountLocal:      o.DiscountLocal,
		TotalPaidLocal:     rec.TotalPaidLocal,
		TotalPaidForeign:   rec.TotalPaidForeign,
		AmountDueLocal:     rec.AmountDueLocal,
		AmountDueForeign:   rec.AmountDueForeign,
		ClientDebtForeign:  o.ClientDebtForeign,
		ClientDebtLocal:    money.ToLocal(o.ClientDebtForeign, o.ExchangeRate),
		Groups:             profit.Groups,
		GrandProfitForeign: profit.GrandProfitForeign,
		Warnings:           warnings,
	}
}

// grossMismatch compares the supplied gross total with the sum of group sale
// subtotals converted at the order rate.
func grossMismatch(o Order, p Profit) bool {
	var sale money.Foreign
	for _, g := range p.Groups {
		sale = sale.Add(g.SubtotalSaleForeign)
	}
	derived := money.ToLocal(sale, o.ExchangeRate)
	return derived.Sub(o.GrossTotalLocal).Abs().Decimal().GreaterThan(grossTolerance)
}
