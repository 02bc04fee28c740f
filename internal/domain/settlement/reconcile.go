package settlement

import (
	"github.com/xenking/korzinka-settlement/internal/domain/money"
)

// Reconciliation is the paid-versus-due summary of an order in both
// currencies. Change and remaining debt are left to the caller.
type Reconciliation struct {
	TotalPaidLocal   money.Local
	TotalPaidForeign money.Foreign
	AmountDueLocal   money.Local
	AmountDueForeign money.Foreign
	// DiscountClamped is set when the discount exceeded the gross total and
	// the due amount was floored at zero.
	DiscountClamped bool
}

// Reconcile sums every payment instrument in local currency and computes the
// discounted amount due. It never fails.
func Reconcile(p Payment, rate money.Rate, grossTotal, discount money.Local) Reconciliation {
	paid := p.CashLocal.
		Add(money.ToLocal(p.CashForeign, rate)).
		Add(p.TransferLocal).
		Add(p.TerminalLocal)

	due := grossTotal.Sub(discount)
	clamped := due.IsNegative()
	due = due.FloorAtZero()

	return Reconciliation{
		TotalPaidLocal:   paid,
		TotalPaidForeign: money.ToForeign(paid, rate),
		AmountDueLocal:   due,
		AmountDueForeign: money.ToForeign(due, rate),
		DiscountClamped:  clamped,
	}
}
