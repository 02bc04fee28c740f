package codec

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/korzinka-settlement/internal/domain/settlement"
)

// EncodeResults writes results as a JSON array of {id, report} or
// {id, error} objects.
func EncodeResults(e *jx.Encoder, results []settlement.Result) {
	e.ArrStart()
	for _, r := range results {
		encodeResult(e, r)
	}
	e.ArrEnd()
}

func encodeResult(e *jx.Encoder, r settlement.Result) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID)
	switch {
	case r.Err != nil:
		e.FieldStart("error")
		e.Str(r.Err.Error())
	case r.Report != nil:
		e.FieldStart("report")
		EncodeReport(e, *r.Report)
	}
	e.ObjEnd()
}

// EncodeReport writes a single settlement report object. Amounts are written
// as JSON numbers without rounding.
func EncodeReport(e *jx.Encoder, r settlement.Report) {
	e.ObjStart()
	num(e, "rate", r.Rate.Decimal())
	num(e, "gross_total_local", r.GrossTotalLocal.Decimal())
	num(e, "discount_local", r.DiscountLocal.Decimal())
	num(e, "total_paid_local", r.TotalPaidLocal.Decimal())
	num(e, "total_paid_foreign", r.TotalPaidForeign.Decimal())
	num(e, "amount_due_local", r.AmountDueLocal.Decimal())
	num(e, "amount_due_foreign", r.AmountDueForeign.Decimal())
	num(e, "client_debt_foreign", r.ClientDebtForeign.Decimal())
	num(e, "client_debt_local", r.ClientDebtLocal.Decimal())

	e.FieldStart("groups")
	e.ArrStart()
	for _, g := range r.Groups {
		encodeGroup(e, g)
	}
	e.ArrEnd()

	num(e, "grand_profit_foreign", r.GrandProfitForeign.Decimal())

	e.FieldStart("unpriced")
	e.Bool(r.Unpriced())

	e.FieldStart("warnings")
	e.ArrStart()
	for _, w := range r.Warnings {
		e.Str(string(w))
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeGroup(e *jx.Encoder, g settlement.ProfitGroup) {
	e.ObjStart()
	e.FieldStart("group_key")
	e.Str(g.GroupKey)
	e.FieldStart("line_count")
	e.Int(g.LineCount)
	e.FieldStart("total_quantity")
	e.Int64(g.TotalQuantity)
	e.FieldStart("total_delivered_quantity")
	e.Int64(g.TotalDeliveredQuantity)
	e.FieldStart("pending_quantity")
	e.Int64(g.PendingQuantity())
	num(e, "subtotal_cost_foreign", g.SubtotalCostForeign.Decimal())
	num(e, "subtotal_sale_foreign", g.SubtotalSaleForeign.Decimal())
	num(e, "subtotal_profit_foreign", g.SubtotalProfitForeign.Decimal())
	e.ObjEnd()
}

func num(e *jx.Encoder, field string, v decimal.Decimal) {
	e.FieldStart(field)
	e.Num(jx.Num(v.String()))
}
