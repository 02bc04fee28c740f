package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xenking/korzinka-settlement/internal/domain/money"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		payment     Payment
		rate        string
		gross       string
		discount    string
		paidLocal   string
		paidForeign string
		dueLocal    string
		dueForeign  string
		clamped     bool
	}{
		{
			name:        "cash in both currencies",
			payment:     Payment{CashForeign: fx("10"), CashLocal: lc("50000")},
			rate:        "12500",
			gross:       "175000",
			discount:    "0",
			paidLocal:   "175000",
			paidForeign: "14",
			dueLocal:    "175000",
			dueForeign:  "14",
		},
		{
			name: "all instruments",
			payment: Payment{
				CashForeign:   fx("2"),
				CashLocal:     lc("1000"),
				TransferLocal: lc("20000"),
				TerminalLocal: lc("4000"),
			},
			rate:        "12500",
			gross:       "62500",
			discount:    "12500",
			paidLocal:   "50000",
			paidForeign: "4",
			dueLocal:    "50000",
			dueForeign:  "4",
		},
		{
			name:        "discount exceeds total",
			payment:     Payment{},
			rate:        "12500",
			gross:       "200000",
			discount:    "250000",
			paidLocal:   "0",
			paidForeign: "0",
			dueLocal:    "0",
			dueForeign:  "0",
			clamped:     true,
		},
		{
			name:        "discount equals total",
			payment:     Payment{},
			rate:        "12500",
			gross:       "200000",
			discount:    "200000",
			paidLocal:   "0",
			paidForeign: "0",
			dueLocal:    "0",
			dueForeign:  "0",
		},
		{
			name:        "zero rate drops foreign cash and foreign totals",
			payment:     Payment{CashForeign: fx("10"), CashLocal: lc("50000")},
			rate:        "0",
			gross:       "100000",
			discount:    "0",
			paidLocal:   "50000",
			paidForeign: "0",
			dueLocal:    "100000",
			dueForeign:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.payment, money.RateFromString(tt.rate), lc(tt.gross), lc(tt.discount))

			assert.True(t, lc(tt.paidLocal).Equal(got.TotalPaidLocal), "paid local %s", got.TotalPaidLocal)
			assert.True(t, fx(tt.paidForeign).Equal(got.TotalPaidForeign), "paid foreign %s", got.TotalPaidForeign)
			assert.True(t, lc(tt.dueLocal).Equal(got.AmountDueLocal), "due local %s", got.AmountDueLocal)
			assert.True(t, fx(tt.dueForeign).Equal(got.AmountDueForeign), "due foreign %s", got.AmountDueForeign)
			assert.Equal(t, tt.clamped, got.DiscountClamped)
		})
	}
}

func TestReconcile_Additivity(t *testing.T) {
	rate := money.RateFromString("12500")
	base := Payment{
		CashForeign:   fx("3"),
		CashLocal:     lc("1000"),
		TransferLocal: lc("2000"),
		TerminalLocal: lc("3000"),
	}
	before := Reconcile(base, rate, lc("0"), lc("0")).TotalPaidLocal

	delta := lc("777.77")
	bumps := map[string]func(p Payment) Payment{
		"cash local":     func(p Payment) Payment { p.CashLocal = p.CashLocal.Add(delta); return p },
		"transfer local": func(p Payment) Payment { p.TransferLocal = p.TransferLocal.Add(delta); return p },
		"terminal local": func(p Payment) Payment { p.TerminalLocal = p.TerminalLocal.Add(delta); return p },
	}
	for name, bump := range bumps {
		after := Reconcile(bump(base), rate, lc("0"), lc("0")).TotalPaidLocal
		assert.True(t, delta.Equal(after.Sub(before)), "%s: delta %s", name, after.Sub(before))
	}

	foreignDelta := fx("1.25")
	p := base
	p.CashForeign = p.CashForeign.Add(foreignDelta)
	after := Reconcile(p, rate, lc("0"), lc("0")).TotalPaidLocal
	assert.True(t, money.ToLocal(foreignDelta, rate).Equal(after.Sub(before)))
}

func TestReconcile_ZeroPayment(t *testing.T) {
	got := Reconcile(Payment{}, money.RateFromString("12500"), lc("0"), lc("0"))
	assert.True(t, got.TotalPaidLocal.IsZero())
	assert.True(t, got.TotalPaidForeign.IsZero())
}
