package settlement

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/korzinka-settlement/internal/domain/money"
)

// ErrInvalidOrder is wrapped by every ValidationError.
var ErrInvalidOrder = errors.New("invalid order")

// ValidationError names the order field that violates its contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidOrder, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidOrder
}

// Draft is an order as received from a loader. Nil fields are absent and
// normalize to zero in Build.
type Draft struct {
	Lines             []LineDraft
	ExchangeRate      *decimal.Decimal
	Payment           PaymentDraft
	DiscountLocal     *decimal.Decimal
	GrossTotalLocal   *decimal.Decimal
	ClientDebtForeign *decimal.Decimal
}

// LineDraft is the unnormalized form of Line.
type LineDraft struct {
	GroupKey          string
	Quantity          *int64
	UnitCostForeign   *decimal.Decimal
	UnitSaleForeign   *decimal.Decimal
	DeliveredQuantity *int64
}

// PaymentDraft is the unnormalized form of Payment.
type PaymentDraft struct {
	CashForeign   *decimal.Decimal
	CashLocal     *decimal.Decimal
	TransferLocal *decimal.Decimal
	TerminalLocal *decimal.Decimal
}

// Amounts outside these bounds are rejected so that rescaling during
// addition stays cheap whatever the input says.
const (
	maxExponent        = 64
	maxCoefficientBits = 256
)

// Build fills absent fields with zero and rejects negative quantities and
// amounts, out-of-range amounts, and quantities whose order total does not
// fit in int64. The sign of the exchange rate is not validated: a
// non-positive rate is a legitimate "unpriced" order and is flagged on the
// report instead. Client debt is an external figure and may carry any sign.
func (d Draft) Build() (Order, error) {
	rate, err := bounded("exchange_rate", d.ExchangeRate)
	if err != nil {
		return Order{}, err
	}
	debt, err := bounded("client_debt_foreign", d.ClientDebtForeign)
	if err != nil {
		return Order{}, err
	}
	o := Order{
		ExchangeRate:      money.NewRate(rate),
		ClientDebtForeign: money.NewForeign(debt),
	}

	if o.DiscountLocal, err = nonNegativeLocal("discount_local", d.DiscountLocal); err != nil {
		return Order{}, err
	}
	if o.GrossTotalLocal, err = nonNegativeLocal("gross_total_local", d.GrossTotalLocal); err != nil {
		return Order{}, err
	}
	if o.Payment, err = d.Payment.build(); err != nil {
		return Order{}, err
	}

	var totalQty, totalDelivered int64
	o.Lines = make([]Line, len(d.Lines))
	for i, ld := range d.Lines {
		path := fmt.Sprintf("lines[%d]", i)
		line, err := ld.build(path)
		if err != nil {
			return Order{}, err
		}
		// Group totals never exceed order totals, so bounding the latter
		// keeps every aggregated count exact.
		if line.Quantity > math.MaxInt64-totalQty {
			return Order{}, &ValidationError{Field: path + ".quantity", Reason: "order total quantity overflows"}
		}
		if line.DeliveredQuantity > math.MaxInt64-totalDelivered {
			return Order{}, &ValidationError{Field: path + ".delivered_quantity", Reason: "order total delivered quantity overflows"}
		}
		totalQty += line.Quantity
		totalDelivered += line.DeliveredQuantity
		o.Lines[i] = line
	}

	return o, nil
}

func (p PaymentDraft) build() (Payment, error) {
	cash, err := nonNegative("payment.cash_foreign", p.CashForeign)
	if err != nil {
		return Payment{}, err
	}
	out := Payment{CashForeign: money.NewForeign(cash)}
	if out.CashLocal, err = nonNegativeLocal("payment.cash_local", p.CashLocal); err != nil {
		return Payment{}, err
	}
	if out.TransferLocal, err = nonNegativeLocal("payment.transfer_local", p.TransferLocal); err != nil {
		return Payment{}, err
	}
	if out.TerminalLocal, err = nonNegativeLocal("payment.terminal_local", p.TerminalLocal); err != nil {
		return Payment{}, err
	}
	return out, nil
}

func (l LineDraft) build(path string) (Line, error) {
	qty, err := nonNegativeCount(path+".quantity", l.Quantity)
	if err != nil {
		return Line{}, err
	}
	delivered, err := nonNegativeCount(path+".delivered_quantity", l.DeliveredQuantity)
	if err != nil {
		return Line{}, err
	}
	cost, err := nonNegative(path+".unit_cost_foreign", l.UnitCostForeign)
	if err != nil {
		return Line{}, err
	}
	sale, err := nonNegative(path+".unit_sale_foreign", l.UnitSaleForeign)
	if err != nil {
		return Line{}, err
	}

	return Line{
		GroupKey:          l.GroupKey,
		Quantity:          qty,
		UnitCostForeign:   money.NewForeign(cost),
		UnitSaleForeign:   money.NewForeign(sale),
		DeliveredQuantity: delivered,
	}, nil
}

func orZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

// bounded returns v or zero when absent, rejecting values whose exponent or
// coefficient size is out of range.
func bounded(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	d := orZero(v)
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, &ValidationError{Field: field, Reason: "exponent out of range"}
	}
	if d.Coefficient().BitLen() > maxCoefficientBits {
		return decimal.Zero, &ValidationError{Field: field, Reason: "too many digits"}
	}
	return d, nil
}

func nonNegative(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	d, err := bounded(field, v)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return d, nil
}

func nonNegativeLocal(field string, v *decimal.Decimal) (money.Local, error) {
	d, err := nonNegative(field, v)
	if err != nil {
		return money.Local{}, err
	}
	return money.NewLocal(d), nil
}

func nonNegativeCount(field string, v *int64) (int64, error) {
	if v == nil {
		return 0, nil
	}
	if *v < 0 {
		return 0, &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return *v, nil
}
