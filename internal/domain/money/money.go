// Package money provides currency-typed decimal amounts and conversion
// between the foreign (price) currency and the local (settlement) currency.
package money

import (
	"github.com/shopspring/decimal"
)

// Foreign is an amount denominated in the foreign currency (USD).
type Foreign struct {
	v decimal.Decimal
}

// Local is an amount denominated in the local currency (UZS).
type Local struct {
	v decimal.Decimal
}

// NewForeign wraps d as a foreign currency amount.
func NewForeign(d decimal.Decimal) Foreign { return Foreign{v: d} }

// NewLocal wraps d as a local currency amount.
func NewLocal(d decimal.Decimal) Local { return Local{v: d} }

// ForeignFromString parses a foreign amount, panicking on malformed input.
// Intended for constants and tests.
func ForeignFromString(s string) Foreign { return Foreign{v: decimal.RequireFromString(s)} }

// LocalFromString parses a local amount, panicking on malformed input.
// Intended for constants and tests.
func LocalFromString(s string) Local { return Local{v: decimal.RequireFromString(s)} }

// Decimal returns the underlying amount.
func (f Foreign) Decimal() decimal.Decimal { return f.v }

// Add returns f + o.
func (f Foreign) Add(o Foreign) Foreign { return Foreign{v: f.v.Add(o.v)} }

// Sub returns f - o.
func (f Foreign) Sub(o Foreign) Foreign { return Foreign{v: f.v.Sub(o.v)} }

// Mul scales f by a unitless factor.
func (f Foreign) Mul(d decimal.Decimal) Foreign { return Foreign{v: f.v.Mul(d)} }

// MulInt scales f by a unit count.
func (f Foreign) MulInt(n int64) Foreign { return Foreign{v: f.v.Mul(decimal.NewFromInt(n))} }

// Equal reports whether f and o hold the same value, ignoring scale.
func (f Foreign) Equal(o Foreign) bool { return f.v.Equal(o.v) }

// IsZero reports whether f is zero.
func (f Foreign) IsZero() bool { return f.v.IsZero() }

// IsNegative reports whether f is below zero.
func (f Foreign) IsNegative() bool { return f.v.IsNegative() }

// String formats f without rounding.
func (f Foreign) String() string { return f.v.String() }

// Decimal returns the underlying amount.
func (l Local) Decimal() decimal.Decimal { return l.v }

// Add returns l + o.
func (l Local) Add(o Local) Local { return Local{v: l.v.Add(o.v)} }

// Sub returns l - o.
func (l Local) Sub(o Local) Local { return Local{v: l.v.Sub(o.v)} }

// Mul scales l by a unitless factor.
func (l Local) Mul(d decimal.Decimal) Local { return Local{v: l.v.Mul(d)} }

// Equal reports whether l and o hold the same value, ignoring scale.
func (l Local) Equal(o Local) bool { return l.v.Equal(o.v) }

// GreaterThan reports whether l > o.
func (l Local) GreaterThan(o Local) bool { return l.v.GreaterThan(o.v) }

// IsZero reports whether l is zero.
func (l Local) IsZero() bool { return l.v.IsZero() }

// IsNegative reports whether l is below zero.
func (l Local) IsNegative() bool { return l.v.IsNegative() }

// String formats l without rounding.
func (l Local) String() string { return l.v.String() }

// Abs returns the absolute value of l.
func (l Local) Abs() Local { return Local{v: l.v.Abs()} }

// FloorAtZero clamps negative values to zero.
func (l Local) FloorAtZero() Local {
	if l.v.IsNegative() {
		return Local{}
	}
	return l
}

// Rate is the number of local units per one foreign unit, captured on the
// order at creation time.
type Rate struct {
	v decimal.Decimal
}

// NewRate wraps d as an exchange rate. Non-positive rates are accepted and
// make every conversion resolve to zero.
func NewRate(d decimal.Decimal) Rate { return Rate{v: d} }

// RateFromString parses a rate, panicking on malformed input.
func RateFromString(s string) Rate { return Rate{v: decimal.RequireFromString(s)} }

// Decimal returns the underlying rate.
func (r Rate) Decimal() decimal.Decimal { return r.v }

// String formats the rate without rounding.
func (r Rate) String() string { return r.v.String() }

// Valid reports whether the rate can convert amounts meaningfully.
func (r Rate) Valid() bool { return r.v.IsPositive() }

// ToLocal converts a foreign amount to local currency. No rounding is applied.
// A non-positive rate yields zero.
func ToLocal(amount Foreign, rate Rate) Local {
	if !rate.Valid() {
		return Local{}
	}
	return Local{v: amount.v.Mul(rate.v)}
}

// ToForeign converts a local amount to foreign currency. A non-positive rate
// yields zero instead of dividing by it; callers should treat that as
// "not convertible" rather than a real zero value.
func ToForeign(amount Local, rate Rate) Foreign {
	if !rate.Valid() {
		return Foreign{}
	}
	return Foreign{v: amount.v.Div(rate.v)}
}
