package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToLocal(t *testing.T) {
	tests := []struct {
		name   string
		amount Foreign
		rate   Rate
		want   Local
	}{
		{"whole dollars", ForeignFromString("10"), RateFromString("12500"), LocalFromString("125000")},
		{"cents", ForeignFromString("3.33"), RateFromString("12650.5"), LocalFromString("42126.165")},
		{"zero amount", Foreign{}, RateFromString("12500"), Local{}},
		{"zero rate", ForeignFromString("10"), RateFromString("0"), Local{}},
		{"negative rate", ForeignFromString("10"), RateFromString("-1"), Local{}},
		{"unset rate", ForeignFromString("10"), Rate{}, Local{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToLocal(tt.amount, tt.rate)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestToForeign(t *testing.T) {
	tests := []struct {
		name   string
		amount Local
		rate   Rate
		want   Foreign
	}{
		{"exact", LocalFromString("175000"), RateFromString("12500"), ForeignFromString("14")},
		{"fractional", LocalFromString("6250"), RateFromString("12500"), ForeignFromString("0.5")},
		{"zero rate", LocalFromString("175000"), RateFromString("0"), Foreign{}},
		{"negative rate", LocalFromString("175000"), RateFromString("-12500"), Foreign{}},
		{"unset rate", LocalFromString("175000"), Rate{}, Foreign{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToForeign(tt.amount, tt.rate)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestConversionRoundTrip(t *testing.T) {
	rates := []string{"1", "0.85", "12500", "12650.5", "11987.37"}
	amounts := []string{"0", "0.01", "1", "10.37", "999999.99", "-42.5"}
	tolerance := decimal.New(1, -12)

	for _, r := range rates {
		for _, a := range amounts {
			rate := RateFromString(r)
			amount := ForeignFromString(a)

			got := ToForeign(ToLocal(amount, rate), rate)
			diff := got.Decimal().Sub(amount.Decimal()).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"rate %s amount %s: round trip gave %s", r, a, got)
		}
	}
}

func TestRateValid(t *testing.T) {
	assert.True(t, RateFromString("0.0001").Valid())
	assert.False(t, RateFromString("0").Valid())
	assert.False(t, RateFromString("-5").Valid())
	assert.False(t, Rate{}.Valid())
}

func TestLocalFloorAtZero(t *testing.T) {
	assert.True(t, LocalFromString("0").Equal(LocalFromString("-50000").FloorAtZero()))
	assert.True(t, LocalFromString("50000").Equal(LocalFromString("50000").FloorAtZero()))
}

func TestForeignMulInt(t *testing.T) {
	got := ForeignFromString("12.5").MulInt(3)
	assert.True(t, ForeignFromString("37.5").Equal(got))
	assert.True(t, ForeignFromString("12.5").MulInt(0).IsZero())
}
