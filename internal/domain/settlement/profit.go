package settlement

import (
	"github.com/xenking/korzinka-settlement/internal/domain/money"
)

// ProfitGroup is the roll-up of every line sharing a group key.
type ProfitGroup struct {
	GroupKey               string
	LineCount              int
	TotalQuantity          int64
	TotalDeliveredQuantity int64
	SubtotalCostForeign    money.Foreign
	SubtotalSaleForeign    money.Foreign
	SubtotalProfitForeign  money.Foreign
}

// PendingQuantity returns how many units are still to be delivered.
func (g ProfitGroup) PendingQuantity() int64 {
	if g.TotalDeliveredQuantity >= g.TotalQuantity {
		return 0
	}
	return g.TotalQuantity - g.TotalDeliveredQuantity
}

// Profit is the result of Aggregate.
type Profit struct {
	Groups             []ProfitGroup
	GrandProfitForeign money.Foreign
}

// Aggregate groups lines by GroupKey in first-seen order. The grand total is
// summed over groups, not lines, so the two paths can be checked against each
// other.
func Aggregate(lines []Line) Profit {
	groups := make([]ProfitGroup, 0)
	index := make(map[string]int)

	for _, l := range lines {
		i, ok := index[l.GroupKey]
		if !ok {
			i = len(groups)
			index[l.GroupKey] = i
			groups = append(groups, ProfitGroup{GroupKey: l.GroupKey})
		}

		g := &groups[i]
		g.LineCount++
		g.TotalQuantity += l.Quantity
		g.TotalDeliveredQuantity += l.DeliveredQuantity
		g.SubtotalCostForeign = g.SubtotalCostForeign.Add(l.UnitCostForeign.MulInt(l.Quantity))
		g.SubtotalSaleForeign = g.SubtotalSaleForeign.Add(l.UnitSaleForeign.MulInt(l.Quantity))
		g.SubtotalProfitForeign = g.SubtotalProfitForeign.Add(l.Profit())
	}

	var grand money.Foreign
	for _, g := range groups {
		grand = grand.Add(g.SubtotalProfitForeign)
	}

	return Profit{
		Groups:             groups,
		GrandProfitForeign: grand,
	}
}
