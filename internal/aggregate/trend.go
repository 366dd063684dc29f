package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/period"
)

// Change is one month of a month-over-month series.
type Change struct {
	Period  period.Key
	Value   decimal.Decimal
	Count   int
	Percent decimal.Decimal // change from the previous listed month, in percent
}

// percentPlaces is the precision of month-over-month percentages.
const percentPlaces = 2

var hundred = decimal.NewFromInt(100)

// MonthOverMonth totals facts per period in chronological order and computes
// the percent change from the previous period that has data. The first
// period's change is 0, as is any change from a zero month. Undated facts are
// skipped.
func MonthOverMonth(facts []Fact) []Change {
	t := Group(facts, ByPeriod)
	out := make([]Change, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = Change{Period: period.Key(r.Key[0]), Value: r.Sum, Count: r.Count}
	}
	sort.SliceStable(out, func(i, j int) bool { return period.Less(out[i].Period, out[j].Period) })

	for i := range out {
		if i == 0 {
			out[i].Percent = decimal.Zero
			continue
		}
		out[i].Percent = percentChange(out[i-1].Value, out[i].Value)
	}
	return out
}

func percentChange(prev, cur decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Mul(hundred).DivRound(prev.Abs(), percentPlaces)
}
