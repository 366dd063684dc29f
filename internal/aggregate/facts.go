// Package aggregate builds the grouped tables consumed by reports and exports.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/normalize"
	"github.com/fleetledger/fleetledger/internal/period"
)

// Fact is one record from any stream flattened onto the shared dimensions.
type Fact struct {
	Stream   model.Stream
	Actor    model.Actor
	Vehicle  string
	Period   period.Key
	Type     string // expense reason, investment type or bank transaction kind
	Source   string // investment source; empty for other streams
	Amount   decimal.Decimal
	Distance decimal.Decimal
}

// Facts flattens a batch in stream order: collections, expenses, manual and
// bank-credited investments, then bank movements. Bank amounts carry the
// transaction's sign.
func Facts(b *normalize.Batch) []Fact {
	facts := make([]Fact, 0, len(b.Collections)+len(b.Expenses)+len(b.Investments)+len(b.Bank)*2)
	for _, c := range b.Collections {
		facts = append(facts, Fact{
			Stream:   model.StreamCollection,
			Actor:    c.ReceivedBy,
			Vehicle:  c.VehicleID,
			Period:   c.Period,
			Amount:   c.Amount,
			Distance: c.Distance,
		})
	}
	for _, e := range b.Expenses {
		facts = append(facts, Fact{
			Stream:  model.StreamExpense,
			Actor:   e.SpentBy,
			Vehicle: e.VehicleID,
			Period:  e.Period,
			Type:    e.Reason,
			Amount:  e.Amount,
		})
	}
	for _, inv := range b.AllInvestments() {
		facts = append(facts, Fact{
			Stream: model.StreamInvestment,
			Actor:  inv.Investor,
			Period: inv.Period,
			Type:   inv.Type,
			Source: string(inv.Source),
			Amount: inv.Amount,
		})
	}
	for _, t := range b.Bank {
		facts = append(facts, Fact{
			Stream: model.StreamBank,
			Actor:  t.Actor,
			Period: t.Period,
			Type:   t.Kind.String(),
			Amount: t.Signed(),
		})
	}
	return facts
}

// Filter returns the facts of one stream.
func Filter(facts []Fact, stream model.Stream) []Fact {
	var out []Fact
	for _, f := range facts {
		if f.Stream == stream {
			out = append(out, f)
		}
	}
	return out
}
