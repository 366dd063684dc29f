// Package engine runs a full reconciliation pass over an immutable snapshot of
// the four ledger streams. A run holds no state between calls; the same
// snapshot may be reconciled concurrently.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/actors"
	"github.com/fleetledger/fleetledger/internal/aggregate"
	"github.com/fleetledger/fleetledger/internal/distance"
	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/normalize"
	"github.com/fleetledger/fleetledger/internal/reconcile"
)

// Snapshot is the raw input of one run. A stream with neither header nor rows
// was not supplied and counts as empty; a header without required columns is
// an error.
type Snapshot struct {
	Collections normalize.Table
	Expenses    normalize.Table
	Investments normalize.Table
	Bank        normalize.Table
}

// Tables returns the snapshot's tables in stream order, skipping streams that
// were never supplied.
func (s Snapshot) Tables() []normalize.Table {
	var out []normalize.Table
	for _, t := range []struct {
		stream model.Stream
		table  normalize.Table
	}{
		{model.StreamCollection, s.Collections},
		{model.StreamExpense, s.Expenses},
		{model.StreamInvestment, s.Investments},
		{model.StreamBank, s.Bank},
	} {
		if t.table.Header == nil && t.table.Rows == nil {
			continue
		}
		tbl := t.table
		tbl.Stream = t.stream
		out = append(out, tbl)
	}
	return out
}

// Options configures a run.
type Options struct {
	Actors   *actors.Registry
	Policy   distance.Policy
	Registry *normalize.Registry // nil selects normalize.DefaultRegistry
}

// Result is every derived table of a run.
type Result struct {
	Batch    *normalize.Batch
	Distance distance.Report
	Sheet    reconcile.BalanceSheet
	Facts    []aggregate.Fact
	Warnings []error
}

// Run normalizes, estimates distances, reconciles and flattens the snapshot.
// A stream that fails normalization contributes no records; the remaining
// streams are still reconciled and the partial Result is returned together
// with the joined stream errors.
func Run(snap Snapshot, opts Options) (*Result, error) {
	if opts.Actors == nil {
		return nil, fmt.Errorf("engine: no actor registry configured")
	}
	reg := opts.Registry
	if reg == nil {
		reg = normalize.DefaultRegistry()
	}

	batch, normErr := reg.Normalize(snap.Tables(), opts.Actors)

	var rep distance.Report
	batch.Collections, rep = distance.Estimate(batch.Collections, opts.Policy)

	res := &Result{
		Batch:    batch,
		Distance: rep,
		Sheet:    reconcile.Reconcile(batch, opts.Actors.IDs()),
		Facts:    aggregate.Facts(batch),
		Warnings: batch.Warnings,
	}
	return res, normErr
}

// Group groups one stream's facts. An empty stream groups every fact.
func (r *Result) Group(stream model.Stream, dims ...aggregate.Dimension) aggregate.Table {
	facts := r.Facts
	if stream != "" {
		facts = aggregate.Filter(facts, stream)
	}
	return aggregate.Group(facts, dims...)
}

// Trend returns one stream's month-over-month series.
func (r *Result) Trend(stream model.Stream) []aggregate.Change {
	return aggregate.MonthOverMonth(aggregate.Filter(r.Facts, stream))
}

// Vehicles returns the per-vehicle summary.
func (r *Result) Vehicles() []aggregate.VehicleSummary {
	return aggregate.Vehicles(r.Batch.Collections, r.Batch.Expenses)
}

// Trips returns one vehicle's per-trip distances in travel order, or nil if
// the vehicle has no collections.
func (r *Result) Trips(vehicle string) []decimal.Decimal {
	return distance.Series(r.Batch.Collections, vehicle)
}
