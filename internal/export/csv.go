// Package export writes derived tables as flat UTF-8 CSV with a header row.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fleetledger/fleetledger/internal/aggregate"
	"github.com/fleetledger/fleetledger/internal/reconcile"
)

const (
	moneyPlaces    = 2
	distancePlaces = 0
)

// TableHeader returns the header for a grouped table.
func TableHeader(t aggregate.Table) []string {
	h := make([]string, 0, len(t.Dimensions)+4)
	for _, d := range t.Dimensions {
		h = append(h, string(d))
	}
	return append(h, "sum", "count", "average", "distance")
}

// MarshalRow converts a grouped row to CSV cells.
func MarshalRow(r aggregate.Row) []string {
	row := make([]string, 0, len(r.Key)+4)
	row = append(row, r.Key...)
	return append(row,
		r.Sum.StringFixed(moneyPlaces),
		strconv.Itoa(r.Count),
		r.Average.StringFixed(moneyPlaces),
		r.Distance.StringFixed(distancePlaces),
	)
}

// WriteTable writes a grouped table.
func WriteTable(w io.Writer, t aggregate.Table) error {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = MarshalRow(r)
	}
	return write(w, TableHeader(t), rows)
}

// ChangesHeader is the header for month-over-month series.
var ChangesHeader = []string{"period", "value", "count", "change_pct"}

// WriteChanges writes a month-over-month series.
func WriteChanges(w io.Writer, changes []aggregate.Change) error {
	rows := make([][]string, len(changes))
	for i, c := range changes {
		rows[i] = []string{
			string(c.Period),
			c.Value.StringFixed(moneyPlaces),
			strconv.Itoa(c.Count),
			c.Percent.StringFixed(moneyPlaces),
		}
	}
	return write(w, ChangesHeader, rows)
}

// VehiclesHeader is the header for vehicle summaries.
var VehiclesHeader = []string{"vehicle_id", "trips", "collection", "distance", "expense", "average_collection", "per_distance", "net"}

// WriteVehicles writes vehicle summaries.
func WriteVehicles(w io.Writer, vs []aggregate.VehicleSummary) error {
	rows := make([][]string, len(vs))
	for i, v := range vs {
		rows[i] = []string{
			v.VehicleID,
			strconv.Itoa(v.Trips),
			v.Collection.StringFixed(moneyPlaces),
			v.Distance.StringFixed(distancePlaces),
			v.Expense.StringFixed(moneyPlaces),
			v.AverageCollection.StringFixed(moneyPlaces),
			v.PerDistance.StringFixed(moneyPlaces),
			v.Net.StringFixed(moneyPlaces),
		}
	}
	return write(w, VehiclesHeader, rows)
}

// TripsHeader is the header for one vehicle's distance series.
var TripsHeader = []string{"trip", "distance"}

// WriteTrips writes per-trip distances numbered from 1.
func WriteTrips(w io.Writer, distances []decimal.Decimal) error {
	rows := make([][]string, len(distances))
	for i, d := range distances {
		rows[i] = []string{strconv.Itoa(i + 1), d.StringFixed(distancePlaces)}
	}
	return write(w, TripsHeader, rows)
}

// BalanceHeader is the header for the per-actor balance export.
var BalanceHeader = []string{
	"actor", "total_collection", "total_expense", "total_investment",
	"bank_collection_credit", "bank_settlement_credit", "bank_settlement_debit", "remaining_fund",
}

// WriteBalanceSheet writes one row per actor, an unattributed row when it is
// non-empty, then the global bank and net balances.
func WriteBalanceSheet(w io.Writer, s reconcile.BalanceSheet, name func(reconcile.ActorBalance) string) error {
	var rows [][]string
	for _, a := range s.Actors {
		rows = append(rows, marshalActor(name(a), a))
	}
	if !isEmpty(s.Unattributed) {
		rows = append(rows, marshalActor(name(s.Unattributed), s.Unattributed))
	}
	blank := make([]string, len(BalanceHeader)-2)
	rows = append(rows,
		append(append([]string{"bank_balance"}, blank...), s.BankBalance.StringFixed(moneyPlaces)),
		append(append([]string{"net_balance"}, blank...), s.NetBalance.StringFixed(moneyPlaces)),
	)
	return write(w, BalanceHeader, rows)
}

func marshalActor(label string, a reconcile.ActorBalance) []string {
	return []string{
		label,
		a.TotalCollection.StringFixed(moneyPlaces),
		a.TotalExpense.StringFixed(moneyPlaces),
		a.TotalInvestment.StringFixed(moneyPlaces),
		a.BankCollectionCredit.StringFixed(moneyPlaces),
		a.BankSettlementCredit.StringFixed(moneyPlaces),
		a.BankSettlementDebit.StringFixed(moneyPlaces),
		a.RemainingFund.StringFixed(moneyPlaces),
	}
}

func isEmpty(a reconcile.ActorBalance) bool {
	for _, d := range []decimal.Decimal{
		a.TotalCollection, a.TotalExpense, a.TotalInvestment,
		a.BankCollectionCredit, a.BankSettlementCredit, a.BankSettlementDebit,
	} {
		if !d.IsZero() {
			return false
		}
	}
	return true
}

func write(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
