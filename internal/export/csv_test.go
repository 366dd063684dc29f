package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetledger/fleetledger/internal/aggregate"
	"github.com/fleetledger/fleetledger/internal/model"
	"github.com/fleetledger/fleetledger/internal/normalize"
	"github.com/fleetledger/fleetledger/internal/reconcile"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func readBack(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteTable(t *testing.T) {
	tbl := aggregate.Table{
		Dimensions: []aggregate.Dimension{aggregate.ByVehicle, aggregate.ByPeriod},
		Rows: []aggregate.Row{
			{Key: []string{"007", "2025-09"}, Sum: dec("800"), Count: 2, Average: dec("400"), Distance: dec("185")},
			{Key: []string{"KA-01, AB", "2025-08"}, Sum: dec("10.5"), Count: 1, Average: dec("10.5")},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tbl))

	records := readBack(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"vehicle", "period", "sum", "count", "average", "distance"}, records[0])
	assert.Equal(t, []string{"007", "2025-09", "800.00", "2", "400.00", "185"}, records[1])
	assert.Equal(t, "KA-01, AB", records[2][0], "keys with commas are quoted")
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, aggregate.Table{Dimensions: []aggregate.Dimension{aggregate.ByActor}}))
	assert.Equal(t, "actor,sum,count,average,distance\n", buf.String())
}

func TestWriteChanges(t *testing.T) {
	var buf bytes.Buffer
	err := WriteChanges(&buf, []aggregate.Change{
		{Period: "2025-08", Value: dec("100"), Count: 1, Percent: decimal.Zero},
		{Period: "2025-09", Value: dec("800"), Count: 2, Percent: dec("700")},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"period,value,count,change_pct",
		"2025-08,100.00,1,0.00",
		"2025-09,800.00,2,700.00",
	}, lines)
}

func TestWriteVehicles(t *testing.T) {
	var buf bytes.Buffer
	err := WriteVehicles(&buf, []aggregate.VehicleSummary{{
		VehicleID: "V1", Trips: 2, Collection: dec("370"), Distance: dec("150"),
		Expense: dec("120"), AverageCollection: dec("185"), PerDistance: dec("2.47"), Net: dec("250"),
	}})
	require.NoError(t, err)
	records := readBack(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, VehiclesHeader, records[0])
	assert.Equal(t, []string{"V1", "2", "370.00", "150", "120.00", "185.00", "2.47", "250.00"}, records[1])
}

func TestWriteBalanceSheet(t *testing.T) {
	b := &normalize.Batch{
		Collections: []model.CollectionRecord{
			{ReceivedBy: "A", Amount: dec("1000")},
			{ReceivedBy: model.Unattributed, Amount: dec("5")},
		},
		Bank: []model.BankTransaction{{Actor: "A", Kind: model.CollectionCredit, Amount: dec("300")}},
	}
	s := reconcile.Reconcile(b, []model.Actor{"A", "B"})
	name := func(a reconcile.ActorBalance) string {
		if a.Actor == model.Unattributed {
			return "Unattributed"
		}
		return string(a.Actor)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBalanceSheet(&buf, s, name))
	records := readBack(t, &buf)
	require.Len(t, records, 6)
	assert.Equal(t, BalanceHeader, records[0])
	assert.Equal(t, []string{"A", "1000.00", "0.00", "0.00", "300.00", "0.00", "0.00", "700.00"}, records[1])
	assert.Equal(t, "B", records[2][0])
	assert.Equal(t, "Unattributed", records[3][0])
	assert.Equal(t, "bank_balance", records[4][0])
	assert.Equal(t, "300.00", records[4][len(BalanceHeader)-1])
	assert.Equal(t, "net_balance", records[5][0])
	assert.Equal(t, "1005.00", records[5][len(BalanceHeader)-1])
}

func TestWriteBalanceSheet_NoUnattributedRow(t *testing.T) {
	s := reconcile.Reconcile(&normalize.Batch{}, []model.Actor{"A"})
	var buf bytes.Buffer
	require.NoError(t, WriteBalanceSheet(&buf, s, func(a reconcile.ActorBalance) string { return string(a.Actor) }))
	records := readBack(t, &buf)
	assert.Len(t, records, 4, "header, A, bank_balance, net_balance")
}

func TestWriteTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrips(&buf, []decimal.Decimal{dec("0"), dec("150"), dec("189.6")}))

	assert.Equal(t, [][]string{
		{"trip", "distance"},
		{"1", "0"},
		{"2", "150"},
		{"3", "190"},
	}, readBack(t, &buf))
}
