package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetledger/fleetledger/internal/model"
)

var testFiles = Files{
	Collections: "collections.csv",
	Expenses:    "expenses.csv",
	Investments: "investments.csv",
	Bank:        "bank.csv",
}

func TestLoad_Testdata(t *testing.T) {
	snap, err := Load(context.Background(), "../../testdata", testFiles)
	require.NoError(t, err)

	assert.Equal(t, model.StreamCollection, snap.Collections.Stream)
	assert.Equal(t, "Date", snap.Collections.Header[0])
	assert.NotEmpty(t, snap.Collections.Rows)
	assert.Len(t, snap.Expenses.Rows, 3)
	assert.Len(t, snap.Investments.Rows, 1)
	assert.Len(t, snap.Bank.Rows, 6)
	assert.Len(t, snap.Tables(), 4)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"),
		[]byte("date,actor,transaction_type,amount\n"), 0o644))

	snap, err := Load(context.Background(), dir, testFiles)
	require.NoError(t, err)

	assert.Nil(t, snap.Collections.Header)
	assert.Nil(t, snap.Expenses.Header)
	tables := snap.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, model.StreamBank, tables[0].Stream)
	assert.Empty(t, tables[0].Rows)
}

func TestLoad_BlankName(t *testing.T) {
	snap, err := Load(context.Background(), "../../testdata", Files{Bank: "bank.csv"})
	require.NoError(t, err)
	assert.Len(t, snap.Tables(), 1)
}

func TestLoad_StrayQuoteKeepsRows(t *testing.T) {
	dir := t.TempDir()
	body := "date,reason,amount_used,spent_by\n" +
		"01/09/2025,Diesel,120,Ravi\n" +
		"02/09/2025,Wiper 20\" blade,35,Ravi\n" +
		"03/09/2025,Tyres,50,Sunil\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expenses.csv"), []byte(body), 0o644))

	snap, err := Load(context.Background(), dir, testFiles)
	require.NoError(t, err)
	require.Len(t, snap.Expenses.Rows, 3)
	assert.Equal(t, `Wiper 20" blade`, snap.Expenses.Rows[1][1])
}

func TestLoad_Unreadable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "expenses.csv"), 0o755))

	_, err := Load(context.Background(), dir, testFiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expenses.csv")
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, "../../testdata", testFiles)
	assert.ErrorIs(t, err, context.Canceled)
}
