package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 9, 30, 18, 0, 0, 0, time.UTC)

func testEntry() Entry {
	e := NewEntry("balance", testTime)
	e.NetBalance = decimal.RequireFromString("4029.5")
	e.Warnings = 3
	return e
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("report", testTime.In(time.FixedZone("IST", 19800)))
	_, err := uuid.Parse(e.RunID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.NotEqual(t, e.RunID, NewEntry("report", testTime).RunID)
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), Header+"\n")
	assert.Contains(t, string(data), ",balance,4029.50,3\n")
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Command = "export"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "balance", entries[0].Command)
	assert.Equal(t, "export", entries[1].Command)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, original.RunID, got.RunID)
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.True(t, original.NetBalance.Equal(got.NetBalance))
	assert.Equal(t, original.Warnings, got.Warnings)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(Path(dir), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_BadRow(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	body := Header + "\nnot-a-uuid,2025-09-30T18:00:00Z,balance,1.00,0\n"
	require.NoError(t, os.WriteFile(Path(dir), []byte(body), 0o644))

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
