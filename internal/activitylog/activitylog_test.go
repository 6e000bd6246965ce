package activitylog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespend-dev/safespend/internal/model"
)

var testTime = time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Command:   "add",
		Kind:      "transaction",
		Details:   "expense 150.00 Food at Lunch on 2025-06-10",
		RecordID:  "2025-06-001",
		Source:    "Lunch 150",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "add", entries[0].Command)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "activity.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), Header+"\n")
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Command = "settle"
	e2.Kind = "debt"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "add", entries[0].Command)
	assert.Equal(t, "settle", entries[1].Command)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Source = "Paid 900, split \"evenly\""
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, original.Timestamp.Equal(entries[0].Timestamp))
	assert.Equal(t, original.Source, entries[0].Source)
	assert.Equal(t, original.RecordID, entries[0].RecordID)
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_BadTimestamp(t *testing.T) {
	_, err := UnmarshalEntry([]string{"yesterday", "add", "", "", "", ""})
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	entries := []Entry{{Command: "a"}, {Command: "b"}, {Command: "c"}}
	assert.Len(t, Tail(entries, 0), 3)
	assert.Len(t, Tail(entries, 5), 3)
	got := Tail(entries, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Command)
}

func TestDescribe(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		action model.Action
		want   string
	}{
		{
			model.TransactionAction{Amount: decimal.NewFromInt(900), Type: model.EntryExpense, Category: "Food", Merchant: "Dinner", Date: day, SplitWith: []string{"Sam", "Tom"}},
			"expense 900.00 Food at Dinner on 2025-06-10 split with Sam, Tom",
		},
		{
			model.DebtAction{PersonName: "Jane", Amount: decimal.NewFromInt(500), Direction: model.DirectionReceivable, DueDate: day},
			"receivable 500.00 Jane due 2025-06-10",
		},
		{
			model.RecurringAction{Name: "Salary", Amount: decimal.NewFromInt(50000), Type: model.EntryIncome, Frequency: model.FrequencyMonthly, ExpectedDate: model.ExpectedLastWorking},
			"monthly income 50000.00 Salary on last-working",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.action, 2))
	}
}

func TestDescribe_Places(t *testing.T) {
	debt := model.DebtAction{PersonName: "Jane", Amount: decimal.NewFromInt(500), Direction: model.DirectionPayable}
	assert.Equal(t, "payable 500 Jane", Describe(debt, 0))
	assert.Equal(t, "payable 500.000 Jane", Describe(debt, 3))
}
