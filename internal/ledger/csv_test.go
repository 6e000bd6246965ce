package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespend-dev/safespend/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestTransactionsRoundTrip(t *testing.T) {
	txs := []model.Transaction{
		{ID: "2025-06-001", Date: "2025-06-10", Amount: dec("150.50"), Type: model.EntryExpense, Category: "Food", Merchant: "Zomato", Title: "Lunch, with team", Remarks: "paid \"cash\""},
		{ID: "2025-06-002", Date: "2025-06-11", Amount: dec("50000"), Type: model.EntryIncome, Category: "Salary", Merchant: "Acme", Title: "Salary"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txs))
	assert.True(t, strings.HasPrefix(buf.String(), "id,date,type,amount,"))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range txs {
		assert.Equal(t, txs[i].ID, got[i].ID)
		assert.Equal(t, txs[i].Date, got[i].Date)
		assert.True(t, txs[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.Equal(t, txs[i].Type, got[i].Type)
		assert.Equal(t, txs[i].Title, got[i].Title)
		assert.Equal(t, txs[i].Remarks, got[i].Remarks)
	}
}

func TestPlansRoundTrip(t *testing.T) {
	plans := []model.RecurringPlan{
		{ID: "plan-1", Name: "Rent", Amount: dec("15000"), Type: model.EntryExpense, Frequency: model.FrequencyMonthly, ExpectedDate: "1"},
		{ID: "plan-2", Name: "Salary", Amount: dec("50000"), Type: model.EntryIncome, Frequency: model.FrequencyMonthly, ExpectedDate: model.ExpectedLastWorking, EndDate: "2025-12-31"},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePlans(&buf, plans))
	got, err := ReadPlans(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.ExpectedLastWorking, got[1].ExpectedDate)
	assert.Equal(t, "2025-12-31", got[1].EndDate)
	assert.Empty(t, got[0].EndDate)
}

func TestDebtsRoundTrip(t *testing.T) {
	debts := []model.Debt{
		{ID: "debt-1", PersonName: "Jane", Amount: dec("500"), Direction: model.DirectionReceivable, Status: model.DebtActive},
		{ID: "debt-2", PersonName: "Sam", Amount: dec("300"), Direction: model.DirectionPayable, DueDate: "2025-07-01", Status: model.DebtSettled},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDebts(&buf, debts))
	got, err := ReadDebts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, debts[1], got[1])
}

func TestUnmarshalTransaction_KeepsMalformedDate(t *testing.T) {
	row := []string{"2025-06-003", "10/06/2025", "expense", "99", "Food", "Cafe", "Coffee", ""}
	got, err := UnmarshalTransaction(row)
	require.NoError(t, err)
	assert.Equal(t, "10/06/2025", got.Date)
}

func TestUnmarshal_Errors(t *testing.T) {
	_, err := UnmarshalTransaction([]string{"a", "b"})
	assert.Error(t, err)

	_, err = UnmarshalTransaction([]string{"2025-06-003", "2025-06-10", "expense", "lots", "", "", "", ""})
	assert.ErrorContains(t, err, "parsing amount")

	_, err = ReadDebts(strings.NewReader(DebtsHeader + "\ndebt-1,Jane,receivable,500,\n"))
	assert.Error(t, err, "wrong field count")
}

func TestUnmarshalDebt_EmptyStatusIsActive(t *testing.T) {
	got, err := UnmarshalDebt([]string{"debt-1", "Jane", "receivable", "500", "", ""})
	require.NoError(t, err)
	assert.Equal(t, model.DebtActive, got.Status)
}

func TestReadEmpty(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ReadTransactions(strings.NewReader(TransactionsHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
