package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespend-dev/safespend/internal/ledger"
)

const juneLedger = `[
  {"kind": "transaction", "amount": 150, "type": "expense", "category": "Food", "merchant": "Cafe", "title": "Lunch", "date": "2025-06-10"},
  {"kind": "transaction", "amount": 300, "type": "expense", "category": "Shopping", "merchant": "Store", "title": "Shoes", "date": "2025-06-20"},
  {"kind": "recurring", "name": "Rent", "amount": 3000, "type": "expense", "frequency": "monthly", "expectedDate": "15"},
  {"kind": "debt", "personName": "Jane", "amount": 500, "direction": "receivable", "dueDate": "2025-06-12"}
]`

// juneWorkspace is a workspace with a $10000 opening balance and the
// juneLedger records, as seen on 2025-06-10.
func juneWorkspace(t *testing.T) string {
	t.Helper()
	dir := initWorkspace(t)
	raw := writeRaw(t, t.TempDir(), juneLedger)
	out, err := runSafespend(t, "--repo", dir, "add", "--raw", raw, "--today", "2025-06-10")
	require.NoError(t, err, out)
	return dir
}

func TestStatus(t *testing.T) {
	dir := juneWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "status", "--today", "2025-06-10")
	require.NoError(t, err, out)

	// (9850 - 3000 rent - 300 shoes) / 21 days, rounded down.
	assert.Contains(t, out, "$311.90")
	assert.Contains(t, out, "$150.00")
	assert.Contains(t, out, "$9850.00")
	assert.Contains(t, out, "$6550.00")
	assert.Contains(t, out, "21")
}

func TestStatus_BalanceOverride(t *testing.T) {
	dir := juneWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "status", "--today", "2025-06-10", "--balance", "2100")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Safe to spend today  $0.00")
	assert.Contains(t, out, "-$1200.00")
}

func TestStatus_AfterRentIsPaid(t *testing.T) {
	dir := juneWorkspace(t)

	// Rent on the 15th is already in the balance by the 16th.
	out, err := runSafespend(t, "--repo", dir, "status", "--today", "2025-06-16", "--balance", "6850")
	require.NoError(t, err, out)
	// (6850 - 300) / 15
	assert.Contains(t, out, "$436.66")
}

func TestStatus_BadBalance(t *testing.T) {
	dir := initWorkspace(t)
	out, err := runSafespend(t, "--repo", dir, "status", "--balance", "plenty")
	require.Error(t, err)
	assert.Contains(t, out, "not a number")
}

func TestForecast(t *testing.T) {
	dir := juneWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "forecast", "--today", "2025-06-10", "--weeks", "2")
	require.NoError(t, err, out)

	assert.Contains(t, out, "2-week forecast from $9850.00")
	assert.Contains(t, out, "11 Jun to 17 Jun")
	// Jane repays 500 on the 12th, rent 3000 on the 15th.
	assert.Contains(t, out, "$7350.00")
	// Shoes 300 on the 20th.
	assert.Contains(t, out, "18 Jun to 24 Jun")
	assert.Contains(t, out, "$7050.00")
	assert.NotContains(t, out, "25 Jun")
}

func TestPlans(t *testing.T) {
	dir := juneWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "plans", "--today", "2025-06-10")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Recurring plans for June 2025")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "monthly")
	assert.Contains(t, out, "2025-06-15")
	assert.Contains(t, out, "-$3000.00")
}

func TestPlans_Empty(t *testing.T) {
	dir := initWorkspace(t)
	out, err := runSafespend(t, "--repo", dir, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "No recurring plans.")
}

func TestDebts_ListAndSettle(t *testing.T) {
	dir := juneWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "debts")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Jane")
	assert.Contains(t, out, "Owed to you $500.00")

	debts, err := ledger.NewService(dir, 2).Debts()
	require.NoError(t, err)
	require.Len(t, debts, 1)
	debtID := debts[0].ID

	out, err = runSafespend(t, "--repo", dir, "debts", "settle", debtID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Settled "+debtID)

	out, err = runSafespend(t, "--repo", dir, "debts")
	require.NoError(t, err)
	assert.Contains(t, out, "No outstanding debts.")

	out, err = runSafespend(t, "--repo", dir, "debts", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "settled")

	out, err = runSafespend(t, "--repo", dir, "debts", "settle", debtID)
	require.Error(t, err)
	assert.Contains(t, out, "already settled")

	out, err = runSafespend(t, "--repo", dir, "debts", "settle", "debt-missing")
	require.Error(t, err)
	assert.Contains(t, out, "not found")
}

func TestCategories(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Savings")

	out, err = runSafespend(t, "--repo", dir, "categories", "add", "Pets", "--description", "Food and vet bills")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added category Pets")

	out, err = runSafespend(t, "--repo", dir, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Food and vet bills")

	_, err = runSafespend(t, "--repo", dir, "categories", "add", "pets")
	require.Error(t, err, "names are case-insensitive")

	_, err = runSafespend(t, "--repo", dir, "categories", "add", "Gifts", "--type", "transfer")
	require.Error(t, err)

	_, err = runSafespend(t, "--repo", dir, "categories", "remove", "Food")
	require.Error(t, err, "built-in categories cannot be removed")

	out, err = runSafespend(t, "--repo", dir, "categories", "remove", "Pets")
	require.NoError(t, err, out)

	out, err = runSafespend(t, "--repo", dir, "categories")
	require.NoError(t, err)
	assert.NotContains(t, out, "Pets")
}

func TestLog(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "log")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity yet.")

	dir = juneWorkspace(t)
	out, err = runSafespend(t, "--repo", dir, "log")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2025-06-001")
	assert.Contains(t, out, "expense 150.00 Food at Cafe on 2025-06-10")
	assert.Contains(t, out, "monthly expense 3000.00 Rent on 15")

	out, err = runSafespend(t, "--repo", dir, "log", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "receivable 500.00 Jane due 2025-06-12")
	assert.NotContains(t, out, "2025-06-001")
}

func TestStatus_WholeUnitCurrency(t *testing.T) {
	dir := t.TempDir()
	out, err := runSafespend(t, "init", dir, "--owner", "Asha", "--currency", "JPY", "--symbol", "¥", "--minor-units", "0", "--opening-balance", "1150")
	require.NoError(t, err, out)

	raw := writeRaw(t, t.TempDir(), `{"kind": "transaction", "amount": "150.4", "type": "expense", "category": "Food", "merchant": "Cafe", "date": "2025-06-10"}`)
	out, err = runSafespend(t, "--repo", dir, "add", "--raw", raw, "--today", "2025-06-10")
	require.NoError(t, err, out)

	// 1150 - 150 leaves 1000 over 21 days, floored to whole yen.
	out, err = runSafespend(t, "--repo", dir, "status", "--today", "2025-06-10")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Safe to spend today  ¥47\n")
	assert.Contains(t, out, "Spent today          ¥150\n")

	out, err = runSafespend(t, "--repo", dir, "log")
	require.NoError(t, err, out)
	assert.Contains(t, out, "expense 150 Food at Cafe on 2025-06-10")
}

func TestInsights(t *testing.T) {
	dir := initWorkspace(t)
	raw := writeRaw(t, t.TempDir(), `[
  {"kind": "transaction", "amount": 649, "type": "expense", "category": "Entertainment", "merchant": "Netflix", "title": "Netflix", "date": "2025-05-05"},
  {"kind": "transaction", "amount": 649, "type": "expense", "category": "Entertainment", "merchant": "Netflix", "title": "Netflix", "date": "2025-06-05"},
  {"kind": "transaction", "amount": 12000, "type": "expense", "category": "Shopping", "merchant": "Store", "title": "Sofa", "date": "2025-06-08"}
]`)
	out, err := runSafespend(t, "--repo", dir, "add", "--raw", raw, "--today", "2025-06-10")
	require.NoError(t, err, out)

	out, err = runSafespend(t, "--repo", dir, "insights", "--today", "2025-06-10")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Over $10000.00 in June 2025")
	assert.Contains(t, out, "$12000.00")
	assert.Contains(t, out, "Netflix")
	assert.Contains(t, out, "$649.00")
	assert.Contains(t, out, "2025-06-05")

	out, err = runSafespend(t, "--repo", dir, "insights", "--today", "2025-07-01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No category went over $10000.00 in July 2025.")
	assert.Contains(t, out, "Netflix")

	out, err = runSafespend(t, "--repo", dir, "insights", "--today", "2025-07-01", "--all")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Over $10000.00 in all time")
}

func TestInsights_Empty(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runSafespend(t, "--repo", dir, "insights", "--today", "2025-06-10")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No category went over $10000.00 in June 2025.")
	assert.Contains(t, out, "No repeating expenses.")
}
