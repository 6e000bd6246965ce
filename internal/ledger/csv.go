package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
)

// CSV headers for the three ledger files.
const (
	TransactionsHeader = "id,date,type,amount,category,merchant,title,remarks"
	PlansHeader        = "id,name,type,amount,frequency,expected_date,end_date"
	DebtsHeader        = "id,person,direction,amount,due_date,status"
)

const (
	txFields   = 8
	txID       = 0
	txDate     = 1
	txType     = 2
	txAmount   = 3
	txCategory = 4
	txMerchant = 5
	txTitle    = 6
	txRemarks  = 7
)

const (
	planFields   = 7
	planID       = 0
	planName     = 1
	planType     = 2
	planAmount   = 3
	planFreq     = 4
	planExpected = 5
	planEnd      = 6
)

const (
	debtFields    = 6
	debtID        = 0
	debtPerson    = 1
	debtDirection = 2
	debtAmount    = 3
	debtDue       = 4
	debtStatus    = 5
)

// readRows reads all data rows of a ledger file, skipping the header.
func readRows[T any](r io.Reader, fields int, unmarshal func([]string) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []T
	for i, rec := range records[1:] {
		v, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// writeRows writes rows to w, preceded by header when header is not empty.
func writeRows[T any](w io.Writer, header string, rows []T, marshal func(T) []string) error {
	cw := csv.NewWriter(w)

	if header != "" {
		if err := cw.Write(strings.Split(header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, row := range rows {
		if err := cw.Write(marshal(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads all transactions from a transactions.csv reader.
// Dates are kept as stored; a malformed date does not fail the read.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	return readRows(r, txFields, UnmarshalTransaction)
}

// WriteTransactions writes transactions including the header.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	return writeRows(w, TransactionsHeader, txs, MarshalTransaction)
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, txFields)
	row[txID] = tx.ID
	row[txDate] = tx.Date
	row[txType] = string(tx.Type)
	row[txAmount] = tx.Amount.String()
	row[txCategory] = tx.Category
	row[txMerchant] = tx.Merchant
	row[txTitle] = tx.Title
	row[txRemarks] = tx.Remarks
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != txFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", txFields, len(record))
	}
	amount, err := parseAmount(record[txAmount])
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		ID:       record[txID],
		Date:     record[txDate],
		Amount:   amount,
		Type:     model.EntryType(record[txType]),
		Category: record[txCategory],
		Merchant: record[txMerchant],
		Title:    record[txTitle],
		Remarks:  record[txRemarks],
	}, nil
}

// ReadPlans reads all recurring plans from a recurring.csv reader.
func ReadPlans(r io.Reader) ([]model.RecurringPlan, error) {
	return readRows(r, planFields, UnmarshalPlan)
}

// WritePlans writes plans including the header.
func WritePlans(w io.Writer, plans []model.RecurringPlan) error {
	return writeRows(w, PlansHeader, plans, MarshalPlan)
}

// MarshalPlan converts a RecurringPlan to a CSV row.
func MarshalPlan(p model.RecurringPlan) []string {
	row := make([]string, planFields)
	row[planID] = p.ID
	row[planName] = p.Name
	row[planType] = string(p.Type)
	row[planAmount] = p.Amount.String()
	row[planFreq] = string(p.Frequency)
	row[planExpected] = string(p.ExpectedDate)
	row[planEnd] = p.EndDate
	return row
}

// UnmarshalPlan converts a CSV row to a RecurringPlan. The expected date
// and end date are kept verbatim for the resolver to judge.
func UnmarshalPlan(record []string) (model.RecurringPlan, error) {
	if len(record) != planFields {
		return model.RecurringPlan{}, fmt.Errorf("expected %d fields, got %d", planFields, len(record))
	}
	amount, err := parseAmount(record[planAmount])
	if err != nil {
		return model.RecurringPlan{}, err
	}
	return model.RecurringPlan{
		ID:           record[planID],
		Name:         record[planName],
		Amount:       amount,
		Type:         model.EntryType(record[planType]),
		Frequency:    model.Frequency(record[planFreq]),
		ExpectedDate: model.ExpectedDate(record[planExpected]),
		EndDate:      record[planEnd],
	}, nil
}

// ReadDebts reads all debts from a debts.csv reader.
func ReadDebts(r io.Reader) ([]model.Debt, error) {
	return readRows(r, debtFields, UnmarshalDebt)
}

// WriteDebts writes debts including the header.
func WriteDebts(w io.Writer, debts []model.Debt) error {
	return writeRows(w, DebtsHeader, debts, MarshalDebt)
}

// MarshalDebt converts a Debt to a CSV row.
func MarshalDebt(d model.Debt) []string {
	row := make([]string, debtFields)
	row[debtID] = d.ID
	row[debtPerson] = d.PersonName
	row[debtDirection] = string(d.Direction)
	row[debtAmount] = d.Amount.String()
	row[debtDue] = d.DueDate
	row[debtStatus] = string(d.Status)
	return row
}

// UnmarshalDebt converts a CSV row to a Debt. An empty status reads as
// active.
func UnmarshalDebt(record []string) (model.Debt, error) {
	if len(record) != debtFields {
		return model.Debt{}, fmt.Errorf("expected %d fields, got %d", debtFields, len(record))
	}
	amount, err := parseAmount(record[debtAmount])
	if err != nil {
		return model.Debt{}, err
	}
	status := model.DebtStatus(record[debtStatus])
	if status == "" {
		status = model.DebtActive
	}
	return model.Debt{
		ID:         record[debtID],
		PersonName: record[debtPerson],
		Amount:     amount,
		Direction:  model.Direction(record[debtDirection]),
		DueDate:    record[debtDue],
		Status:     status,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
