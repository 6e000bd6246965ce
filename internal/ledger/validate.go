package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
)

// ValidationError describes a single rule a new ledger row breaks.
type ValidationError struct {
	ID          string
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Field, e.ID, e.Description)
}

// Batch is a set of rows about to be appended to the ledger.
type Batch struct {
	Transactions []model.Transaction
	Plans        []model.RecurringPlan
	Debts        []model.Debt
}

// Empty reports whether the batch holds no rows.
func (b Batch) Empty() bool {
	return len(b.Transactions) == 0 && len(b.Plans) == 0 && len(b.Debts) == 0
}

// ValidateBatch checks new rows before they are written. Existing rows are
// only consulted for ID clashes: rows already on disk with a malformed date
// stay readable and are reported by whoever consumes them.
func ValidateBatch(b Batch, existingIDs map[string]bool, minorUnits int32) []ValidationError {
	var errs []ValidationError
	add := func(id, field, format string, args ...any) {
		errs = append(errs, ValidationError{ID: id, Field: field, Description: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool)
	checkID := func(id string) {
		switch {
		case id == "":
			add(id, "id", "missing")
		case existingIDs[id] || seen[id]:
			add(id, "id", "duplicate")
		}
		seen[id] = true
	}
	checkAmount := func(id string, amount decimal.Decimal) {
		if !amount.IsPositive() {
			add(id, "amount", "must be positive, got %s", amount.String())
		}
		if !amount.Equal(amount.Round(minorUnits)) {
			add(id, "amount", "%s has more than %d decimal places", amount.String(), minorUnits)
		}
	}

	for _, tx := range b.Transactions {
		checkID(tx.ID)
		checkAmount(tx.ID, tx.Amount)
		if !tx.Type.Valid() {
			add(tx.ID, "type", "unknown type %q", tx.Type)
		}
		if _, err := model.ParseDate(tx.Date); err != nil {
			add(tx.ID, "date", "%v", err)
		}
	}

	for _, p := range b.Plans {
		checkID(p.ID)
		checkAmount(p.ID, p.Amount)
		if !p.Type.Valid() {
			add(p.ID, "type", "unknown type %q", p.Type)
		}
		if !p.Frequency.Valid() {
			add(p.ID, "frequency", "unknown frequency %q", p.Frequency)
		}
		if err := p.ExpectedDate.Validate(); err != nil {
			add(p.ID, "expected_date", "%v", err)
		}
		if p.EndDate != "" {
			if _, err := model.ParseDate(p.EndDate); err != nil {
				add(p.ID, "end_date", "%v", err)
			}
		}
	}

	for _, d := range b.Debts {
		checkID(d.ID)
		checkAmount(d.ID, d.Amount)
		if d.PersonName == "" {
			add(d.ID, "person", "missing")
		}
		if !d.Direction.Valid() {
			add(d.ID, "direction", "unknown direction %q", d.Direction)
		}
		if !d.Status.Valid() {
			add(d.ID, "status", "unknown status %q", d.Status)
		}
		if d.DueDate != "" {
			if _, err := model.ParseDate(d.DueDate); err != nil {
				add(d.ID, "due_date", "%v", err)
			}
		}
	}

	return errs
}
