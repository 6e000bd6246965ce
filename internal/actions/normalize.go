// Package actions turns loosely typed classifier output into validated,
// schema-complete actions.
package actions

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
	"github.com/safespend-dev/safespend/internal/occurrence"
)

const (
	// UnknownMerchant fills a transaction that names neither merchant nor category.
	UnknownMerchant = "Unknown Merchant"
	// LoanCategory is the category of the expense side of a lending.
	LoanCategory = "Loan"

	kindLend = "lend"
)

// Options carries the explicit inputs normalization depends on besides the
// raw records themselves.
type Options struct {
	Today      time.Time // default date for undated transactions
	MinorUnits int32     // decimal places of the smallest currency unit
}

func (o Options) unit() decimal.Decimal {
	return decimal.New(1, -o.MinorUnits)
}

// entry is one raw record after building, before split resolution.
type entry struct {
	index   int
	actions []model.Action
	err     error

	// split bookkeeping
	splitNames []string
	claimedBy  int // index of the split transaction that owns this debt, or -1
	derived    []model.Action
}

// Normalize validates raw and returns the resulting actions in input order,
// with actions derived from a record (split shares, the debt side of a
// lending) placed right after it.
//
// Records that fail validation are left out. The returned error joins one
// MalformedActionError per rejected record; the actions from every other
// record are still returned so the caller can choose between all-or-nothing
// and partial acceptance.
//
// Normalize reads no clock and keeps no state: the same raw input and
// options always produce the same output, and feeding Encode's rendering of
// the output back in reproduces it.
func Normalize(raw []map[string]any, opts Options) ([]model.Action, error) {
	opts.Today = model.Day(opts.Today)
	if opts.MinorUnits < 0 {
		opts.MinorUnits = 0
	}

	entries := make([]*entry, len(raw))
	for i, r := range raw {
		entries[i] = build(i, flatten(r), opts)
	}
	resolveSplits(entries, opts)

	var out []model.Action
	var errs []error
	for _, e := range entries {
		if e.err != nil {
			errs = append(errs, e.err)
			continue
		}
		out = append(out, e.actions...)
		out = append(out, e.derived...)
	}
	return out, errors.Join(errs...)
}

func build(index int, r record, opts Options) *entry {
	e := &entry{index: index, claimedBy: -1}
	kind := strings.ToLower(r.str("kind"))
	switch kind {
	case string(model.KindTransaction):
		tx, err := buildTransaction(index, r, opts)
		if err != nil {
			e.err = err
			return e
		}
		e.actions = []model.Action{tx}
		e.splitNames = tx.SplitWith
	case string(model.KindDebt):
		debt, err := buildDebt(index, r, opts)
		if err != nil {
			e.err = err
			return e
		}
		e.actions = []model.Action{debt}
	case string(model.KindRecurring):
		plan, err := buildRecurring(index, r, opts)
		if err != nil {
			e.err = err
			return e
		}
		e.actions = []model.Action{plan}
	case kindLend, "lending", "loan":
		e.actions, e.err = buildLending(index, r, opts)
	case "":
		e.err = malformed(index, "kind", "missing")
	default:
		e.err = malformed(index, "kind", "unknown kind %q", kind)
	}
	return e
}

func buildTransaction(index int, r record, opts Options) (model.TransactionAction, error) {
	amount, err := r.amount("amount", opts.MinorUnits)
	if err != nil {
		return model.TransactionAction{}, malformed(index, "amount", "%v", err)
	}

	typ, err := entryType(r.str("type"))
	if err != nil {
		return model.TransactionAction{}, malformed(index, "type", "%v", err)
	}

	date, ok, err := r.date("date")
	if err != nil {
		return model.TransactionAction{}, malformed(index, "date", "%v", err)
	}
	if !ok {
		date = opts.Today
	}

	splitWith, err := r.names("splitWith")
	if err != nil {
		return model.TransactionAction{}, malformed(index, "splitWith", "%v", err)
	}
	if len(splitWith) > 0 && typ != model.EntryExpense {
		return model.TransactionAction{}, malformed(index, "splitWith", "only expenses can be split")
	}

	category := r.str("category")
	merchant := r.str("merchant")
	if merchant == "" {
		merchant = category
	}
	if merchant == "" {
		merchant = UnknownMerchant
	}
	title := r.first("title", "description")
	if title == "" {
		title = merchant
	}

	return model.TransactionAction{
		Amount:    amount,
		Category:  category,
		Merchant:  merchant,
		Title:     title,
		Type:      typ,
		Date:      date,
		Remarks:   r.str("remarks"),
		SplitWith: splitWith,
	}, nil
}

func buildDebt(index int, r record, opts Options) (model.DebtAction, error) {
	person := r.first("personName", "person")
	if person == "" {
		return model.DebtAction{}, malformed(index, "personName", "missing")
	}

	amount, err := r.amount("amount", opts.MinorUnits)
	if err != nil {
		return model.DebtAction{}, malformed(index, "amount", "%v", err)
	}

	dir := r.str("direction")
	if dir == "" {
		return model.DebtAction{}, malformed(index, "direction", "missing")
	}
	direction, err := model.ParseEnum(strings.ToLower(dir), model.Direction.Valid)
	if err != nil {
		return model.DebtAction{}, malformed(index, "direction", "%v", err)
	}

	due, _, err := r.date("dueDate")
	if err != nil {
		return model.DebtAction{}, malformed(index, "dueDate", "%v", err)
	}

	return model.DebtAction{
		PersonName: person,
		Amount:     amount,
		Direction:  direction,
		DueDate:    due,
	}, nil
}

func buildRecurring(index int, r record, opts Options) (model.RecurringAction, error) {
	name := r.first("name", "title", "merchant", "category")
	if name == "" {
		return model.RecurringAction{}, malformed(index, "name", "missing")
	}

	amount, err := r.amount("amount", opts.MinorUnits)
	if err != nil {
		return model.RecurringAction{}, malformed(index, "amount", "%v", err)
	}

	typ, err := entryType(r.str("type"))
	if err != nil {
		return model.RecurringAction{}, malformed(index, "type", "%v", err)
	}

	freq := r.str("frequency")
	if freq == "" {
		return model.RecurringAction{}, malformed(index, "frequency", "missing")
	}
	frequency, err := model.ParseEnum(strings.ToLower(freq), model.Frequency.Valid)
	if err != nil {
		return model.RecurringAction{}, malformed(index, "frequency", "%v", err)
	}

	expected, err := expectedDate(r["expectedDate"])
	if err != nil {
		return model.RecurringAction{}, malformed(index, "expectedDate", "%v", err)
	}

	end, hasEnd, err := r.date("endDate")
	if err != nil {
		return model.RecurringAction{}, malformed(index, "endDate", "%v", err)
	}
	if hasEnd {
		first, err := occurrence.FirstOnOrAfter(expected, opts.Today)
		if err != nil {
			return model.RecurringAction{}, malformed(index, "expectedDate", "%v", err)
		}
		if end.Before(first) {
			return model.RecurringAction{}, malformed(index, "endDate",
				"%s is before the first occurrence on %s", model.FormatDate(end), model.FormatDate(first))
		}
	}

	return model.RecurringAction{
		Name:         name,
		Amount:       amount,
		Type:         typ,
		Frequency:    frequency,
		ExpectedDate: expected,
		EndDate:      end,
	}, nil
}

func entryType(s string) (model.EntryType, error) {
	if s == "" {
		return "", errMissing
	}
	return model.ParseEnum(strings.ToLower(s), model.EntryType.Valid)
}
