package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActionKind names the variant of an Action.
type ActionKind string

const (
	KindTransaction ActionKind = "transaction"
	KindDebt        ActionKind = "debt"
	KindRecurring   ActionKind = "recurring"
)

// Action is one validated record produced from a classified utterance.
// The set of implementations is closed: TransactionAction, DebtAction and
// RecurringAction.
type Action interface {
	Kind() ActionKind
	isAction()
}

// TransactionAction is a one-off income or expense.
type TransactionAction struct {
	Amount    decimal.Decimal
	Category  string
	Merchant  string // never empty after normalization
	Title     string // never empty after normalization
	Type      EntryType
	Date      time.Time
	Remarks   string   // empty = absent
	SplitWith []string // other parties of a shared expense, if any
}

// DebtAction is money owed by or to a named person.
type DebtAction struct {
	PersonName string
	Amount     decimal.Decimal
	Direction  Direction
	DueDate    time.Time // zero = absent
}

// RecurringAction defines a repeating bill or income.
type RecurringAction struct {
	Name         string
	Amount       decimal.Decimal
	Type         EntryType
	Frequency    Frequency
	ExpectedDate ExpectedDate
	EndDate      time.Time // zero = absent
}

func (TransactionAction) Kind() ActionKind { return KindTransaction }
func (DebtAction) Kind() ActionKind        { return KindDebt }
func (RecurringAction) Kind() ActionKind   { return KindRecurring }

func (TransactionAction) isAction() {}
func (DebtAction) isAction()        {}
func (RecurringAction) isAction()   {}

// AmountOf returns the amount carried by any action.
func AmountOf(a Action) decimal.Decimal {
	switch v := a.(type) {
	case TransactionAction:
		return v.Amount
	case DebtAction:
		return v.Amount
	case RecurringAction:
		return v.Amount
	default:
		return decimal.Zero
	}
}

// Plan converts a recurring action into the persisted plan shape.
func (r RecurringAction) Plan(id string) RecurringPlan {
	return RecurringPlan{
		ID:           id,
		Name:         r.Name,
		Amount:       r.Amount,
		Type:         r.Type,
		Frequency:    r.Frequency,
		ExpectedDate: r.ExpectedDate,
		EndDate:      FormatDate(r.EndDate),
	}
}

// Transaction converts a transaction action into the persisted row shape.
func (t TransactionAction) Transaction(id string) Transaction {
	return Transaction{
		ID:       id,
		Date:     FormatDate(t.Date),
		Amount:   t.Amount,
		Type:     t.Type,
		Category: t.Category,
		Merchant: t.Merchant,
		Title:    t.Title,
		Remarks:  t.Remarks,
	}
}

// Debt converts a debt action into a new, active debt row.
func (d DebtAction) Debt(id string) Debt {
	return Debt{
		ID:         id,
		PersonName: d.PersonName,
		Amount:     d.Amount,
		Direction:  d.Direction,
		DueDate:    FormatDate(d.DueDate),
		Status:     DebtActive,
	}
}
