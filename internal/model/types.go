package model

import "fmt"

// EntryType distinguishes money coming in from money going out.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	return t == EntryIncome || t == EntryExpense
}

// Direction says who owes whom on a debt.
type Direction string

const (
	DirectionPayable    Direction = "payable"    // the user owes
	DirectionReceivable Direction = "receivable" // the user is owed
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionPayable || d == DirectionReceivable
}

// Frequency is how often a recurring plan repeats.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyWeekly, FrequencyYearly:
		return true
	}
	return false
}

// DebtStatus is the lifecycle state of a persisted debt.
type DebtStatus string

const (
	DebtActive  DebtStatus = "active"
	DebtSettled DebtStatus = "settled"
)

// Valid reports whether s is a known debt status.
func (s DebtStatus) Valid() bool {
	return s == DebtActive || s == DebtSettled
}

// ParseEnum is a small helper for the string enums above.
func ParseEnum[T ~string](s string, valid func(T) bool) (T, error) {
	v := T(s)
	if !valid(v) {
		return v, fmt.Errorf("unknown value %q", s)
	}
	return v, nil
}
