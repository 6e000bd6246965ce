package model

import "github.com/shopspring/decimal"

// Transaction is a persisted ledger row. Date keeps the stored text so a
// malformed value can be reported instead of failing the whole load.
type Transaction struct {
	ID       string
	Date     string
	Amount   decimal.Decimal
	Type     EntryType
	Category string
	Merchant string
	Title    string
	Remarks  string
}

// RecurringPlan is a persisted recurring obligation or income.
type RecurringPlan struct {
	ID           string
	Name         string
	Amount       decimal.Decimal
	Type         EntryType
	Frequency    Frequency
	ExpectedDate ExpectedDate
	EndDate      string // "" = open-ended
}

// Debt is a persisted debt row.
type Debt struct {
	ID         string
	PersonName string
	Amount     decimal.Decimal
	Direction  Direction
	DueDate    string // "" = no due date
	Status     DebtStatus
}

// SafeSpendResult is the answer to "how much can I safely spend today?".
// It is recomputed on every request and never stored.
type SafeSpendResult struct {
	SpentToday     decimal.Decimal
	SafeDailyLimit decimal.Decimal
}

// Category labels transactions. Type is the kind of entry the category is
// normally used for; an empty Type fits both.
type Category struct {
	Name        string
	Type        EntryType
	Description string
}
