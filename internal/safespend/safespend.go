// Package safespend computes the conservative daily spending ceiling.
package safespend

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
	"github.com/safespend-dev/safespend/internal/occurrence"
)

// Input is everything the calculation depends on.
type Input struct {
	Balance      decimal.Decimal // on-hand funds, already net of past spending
	Transactions []model.Transaction
	Plans        []model.RecurringPlan
	Today        time.Time
	MinorUnits   int32 // decimal places of the smallest currency unit; 0 for whole units
}

// Warning flags a record that was left out of the totals because one of
// its dates (or its expected date) could not be read.
type Warning struct {
	Source string // "transaction" or "plan"
	ID     string
	Err    error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s %s skipped: %v", w.Source, w.ID, w.Err)
}

// Result is the safe-spend figure plus the intermediate totals that produced it.
type Result struct {
	model.SafeSpendResult

	DaysRemaining       int
	UpcomingRecurring   decimal.Decimal
	FutureOneOff        decimal.Decimal
	ConservativeBalance decimal.Decimal
	Warnings            []Warning
}

// Compute returns the safe daily limit and today's spend. It performs no I/O
// and keeps no state; a malformed record is skipped and reported in
// Result.Warnings rather than aborting the calculation.
func Compute(in Input) Result {
	today := model.Day(in.Today)
	units := max(in.MinorUnits, 0)

	res := Result{
		DaysRemaining:     max(1, occurrence.DaysIn(today.Year(), today.Month())-today.Day()+1),
		UpcomingRecurring: decimal.Zero,
		FutureOneOff:      decimal.Zero,
	}
	spentToday := decimal.Zero

	for _, p := range in.Plans {
		if p.Type != model.EntryExpense {
			continue
		}
		occ, err := occurrence.Resolve(p, today.Year(), today.Month())
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{Source: "plan", ID: planRef(p), Err: err})
			continue
		}
		// Earlier occurrences this month are already reflected in the balance.
		if occ.Suppressed || !occ.Date.After(today) {
			continue
		}
		res.UpcomingRecurring = res.UpcomingRecurring.Add(p.Amount)
	}

	for _, t := range in.Transactions {
		if t.Type != model.EntryExpense {
			continue
		}
		d, err := model.ParseDate(t.Date)
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{Source: "transaction", ID: t.ID, Err: err})
			continue
		}
		switch {
		case d.Equal(today):
			spentToday = spentToday.Add(t.Amount)
		case d.After(today) && model.SameMonth(d, today):
			res.FutureOneOff = res.FutureOneOff.Add(t.Amount)
		}
	}

	res.ConservativeBalance = in.Balance.Sub(res.UpcomingRecurring).Sub(res.FutureOneOff)
	limit := res.ConservativeBalance.Div(decimal.NewFromInt(int64(res.DaysRemaining))).RoundFloor(units)
	if limit.IsNegative() {
		limit = decimal.Zero
	}
	res.SafeSpendResult = model.SafeSpendResult{
		SpentToday:     spentToday,
		SafeDailyLimit: limit,
	}
	return res
}

func planRef(p model.RecurringPlan) string {
	if p.ID != "" {
		return p.ID
	}
	return p.Name
}
