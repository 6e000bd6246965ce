// Package forecast projects the balance week by week from known future
// income, expenses, recurring plans and debts.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
	"github.com/safespend-dev/safespend/internal/occurrence"
	"github.com/safespend-dev/safespend/internal/safespend"
)

// DefaultWeeks is the horizon used when Weekly is asked for zero weeks.
const DefaultWeeks = 8

// DefaultDangerRatio flags a week whose balance drops below a fifth of the
// starting balance.
var DefaultDangerRatio = decimal.RequireFromString("0.2")

// Input is everything the forecast depends on.
type Input struct {
	Balance      decimal.Decimal // balance at the end of Today
	Transactions []model.Transaction
	Plans        []model.RecurringPlan
	Debts        []model.Debt
	Today        time.Time
	DangerRatio  decimal.Decimal // zero means DefaultDangerRatio
}

// Week is one seven-day window of the forecast.
type Week struct {
	Start   time.Time
	End     time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal // running balance after the week
	Danger  bool
}

// Net returns income minus expense for the week.
func (w Week) Net() decimal.Decimal {
	return w.Income.Sub(w.Expense)
}

// Result is the forecast plus the records it had to leave out.
type Result struct {
	Weeks    []Week
	Warnings []safespend.Warning
}

// Weekly projects the balance over the given number of weeks starting the
// day after Today, since everything dated up to Today is already in the
// balance. Each day adds recurring occurrences, one-off transactions, and
// active debts falling due that day.
func Weekly(in Input, weeks int) Result {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	ratio := in.DangerRatio
	if ratio.IsZero() {
		ratio = DefaultDangerRatio
	}
	today := model.Day(in.Today)
	first := today.AddDate(0, 0, 1)
	last := today.AddDate(0, 0, 7*weeks)

	var res Result
	flows := newDailyFlows()
	res.Warnings = append(res.Warnings, addPlans(flows, in.Plans, first, last)...)
	res.Warnings = append(res.Warnings, addTransactions(flows, in.Transactions, first, last)...)
	res.Warnings = append(res.Warnings, addDebts(flows, in.Debts, first, last)...)

	floor := in.Balance.Mul(ratio)
	running := in.Balance
	for i := 0; i < weeks; i++ {
		w := Week{
			Start:   first.AddDate(0, 0, 7*i),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		w.End = w.Start.AddDate(0, 0, 6)
		for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
			w.Income = w.Income.Add(flows.income[d])
			w.Expense = w.Expense.Add(flows.expense[d])
		}
		running = running.Add(w.Net())
		w.Balance = running
		w.Danger = running.IsNegative() || running.LessThan(floor)
		res.Weeks = append(res.Weeks, w)
	}
	return res
}

type dailyFlows struct {
	income  map[time.Time]decimal.Decimal
	expense map[time.Time]decimal.Decimal
}

func newDailyFlows() *dailyFlows {
	return &dailyFlows{
		income:  make(map[time.Time]decimal.Decimal),
		expense: make(map[time.Time]decimal.Decimal),
	}
}

func (f *dailyFlows) add(day time.Time, inflow bool, amount decimal.Decimal) {
	if inflow {
		f.income[day] = f.income[day].Add(amount)
	} else {
		f.expense[day] = f.expense[day].Add(amount)
	}
}

// addPlans resolves every plan once per month touched by [first, last].
func addPlans(f *dailyFlows, plans []model.RecurringPlan, first, last time.Time) []safespend.Warning {
	var warnings []safespend.Warning
	for _, p := range plans {
		for m := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(last); m = m.AddDate(0, 1, 0) {
			occ, err := occurrence.Resolve(p, m.Year(), m.Month())
			if err != nil {
				warnings = append(warnings, safespend.Warning{Source: "plan", ID: ref(p.ID, p.Name), Err: err})
				break
			}
			if occ.Suppressed || occ.Date.Before(first) || occ.Date.After(last) {
				continue
			}
			f.add(occ.Date, p.Type == model.EntryIncome, p.Amount)
		}
	}
	return warnings
}

func addTransactions(f *dailyFlows, txs []model.Transaction, first, last time.Time) []safespend.Warning {
	var warnings []safespend.Warning
	for _, t := range txs {
		d, err := model.ParseDate(t.Date)
		if err != nil {
			warnings = append(warnings, safespend.Warning{Source: "transaction", ID: t.ID, Err: err})
			continue
		}
		if d.Before(first) || d.After(last) {
			continue
		}
		f.add(d, t.Type == model.EntryIncome, t.Amount)
	}
	return warnings
}

func addDebts(f *dailyFlows, debts []model.Debt, first, last time.Time) []safespend.Warning {
	var warnings []safespend.Warning
	for _, debt := range debts {
		if debt.Status == model.DebtSettled || debt.DueDate == "" {
			continue
		}
		d, err := model.ParseDate(debt.DueDate)
		if err != nil {
			warnings = append(warnings, safespend.Warning{Source: "debt", ID: ref(debt.ID, debt.PersonName), Err: err})
			continue
		}
		if d.Before(first) || d.After(last) {
			continue
		}
		f.add(d, debt.Direction == model.DirectionReceivable, debt.Amount)
	}
	return warnings
}

func ref(id, name string) string {
	if id != "" {
		return id
	}
	return name
}
