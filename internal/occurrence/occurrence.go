// Package occurrence resolves recurring plans to concrete calendar dates.
package occurrence

import (
	"fmt"
	"time"

	"github.com/safespend-dev/safespend/internal/model"
)

// Occurrence is a plan's date within one calendar month. A suppressed
// occurrence falls after the plan's end date and contributes nothing.
type Occurrence struct {
	Date       time.Time
	Suppressed bool
}

// Counts reports whether the occurrence contributes to calculations.
func (o Occurrence) Counts() bool { return !o.Suppressed }

// DaysIn returns the number of days in the given month (28-31).
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ResolveDay turns an expected date into a day number within the month.
// Numeric days past the month's end clamp to its last day. "last-working"
// resolves to the last calendar day as well; weekends and holidays are not
// consulted.
func ResolveDay(e model.ExpectedDate, year int, month time.Month) (int, error) {
	last := DaysIn(year, month)
	switch e {
	case model.ExpectedLast, model.ExpectedLastWorking:
		return last, nil
	}
	day, ok := e.Day()
	if !ok {
		return 0, fmt.Errorf("resolving %q: %w", string(e), model.ErrInvalidExpectedDate)
	}
	if day > last {
		day = last
	}
	return day, nil
}

// Date returns the candidate occurrence date for the month, ignoring any end date.
func Date(e model.ExpectedDate, year int, month time.Month) (time.Time, error) {
	day, err := ResolveDay(e, year, month)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// Resolve returns plan's occurrence in the given month. It is a pure
// function of its arguments.
func Resolve(plan model.RecurringPlan, year int, month time.Month) (Occurrence, error) {
	date, err := Date(plan.ExpectedDate, year, month)
	if err != nil {
		return Occurrence{}, err
	}
	if plan.EndDate == "" {
		return Occurrence{Date: date}, nil
	}
	end, err := model.ParseDate(plan.EndDate)
	if err != nil {
		return Occurrence{}, fmt.Errorf("plan %q end date: %w", plan.Name, err)
	}
	return Occurrence{Date: date, Suppressed: date.After(end)}, nil
}

// FirstOnOrAfter returns the earliest occurrence date of e that is not
// before from: this month's if it has not passed yet, otherwise next month's.
func FirstOnOrAfter(e model.ExpectedDate, from time.Time) (time.Time, error) {
	from = model.Day(from)
	date, err := Date(e, from.Year(), from.Month())
	if err != nil {
		return time.Time{}, err
	}
	if !date.Before(from) {
		return date, nil
	}
	next := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return Date(e, next.Year(), next.Month())
}
