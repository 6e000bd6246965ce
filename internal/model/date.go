package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// DateParseError reports a date string that could not be read. Calculations
// skip the offending record and surface the error as a data-quality warning.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparsable date %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// ParseDate reads an ISO calendar date. A trailing time component
// ("2025-01-15T10:00:00Z", "2025-01-15 10:00") is ignored: only the calendar
// date as written counts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && (s[len(DateLayout)] == 'T' || s[len(DateLayout)] == ' ') {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &DateParseError{Value: s, Err: err}
	}
	return t, nil
}

// FormatDate renders t as an ISO calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Day truncates t to midnight UTC of the calendar date t has in its own
// location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
