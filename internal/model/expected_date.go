package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ExpectedDate is the day of month a recurring plan falls on: "1".."31",
// or one of the sentinels ExpectedLast and ExpectedLastWorking.
type ExpectedDate string

const (
	ExpectedLast        ExpectedDate = "last"
	ExpectedLastWorking ExpectedDate = "last-working"
)

// ErrInvalidExpectedDate is returned for values outside 1-31 that are not a sentinel.
var ErrInvalidExpectedDate = errors.New("expected date must be a day 1-31, \"last\" or \"last-working\"")

var expectedDateAliases = map[string]ExpectedDate{
	"last":              ExpectedLast,
	"last day":          ExpectedLast,
	"last-day":          ExpectedLast,
	"end of month":      ExpectedLast,
	"last-working":      ExpectedLastWorking,
	"last working":      ExpectedLastWorking,
	"last_working":      ExpectedLastWorking,
	"last working day":  ExpectedLastWorking,
	"last-working-day":  ExpectedLastWorking,
	"last business day": ExpectedLastWorking,
}

// ParseExpectedDate canonicalizes s. Numeric days lose leading zeros and
// ordinal suffixes ("05", "5th" -> "5"); sentinel spellings collapse to the
// two constants.
func ParseExpectedDate(s string) (ExpectedDate, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if e, ok := expectedDateAliases[key]; ok {
		return e, nil
	}
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		key = strings.TrimSuffix(key, suffix)
	}
	day, err := strconv.Atoi(key)
	if err != nil {
		return "", fmt.Errorf("%w: got %q", ErrInvalidExpectedDate, s)
	}
	if day < 1 || day > 31 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidExpectedDate, day)
	}
	return ExpectedDate(strconv.Itoa(day)), nil
}

// Day returns the numeric day of month. ok is false for the sentinels and
// for invalid values.
func (e ExpectedDate) Day() (day int, ok bool) {
	n, err := strconv.Atoi(string(e))
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}

// Validate checks that e is already in canonical form.
func (e ExpectedDate) Validate() error {
	if e == ExpectedLast || e == ExpectedLastWorking {
		return nil
	}
	if _, ok := e.Day(); !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidExpectedDate, string(e))
	}
	return nil
}
