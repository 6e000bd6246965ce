// Package id formats and parses the identifiers of ledger records.
package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	planPrefix = "plan-"
	debtPrefix = "debt-"
	goalPrefix = "goal-"
)

// FormatTransactionID returns a transaction ID like "2025-06-001". The
// sequence restarts every month.
func FormatTransactionID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseTransactionID parses "2025-06-001" into year, month, seq.
func ParseTransactionID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// NextSeq returns the sequence number following the highest one used by
// ids in the given month. IDs that do not parse are ignored.
func NextSeq(ids []string, year, month int) int {
	maxSeq := 0
	for _, s := range ids {
		y, m, seq, err := ParseTransactionID(s)
		if err != nil || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

// NewPlanID returns a fresh recurring plan ID like "plan-6f1c...".
func NewPlanID() string {
	return planPrefix + uuid.NewString()
}

// NewDebtID returns a fresh debt ID like "debt-6f1c...".
func NewDebtID() string {
	return debtPrefix + uuid.NewString()
}

// IsPlanID reports whether s looks like an ID from NewPlanID.
func IsPlanID(s string) bool {
	return hasUUID(s, planPrefix)
}

// IsDebtID reports whether s looks like an ID from NewDebtID.
func IsDebtID(s string) bool {
	return hasUUID(s, debtPrefix)
}

// NewGoalID returns a fresh savings goal ID like "goal-6f1c...".
func NewGoalID() string {
	return goalPrefix + uuid.NewString()
}

// IsGoalID reports whether s looks like an ID from NewGoalID.
func IsGoalID(s string) bool {
	return hasUUID(s, goalPrefix)
}

func hasUUID(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
