package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpectedDate(t *testing.T) {
	tests := []struct {
		input   string
		want    ExpectedDate
		wantErr bool
	}{
		{"1", "1", false},
		{"05", "5", false},
		{"31", "31", false},
		{"21st", "21", false},
		{" last ", ExpectedLast, false},
		{"Last Day", ExpectedLast, false},
		{"last-working", ExpectedLastWorking, false},
		{"last working day", ExpectedLastWorking, false},
		{"LAST_WORKING", ExpectedLastWorking, false},
		{"0", "", true},
		{"32", "", true},
		{"-1", "", true},
		{"soon", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExpectedDate(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			assert.True(t, errors.Is(err, ErrInvalidExpectedDate))
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestExpectedDateDay(t *testing.T) {
	day, ok := ExpectedDate("25").Day()
	assert.True(t, ok)
	assert.Equal(t, 25, day)

	_, ok = ExpectedLast.Day()
	assert.False(t, ok)
	_, ok = ExpectedLastWorking.Day()
	assert.False(t, ok)

	assert.NoError(t, ExpectedLastWorking.Validate())
	assert.Error(t, ExpectedDate("40").Validate())
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-01-15", "2025-01-15T23:59:00Z", "2025-01-15T10:00:00+05:30", "2025-01-15 08:00"} {
		got, err := ParseDate(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseDate("15/01/2025")
	var perr *DateParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "15/01/2025", perr.Value)
}

func TestDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	local := time.Date(2025, 3, 1, 1, 30, 0, 0, ist)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Day(local))
}

func TestAmountOf(t *testing.T) {
	assert.Equal(t, "0", AmountOf(nil).String())
	assert.Equal(t, KindDebt, DebtAction{}.Kind())
	assert.Equal(t, KindRecurring, RecurringAction{}.Kind())
	assert.Equal(t, KindTransaction, TransactionAction{}.Kind())
}
