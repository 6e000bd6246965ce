package goals

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespend-dev/safespend/internal/id"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		saved     string
		progress  int
		remaining string
	}{
		{"none", "1000", "0", 0, "1000"},
		{"partial", "1000", "333.33", 33, "666.67"},
		{"reached", "1000", "1000", 100, "0"},
		{"over", "1000", "1500", 100, "0"},
		{"zero target", "0", "10", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{Target: dec(tt.target), Saved: dec(tt.saved)}
			assert.Equal(t, tt.progress, g.Progress())
			assert.True(t, dec(tt.remaining).Equal(g.Remaining()), "remaining %s", g.Remaining())
		})
	}
}

func TestGoal_PerDay(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	g := Goal{Target: dec("1000"), Saved: dec("0"), TargetDate: "2025-06-12"}

	// 10th, 11th and 12th; rounded up so the target is met.
	amount, ok := g.PerDay(today, 2)
	require.True(t, ok)
	assert.Equal(t, "333.34", amount.StringFixed(2))

	g.TargetDate = "2025-06-09"
	_, ok = g.PerDay(today, 2)
	assert.False(t, ok)

	g.TargetDate = ""
	_, ok = g.PerDay(today, 2)
	assert.False(t, ok)
}

func TestService(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, s.All())

	g, err := s.Add("  Laptop ", dec("1200"), "2025-12-01T09:00:00Z")
	require.NoError(t, err)
	assert.True(t, id.IsGoalID(g.ID))
	assert.Equal(t, "Laptop", g.Name)
	assert.Equal(t, "2025-12-01", g.TargetDate)

	g, err = s.Contribute(g.ID, dec("200"))
	require.NoError(t, err)
	assert.True(t, g.Saved.Equal(dec("200")))

	_, err = s.Contribute(g.ID, dec("-250"))
	require.Error(t, err)

	_, err = s.Contribute("goal-missing", dec("1"))
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, loaded.All(), 1)
	assert.Equal(t, g.ID, loaded.All()[0].ID)
	assert.True(t, loaded.All()[0].Saved.Equal(dec("200")))

	removed, err := loaded.Remove(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", removed.Name)
	assert.Empty(t, loaded.All())
}

func TestService_AddErrors(t *testing.T) {
	s := &Service{}

	tests := []struct {
		name   string
		goal   string
		target string
		date   string
	}{
		{"empty name", " ", "100", ""},
		{"zero target", "Bike", "0", ""},
		{"bad date", "Bike", "100", "next year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(tt.goal, dec(tt.target), tt.date)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, s.All())
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(bytes.NewBufferString("id,name,target,saved,target_date\ngoal-1,Bike,lots,0,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	goals, err := Read(bytes.NewBufferString(""))
	require.NoError(t, err)
	assert.Empty(t, goals)
}
