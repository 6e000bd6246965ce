// Package goals tracks money set aside for savings goals. Goals are
// bookkeeping only: saving toward one does not move money out of the
// balance that safe-to-spend is computed from.
package goals

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/id"
	"github.com/safespend-dev/safespend/internal/model"
)

// FileName is the goal list inside the workspace.
const FileName = "goals.csv"

const header = "id,name,target,saved,target_date"

const (
	numFields  = 5
	colID      = 0
	colName    = 1
	colTarget  = 2
	colSaved   = 3
	colDueDate = 4
)

// ErrNotFound is returned for an unknown goal ID.
var ErrNotFound = errors.New("goal not found")

// Goal is a savings target.
type Goal struct {
	ID         string
	Name       string
	Target     decimal.Decimal
	Saved      decimal.Decimal
	TargetDate string // "" = no deadline
}

// Remaining is what is still to be saved, never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.Target.Sub(g.Saved)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Progress is the saved share of the target as a whole percentage,
// capped at 100.
func (g Goal) Progress() int {
	if !g.Target.IsPositive() {
		return 0
	}
	pct := g.Saved.Mul(decimal.NewFromInt(100)).Div(g.Target).Floor().IntPart()
	return int(min(max(pct, 0), 100))
}

// PerDay is how much must be saved each day from today, inclusive, to
// reach the target by its date. ok is false when the goal has no date or
// the date has passed.
func (g Goal) PerDay(today time.Time, places int32) (amount decimal.Decimal, ok bool) {
	if g.TargetDate == "" {
		return decimal.Zero, false
	}
	due, err := model.ParseDate(g.TargetDate)
	if err != nil {
		return decimal.Zero, false
	}
	days := int64(due.Sub(model.Day(today)).Hours()/24) + 1
	if days <= 0 {
		return decimal.Zero, false
	}
	return g.Remaining().Div(decimal.NewFromInt(days)).RoundUp(places), true
}

// Service holds the goal list of one workspace.
type Service struct {
	goals []Goal
}

// Load reads goals.csv from a workspace root. A missing file is an empty
// list.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(filepath.Join(repoRoot, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &Service{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening goals: %w", err)
	}
	defer f.Close()

	goals, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading goals: %w", err)
	}
	return &Service{goals: goals}, nil
}

// All returns the goals in the order they were added.
func (s *Service) All() []Goal {
	return s.goals
}

// Add creates a goal and returns it with its new ID.
func (s *Service) Add(name string, target decimal.Decimal, targetDate string) (Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Goal{}, fmt.Errorf("adding goal: empty name")
	}
	if !target.IsPositive() {
		return Goal{}, fmt.Errorf("adding goal %q: target must be positive", name)
	}
	if targetDate != "" {
		d, err := model.ParseDate(targetDate)
		if err != nil {
			return Goal{}, fmt.Errorf("adding goal %q: %w", name, err)
		}
		targetDate = model.FormatDate(d)
	}
	g := Goal{ID: id.NewGoalID(), Name: name, Target: target, Saved: decimal.Zero, TargetDate: targetDate}
	s.goals = append(s.goals, g)
	return g, nil
}

// Contribute adds amount to a goal's savings. A negative amount withdraws,
// but savings never go below zero.
func (s *Service) Contribute(goalID string, amount decimal.Decimal) (Goal, error) {
	i, err := s.index(goalID)
	if err != nil {
		return Goal{}, err
	}
	saved := s.goals[i].Saved.Add(amount)
	if saved.IsNegative() {
		return Goal{}, fmt.Errorf("goal %s has only %s saved", goalID, s.goals[i].Saved)
	}
	s.goals[i].Saved = saved
	return s.goals[i], nil
}

// Remove deletes a goal.
func (s *Service) Remove(goalID string) (Goal, error) {
	i, err := s.index(goalID)
	if err != nil {
		return Goal{}, err
	}
	g := s.goals[i]
	s.goals = append(s.goals[:i], s.goals[i+1:]...)
	return g, nil
}

func (s *Service) index(goalID string) (int, error) {
	for i, g := range s.goals {
		if g.ID == goalID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, goalID)
}

// Save writes the list to goals.csv in the workspace root.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating goals file: %w", err)
	}
	defer f.Close()

	if err := Write(f, s.goals); err != nil {
		return fmt.Errorf("writing goals: %w", err)
	}
	return nil
}

// Read reads goals.csv.
func Read(r io.Reader) ([]Goal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading goals CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []Goal
	for i, rec := range records[1:] {
		g, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Write writes goals.csv.
func Write(w io.Writer, goals []Goal) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, g := range goals {
		row := make([]string, numFields)
		row[colID] = g.ID
		row[colName] = g.Name
		row[colTarget] = g.Target.String()
		row[colSaved] = g.Saved.String()
		row[colDueDate] = g.TargetDate
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func unmarshal(record []string) (Goal, error) {
	target, err := decimal.NewFromString(record[colTarget])
	if err != nil {
		return Goal{}, fmt.Errorf("parsing target %q: %w", record[colTarget], err)
	}
	saved, err := decimal.NewFromString(record[colSaved])
	if err != nil {
		return Goal{}, fmt.Errorf("parsing saved %q: %w", record[colSaved], err)
	}
	return Goal{
		ID:         record[colID],
		Name:       record[colName],
		Target:     target,
		Saved:      saved,
		TargetDate: record[colDueDate],
	}, nil
}
