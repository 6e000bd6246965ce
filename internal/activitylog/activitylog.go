// Package activitylog keeps an append-only record of what each command
// changed in the workspace.
package activitylog

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

	"github.com/safespend-dev/safespend/internal/model"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Command   string
	Kind      string
	Details   string
	RecordID  string
	Source    string // utterance or file the record came from
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,command,kind,details,record_id,source"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/activity.csv"
	colTimestamp = 0
	colCommand   = 1
	colKind      = 2
	colDetails   = 3
	colRecordID  = 4
	colSource    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colKind] = e.Kind
	row[colDetails] = e.Details
	row[colRecordID] = e.RecordID
	row[colSource] = e.Source
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Command:   record[colCommand],
		Kind:      record[colKind],
		Details:   record[colDetails],
		RecordID:  record[colRecordID],
		Source:    record[colSource],
	}, nil
}

// Describe summarises an action for the details column, with amounts
// shown to the currency's number of decimal places.
func Describe(a model.Action, places int32) string {
	switch v := a.(type) {
	case model.TransactionAction:
		s := fmt.Sprintf("%s %s %s at %s on %s", v.Type, v.Amount.StringFixed(places), v.Category, v.Merchant, model.FormatDate(v.Date))
		if len(v.SplitWith) > 0 {
			s += " split with " + strings.Join(v.SplitWith, ", ")
		}
		return s
	case model.DebtAction:
		s := fmt.Sprintf("%s %s %s", v.Direction, v.Amount.StringFixed(places), v.PersonName)
		if !v.DueDate.IsZero() {
			s += " due " + model.FormatDate(v.DueDate)
		}
		return s
	case model.RecurringAction:
		s := fmt.Sprintf("%s %s %s %s on %s", v.Frequency, v.Type, v.Amount.StringFixed(places), v.Name, v.ExpectedDate)
		if !v.EndDate.IsZero() {
			s += " until " + model.FormatDate(v.EndDate)
		}
		return s
	default:
		return fmt.Sprintf("%T", a)
	}
}

// Append writes entries to <repoRoot>/logs/activity.csv, creating the file
// and header if needed.
func Append(repoRoot string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/activity.csv, oldest
// first. A missing file reads as no entries.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
