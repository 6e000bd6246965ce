// Package ledger stores transactions, recurring plans and debts as CSV
// files in the workspace.
package ledger

import (
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

// File names inside the workspace.
const (
	TransactionsFile = "transactions.csv"
	PlansFile        = "recurring.csv"
	DebtsFile        = "debts.csv"
)

// ErrNotFound is returned when a record ID does not exist.
var ErrNotFound = errors.New("not found")

// Service reads and appends ledger records.
type Service struct {
	repoRoot   string
	minorUnits int32
}

// NewService creates a ledger Service rooted at the workspace directory.
func NewService(repoRoot string, minorUnits int32) *Service {
	return &Service{repoRoot: repoRoot, minorUnits: minorUnits}
}

// Init creates empty ledger files that do not exist yet.
func (s *Service) Init() error {
	for name, header := range map[string]string{
		TransactionsFile: TransactionsHeader,
		PlansFile:        PlansHeader,
		DebtsFile:        DebtsHeader,
	} {
		path := s.path(name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(header+"\n"), 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return nil
}

// Transactions returns every stored transaction in file order.
func (s *Service) Transactions() ([]model.Transaction, error) {
	return readFile(s.path(TransactionsFile), ReadTransactions)
}

// Plans returns every stored recurring plan in file order.
func (s *Service) Plans() ([]model.RecurringPlan, error) {
	return readFile(s.path(PlansFile), ReadPlans)
}

// Debts returns every stored debt in file order.
func (s *Service) Debts() ([]model.Debt, error) {
	return readFile(s.path(DebtsFile), ReadDebts)
}

// Recorded pairs a stored action with the ID it was given.
type Recorded struct {
	ID     string
	Action model.Action
}

// Record assigns IDs to actions, validates the resulting rows, and appends
// them to the ledger files. Nothing is written if any row is invalid or if
// any of the files cannot be staged; only the final renames can leave a
// batch half applied.
func (s *Service) Record(actions []model.Action) ([]Recorded, error) {
	existing, err := s.existingIDs()
	if err != nil {
		return nil, err
	}
	var txIDs []string
	for known := range existing {
		txIDs = append(txIDs, known)
	}

	var batch Batch
	recorded := make([]Recorded, 0, len(actions))
	for _, a := range actions {
		switch v := a.(type) {
		case model.TransactionAction:
			year, month := v.Date.Year(), int(v.Date.Month())
			txID := id.FormatTransactionID(year, month, id.NextSeq(txIDs, year, month))
			txIDs = append(txIDs, txID)
			batch.Transactions = append(batch.Transactions, v.Transaction(txID))
			recorded = append(recorded, Recorded{ID: txID, Action: v})
		case model.RecurringAction:
			planID := id.NewPlanID()
			batch.Plans = append(batch.Plans, v.Plan(planID))
			recorded = append(recorded, Recorded{ID: planID, Action: v})
		case model.DebtAction:
			debtID := id.NewDebtID()
			batch.Debts = append(batch.Debts, v.Debt(debtID))
			recorded = append(recorded, Recorded{ID: debtID, Action: v})
		default:
			return nil, fmt.Errorf("recording action: unsupported type %T", a)
		}
	}
	if batch.Empty() {
		return nil, nil
	}

	if verrs := ValidateBatch(batch, existing, s.minorUnits); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	// Stage all three files before replacing any, so a failed write leaves
	// the ledger as it was.
	var stages []*staged
	defer func() {
		for _, st := range stages {
			st.discard()
		}
	}()
	keep := func(st *staged, err error) error {
		if st != nil {
			stages = append(stages, st)
		}
		return err
	}
	if err := keep(stageAppend(s.path(TransactionsFile), TransactionsHeader, batch.Transactions, MarshalTransaction)); err != nil {
		return nil, err
	}
	if err := keep(stageAppend(s.path(PlansFile), PlansHeader, batch.Plans, MarshalPlan)); err != nil {
		return nil, err
	}
	if err := keep(stageAppend(s.path(DebtsFile), DebtsHeader, batch.Debts, MarshalDebt)); err != nil {
		return nil, err
	}
	for _, st := range stages {
		if err := st.commit(); err != nil {
			return nil, err
		}
	}
	return recorded, nil
}

// Settle marks an active debt as settled and returns it.
func (s *Service) Settle(debtID string) (model.Debt, error) {
	debts, err := s.Debts()
	if err != nil {
		return model.Debt{}, err
	}

	idx := -1
	for i, d := range debts {
		if d.ID == debtID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.Debt{}, fmt.Errorf("debt %s: %w", debtID, ErrNotFound)
	}
	if debts[idx].Status == model.DebtSettled {
		return debts[idx], fmt.Errorf("debt %s is already settled", debtID)
	}
	debts[idx].Status = model.DebtSettled

	if err := writeFile(s.path(DebtsFile), func(w io.Writer) error { return WriteDebts(w, debts) }); err != nil {
		return model.Debt{}, err
	}
	return debts[idx], nil
}

// Balance is the running balance of the ledger as of a day.
type Balance struct {
	Amount decimal.Decimal
	// Skipped lists transactions left out because their date or type
	// could not be read.
	Skipped []string
}

// Balance adds income and subtracts expenses dated on or before today,
// starting from opening. Future-dated transactions are not included.
func (s *Service) Balance(opening decimal.Decimal, today time.Time) (Balance, error) {
	txs, err := s.Transactions()
	if err != nil {
		return Balance{}, err
	}
	return ComputeBalance(opening, txs, today), nil
}

// ComputeBalance is Balance over an in-memory list of transactions.
func ComputeBalance(opening decimal.Decimal, txs []model.Transaction, today time.Time) Balance {
	today = model.Day(today)
	b := Balance{Amount: opening}
	for _, tx := range txs {
		date, err := model.ParseDate(tx.Date)
		if err != nil || !tx.Type.Valid() {
			b.Skipped = append(b.Skipped, tx.ID)
			continue
		}
		if date.After(today) {
			continue
		}
		if tx.Type == model.EntryIncome {
			b.Amount = b.Amount.Add(tx.Amount)
		} else {
			b.Amount = b.Amount.Sub(tx.Amount)
		}
	}
	return b
}

func (s *Service) existingIDs() (map[string]bool, error) {
	ids := make(map[string]bool)
	txs, err := s.Transactions()
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		ids[tx.ID] = true
	}
	plans, err := s.Plans()
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		ids[p.ID] = true
	}
	debts, err := s.Debts()
	if err != nil {
		return nil, err
	}
	for _, d := range debts {
		ids[d.ID] = true
	}
	return ids, nil
}

func (s *Service) path(name string) string {
	return filepath.Join(s.repoRoot, name)
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// createTemp is os.CreateTemp, replaceable in tests.
var createTemp = os.CreateTemp

// staged is a complete new copy of a ledger file waiting to replace it.
type staged struct {
	tmp  string
	path string
}

// stage writes what write produces to a temp file beside path.
func stage(path string, write func(io.Writer) error) (*staged, error) {
	tmp, err := createTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	st := &staged{tmp: tmp.Name(), path: path}

	if err := write(tmp); err != nil {
		tmp.Close()
		st.discard()
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		st.discard()
		return nil, fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	return st, nil
}

func (st *staged) commit() error {
	if err := os.Rename(st.tmp, st.path); err != nil {
		return fmt.Errorf("replacing %s: %w", st.path, err)
	}
	return nil
}

// discard removes the temp file. After commit there is nothing to remove.
func (st *staged) discard() {
	_ = os.Remove(st.tmp)
}

// stageAppend stages path with rows appended to its current contents,
// starting with the header if the file is new or empty. It stages nothing
// when there are no rows.
func stageAppend[T any](path, header string, rows []T, marshal func(T) []string) (*staged, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return stage(path, func(w io.Writer) error {
		if len(existing) > 0 {
			header = ""
			if existing[len(existing)-1] != '\n' {
				existing = append(existing, '\n')
			}
			if _, err := w.Write(existing); err != nil {
				return err
			}
		}
		return writeRows(w, header, rows, marshal)
	})
}

// writeFile replaces path atomically with whatever write produces.
func writeFile(path string, write func(io.Writer) error) error {
	st, err := stage(path, write)
	if err != nil {
		return err
	}
	return st.commit()
}
