package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/safespend-dev/safespend/internal/actions"
	"github.com/safespend-dev/safespend/internal/activitylog"
	"github.com/safespend-dev/safespend/internal/categories"
	"github.com/safespend-dev/safespend/internal/classifier"
	"github.com/safespend-dev/safespend/internal/ledger"
	"github.com/safespend-dev/safespend/internal/logger"
	"github.com/safespend-dev/safespend/internal/model"
)

type addOptions struct {
	rawFile string
	dryRun  bool
	partial bool
	today   string
}

func newAddCommand(repoDir *string) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [utterance]...",
		Short: "Record spending, income, debts or bills described in plain language",
		Example: `  safespend add "Lunch 150" "Rent 15000 every 1st"
  safespend add "Paid 900 for dinner split between me, Sam and Tom"
  safespend add --raw actions.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.rawFile == "" && len(args) == 0 {
				return errors.New("give at least one utterance, or --raw <file>")
			}
			if opts.rawFile != "" && len(args) > 0 {
				return errors.New("--raw cannot be combined with utterances")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runAdd(ws.context(cmd.Context()), cmd.OutOrStdout(), ws, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.rawFile, "raw", "", "normalize raw actions from a JSON file (- for stdin) instead of classifying text")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be recorded without writing anything")
	cmd.Flags().BoolVar(&opts.partial, "partial", false, "record the valid actions even if some are malformed")
	cmd.Flags().StringVar(&opts.today, "today", "", "date to use for undated entries (YYYY-MM-DD, default today)")

	return cmd
}

// rawBatch is the classifier output for one utterance. Split and lending
// derivation only pairs records within a batch.
type rawBatch struct {
	source  string
	records []map[string]any
}

func runAdd(ctx context.Context, out io.Writer, ws *workspace, utterances []string, opts addOptions) error {
	log := logger.FromContext(ctx)

	today, err := parseToday(opts.today)
	if err != nil {
		return err
	}

	cats, err := categories.Load(ws.root)
	if err != nil {
		return err
	}

	var c classifier.Classifier
	if opts.rawFile != "" {
		records, err := readRaw(opts.rawFile)
		if err != nil {
			return err
		}
		c = classifier.Static(records)
		utterances = []string{opts.rawFile}
	} else {
		c, err = newClassifier(ctx, ws, cats)
		if err != nil {
			return err
		}
	}

	batches, err := classifyAll(ctx, c, utterances, today, ws.cfg.Classifier.Concurrency, ws.cfg.Classifier.Timeout)
	if err != nil {
		return err
	}

	normOpts := actions.Options{Today: today, MinorUnits: ws.cfg.Currency.MinorUnits}
	var accepted []model.Action
	var sources []string
	var malformed []error
	for _, b := range batches {
		acts, err := actions.Normalize(b.records, normOpts)
		if err != nil {
			for _, me := range actions.Malformed(err) {
				malformed = append(malformed, fmt.Errorf("%q: %w", b.source, me))
			}
		}
		accepted = append(accepted, acts...)
		for range acts {
			sources = append(sources, b.source)
		}
	}

	if len(malformed) > 0 {
		for _, e := range malformed {
			log.Warn().Err(e).Msg("malformed action")
			fmt.Fprintln(out, warnStyle.Render("  "+e.Error()))
		}
		if !opts.partial {
			return fmt.Errorf("%d malformed action(s); nothing recorded (use --partial to record the rest)", len(malformed))
		}
	}
	if len(accepted) == 0 {
		fmt.Fprintln(out, "Nothing to record.")
		return nil
	}

	added, catErrs := addMissingCategories(cats, accepted)
	for _, name := range added {
		log.Info().Str("category", name).Msg("adding new category")
	}
	for _, err := range catErrs {
		log.Warn().Err(err).Msg("category not added")
	}

	if opts.dryRun {
		rows := make([][]string, len(accepted))
		for i, a := range accepted {
			rows[i] = []string{"-", string(a.Kind()), activitylog.Describe(a, ws.cfg.Currency.MinorUnits)}
		}
		fmt.Fprint(out, table{title: "Dry run: nothing recorded", headers: []string{"ID", "Kind", "Details"}, rows: rows}.render())
		return nil
	}

	recorded, err := ws.ledger.Record(accepted)
	if err != nil {
		return fmt.Errorf("recording actions: %w", err)
	}
	if len(added) > 0 {
		if err := cats.Save(ws.root); err != nil {
			return err
		}
	}

	if err := activitylog.Append(ws.root, activityEntries("add", recorded, sources, ws.cfg.Currency.MinorUnits)); err != nil {
		// The ledger is already written; losing the log entry is not fatal.
		log.Error().Err(err).Msg("writing activity log")
	}

	fmt.Fprint(out, recordedTable(recorded, ws.cfg.Currency.MinorUnits).render())
	return nil
}

func newClassifier(ctx context.Context, ws *workspace, cats *categories.Service) (classifier.Classifier, error) {
	key := ws.cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: set %s in the environment or in %s/.env, or use --raw",
			classifier.ErrUnavailable, ws.cfg.Classifier.APIKeyEnv, ws.root)
	}
	return classifier.NewGemini(ctx, classifier.GeminiConfig{
		APIKey:     key,
		Model:      ws.cfg.Classifier.Model,
		Categories: cats.Names(),
	})
}

// classifyAll runs the classifier over every utterance, at most limit at a
// time, each under its own timeout. Results keep the input order.
func classifyAll(ctx context.Context, c classifier.Classifier, utterances []string, today time.Time, limit int, timeout time.Duration) ([]rawBatch, error) {
	log := logger.FromContext(ctx)
	batches := make([]rawBatch, len(utterances))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, u := range utterances {
		g.Go(func() error {
			cctx := gctx
			if timeout > 0 {
				var cancel context.CancelFunc
				cctx, cancel = context.WithTimeout(gctx, timeout)
				defer cancel()
			}
			start := time.Now()
			records, err := c.Classify(cctx, u, today)
			if err != nil {
				return fmt.Errorf("classifying %q: %w", u, err)
			}
			log.Debug().Str("utterance", u).Int("records", len(records)).Dur("took", time.Since(start)).Msg("classified")
			batches[i] = rawBatch{source: u, records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func readRaw(path string) ([]map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return actions.Decode(data)
}

// addMissingCategories adds every transaction category the list does not
// know yet. It returns the names added and the reasons any could not be.
func addMissingCategories(cats *categories.Service, acts []model.Action) ([]string, []error) {
	var added []string
	var errs []error
	for _, a := range acts {
		tx, ok := a.(model.TransactionAction)
		if !ok || tx.Category == "" || cats.Exists(tx.Category) {
			continue
		}
		if err := cats.Add(model.Category{Name: tx.Category, Type: tx.Type}); err != nil {
			errs = append(errs, err)
			continue
		}
		added = append(added, tx.Category)
	}
	return added, errs
}

func activityEntries(command string, recorded []ledger.Recorded, sources []string, places int32) []activitylog.Entry {
	now := time.Now().UTC().Truncate(time.Second)
	entries := make([]activitylog.Entry, len(recorded))
	for i, r := range recorded {
		entries[i] = activitylog.Entry{
			Timestamp: now,
			Command:   command,
			Kind:      string(r.Action.Kind()),
			Details:   activitylog.Describe(r.Action, places),
			RecordID:  r.ID,
		}
		if i < len(sources) {
			entries[i].Source = sources[i]
		}
	}
	return entries
}

func recordedTable(recorded []ledger.Recorded, places int32) table {
	rows := make([][]string, len(recorded))
	for i, r := range recorded {
		rows[i] = []string{r.ID, string(r.Action.Kind()), activitylog.Describe(r.Action, places)}
	}
	return table{title: fmt.Sprintf("Recorded %d action(s)", len(recorded)), headers: []string{"ID", "Kind", "Details"}, rows: rows}
}
