package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/insights"
	"github.com/safespend-dev/safespend/internal/logger"
	"github.com/safespend-dev/safespend/internal/model"
)

type insightsOptions struct {
	today string
	all   bool
}

func newInsightsCommand(repoDir *string) *cobra.Command {
	var opts insightsOptions

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show categories over the leak threshold and repeating expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runInsights(ws.context(cmd.Context()), cmd.OutOrStdout(), ws, opts)
		},
	}

	cmd.Flags().StringVar(&opts.today, "today", "", "month to check for leaks, as a date in it (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "check leaks across the whole ledger instead of one month")

	return cmd
}

func runInsights(ctx context.Context, out io.Writer, ws *workspace, opts insightsOptions) error {
	log := logger.FromContext(ctx)

	today, err := parseToday(opts.today)
	if err != nil {
		return err
	}
	threshold, err := ws.cfg.LeakThreshold()
	if err != nil {
		return err
	}
	txs, err := ws.ledger.Transactions()
	if err != nil {
		return err
	}
	plans, err := ws.ledger.Plans()
	if err != nil {
		return err
	}

	var from, to time.Time
	period := "all time"
	if !opts.all {
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
		period = today.Format("January 2006")
	}

	leaks, leakWarnings := insights.Leaks(txs, threshold, from, to)
	subs, _ := insights.Subscriptions(txs, plans)

	// Both passes skip the same malformed rows; report them once.
	warnings := make([]error, 0, len(leakWarnings))
	for _, w := range leakWarnings {
		log.Warn().Str("source", w.Source).Str("id", w.ID).Err(w.Err).Msg("record skipped")
		warnings = append(warnings, w)
	}

	m := ws.money
	if len(leaks) == 0 {
		fmt.Fprintf(out, "No category went over %s in %s.\n", m.format(threshold), period)
	} else {
		rows := make([][]string, 0, len(leaks))
		for _, l := range leaks {
			rows = append(rows, []string{l.Category, fmt.Sprintf("%d", l.Count), badStyle.Render(m.format(l.Amount))})
		}
		fmt.Fprint(out, table{
			title:   fmt.Sprintf("Over %s in %s", m.format(threshold), period),
			headers: []string{"Category", "Entries", "Spent"},
			rows:    rows,
		}.render())
	}
	fmt.Fprintln(out)

	if len(subs) == 0 {
		fmt.Fprintln(out, "No repeating expenses.")
	} else {
		rows := make([][]string, 0, len(subs))
		for _, s := range subs {
			tracked := warnStyle.Render("no")
			if s.Planned {
				tracked = "yes"
			}
			rows = append(rows, []string{s.Name, m.format(s.Amount), fmt.Sprintf("%d", s.Count), model.FormatDate(s.LastPaid), tracked})
		}
		fmt.Fprint(out, table{
			title:   "Repeating expenses",
			headers: []string{"Name", "Amount", "Times", "Last paid", "Planned"},
			rows:    rows,
		}.render())
	}

	printWarnings(out, warnings)
	return nil
}
