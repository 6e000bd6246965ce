package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/forecast"
	"github.com/safespend-dev/safespend/internal/ledger"
	"github.com/safespend-dev/safespend/internal/logger"
)

type forecastOptions struct {
	weeks int
	today string
}

func newForecastCommand(repoDir *string) *cobra.Command {
	var opts forecastOptions

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project your balance week by week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runForecast(ws.context(cmd.Context()), cmd.OutOrStdout(), ws, opts)
		},
	}

	cmd.Flags().IntVar(&opts.weeks, "weeks", 0, "number of weeks to project (default from safespend.yaml)")
	cmd.Flags().StringVar(&opts.today, "today", "", "date to project from (YYYY-MM-DD, default today)")

	return cmd
}

func runForecast(ctx context.Context, out io.Writer, ws *workspace, opts forecastOptions) error {
	log := logger.FromContext(ctx)

	today, err := parseToday(opts.today)
	if err != nil {
		return err
	}
	weeks := opts.weeks
	if weeks <= 0 {
		weeks = ws.cfg.Forecast.Weeks
	}
	ratio, err := ws.cfg.DangerRatio()
	if err != nil {
		return err
	}
	opening, err := ws.cfg.Opening()
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
	debts, err := ws.ledger.Debts()
	if err != nil {
		return err
	}

	balance := ledger.ComputeBalance(opening, txs, today).Amount
	res := forecast.Weekly(forecast.Input{
		Balance:      balance,
		Transactions: txs,
		Plans:        plans,
		Debts:        debts,
		Today:        today,
		DangerRatio:  ratio,
	}, weeks)

	warnings := make([]error, len(res.Warnings))
	for i, w := range res.Warnings {
		log.Warn().Str("source", w.Source).Str("id", w.ID).Err(w.Err).Msg("record skipped")
		warnings[i] = w
	}

	m := ws.money
	rows := make([][]string, len(res.Weeks))
	for i, w := range res.Weeks {
		bal := m.format(w.Balance)
		if w.Danger {
			bal = badStyle.Render("! " + bal)
		}
		rows[i] = []string{
			fmt.Sprintf("%s to %s", w.Start.Format("02 Jan"), w.End.Format("02 Jan")),
			m.format(w.Income),
			m.format(w.Expense),
			bal,
		}
	}

	fmt.Fprintln(out, renderTitle(fmt.Sprintf("%d-week forecast from %s", weeks, m.format(balance))))
	fmt.Fprintln(out)
	fmt.Fprint(out, table{headers: []string{"Week", "Income", "Expense", "Balance"}, rows: rows}.render())
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  ! balance below %s%% of today's", ratio.Shift(2).String())))

	printWarnings(out, warnings)
	return nil
}
