package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/logger"
	"github.com/safespend-dev/safespend/internal/safespend"
)

type statusOptions struct {
	today   string
	balance string
}

func newStatusCommand(repoDir *string) *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how much you can safely spend today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runStatus(ws.context(cmd.Context()), cmd.OutOrStdout(), ws, opts)
		},
	}

	cmd.Flags().StringVar(&opts.today, "today", "", "date to compute for (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&opts.balance, "balance", "", "use this on-hand balance instead of the ledger's")

	return cmd
}

func runStatus(ctx context.Context, out io.Writer, ws *workspace, opts statusOptions) error {
	log := logger.FromContext(ctx)

	today, err := parseToday(opts.today)
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

	var balance decimal.Decimal
	if opts.balance != "" {
		balance, err = decimal.NewFromString(opts.balance)
		if err != nil {
			return fmt.Errorf("--balance %q is not a number", opts.balance)
		}
	} else {
		opening, err := ws.cfg.Opening()
		if err != nil {
			return err
		}
		b, err := ws.ledger.Balance(opening, today)
		if err != nil {
			return err
		}
		balance = b.Amount
	}

	res := safespend.Compute(safespend.Input{
		Balance:      balance,
		Transactions: txs,
		Plans:        plans,
		Today:        today,
		MinorUnits:   ws.cfg.Currency.MinorUnits,
	})

	warnings := make([]error, len(res.Warnings))
	for i, w := range res.Warnings {
		log.Warn().Str("source", w.Source).Str("id", w.ID).Err(w.Err).Msg("record skipped")
		warnings[i] = w
	}

	limitStyle := goodStyle
	switch {
	case res.SafeDailyLimit.IsZero():
		limitStyle = badStyle
	case res.SpentToday.GreaterThan(res.SafeDailyLimit):
		limitStyle = warnStyle
	}

	m := ws.money
	fmt.Fprintln(out, renderTitle(fmt.Sprintf("%s, %s", ws.cfg.Owner, today.Format("Mon 2 Jan 2006"))))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Safe to spend today  %s\n", limitStyle.Render(m.format(res.SafeDailyLimit)))
	fmt.Fprintf(out, "  Spent today          %s\n", m.format(res.SpentToday))
	fmt.Fprintln(out)

	rows := [][]string{
		{"Balance", m.format(balance)},
		{"Upcoming recurring", m.format(res.UpcomingRecurring.Neg())},
		{"Future one-off", m.format(res.FutureOneOff.Neg())},
		{"Conservative balance", m.format(res.ConservativeBalance)},
		{"Days remaining", fmt.Sprintf("%d", res.DaysRemaining)},
	}
	fmt.Fprint(out, table{headers: []string{"This month", "Amount"}, rows: rows}.render())

	printWarnings(out, warnings)
	return nil
}
