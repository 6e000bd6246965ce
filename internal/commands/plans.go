package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/logger"
	"github.com/safespend-dev/safespend/internal/model"
	"github.com/safespend-dev/safespend/internal/occurrence"
)

func newPlansCommand(repoDir *string) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List recurring bills and income with this month's dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runPlans(ws.context(cmd.Context()), cmd.OutOrStdout(), ws, today)
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "month to resolve, as a date in it (YYYY-MM-DD, default today)")

	return cmd
}

func runPlans(ctx context.Context, out io.Writer, ws *workspace, todayFlag string) error {
	log := logger.FromContext(ctx)

	today, err := parseToday(todayFlag)
	if err != nil {
		return err
	}
	plans, err := ws.ledger.Plans()
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Fprintln(out, "No recurring plans.")
		return nil
	}

	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		amount := ws.money.format(p.Amount)
		if p.Type == model.EntryExpense {
			amount = ws.money.format(p.Amount.Neg())
		}

		var when string
		occ, err := occurrence.Resolve(p, today.Year(), today.Month())
		switch {
		case err != nil:
			log.Warn().Str("plan", p.ID).Err(err).Msg("cannot resolve plan")
			when = warnStyle.Render("invalid")
		case occ.Suppressed:
			when = mutedStyle.Render("suppressed")
		default:
			when = model.FormatDate(occ.Date)
			if occ.Date.Before(today) {
				when = mutedStyle.Render(when)
			}
		}

		end := p.EndDate
		if end == "" {
			end = "-"
		}
		rows = append(rows, []string{p.Name, string(p.Frequency), string(p.ExpectedDate), end, amount, when})
	}

	title := fmt.Sprintf("Recurring plans for %s", today.Format("January 2006"))
	fmt.Fprint(out, table{
		title:   title,
		headers: []string{"Name", "Frequency", "Expected", "Ends", "Amount", "This month"},
		rows:    rows,
	}.render())
	return nil
}
