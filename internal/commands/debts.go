package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/activitylog"
	"github.com/safespend-dev/safespend/internal/logger"
	"github.com/safespend-dev/safespend/internal/model"
)

func newDebtsCommand(repoDir *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "debts",
		Short: "List money you owe and are owed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runDebts(cmd.OutOrStdout(), ws, all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include settled debts")

	cmd.AddCommand(&cobra.Command{
		Use:   "settle <id>",
		Short: "Mark a debt as settled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runSettle(ws.context(cmd.Context()), cmd.OutOrStdout(), ws, args[0])
		},
	})

	return cmd
}

func runDebts(out io.Writer, ws *workspace, all bool) error {
	debts, err := ws.ledger.Debts()
	if err != nil {
		return err
	}

	owed, owing := decimal.Zero, decimal.Zero
	var rows [][]string
	for _, d := range debts {
		if d.Status == model.DebtSettled && !all {
			continue
		}
		due := d.DueDate
		if due == "" {
			due = "-"
		}
		amount := ws.money.format(d.Amount)
		if d.Status == model.DebtActive {
			if d.Direction == model.DirectionReceivable {
				owed = owed.Add(d.Amount)
			} else {
				owing = owing.Add(d.Amount)
			}
		} else {
			amount = mutedStyle.Render(amount)
		}
		rows = append(rows, []string{d.ID, d.PersonName, string(d.Direction), due, string(d.Status), amount})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No outstanding debts.")
		return nil
	}

	fmt.Fprint(out, table{
		headers: []string{"ID", "Person", "Direction", "Due", "Status", "Amount"},
		rows:    rows,
	}.render())
	fmt.Fprintf(out, "  Owed to you %s   You owe %s\n", goodStyle.Render(ws.money.format(owed)), warnStyle.Render(ws.money.format(owing)))
	return nil
}

func runSettle(ctx context.Context, out io.Writer, ws *workspace, id string) error {
	log := logger.FromContext(ctx)

	d, err := ws.ledger.Settle(id)
	if err != nil {
		return fmt.Errorf("settling %s: %w", id, err)
	}

	action := model.DebtAction{PersonName: d.PersonName, Amount: d.Amount, Direction: d.Direction}
	if due, err := model.ParseDate(d.DueDate); err == nil {
		action.DueDate = due
	}
	entry := activitylog.Entry{
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Command:   "settle",
		Kind:      string(model.KindDebt),
		Details:   "settled " + activitylog.Describe(action, ws.cfg.Currency.MinorUnits),
		RecordID:  d.ID,
	}
	if err := activitylog.Append(ws.root, []activitylog.Entry{entry}); err != nil {
		log.Error().Err(err).Msg("writing activity log")
	}

	fmt.Fprintf(out, "Settled %s: %s %s %s\n", d.ID, d.Direction, ws.money.format(d.Amount), d.PersonName)
	return nil
}
