package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/activitylog"
	"github.com/safespend-dev/safespend/internal/goals"
	"github.com/safespend-dev/safespend/internal/logger"
)

func newGoalsCommand(repoDir *string) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List savings goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runGoals(cmd.OutOrStdout(), ws, today)
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "date to pace goals from (YYYY-MM-DD, default today)")

	var target, by string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Start a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(target)
			if err != nil {
				return fmt.Errorf("--target %q is not a number", target)
			}
			return editGoals(cmd, *repoDir, "goal", func(s *goals.Service) (goals.Goal, error) {
				return s.Add(args[0], amount, by)
			}, func(g goals.Goal, m money) string {
				return fmt.Sprintf("added goal %s of %s", g.Name, m.format(g.Target))
			})
		},
	}
	add.Flags().StringVar(&target, "target", "", "amount to save")
	add.Flags().StringVar(&by, "by", "", "date to reach it by (YYYY-MM-DD)")
	_ = add.MarkFlagRequired("target")

	save := &cobra.Command{
		Use:   "save <id> <amount>",
		Short: "Put money toward a goal (negative to take it back)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("amount %q is not a number", args[1])
			}
			return editGoals(cmd, *repoDir, "goal-save", func(s *goals.Service) (goals.Goal, error) {
				return s.Contribute(args[0], amount)
			}, func(g goals.Goal, m money) string {
				return fmt.Sprintf("saved %s toward %s, %s of %s", m.format(amount), g.Name, m.format(g.Saved), m.format(g.Target))
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editGoals(cmd, *repoDir, "goal-remove", func(s *goals.Service) (goals.Goal, error) {
				return s.Remove(args[0])
			}, func(g goals.Goal, m money) string {
				return fmt.Sprintf("removed goal %s with %s saved", g.Name, m.format(g.Saved))
			})
		},
	}

	cmd.AddCommand(add, save, remove)
	return cmd
}

// editGoals loads the goal list, applies edit, saves it and records the
// change in the activity log.
func editGoals(cmd *cobra.Command, repoDir, command string, edit func(*goals.Service) (goals.Goal, error), describe func(goals.Goal, money) string) error {
	ws, err := openWorkspace(repoDir)
	if err != nil {
		return err
	}
	log := logger.FromContext(ws.context(cmd.Context()))

	s, err := goals.Load(ws.root)
	if err != nil {
		return err
	}
	g, err := edit(s)
	if err != nil {
		return err
	}
	if err := s.Save(ws.root); err != nil {
		return err
	}

	details := describe(g, ws.money)
	entry := activitylog.Entry{
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Command:   command,
		Kind:      "goal",
		Details:   details,
		RecordID:  g.ID,
	}
	if err := activitylog.Append(ws.root, []activitylog.Entry{entry}); err != nil {
		log.Error().Err(err).Msg("writing activity log")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", g.ID, details)
	return nil
}

func runGoals(out io.Writer, ws *workspace, todayFlag string) error {
	today, err := parseToday(todayFlag)
	if err != nil {
		return err
	}
	s, err := goals.Load(ws.root)
	if err != nil {
		return err
	}
	all := s.All()
	if len(all) == 0 {
		fmt.Fprintln(out, "No savings goals.")
		return nil
	}

	m := ws.money
	rows := make([][]string, 0, len(all))
	for _, g := range all {
		by, pace := "-", "-"
		if g.TargetDate != "" {
			by = g.TargetDate
			if perDay, ok := g.PerDay(today, m.places); ok {
				pace = m.format(perDay) + "/day"
			} else if g.Remaining().IsPositive() {
				pace = badStyle.Render("overdue")
			}
		}
		progress := fmt.Sprintf("%d%%", g.Progress())
		if g.Progress() == 100 {
			progress = goodStyle.Render(progress)
		}
		rows = append(rows, []string{g.ID, g.Name, m.format(g.Saved), m.format(g.Target), progress, by, pace})
	}
	fmt.Fprint(out, table{
		title:   "Savings goals",
		headers: []string{"ID", "Name", "Saved", "Target", "Progress", "By", "Needed"},
		rows:    rows,
	}.render())
	return nil
}
