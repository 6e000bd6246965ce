package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/activitylog"
)

func newLogCommand(repoDir *string) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recently recorded activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(*repoDir)
			if err != nil {
				return err
			}
			return runLog(cmd.OutOrStdout(), ws, n)
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to show (0 for all)")

	return cmd
}

func runLog(out io.Writer, ws *workspace, n int) error {
	entries, err := activitylog.Read(ws.root)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No activity yet.")
		return nil
	}

	entries = activitylog.Tail(entries, n)
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Timestamp.Local().Format("2006-01-02 15:04"), e.Command, e.RecordID, e.Details}
	}
	fmt.Fprint(out, table{headers: []string{"When", "Command", "ID", "Details"}, rows: rows}.render())
	return nil
}
