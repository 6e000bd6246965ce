package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/actions"
)

type normalizeOptions struct {
	today      string
	partial    bool
	minorUnits int32
}

func newNormalizeCommand() *cobra.Command {
	var opts normalizeOptions

	cmd := &cobra.Command{
		Use:   "normalize <file|->",
		Short: "Normalize raw classifier output and print it as JSON",
		Long: `Reads a JSON array of raw action records, completes missing fields,
derives split and lending debts, and prints the normalized actions.
Nothing is recorded. Feeding the output back in yields the same output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.today, "today", "", "date to use for undated entries (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&opts.partial, "partial", false, "print the valid actions even if some are malformed")
	cmd.Flags().Int32Var(&opts.minorUnits, "minor-units", 2, "decimal places of the smallest currency unit")

	return cmd
}

func runNormalize(out, errOut io.Writer, path string, opts normalizeOptions) error {
	today, err := parseToday(opts.today)
	if err != nil {
		return err
	}
	raw, err := readRaw(path)
	if err != nil {
		return err
	}

	acts, err := actions.Normalize(raw, actions.Options{Today: today, MinorUnits: opts.minorUnits})
	if err != nil {
		bad := actions.Malformed(err)
		for _, me := range bad {
			fmt.Fprintln(errOut, me.Error())
		}
		if !opts.partial {
			return fmt.Errorf("%d malformed action(s)", len(bad))
		}
	}

	data, err := actions.EncodeJSON(acts)
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
