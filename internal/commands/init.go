package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/categories"
	"github.com/safespend-dev/safespend/internal/config"
	"github.com/safespend-dev/safespend/internal/ledger"
)

type initOptions struct {
	owner      string
	currency   string
	symbol     string
	minorUnits int32
	opening    string
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new safespend workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "whose money this workspace tracks (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&opts.currency, "currency", "INR", "ISO currency code")
	cmd.Flags().StringVar(&opts.symbol, "symbol", "₹", "currency symbol for display")
	cmd.Flags().Int32Var(&opts.minorUnits, "minor-units", 2, "decimal places of the smallest currency unit")
	cmd.Flags().StringVar(&opts.opening, "opening-balance", "0", "balance before the first recorded transaction")

	return cmd
}

func runInit(out io.Writer, dir string, opts initOptions) error {
	cfgPath := config.Path(dir)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating directory logs: %w", err)
	}

	opening, err := decimal.NewFromString(opts.opening)
	if err != nil {
		return fmt.Errorf("--opening-balance %q is not a number", opts.opening)
	}

	cfg := config.Default(opts.owner)
	cfg.Currency.Code = opts.currency
	cfg.Currency.Symbol = opts.symbol
	cfg.Currency.MinorUnits = opts.minorUnits
	cfg.OpeningBalance = opening.String()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := categories.NewService(categories.Defaults()).Save(dir); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	if err := ledger.NewService(dir, cfg.Currency.MinorUnits).Init(); err != nil {
		return fmt.Errorf("creating ledgers: %w", err)
	}

	// The API key lives in .env next to the data; keep it out of version control.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".env\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(out, "Initialized safespend workspace for %s at %s\n", opts.owner, dir)
	return nil
}
