package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/categories"
	"github.com/safespend-dev/safespend/internal/model"
)

func newCategoriesCommand(repoDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List spending and income categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := loadCategories(*repoDir)
			if err != nil {
				return err
			}
			return runCategories(cmd.OutOrStdout(), cats)
		},
	}

	var typ, description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := model.EntryType(typ)
			if t != "" && !t.Valid() {
				return fmt.Errorf("--type must be income or expense, got %q", typ)
			}
			return editCategories(cmd.OutOrStdout(), *repoDir, func(cats *categories.Service) error {
				return cats.Add(model.Category{Name: args[0], Type: t, Description: description})
			}, fmt.Sprintf("Added category %s", args[0]))
		},
	}
	add.Flags().StringVar(&typ, "type", "expense", "income or expense (empty for either)")
	add.Flags().StringVar(&description, "description", "", "what belongs in the category")

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a category you added",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editCategories(cmd.OutOrStdout(), *repoDir, func(cats *categories.Service) error {
				return cats.Remove(args[0])
			}, fmt.Sprintf("Removed category %s", args[0]))
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func loadCategories(repoDir string) (*categories.Service, error) {
	ws, err := openWorkspace(repoDir)
	if err != nil {
		return nil, err
	}
	return categories.Load(ws.root)
}

func editCategories(out io.Writer, repoDir string, edit func(*categories.Service) error, done string) error {
	ws, err := openWorkspace(repoDir)
	if err != nil {
		return err
	}
	cats, err := categories.Load(ws.root)
	if err != nil {
		return err
	}
	if err := edit(cats); err != nil {
		return err
	}
	if err := cats.Save(ws.root); err != nil {
		return err
	}
	fmt.Fprintln(out, done)
	return nil
}

func runCategories(out io.Writer, cats *categories.Service) error {
	all := cats.All()
	rows := make([][]string, len(all))
	for i, c := range all {
		typ := string(c.Type)
		if typ == "" {
			typ = "any"
		}
		rows[i] = []string{c.Name, typ, c.Description}
	}
	fmt.Fprint(out, table{headers: []string{"Name", "Type", "Description"}, rows: rows}.render())
	return nil
}
