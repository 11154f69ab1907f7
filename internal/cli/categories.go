package cli

import (
	"context"
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/lexicon/internal/entrypoint"
)

func newCategoriesCommand(loadConfig ConfigLoader) *cobra.Command {
	categories := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category taxonomy",
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				category, err := app.Categories.CreateCategory(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s)\n", category.Name, category.ID)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				all, err := app.Categories.ListCategories(ctx)
				if err != nil {
					return err
				}
				tbl := table.New("ID", "Name").WithWriter(cmd.OutOrStdout())
				for _, c := range all {
					tbl.AddRow(c.ID, c.Name)
				}
				tbl.Print()
				return nil
			})
		},
	}

	categories.AddCommand(add, list)
	return categories
}
