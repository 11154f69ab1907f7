package cli

import (
	"context"
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/entrypoint"
)

func newModerationCommand(loadConfig ConfigLoader) *cobra.Command {
	moderation := &cobra.Command{
		Use:   "moderation",
		Short: "Review submitted word entries",
	}

	var page, limit int
	pending := &cobra.Command{
		Use:   "pending",
		Short: "List entries awaiting review, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				result, err := app.Catalog.ListPending(ctx, page, limit)
				if err != nil {
					return err
				}

				tbl := table.New("ID", "Word", "Language", "Submitted by", "Created").WithWriter(cmd.OutOrStdout())
				for _, w := range result.Words {
					submitter := "-"
					if w.Creator != nil {
						submitter = w.Creator.Username
					}
					tbl.AddRow(w.ID, w.Word, w.Language, submitter, w.CreatedAt.Format("2006-01-02 15:04"))
				}
				tbl.Print()
				fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d (%d pending)\n", result.Page, max(result.TotalPages, 1), result.Total)
				return nil
			})
		},
	}
	pending.Flags().IntVar(&page, "page", 1, "page number")
	pending.Flags().IntVar(&limit, "limit", 20, "entries per page")

	moderation.AddCommand(
		pending,
		newSetStatusCommand(loadConfig, "approve", entities.WordStatusApproved),
		newSetStatusCommand(loadConfig, "reject", entities.WordStatusRejected),
	)
	return moderation
}

func newSetStatusCommand(loadConfig ConfigLoader, verb string, status entities.WordStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Short: fmt.Sprintf("Mark an entry as %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				entry, err := app.Catalog.SetStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", entry.Word, entry.Language, entry.Status)
				return nil
			})
		},
	}
}
