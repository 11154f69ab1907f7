package cli

import (
	"context"
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/entrypoint"
	"github.com/mrlokans/lexicon/internal/tasks"
)

func newAuditCommand(loadConfig ConfigLoader) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and trim the audit log",
	}

	var filter entities.AuditFilter
	var eventType string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Show recent audit events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.EventType = entities.AuditEventType(eventType)
			if filter.EntityID != "" {
				filter.EntityType = "word_entry"
			}
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				events, total, err := app.Audit.Events(ctx, filter, limit, 0)
				if err != nil {
					return err
				}

				tbl := table.New("When", "Type", "Action", "Status", "Description").WithWriter(cmd.OutOrStdout())
				for _, e := range events {
					tbl.AddRow(e.CreatedAt.Format("2006-01-02 15:04:05"), e.EventType, e.Action, e.Status, e.Description)
				}
				tbl.Print()
				fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d events\n", len(events), total)
				return nil
			})
		},
	}
	list.Flags().StringVar(&filter.ActorID, "actor", "", "only events by this user ID")
	list.Flags().StringVar(&eventType, "type", "", "only events of this type (create, update, delete, moderation, sweep)")
	list.Flags().StringVar(&filter.EntityID, "entry", "", "only events of this word entry ID")
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of events")

	var days int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit events past the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				if days <= 0 {
					days = app.Config.Audit.RetentionDays
				}
				task := tasks.PruneAuditTask{RetentionDays: days}
				removed, err := app.Audit.Prune(ctx, task.Retention())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit events older than %d days\n", removed, int(task.Retention().Hours()/24))
				return nil
			})
		},
	}
	prune.Flags().IntVar(&days, "days", 0, "retention in days (default AUDIT_RETENTION_DAYS)")

	auditCmd.AddCommand(list, prune)
	return auditCmd
}
