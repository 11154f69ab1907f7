package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lexicon/internal/entrypoint"
	"github.com/mrlokans/lexicon/internal/tasks"
)

func newSweepCommand(loadConfig ConfigLoader) *cobra.Command {
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Run maintenance sweeps immediately",
	}

	var batch int
	favorites := &cobra.Command{
		Use:   "favorites",
		Short: "Delete favorites that point at removed word entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				if batch < 1 {
					batch = app.Config.Sweep.BatchSize
				}
				result, err := tasks.SweepOrphanFavorites(ctx, app.Favorites, batch)
				app.Audit.LogSweep(result.Words, result.Removed, err)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d favorites of %d deleted entries\n", result.Removed, result.Words)
				return nil
			})
		},
	}
	favorites.Flags().IntVar(&batch, "batch", 0, "word ids per batch (default from SWEEP_BATCH_SIZE)")

	sweep.AddCommand(favorites)
	return sweep
}
