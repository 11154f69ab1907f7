package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/entrypoint"
)

// ConfigLoader returns the configuration commands run with.
type ConfigLoader func() *config.Config

// NewRootCommand builds the lexicon command tree. Running it without a
// subcommand starts the server.
func NewRootCommand(version string, loadConfig ConfigLoader) *cobra.Command {
	if loadConfig == nil {
		loadConfig = config.NewConfig
	}

	serve := newServeCommand(version, loadConfig)
	root := &cobra.Command{
		Use:           "lexicon",
		Short:         "Multilingual dictionary catalog",
		Long:          "Lexicon serves a catalog of dictionary word entries with moderation and per-user favorites.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newUsersCommand(loadConfig),
		newCategoriesCommand(loadConfig),
		newModerationCommand(loadConfig),
		newSweepCommand(loadConfig),
		newLookupCommand(loadConfig),
		newAuditCommand(loadConfig),
	)
	return root
}

func newServeCommand(version string, loadConfig ConfigLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(cmd.Context(), loadConfig(), version)
		},
	}
}

// withApp opens the application for a one-shot command and closes it after.
func withApp(cmd *cobra.Command, loadConfig ConfigLoader, fn func(ctx context.Context, app *entrypoint.App) error) (err error) {
	app, err := entrypoint.NewApp(loadConfig())
	if err != nil {
		return fmt.Errorf("open application: %w", err)
	}
	defer func() {
		if closeErr := app.Close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, app)
}
