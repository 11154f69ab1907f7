package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/lexicon/internal/entrypoint"
)

func newLookupCommand(loadConfig ConfigLoader) *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "lookup WORD",
		Short: "Show what the configured dictionaries know about a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				if app.Dictionary == nil {
					return errors.New("dictionary lookups are disabled (DICTIONARY_ENABLED)")
				}
				result, err := app.Dictionary.Lookup(ctx, args[0], language)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", result.Word, result.Language)
				if result.Pronunciation != "" {
					fmt.Fprintf(out, "Pronunciation: %s\n", result.Pronunciation)
				}
				fmt.Fprintf(out, "Sources: %s\n", strings.Join(result.Sources, ", "))

				if len(result.Meanings) > 0 {
					fmt.Fprintln(out)
					tbl := table.New("Part of speech", "Definition").WithWriter(out)
					for _, m := range result.Meanings {
						for _, d := range m.Definitions {
							tbl.AddRow(m.PartOfSpeech, d.Definition)
						}
					}
					tbl.Print()
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "en", "language code")
	return cmd
}
