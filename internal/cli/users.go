package cli

import (
	"context"
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/entrypoint"
)

func newUsersCommand(loadConfig ConfigLoader) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage API users and their tokens",
	}

	var admin bool
	var email string
	create := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create a user and print its API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := entities.UserRoleUser
			if admin {
				role = entities.UserRoleAdmin
			}
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				user, token, err := app.Users.CreateUser(ctx, args[0], email, role)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created %s %s (%s)\n", user.Role, user.Username, user.ID)
				fmt.Fprintf(out, "Token: %s\n", token)
				fmt.Fprintln(out, "The token is not stored in clear text and cannot be shown again.")
				return nil
			})
		},
	}
	create.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	create.Flags().StringVar(&email, "email", "", "contact email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				all, err := app.Users.ListUsers(ctx)
				if err != nil {
					return err
				}
				tbl := table.New("ID", "Username", "Role", "Created").WithWriter(cmd.OutOrStdout())
				for _, u := range all {
					tbl.AddRow(u.ID, u.Username, u.Role, u.CreatedAt.Format("2006-01-02"))
				}
				tbl.Print()
				return nil
			})
		},
	}

	rotate := &cobra.Command{
		Use:   "rotate-token USERNAME",
		Short: "Replace a user's API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, loadConfig, func(ctx context.Context, app *entrypoint.App) error {
				user, err := app.Users.GetUserByUsername(ctx, args[0])
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("user %q not found", args[0])
				}
				token, err := app.Users.RotateToken(ctx, user.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Token: %s\n", token)
				return nil
			})
		},
	}

	users.AddCommand(create, list, rotate)
	return users
}
