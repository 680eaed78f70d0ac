package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipebook/recipebook-client/internal/di/providers"
	"github.com/recipebook/recipebook-client/internal/domain"
	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

func newAdminCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "User management and statistics (super admins)",
	}
	cmd.AddCommand(
		newAdminUsersCmd(c),
		newAdminRoleCmd(c),
		newAdminActiveCmd(c, true),
		newAdminActiveCmd(c, false),
		newAdminDeleteCmd(c),
		newAdminInviteCmd(c),
		newAdminStatsCmd(c),
	)
	return cmd
}

func newAdminUsersCmd(c *cli) *cobra.Command {
	var role, term string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			users, err := app.FetchAllUsers(cmd.Context())
			if err != nil {
				return err
			}
			users = domain.FilterUsers(users, role, term)
			if len(users) == 0 {
				c.printf("No users\n")
				return nil
			}
			rows := make([]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%d",
					u.ID, u.Username, u.Email, u.Role, yesNo(u.IsActive), u.PostCount))
			}
			return c.table("ID\tUSERNAME\tEMAIL\tROLE\tACTIVE\tPOSTS", rows)
		},
	}
	cmd.Flags().StringVar(&role, "role", domain.RoleFilterAll, "Only show this role: all, user or admin")
	cmd.Flags().StringVar(&term, "search", "", "Match username or email")
	return cmd
}

func newAdminRoleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "role <user-id> <user|admin>",
		Short:     "Change a user's role",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.RoleUser), string(domain.RoleAdmin)},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			u, err := app.ChangeUserRole(cmd.Context(), args[0], domain.RoleInput{Role: domain.Role(args[1])})
			if err != nil {
				return err
			}
			c.printf("%s is now %s\n", u.Username, u.Role)
			return nil
		},
	}
}

// findUser looks a user up in the management list.
func findUser(ctx context.Context, app *providers.AppHandle, id string) (domain.AdminUser, error) {
	users, err := app.FetchAllUsers(ctx)
	if err != nil {
		return domain.AdminUser{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.AdminUser{}, domainerrors.NotFoundf("user %s not found", id)
}

// newAdminActiveCmd builds "activate" or "deactivate". Users already in the
// requested state are left alone.
func newAdminActiveCmd(c *cli, active bool) *cobra.Command {
	use, short := "deactivate <user-id>", "Block a user from signing in"
	if active {
		use, short = "activate <user-id>", "Allow a user to sign in again"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			current, err := findUser(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if current.IsActive == active {
				c.printf("%s is already %s\n", current.Username, activeLabel(active))
				return nil
			}
			u, err := app.ToggleUserActiveState(cmd.Context(), args[0], current.IsActive)
			if err != nil {
				return err
			}
			c.printf("%s is now %s\n", u.Username, activeLabel(u.IsActive))
			return nil
		},
	}
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func newAdminDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <user-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printf("Deleted user %s\n", args[0])
			return nil
		},
	}
}

func newAdminInviteCmd(c *cli) *cobra.Command {
	var (
		in   domain.InviteInput
		role string
	)
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Create an account and email a setup link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.fill(plain("Username: ", &in.Username), plain("Email: ", &in.Email)); err != nil {
				return err
			}
			in.Role = domain.Role(role)
			msg, err := app.InviteUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			c.printf("%s\n", msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "Username")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "Role: user or admin")
	return cmd
}

func newAdminStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			st, err := app.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			return c.table("METRIC\tTOTAL", []string{
				fmt.Sprintf("users\t%d", st.Users.Total),
				fmt.Sprintf("recipes\t%d", st.Recipes.Total),
				fmt.Sprintf("newsletters\t%d", st.Posts.Total),
				fmt.Sprintf("likes\t%d", st.Interactions.Likes),
				fmt.Sprintf("comments\t%d", st.Interactions.Comments),
			})
		},
	}
}
