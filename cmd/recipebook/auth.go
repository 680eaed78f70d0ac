package main

import (
	"github.com/spf13/cobra"

	"github.com/recipebook/recipebook-client/internal/domain"
)

func newLoginCmd(c *cli) *cobra.Command {
	var in domain.LoginInput
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.fill(plain("Email: ", &in.Email), secret("Password: ", &in.Password)); err != nil {
				return err
			}
			user, err := app.Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			c.printf("Signed in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Logout(cmd.Context()); err != nil {
				return err
			}
			c.printf("Signed out\n")
			return nil
		},
	}
}

func newSignupCmd(c *cli) *cobra.Command {
	var in domain.SignupInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.fill(
				plain("Username: ", &in.Username),
				plain("Email: ", &in.Email),
				secret("Password: ", &in.Password),
				secret("Confirm password: ", &in.ConfirmPassword),
			); err != nil {
				return err
			}
			msg, err := app.Signup(cmd.Context(), in)
			if err != nil {
				return err
			}
			c.printf("%s\n", msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "Username")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "Password confirmation (prompted when omitted)")
	return cmd
}

func newPasswordCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	var forgot domain.ForgotPasswordInput
	forgotCmd := &cobra.Command{
		Use:   "forgot",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.fill(plain("Email: ", &forgot.Email)); err != nil {
				return err
			}
			msg, err := app.ForgotPassword(cmd.Context(), forgot)
			if err != nil {
				return err
			}
			c.printf("%s\n", msg)
			return nil
		},
	}
	forgotCmd.Flags().StringVar(&forgot.Email, "email", "", "Account email")

	var reset domain.ResetPasswordInput
	resetCmd := &cobra.Command{
		Use:   "reset <token>",
		Short: "Set a new password using the emailed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			reset.Token = args[0]
			if err := c.fill(secret("New password: ", &reset.Password)); err != nil {
				return err
			}
			msg, err := app.ResetPassword(cmd.Context(), reset)
			if err != nil {
				return err
			}
			c.printf("%s\n", msg)
			return nil
		},
	}
	resetCmd.Flags().StringVar(&reset.Password, "password", "", "New password (prompted when omitted)")

	cmd.AddCommand(forgotCmd, resetCmd)
	return cmd
}

func newSetupCmd(c *cli) *cobra.Command {
	var in domain.SetupAccountInput
	cmd := &cobra.Command{
		Use:   "setup <token>",
		Short: "Activate an invited account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			in.Token = args[0]
			if err := c.fill(
				secret("Password: ", &in.Password),
				secret("Confirm password: ", &in.ConfirmPassword),
			); err != nil {
				return err
			}
			msg, err := app.SetupAccount(cmd.Context(), in)
			if err != nil {
				return err
			}
			c.printf("%s\n", msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "Password confirmation (prompted when omitted)")
	return cmd
}

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			s := app.Snapshot()
			if !s.Authenticated() {
				c.printf("Not signed in\n")
				return nil
			}
			c.printUser(s.User)
			return nil
		},
	}

	var (
		in      domain.ProfileInput
		picture string
	)
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Change username, email, bio or picture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			// Unset flags keep their current values.
			if u := app.Snapshot().User; u != nil {
				f := cmd.Flags()
				if !f.Changed("username") {
					in.Username = u.Username
				}
				if !f.Changed("email") {
					in.Email = u.Email
				}
				if !f.Changed("bio") {
					in.Bio = u.Bio
				}
			}
			if picture != "" {
				img, closeImg, err := openAttachment(picture)
				if err != nil {
					return err
				}
				defer closeImg()
				in.Picture = img
			}
			user, err := app.UpdateMyProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			c.printUser(user)
			return nil
		},
	}
	editCmd.Flags().StringVar(&in.Username, "username", "", "New username")
	editCmd.Flags().StringVar(&in.Email, "email", "", "New email")
	editCmd.Flags().StringVar(&in.Bio, "bio", "", "New bio")
	editCmd.Flags().StringVar(&picture, "picture", "", "Path to a profile picture")

	cmd.AddCommand(editCmd)
	return cmd
}

func (c *cli) printUser(u *domain.User) {
	c.printf("Username: %s\nEmail:    %s\nRole:     %s\n", u.Username, u.Email, u.Role)
	if u.Bio != "" {
		c.printf("Bio:      %s\n", u.Bio)
	}
}

func newThemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show, set or toggle the color theme",
		Long:      "With no argument the theme is toggled.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				t, err := app.ToggleTheme(cmd.Context())
				if err != nil {
					return err
				}
				c.printf("Theme: %s\n", t)
				return nil
			}
			if err := app.SetTheme(cmd.Context(), domain.Theme(args[0])); err != nil {
				return err
			}
			c.printf("Theme: %s\n", app.Snapshot().Theme)
			return nil
		},
	}
}
