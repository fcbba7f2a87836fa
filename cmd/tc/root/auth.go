package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskcade/internal/auth"
	"taskcade/internal/ui"
)

func exactlyOne(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func newSignupCmd() *cobra.Command {
	var email, password, confirm string

	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create a local account and sign in",
		Args:  exactlyOne("username"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			in := cmd.InOrStdin()
			var err error
			if email == "" {
				if email, err = readInput(in, cmd.OutOrStdout(), "Email: ", false); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = readPassword(in, cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}
			if confirm == "" {
				if confirm, err = readPassword(in, cmd.OutOrStdout(), "Confirm password: "); err != nil {
					return err
				}
			}

			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			cu, err := a.auth.Signup(ctx, auth.SignupInput{
				Username: args[0],
				Email:    email,
				Password: password,
				Confirm:  confirm,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Welcome, %s! Complete tasks to unlock games.\n", ui.Good.Render(ui.IconParty), cu.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (prompted when omitted)")
	return cmd
}

func newSigninCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "signin <username>",
		Short: "Sign in to an existing account",
		Args:  exactlyOne("username"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if password == "" {
				var err error
				if password, err = readPassword(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			cu, err := a.auth.Signin(ctx, args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Signed in as %s\n", ui.Good.Render(ui.IconUnlock), cu.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newSignoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and reset progress, tasks and reward history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.coord.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconLock+" Signed out")+" "+ui.Muted.Render("(progress reset)"))
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd, nil, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			cu, err := a.auth.Current(ctx)
			if err != nil {
				return err
			}
			if cu == nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Not signed in."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("User", cu.Username))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Email", cu.Email))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Since", cu.LoginTime.Local().Format("2006-01-02 15:04")))
			return nil
		},
	}
}
