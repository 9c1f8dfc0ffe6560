package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/okrdesk/okrdesk/internal/cli/formatter"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and sign out",
	}
	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthRegisterCmd(app),
		newAuthLogoutCmd(app),
		newAuthWhoAmICmd(app),
	)
	return cmd
}

// promptPassword asks for a password on the terminal when none was given.
func promptPassword(app *App, password *string) error {
	if *password != "" || !app.IsInteractive {
		return nil
	}
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(password).
		WithTheme(okrdeskHuhTheme()).
		Run()
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptPassword(app, &password); err != nil {
				return err
			}
			sess, err := busy(cmd, app, "Signing in...", func() (domain.Session, error) {
				return app.Session.Login(cmd.Context(), email, password)
			})
			if err != nil {
				return errors.New(userMessage(err))
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Signed in as %s", domain.CoalesceStr(sess.User.Name, sess.User.Email))))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return public(cmd)
}

func newAuthRegisterCmd(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptPassword(app, &password); err != nil {
				return err
			}
			sess, err := busy(cmd, app, "Creating account...", func() (domain.Session, error) {
				return app.Session.Register(cmd.Context(), name, email, password)
			})
			if err != nil {
				return errors.New(userMessage(err))
			}
			writeln(cmd, formatter.Success(fmt.Sprintf("Welcome, %s", sess.User.Name)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 6 characters (prompted when omitted)")
	return public(cmd)
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			writeln(cmd, formatter.Success("Signed out"))
			return nil
		},
	}
	return public(cmd)
}

func newAuthWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var subject, expires string
			if claims, err := app.Session.Claims(); err == nil {
				subject = claims.Subject
				if claims.ExpiresAt != nil {
					expires = claims.ExpiresAt.Local().Format(time.RFC1123)
				}
			}
			printf(cmd, "%s", formatter.FormatWhoAmI(app.Session.User(), subject, expires))
			return nil
		},
	}
}
