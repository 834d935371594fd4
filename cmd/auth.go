package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siahsang/blogclient/internal/core"
	"github.com/siahsang/blogclient/internal/web"
	"github.com/siahsang/blogclient/models"
)

func newLoginCmd(app *application) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with email and password. The password is read from stdin when
--password is not given, without echo when stdin is a terminal.

Examples:
  blogctl login --email jane@example.com
  echo secret | blogctl login --email jane@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewLogin)
			ctx := cmd.Context()

			if password == "" {
				line, err := app.prompt.ReadPassword(ctx, "Password: ")
				if err != nil {
					return err
				}
				password = line
			}
			if v := core.ValidateCredentials(email, password); !v.IsValid() {
				return v.Err()
			}

			resp, err := app.session.Login(ctx, strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			app.enter(web.ViewHome)
			return app.printAuth(resp, "Logged in")
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (read from stdin when empty)")
	return cmd
}

func newRegisterCmd(app *application) *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.enter(web.ViewRegister)
			ctx := cmd.Context()

			if req.Password == "" {
				line, err := app.prompt.ReadPassword(ctx, "Password: ")
				if err != nil {
					return err
				}
				req.Password = line
			}
			if v := core.ValidateRegistration(&req); !v.IsValid() {
				return v.Err()
			}

			resp, err := app.session.Register(ctx, req)
			if err != nil {
				return err
			}
			app.enter(web.ViewHome)
			return app.printAuth(resp, "Registered")
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (read from stdin when empty)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	return cmd
}

func (app *application) printAuth(resp *models.AuthResponse, verb string) error {
	if app.structured() {
		return app.printValue(resp.User())
	}
	fmt.Fprintf(app.stdout, "%s as %s (%s)\n", verb, resp.User().FullName(), resp.Email)
	return nil
}

func newLogoutCmd(app *application) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if remote && app.session.IsAuthenticated() {
				if err := app.client.Logout(ctx); err != nil {
					app.prompt.Error(err.Error())
				}
			}
			if err := app.session.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, "Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also notify the server")
	return cmd
}

func newWhoamiCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, ok := app.session.Current()
			if !ok {
				fmt.Fprintln(app.stdout, "Not logged in")
				return nil
			}

			expiry, hasExpiry := session.ExpiresAt()
			if app.structured() {
				out := map[string]any{"user": session.User}
				if hasExpiry {
					out["expiresAt"] = expiry.Format(time.RFC3339)
				}
				return app.printValue(out)
			}

			fmt.Fprintf(app.stdout, "ID:       %d\n", session.User.ID)
			fmt.Fprintf(app.stdout, "Name:     %s\n", orDash(session.User.FullName()))
			fmt.Fprintf(app.stdout, "Email:    %s\n", session.User.Email)
			if hasExpiry {
				fmt.Fprintf(app.stdout, "Expires:  %s\n", expiry.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}
