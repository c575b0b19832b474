package cmd

import (
	"fmt"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/spf13/cobra"
)

var (
	loginEmail        string
	loginPasswordless bool
	loginAttempts     int
	loginNoChat       bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Glancenote",
	Long: `Sign in with your email and password. With --passwordless the email
alone completes a magic-link login.

On success the session token is stored in the data directory so later
commands stay signed in, and the chat opens when running in a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p := newPrompter(cmd)
		if err := runLogin(cmd, a, p, loginEmail, loginPasswordless); err != nil {
			return err
		}

		if loginNoChat || !interactive(cmd) {
			internal.PrintInfo(cmd.OutOrStdout(), "Run 'glancenote chat' to start chatting.")
			return nil
		}
		return runChatTUI(cmd, a, p)
	},
}

// runLogin prompts for credentials until the login succeeds or the
// attempts run out. Each failure is shown before the next attempt.
func runLogin(cmd *cobra.Command, a *app, p *prompter, email string, passwordless bool) error {
	out := cmd.OutOrStdout()
	attempts := loginAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		var err error
		if email, err = p.LineDefault("Email", email); err != nil {
			return err
		}

		form := internal.LoginForm{Email: email, Passwordless: passwordless}
		if !passwordless {
			if form.Password, err = p.Password("Password"); err != nil {
				return err
			}
		}

		err = form.Validate()
		if err == nil {
			err = internal.ShowProgress(cmd.Context(), "Signing in...", func() error {
				var loginErr error
				if passwordless {
					_, loginErr = a.store.LoginWithoutPassword(cmd.Context(), form.Email)
				} else {
					_, loginErr = a.store.Login(cmd.Context(), form.Email, form.Password)
				}
				return loginErr
			})
		}
		if err == nil {
			break
		}

		internal.LogDebug("Login attempt %d failed: %v", attempt, err)
		if attempt >= attempts {
			return asUserError(err, internal.MsgInvalidCredential)
		}
		internal.PrintError(out, internal.UserMessage(err, internal.MsgInvalidCredential))
	}

	session := a.store.Snapshot()
	internal.PrintSuccess(out, fmt.Sprintf("Logged in as %s", session.Email()))
	if !session.Durable {
		internal.PrintWarning(out, "Your session could not be saved; you will need to log in again next time.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginPasswordless, "passwordless", false, "Complete a passwordless (magic link) login")
	loginCmd.Flags().IntVar(&loginAttempts, "attempts", 3, "Number of tries before giving up")
	loginCmd.Flags().BoolVar(&loginNoChat, "no-chat", false, "Do not open the chat after signing in")
}
