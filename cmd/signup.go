package cmd

import (
	"fmt"
	"strings"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/spf13/cobra"
)

var (
	signupEmail       string
	signupInstitution string
)

// signupCmd represents the signup command
var signupCmd = &cobra.Command{
	Use:   "signup parent|teacher",
	Short: "Create a parent or teacher account",
	Long: `Create a Glancenote account. The password is asked for interactively
and must be at least 8 characters. Teachers also pick their institution.

After signing up, confirm the emailed link with 'glancenote verify-email'.`,
	Example: `  glancenote signup parent --email jo@example.com
  glancenote signup teacher --institution "Eckerd College"`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(internal.SignupParent), string(internal.SignupTeacher)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := internal.SignupKind(strings.ToLower(args[0]))
		if kind != internal.SignupParent && kind != internal.SignupTeacher {
			return fmt.Errorf("unknown account type %q: use parent or teacher", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if session := a.store.Snapshot(); session.IsAuthenticated {
			internal.PrintInfo(out, fmt.Sprintf("Already signed in as %s. Run 'glancenote chat' to continue.", session.Email()))
			return nil
		}

		p := newPrompter(cmd)
		form := internal.SignupForm{Kind: kind}
		if form.Email, err = p.LineDefault("Email", signupEmail); err != nil {
			return err
		}
		if form.Password, err = p.Password("Password"); err != nil {
			return err
		}
		if kind == internal.SignupTeacher {
			form.Institution = signupInstitution
			if form.Institution == "" {
				if form.Institution, err = p.Choose(internal.InstitutionPlaceholder, internal.Institutions); err != nil {
					return err
				}
			}
		}

		// Validation runs before the spinner so bad input never reaches the network.
		if err := form.Validate(); err != nil {
			return asUserError(err, internal.MsgRequiredFields)
		}

		var email string
		err = internal.ShowProgress(cmd.Context(), "Creating your account...", func() error {
			var signupErr error
			email, _, signupErr = internal.Signup(cmd.Context(), a.client, form)
			return signupErr
		})
		if err != nil {
			return asUserError(err, internal.MsgConnectionError)
		}

		internal.PrintSuccess(out, fmt.Sprintf("We sent an email to %s. Click the link inside to get started.", email))
		internal.PrintInfo(out, fmt.Sprintf("No email? Run 'glancenote verify-email resend --email %s'.", email))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Account email (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupInstitution, "institution", "", "Institution for teacher accounts: "+strings.Join(internal.Institutions, ", "))
}
