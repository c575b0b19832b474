package cmd

import (
	"errors"
	"strings"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/spf13/cobra"
)

var (
	verifyEmail string
	verifyToken string
)

// verifyCmd groups the email verification commands
var verifyCmd = &cobra.Command{
	Use:   "verify-email",
	Short: "Confirm or resend the signup verification email",
}

var verifyConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm your email with the token from the verification link",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p := newPrompter(cmd)
		email, err := p.LineDefault("Email", verifyEmail)
		if err != nil {
			return err
		}
		token, err := p.LineDefault("Confirmation token", verifyToken)
		if err != nil {
			return err
		}
		email, token = strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(token)
		if email == "" || token == "" {
			return errors.New(internal.MsgRequiredFields)
		}

		var resp *internal.MessageResponse
		err = internal.ShowProgress(cmd.Context(), "Confirming email...", func() error {
			var confirmErr error
			resp, confirmErr = a.client.ConfirmEmail(cmd.Context(), internal.ConfirmEmailRequest{
				Email:             email,
				ConfirmationToken: token,
			})
			return confirmErr
		})
		if err != nil {
			return asUserError(err, internal.MsgConnectionError)
		}

		out := cmd.OutOrStdout()
		internal.PrintSuccess(out, messageOr(resp, "Email confirmed."))
		internal.PrintInfo(out, "Next: run 'glancenote login', then 'glancenote onboard' to add your student's details.")
		return nil
	},
}

var verifyResendCmd = &cobra.Command{
	Use:   "resend",
	Short: "Send the verification email again",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		email, err := newPrompter(cmd).LineDefault("Email", verifyEmail)
		if err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			return errors.New(internal.MsgRequiredFields)
		}

		var resp *internal.MessageResponse
		err = internal.ShowProgress(cmd.Context(), "Sending email...", func() error {
			var resendErr error
			resp, resendErr = a.client.ResendEmail(cmd.Context(), email)
			return resendErr
		})
		if err != nil {
			return asUserError(err, internal.MsgConnectionError)
		}

		internal.PrintSuccess(cmd.OutOrStdout(), messageOr(resp, "We sent another email to "+email+"."))
		return nil
	},
}

// messageOr returns the backend's message, or fallback when it sent none
func messageOr(resp *internal.MessageResponse, fallback string) string {
	if resp == nil || strings.TrimSpace(resp.Message) == "" {
		return fallback
	}
	return resp.Message
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.AddCommand(verifyConfirmCmd, verifyResendCmd)
	verifyCmd.PersistentFlags().StringVarP(&verifyEmail, "email", "e", "", "Account email (prompted when omitted)")
	verifyConfirmCmd.Flags().StringVarP(&verifyToken, "token", "t", "", "Confirmation token from the email link")
}
