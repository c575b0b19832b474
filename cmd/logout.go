package cmd

import (
	"github.com/Taycanstar/glancenote/internal"
	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		email := a.store.Snapshot().Email()
		a.store.Logout()

		if email == "" {
			internal.PrintInfo(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		internal.PrintSuccess(cmd.OutOrStdout(), "Logged out "+email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
