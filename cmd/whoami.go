package cmd

import (
	"fmt"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/Taycanstar/glancenote/internal/tui"
	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and their navigation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		session := a.store.Snapshot()
		fmt.Fprintln(out, tui.RenderHeader(internal.HeaderFor(session), 0))
		if !session.IsAuthenticated {
			internal.PrintInfo(out, "Not logged in. Run 'glancenote login' to sign in.")
			return nil
		}

		id := session.Identity
		fmt.Fprintf(out, "Email:        %s\n", id.Email)
		if name := id.DisplayName(); name != id.Email {
			fmt.Fprintf(out, "Name:         %s\n", name)
		}
		fmt.Fprintf(out, "Role:         %s\n", session.Role())
		if id.OrganizationName != "" {
			fmt.Fprintf(out, "Organization: %s\n", id.OrganizationName)
		}
		if id.StudentID != "" {
			fmt.Fprintf(out, "Student ID:   %s\n", id.StudentID)
		}
		if id.PhoneNumber != "" {
			fmt.Fprintf(out, "Phone:        %s\n", id.PhoneNumber)
		}
		if !session.Durable {
			internal.PrintWarning(out, "This session is not saved and ends when the process exits.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
