package cmd

import (
	"fmt"
	"net/http"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	healthcheckOffline bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that glancenote can store sessions and reach the backend",
	Long: `Check the health of glancenote by verifying:
  • Configuration loads and validates
  • The session store opens and can be read
  • The backend answers HTTP requests

Use --verbose for paths and response details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("Glancenote Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		a, err := newApp()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to initialize:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer a.Close()
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if verbose {
			fmt.Fprintf(out, "   Data dir: %s\n", a.cfg.DataDir)
			fmt.Fprintf(out, "   Backend:  %s\n", a.cfg.BaseURL)
			fmt.Fprintf(out, "   Theme:    %s\n", a.cfg.Theme)
		}
		fmt.Fprintln(out)

		// Step 2: Session store
		fmt.Fprintln(out, infoStyle.Render("Step 2: Reading the session store..."))
		_, email, ok, err := a.bridge.Read()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Session store unreadable:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		switch {
		case ok:
			fmt.Fprintln(out, successStyle.Render("✅ Stored session found for "+email))
		default:
			fmt.Fprintln(out, warningStyle.Render("⚠️  No stored session"))
		}
		if verbose {
			if ephemeral {
				fmt.Fprintln(out, "   Storage: memory (--ephemeral)")
			} else {
				fmt.Fprintf(out, "   Storage: %s\n", a.cfg.StoragePath())
			}
		}
		fmt.Fprintln(out)

		// Step 3: Backend
		if healthcheckOffline {
			fmt.Fprintln(out, sectionStyle.Render("Summary"))
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed (backend not checked)"))
			return nil
		}
		fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting the backend..."))
		var status int
		err = internal.ShowProgressWithSteps(cmd.Context(), []internal.ProgressStep{
			{
				Message: "Pinging " + a.cfg.BaseURL,
				Fn: func() error {
					var pingErr error
					status, pingErr = a.client.Ping(cmd.Context())
					return pingErr
				},
			},
		})
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), err)
			fmt.Fprintln(out)
			fmt.Fprintln(out, sectionStyle.Render("Summary"))
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return fmt.Errorf("health check failed: %w", err)
		}
		if status >= http.StatusInternalServerError {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Backend answered with status %d", status)))
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Backend reachable"))
		}
		if verbose {
			fmt.Fprintf(out, "   Status: %d %s\n", status, http.StatusText(status))
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, sectionStyle.Render("Summary"))
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckOffline, "offline", false, "Skip the backend check")
}
