package cmd

import (
	"fmt"
	"os"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	baseURL   string
	dataDir   string
	ephemeral bool
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "glancenote",
	Short: "Chat with the Glancenote education assistant from your terminal",
	Long: `Glancenote keeps parents, students and teachers up to date on
assignments, grades and attendance through a chat assistant.

Quick Start:
  glancenote signup parent        # Create a parent account
  glancenote verify-email confirm # Confirm the emailed link token
  glancenote onboard              # Add your student's details
  glancenote login                # Sign in
  glancenote chat                 # Start chatting

Configuration is read from <data-dir>/config.yaml, a .env file and
GLANCENOTE_* environment variables, in that order.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		internal.SyncLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config and GLANCENOTE_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding config.yaml and the session store")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the session in memory only")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
