package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Taycanstar/glancenote/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so one Execute does not
// leak values into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() != "stringArray" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
	chatMessages = nil
}

// runCommand executes the CLI with args against dir and backend, feeding
// stdin to prompts
func runCommand(t *testing.T, dir, backend, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	full := append([]string{"--data-dir", dir, "--base-url", backend}, args...)
	rootCmd.SetArgs(full)
	var stdout bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)

	err := rootCmd.Execute()
	return stdout.String(), err
}

// loginAs signs in through the login command
func loginAs(t *testing.T, dir string, fb *testutil.FakeBackend, token, email string) {
	t.Helper()
	fb.RespondJSON("POST", testutil.PathLogin, 200, testutil.LoginSuccess(token, email))
	if _, err := runCommand(t, dir, fb.URL, "password123\n", "login", "--email", email, "--no-chat"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(rootCmd)
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if stdout.Len() == 0 {
				t.Error("expected output")
			}
		})
	}
}

func TestRootCommand_VerboseFlag(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	fb := testutil.NewFakeBackend(t)

	if _, err := runCommand(t, dir, fb.URL, "", "--verbose", "whoami"); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !verbose {
		// resetFlags runs at cleanup, so the parsed value is still visible here
		t.Error("--verbose was not parsed")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"login", "logout", "signup", "verify-email", "onboard", "chat", "whoami", "healthcheck"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("%s command not registered", name)
		}
	}
}

func TestExecute(t *testing.T) {
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"nonexistent-command"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("Execute() should return error for nonexistent command")
	}
}
