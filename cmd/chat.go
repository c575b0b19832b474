package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/Taycanstar/glancenote/internal/export"
	"github.com/Taycanstar/glancenote/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	chatMessages     []string
	chatExportPath   string
	chatExportFormat string
	chatWait         time.Duration
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the Glancenote assistant",
	Long: `Open the chat screen. Messages are answered in the order they are sent.

With one or more --message flags the messages are sent without opening
the interactive screen and the replies are printed.

Inside the chat:
  Enter        send the message
  PgUp/PgDn    scroll the conversation
  End          jump to the latest message
  /save FILE   export the conversation (md, json, jsonl or yaml)
  Ctrl+C       leave the chat`,
	Example: `  glancenote chat
  glancenote chat -m "What homework is due this week?"
  glancenote chat -m "Any missing assignments?" --export chat.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatExportFormat != "" {
			if _, err := export.NewExporter(chatExportFormat); err != nil {
				return err
			}
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(chatMessages) > 0 {
			return runChatOnce(cmd, a, chatMessages)
		}
		return runChatTUI(cmd, a, newPrompter(cmd))
	},
}

// openChat opens the chat screen, sending the user through login first
// when the session is not authenticated and a terminal is available
func openChat(cmd *cobra.Command, a *app, p *prompter, opts ...internal.ChatOption) (*internal.ChatScreen, error) {
	opts = append(opts, internal.WithRequestTimeout(a.cfg.RequestTimeout))
	screen, err := internal.OpenChatScreen(cmd.Context(), a.store, a.client, opts...)
	if !errors.Is(err, internal.ErrLoginRequired) {
		return screen, err
	}

	if p == nil || !interactive(cmd) {
		return nil, &userError{msg: errLoginRequired.Error(), err: err}
	}
	internal.PrintWarning(cmd.OutOrStdout(), "Please log in to continue.")
	if err := runLogin(cmd, a, p, "", false); err != nil {
		return nil, err
	}
	return internal.OpenChatScreen(cmd.Context(), a.store, a.client, opts...)
}

// runChatTUI runs the interactive chat screen
func runChatTUI(cmd *cobra.Command, a *app, p *prompter) error {
	screen, err := openChat(cmd, a, p)
	if err != nil {
		return err
	}
	defer screen.Close()

	session := a.store.Snapshot()
	model := tui.New(screen, tui.Options{
		Header:        internal.HeaderFor(session),
		Owner:         session.Email(),
		Theme:         a.cfg.Theme,
		FlashDuration: a.cfg.FlashDuration,
	})

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat screen failed: %w", err)
	}

	if err := exportTranscript(cmd, screen, session.Email()); err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Redirected() {
		internal.PrintWarning(cmd.OutOrStdout(), "Your session ended. Run 'glancenote login' to sign in again.")
	}
	return nil
}

// runChatOnce sends messages without the interactive screen and prints
// each reply in order
func runChatOnce(cmd *cobra.Command, a *app, messages []string) error {
	screen, err := openChat(cmd, a, nil)
	if err != nil {
		return err
	}
	defer screen.Close()

	var replies []<-chan internal.Message
	for _, text := range messages {
		if ch, ok := screen.SendMessage(text); ok {
			replies = append(replies, ch)
		}
	}

	out := cmd.OutOrStdout()
	for _, ch := range replies {
		select {
		case msg, ok := <-ch:
			if !ok {
				return errors.New("chat closed before the reply arrived")
			}
			fmt.Fprintln(out, msg.Text)
		case <-waitTimeout(chatWait):
			return fmt.Errorf("no reply within %s", chatWait)
		}
	}

	return exportTranscript(cmd, screen, a.store.Snapshot().Email())
}

func waitTimeout(d time.Duration) <-chan time.Time {
	if d <= 0 {
		return nil
	}
	return time.After(d)
}

func exportTranscript(cmd *cobra.Command, screen *internal.ChatScreen, owner string) error {
	if chatExportPath == "" {
		return nil
	}
	doc := export.NewDocument(screen.Transcript(), owner)
	if err := export.WriteFile(chatExportPath, chatExportFormat, doc); err != nil {
		return err
	}
	internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Saved %d messages to %s", doc.Count, chatExportPath))
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringArrayVarP(&chatMessages, "message", "m", nil, "Send a message without opening the chat screen (repeatable)")
	chatCmd.Flags().StringVarP(&chatExportPath, "export", "o", "", "Export the conversation to this file when the chat ends")
	chatCmd.Flags().StringVarP(&chatExportFormat, "format", "f", "", "Export format: md, json, jsonl or yaml (default: from the file extension)")
	chatCmd.Flags().DurationVar(&chatWait, "wait", 0, "Give up on a reply after this long (0 waits forever)")
}
