// Package tui renders the interactive chat screen.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/Taycanstar/glancenote/internal/export"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	placeholder = "Ask about assignments, grades, attendance... (Enter to send, Ctrl+C to exit)"
	// rows taken by everything but the viewport
	chromeHeight = 6
)

// Options configures the chat model
type Options struct {
	Header        internal.Header
	Owner         string
	Theme         string // auto, dark, light or plain
	FlashDuration time.Duration
}

// replyMsg is delivered when a queued message settles or is discarded
type replyMsg struct {
	msg internal.Message
	ok  bool
}

// screenClosedMsg is delivered when the chat screen shuts down
type screenClosedMsg struct{}

// flashTickMsg re-renders once the flash message may have expired
type flashTickMsg struct{}

// Model is the bubbletea model of the chat screen
type Model struct {
	screen *internal.ChatScreen
	opts   Options

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	scroll   *internal.ScrollTracker
	flash    *internal.Flash

	ready      bool
	width      int
	height     int
	redirected bool
	quitting   bool
}

// New creates the chat model for an open screen
func New(screen *internal.ChatScreen, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		screen:  screen,
		opts:    opts,
		input:   ti,
		spinner: sp,
		scroll:  internal.NewScrollTracker(),
		flash:   internal.NewFlash(opts.FlashDuration),
	}
}

// Redirected reports whether the model quit because the session ended
func (m Model) Redirected() bool {
	return m.redirected
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForClose(m.screen))
}

func waitForClose(screen *internal.ChatScreen) tea.Cmd {
	return func() tea.Msg {
		<-screen.Done()
		return screenClosedMsg{}
	}
}

func awaitReply(ch <-chan internal.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		return replyMsg{msg: msg, ok: ok}
	}
}

func flashTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return flashTickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		height := msg.Height - chromeHeight
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - 4
		m.renderer = newRenderer(m.opts.Theme, msg.Width-4)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyEnd, tea.KeyCtrlL:
			m.scroll.JumpToLatest()
			m.viewport.GotoBottom()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.scroll.UserScrolled(m.viewport.AtBottom())
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.scroll.UserScrolled(m.viewport.AtBottom())
		return m, cmd

	case replyMsg:
		m.refresh()
		return m, nil

	case screenClosedMsg:
		m.redirected = m.screen.Redirected()
		m.quitting = true
		return m, tea.Quit

	case flashTickMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if path, ok := strings.CutPrefix(strings.TrimSpace(text), "/save "); ok {
		m.input.Reset()
		return m, m.save(strings.TrimSpace(path))
	}

	ch, ok := m.screen.SendMessage(text)
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.refresh()
	return m, awaitReply(ch)
}

func (m Model) save(path string) tea.Cmd {
	doc := export.NewDocument(m.screen.Transcript(), m.opts.Owner)
	if err := export.WriteFile(path, "", doc); err != nil {
		internal.LogWarn("Export failed: %v", err)
		m.flash.Show(err.Error())
	} else {
		m.flash.Show(fmt.Sprintf("Saved %d messages to %s", doc.Count, path))
	}
	return flashTick(m.flash.Remaining())
}

// refresh re-renders the transcript and follows the bottom unless the
// user has scrolled away
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	messages := m.screen.Messages()
	m.viewport.SetContent(m.renderTranscript(messages))
	if m.scroll.Grow(len(messages)) {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderTranscript(messages []internal.Message) string {
	if len(messages) == 0 {
		return hintStyle.Render("Ask Glancenote anything about your student.")
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Sender {
		case internal.SenderUser:
			b.WriteString(userLabelStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.Text)
			b.WriteString("\n")
		default:
			b.WriteString(aiLabelStyle.Render("Glancenote"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(msg.Text))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		internal.LogDebug("Markdown render failed: %v", err)
		return text
	}
	return strings.TrimRight(out, "\n")
}

func newRenderer(theme string, width int) *glamour.TermRenderer {
	if theme == "plain" || width <= 0 {
		return nil
	}
	style := glamour.WithAutoStyle()
	if theme != "" && theme != "auto" {
		style = glamour.WithStandardStyle(theme)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		internal.LogDebug("Markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(RenderHeader(m.opts.Header, m.width))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.scroll.ShowJump():
		b.WriteString(jumpStyle.Render(fmt.Sprintf("↓ %d new · jump to latest (End)", m.scroll.Unseen())))
	case m.screen.Pending():
		b.WriteString(m.spinner.View() + " Thinking...")
	}
	b.WriteString("\n")

	if msg := m.flash.Message(); msg != "" {
		b.WriteString(flashStyle.Render(msg))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}
