package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Taycanstar/glancenote/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(doc Document, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Chat %s\n\n", doc.ID)

	if doc.Owner != "" {
		_, _ = fmt.Fprintf(w, "**User:** %s  \n", doc.Owner)
	}
	if !doc.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", doc.CreatedAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(doc.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range doc.Messages {
		timestamp := ""
		if !msg.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format(time.RFC3339))
		}

		text := msg.Text
		if msg.Sender == internal.SenderUser {
			// assistant replies are already markdown
			text = escapeMarkdown(text)
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", senderLabel(msg.Sender), timestamp, text)

		if i < len(doc.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func senderLabel(s internal.Sender) string {
	switch s {
	case internal.SenderUser:
		return "You"
	case internal.SenderAssistant:
		return "Glancenote"
	default:
		return string(s)
	}
}

// escapeMarkdown escapes markdown emphasis outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
