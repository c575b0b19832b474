package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Taycanstar/glancenote/internal"
)

// Document is the exported form of a transcript
type Document struct {
	ID        string             `json:"id" yaml:"id"`
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
	Owner     string             `json:"owner,omitempty" yaml:"owner,omitempty"`
	Count     int                `json:"message_count" yaml:"message_count"`
	Messages  []internal.Message `json:"messages" yaml:"messages"`
}

// NewDocument snapshots a transcript for export
func NewDocument(t *internal.Transcript, owner string) Document {
	msgs := t.Messages()
	return Document{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		Owner:     owner,
		Count:     len(msgs),
		Messages:  msgs,
	}
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(doc Document, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// FormatFromPath infers the export format from a file extension
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// WriteFile exports doc to path. An empty format is inferred from the
// file extension.
func WriteFile(path, format string, doc Document) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	exporter, err := NewExporter(format)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}

	if err := exporter.Export(doc, f); err != nil {
		_ = f.Close()
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}

	internal.LogInfo("Exported %d messages to %s", doc.Count, path)
	return nil
}
