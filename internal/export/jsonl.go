package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range doc.Messages {
		obj := map[string]interface{}{
			"transcript": doc.ID,
			"sender":     msg.Sender,
			"text":       msg.Text,
		}
		if !msg.Timestamp.IsZero() {
			obj["timestamp"] = msg.Timestamp.Format(time.RFC3339)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
