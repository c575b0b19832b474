package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Taycanstar/glancenote/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		want       []string
		wantLines  int
	}{
		{
			name:       "empty transcript",
			transcript: internal.CreateTestTranscriptWithMessages("test1", nil),
			wantLines:  0,
		},
		{
			name:       "transcript with messages",
			transcript: internal.CreateTestTranscript("test2"),
			want: []string{
				`"sender":"user"`,
				`"sender":"ai"`,
				`"transcript":"test2"`,
			},
			wantLines: 2,
		},
		{
			name: "message with timestamp",
			transcript: internal.CreateTestTranscriptWithMessages("test3", []internal.Message{
				{Text: "Hello", Sender: internal.SenderUser, Timestamp: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
			}),
			want:      []string{`"timestamp":"2023-01-01T00:00:00Z"`},
			wantLines: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONLExporter{}

			if err := exporter.Export(NewDocument(tt.transcript, ""), &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			output := buf.String()
			lines := strings.Split(strings.TrimSpace(output), "\n")
			if output == "" {
				lines = nil
			}
			if len(lines) != tt.wantLines {
				t.Fatalf("got %d lines, want %d\nOutput: %s", len(lines), tt.wantLines, output)
			}

			for i, line := range lines {
				var obj map[string]interface{}
				if err := json.Unmarshal([]byte(line), &obj); err != nil {
					t.Errorf("Line %d is not valid JSON: %v", i+1, err)
				}
			}

			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("Output should contain %q\nOutput: %s", want, output)
				}
			}
		})
	}
}

func TestJSONLExporter_NoTimestamp(t *testing.T) {
	tr := internal.CreateTestTranscriptWithMessages("test4", []internal.Message{
		{Text: "Hello", Sender: internal.SenderUser},
	})

	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(NewDocument(tr, ""), &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}
	if strings.Contains(buf.String(), "timestamp") {
		t.Errorf("zero timestamp should be omitted: %s", buf.String())
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
