package internal

import (
	"time"
)

// CreateTestTranscript creates a transcript with a sample exchange
func CreateTestTranscript(id string) *Transcript {
	now := time.Now()
	return CreateTestTranscriptWithMessages(id, []Message{
		{Text: "Hello, how is my child doing?", Sender: SenderUser, Timestamp: now},
		{Text: "Sam turned in **all** assignments this week.", Sender: SenderAssistant, Timestamp: now},
	})
}

// CreateTestTranscriptWithMessages creates a transcript holding messages
func CreateTestTranscriptWithMessages(id string, messages []Message) *Transcript {
	t := &Transcript{ID: id, CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}
	for _, m := range messages {
		t.Append(m)
	}
	return t
}

// NewTestStore creates a store restored from an in-memory bridge. An
// empty token yields an anonymous store.
func NewTestStore(client AuthClient, token, email string) (*SessionStore, *MemoryBridge) {
	bridge := NewMemoryBridge()
	if token != "" {
		_ = bridge.Write(token, email)
	}
	return NewSessionStore(bridge, client), bridge
}
