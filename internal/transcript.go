package internal

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the append-only message list of one chat screen
type Transcript struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	messages []Message
}

// NewTranscript creates an empty transcript with a fresh ID
func NewTranscript() *Transcript {
	return &Transcript{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// Append adds m to the end of the transcript. Blank messages are
// rejected.
func (t *Transcript) Append(m Message) bool {
	if strings.TrimSpace(m.Text) == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
	return true
}

// Messages returns a copy of the transcript in insertion order
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Last returns the newest message
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
