package internal

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ChatOption configures a ChatScreen
type ChatOption func(*ChatScreen)

// WithRedirect sets the hook called when the session stops being
// authenticated while the screen is open
func WithRedirect(fn func()) ChatOption {
	return func(s *ChatScreen) { s.redirect = fn }
}

// WithRequestTimeout bounds each completion request. Zero means no timeout.
func WithRequestTimeout(d time.Duration) ChatOption {
	return func(s *ChatScreen) { s.timeout = d }
}

// WithTranscript reuses an existing transcript instead of a fresh one
func WithTranscript(t *Transcript) ChatOption {
	return func(s *ChatScreen) { s.transcript = t }
}

type chatJob struct {
	prompt string
	email  string
	reply  chan Message
}

// ChatScreen owns a transcript and its round trips to the completion
// endpoint. Requests are sent one at a time in submission order and are
// cancelled when the screen closes.
type ChatScreen struct {
	store      *SessionStore
	completer  Completer
	transcript *Transcript
	redirect   func()
	timeout    time.Duration
	now        func() time.Time

	ctx         context.Context
	cancel      context.CancelFunc
	group       *errgroup.Group
	unsubscribe func()
	loggedOut   chan struct{}
	wake        chan struct{}

	mu         sync.Mutex
	input      string
	pending    int
	queue      []chatJob
	closed     bool
	redirected bool
}

// OpenChatScreen opens a chat screen for the signed-in user. It returns
// ErrLoginRequired without sending anything when the session is not
// authenticated.
func OpenChatScreen(ctx context.Context, store *SessionStore, completer Completer, opts ...ChatOption) (*ChatScreen, error) {
	s := &ChatScreen{
		store:     store,
		completer: completer,
		now:       time.Now,
		loggedOut: make(chan struct{}, 1),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.transcript == nil {
		s.transcript = NewTranscript()
	}

	s.unsubscribe = store.Subscribe(func(snap Session) {
		if snap.IsAuthenticated {
			return
		}
		select {
		case s.loggedOut <- struct{}{}:
		default:
		}
	})

	if !store.Snapshot().IsAuthenticated {
		s.unsubscribe()
		LogDebug("Chat screen requires login")
		return nil, ErrLoginRequired
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.group, s.ctx = errgroup.WithContext(s.ctx)
	s.group.Go(s.work)
	s.group.Go(s.watchSession)

	LogDebug("Opened chat screen %s", s.transcript.ID)
	return s, nil
}

// Transcript returns the screen's transcript
func (s *ChatScreen) Transcript() *Transcript {
	return s.transcript
}

// Messages returns a copy of the transcript
func (s *ChatScreen) Messages() []Message {
	return s.transcript.Messages()
}

// SetInput replaces the outgoing input buffer
func (s *ChatScreen) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Input returns the outgoing input buffer
func (s *ChatScreen) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Submit sends the input buffer
func (s *ChatScreen) Submit() (<-chan Message, bool) {
	return s.SendMessage(s.Input())
}

// Pending reports whether any request is awaiting its reply
func (s *ChatScreen) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// Redirected reports whether the screen closed because the session ended
func (s *ChatScreen) Redirected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirected
}

// Done is closed when the screen shuts down
func (s *ChatScreen) Done() <-chan struct{} {
	return s.ctx.Done()
}

// SendMessage appends text as a user message and queues it for the
// completion endpoint. It returns false, and sends nothing, when text is
// blank or the screen is closed. The returned channel yields the
// assistant message once it is appended; it is closed without a value
// when the request is discarded.
func (s *ChatScreen) SendMessage(text string) (<-chan Message, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	s.mu.Lock()
	if s.closed || s.ctx.Err() != nil {
		s.mu.Unlock()
		return nil, false
	}
	s.transcript.Append(Message{Text: text, Sender: SenderUser, Timestamp: s.now()})
	s.input = ""
	s.pending++
	job := chatJob{
		prompt: text,
		email:  s.store.Snapshot().Email(),
		reply:  make(chan Message, 1),
	}
	s.queue = append(s.queue, job)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return job.reply, true
}

// Close cancels in-flight requests, discards their results and waits for
// the screen's goroutines to exit. It is safe to call more than once.
func (s *ChatScreen) Close() error {
	s.shutdown()
	s.unsubscribe()
	return s.group.Wait()
}

func (s *ChatScreen) shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = 0
	queued := s.queue
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	for _, job := range queued {
		close(job.reply)
	}
	LogDebug("Closed chat screen %s", s.transcript.ID)
}

func (s *ChatScreen) watchSession() error {
	select {
	case <-s.ctx.Done():
		s.shutdown()
		return nil
	case <-s.loggedOut:
	}

	LogInfo("Session ended, redirecting to login")
	s.mu.Lock()
	s.redirected = true
	s.mu.Unlock()

	s.shutdown()
	if s.redirect != nil {
		s.redirect()
	}
	return nil
}

func (s *ChatScreen) work() error {
	for {
		job, ok := s.next()
		if !ok {
			select {
			case <-s.ctx.Done():
				return nil
			case <-s.wake:
				continue
			}
		}
		s.process(job)
	}
}

func (s *ChatScreen) next() (chatJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.queue) == 0 {
		return chatJob{}, false
	}
	job := s.queue[0]
	s.queue = s.queue[1:]
	return job, true
}

func (s *ChatScreen) process(job chatJob) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.completer.Complete(ctx, ChatRequest{Prompt: job.prompt, Email: job.email})
	if s.ctx.Err() != nil {
		s.shutdown()
		close(job.reply)
		return
	}

	var text string
	switch {
	case err != nil:
		LogWarn("Chat request failed: %v", err)
		text = MsgConnectionError
	case resp == nil || strings.TrimSpace(resp.Response) == "":
		text = MsgNoAIResponse
	default:
		text = resp.Response
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(job.reply)
		return
	}
	msg := Message{Text: text, Sender: SenderAssistant, Timestamp: s.now()}
	s.transcript.Append(msg)
	s.pending--
	s.mu.Unlock()

	job.reply <- msg
	close(job.reply)
}
