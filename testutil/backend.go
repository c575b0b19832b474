package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Backend endpoint paths
const (
	PathLogin             = "/api/login/"
	PathLoginPasswordless = "/api/login-without-password/"
	PathParentSignup      = "/api/parent-signup/"
	PathTeacherSignup     = "/api/teacher-signup/"
	PathAddParentInfo     = "/api/add-parent-info/"
	PathConfirmEmail      = "/api/confirm-parent-email/"
	PathResendEmail       = "/resend-parent-email/"
	PathChat              = "/api/openai-chat/"
)

// RecordedRequest is a request received by the fake backend
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Decode unmarshals the recorded body into v
func (r RecordedRequest) Decode(t *testing.T, v interface{}) {
	t.Helper()
	JSONUnmarshal(t, r.Body, v)
}

// FakeBackend is an httptest server standing in for the Glancenote API.
// Routes default to 404 until configured.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeBackend starts a fake backend closed at test cleanup
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{handlers: make(map[string]http.HandlerFunc)}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	fb.mu.Lock()
	fb.requests = append(fb.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	handler, ok := fb.handlers[r.Method+" "+r.URL.Path]
	fb.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	handler(w, r)
}

// Handle registers handler for method and path
func (fb *FakeBackend) Handle(method, path string, handler http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[method+" "+path] = handler
}

// RespondJSON registers a fixed JSON response for method and path
func (fb *FakeBackend) RespondJSON(method, path string, status int, body interface{}) {
	fb.Handle(method, path, JSONHandler(status, body))
}

// RespondRaw registers a fixed raw response for method and path
func (fb *FakeBackend) RespondRaw(method, path string, status int, body string) {
	fb.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Requests returns a copy of the recorded requests
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]RecordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

// RequestsTo returns the recorded requests for path
func (fb *FakeBackend) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range fb.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// JSONHandler returns a handler writing body as JSON with status
func JSONHandler(status int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Gate blocks handlers until released, so tests can observe in-flight state
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewGate creates a closed gate. It is opened at test cleanup so the
// backend can shut down; create it after the backend.
func NewGate(t *testing.T) *Gate {
	t.Helper()
	g := &Gate{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
	t.Cleanup(g.Open)
	return g
}

// Wrap returns a handler that waits at the gate before calling next
func (g *Gate) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.entered <- struct{}{}
		select {
		case <-g.release:
		case <-r.Context().Done():
			return
		}
		next(w, r)
	}
}

// Entered returns a channel receiving once per request reaching the gate
func (g *Gate) Entered() <-chan struct{} {
	return g.entered
}

// Open releases all current and future requests
func (g *Gate) Open() {
	g.once.Do(func() { close(g.release) })
}
