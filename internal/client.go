package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
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

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 64 << 10

// AuthClient performs the login-family requests used by the session store
type AuthClient interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	LoginWithoutPassword(ctx context.Context, req PasswordlessLoginRequest) (*LoginResponse, error)
	AddParentInfo(ctx context.Context, info ProfileInfo) (*Identity, error)
}

// Completer sends one chat prompt to the completion endpoint
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Client is the HTTP client for the Glancenote backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
	userAgent  string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource attaches "Authorization: Token <t>" when source returns
// a non-empty token
func WithTokenSource(source func() string) ClientOption {
	return func(c *Client) { c.token = source }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a backend client rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  "glancenote-cli",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login checks an email/password pair
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, PathLogin, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.validate("login"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginWithoutPassword completes a passwordless (magic link) login
func (c *Client) LoginWithoutPassword(ctx context.Context, req PasswordlessLoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, "login-without-password", http.MethodPost, PathLoginPasswordless, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.validate("login-without-password"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParentSignup registers a parent account and triggers the verification email
func (c *Client) ParentSignup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	req.Institution = ""
	var resp MessageResponse
	if err := c.do(ctx, "parent-signup", http.MethodPost, PathParentSignup, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TeacherSignup registers a teacher account at an institution
func (c *Client) TeacherSignup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, "teacher-signup", http.MethodPost, PathTeacherSignup, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddParentInfo stores the onboarding profile. The backend echoes the
// updated profile; an empty echo is reported as a nil identity.
func (c *Client) AddParentInfo(ctx context.Context, info ProfileInfo) (*Identity, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "add-parent-info", http.MethodPut, PathAddParentInfo, info, &raw); err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var wrapped struct {
		User *Identity `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var profile Identity
	if err := json.Unmarshal(raw, &profile); err != nil || profile == (Identity{}) {
		return nil, nil
	}
	return &profile, nil
}

// ConfirmEmail submits the confirmation token from the verification email
func (c *Client) ConfirmEmail(ctx context.Context, req ConfirmEmailRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, "confirm-email", http.MethodPost, PathConfirmEmail, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendEmail asks the backend to send the verification email again
func (c *Client) ResendEmail(ctx context.Context, email string) (*MessageResponse, error) {
	var resp MessageResponse
	body := PasswordlessLoginRequest{Email: email}
	if err := c.do(ctx, "resend-email", http.MethodPost, PathResendEmail, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Complete sends a chat prompt. Only transport and decode failures are
// errors: any JSON reply is returned, with an empty Response when the
// backend supplied none.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	httpResp, err := c.send(ctx, "openai-chat", http.MethodPost, PathChat, req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		LogWarn("Chat endpoint returned status %d", httpResp.StatusCode)
	}

	var resp ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &AuthError{
			Kind:    ErrorKindNetwork,
			Op:      "openai-chat",
			Status:  httpResp.StatusCode,
			Message: MsgConnectionError,
			Err:     fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return &resp, nil
}

// Ping checks that the backend answers HTTP. Any status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create ping request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &AuthError{Kind: ErrorKindNetwork, Op: "ping", Message: MsgConnectionError, Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) send(ctx context.Context, op, method, path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.token != nil {
		if token := c.token(); token != "" {
			httpReq.Header.Set("Authorization", "Token "+token)
		}
	}

	LogDebug("%s %s (request %s)", method, path, requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &AuthError{Kind: ErrorKindNetwork, Op: op, Message: MsgConnectionError, Err: err}
	}

	LogDebug("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &AuthError{
			Kind:    ErrorKindApplication,
			Op:      op,
			Status:  resp.StatusCode,
			Message: extractErrorMessage(data, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &AuthError{
			Kind:    ErrorKindApplication,
			Op:      op,
			Status:  resp.StatusCode,
			Message: "Unexpected response from the server.",
			Err:     fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

func (r *LoginResponse) validate(op string) error {
	if r.Token == "" {
		return &AuthError{
			Kind:    ErrorKindApplication,
			Op:      op,
			Message: "Unexpected response from the server.",
			Err:     errors.New("response carried no token"),
		}
	}
	return nil
}

// extractErrorMessage pulls the human-readable message out of an error
// body. Django-style bodies are supported: {"error": ...}, {"message": ...},
// {"detail": ...}, {"non_field_errors": [...]}, {"<field>": [...]}, or a
// bare JSON string.
func extractErrorMessage(data []byte, status int) string {
	data = bytes.TrimSpace(data)
	if len(data) > 0 {
		var decoded interface{}
		if err := json.Unmarshal(data, &decoded); err == nil {
			if msg := messageFrom(decoded); msg != "" {
				return msg
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func messageFrom(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []interface{}:
		for _, item := range val {
			if msg := messageFrom(item); msg != "" {
				return msg
			}
		}
	case map[string]interface{}:
		for _, key := range []string{"error", "message", "detail", "non_field_errors"} {
			if msg := messageFrom(val[key]); msg != "" {
				return msg
			}
		}
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if msg := messageFrom(val[key]); msg != "" {
				return msg
			}
		}
	}
	return ""
}
