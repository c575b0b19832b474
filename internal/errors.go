package internal

import (
	"errors"
	"fmt"
)

// Messages shown to the user when the server gives nothing better.
const (
	MsgConnectionError   = "Error connecting to the server."
	MsgNoAIResponse      = "No response from AI."
	MsgInvalidCredential = "Invalid credentials"
	MsgInvalidPhone      = "Invalid phone number"
	MsgRequiredFields    = "Please fill in all required fields."
	MsgPasswordTooShort  = "Password must be at least 8 characters."
	MsgSelectInstitution = "Please select an institution."
)

var (
	// ErrRequestInFlight is returned when a login-family request is issued
	// while another one is still pending.
	ErrRequestInFlight = errors.New("a request is already in progress")

	// ErrLoginRequired is returned by screens gated on an authenticated session.
	ErrLoginRequired = errors.New("login required")

	// ErrScreenClosed is returned when a closed chat screen is used.
	ErrScreenClosed = errors.New("chat screen closed")
)

// ErrorKind classifies user-visible failures
type ErrorKind int

const (
	ErrorKindValidation ErrorKind = iota
	ErrorKindNetwork
	ErrorKindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindValidation:
		return "validation"
	case ErrorKindNetwork:
		return "network"
	case ErrorKindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// AuthError is the failure returned by backend calls and form validation.
// Message is always safe to show to the user.
type AuthError struct {
	Kind    ErrorKind
	Op      string // "login", "parent-signup", ...
	Status  int    // HTTP status, 0 when no response was received
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed (%s, status %d): %s", e.Op, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Op, e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UserMessage returns the human-readable message carried by err, or
// fallback when err carries none.
func UserMessage(err error, fallback string) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return fallback
}

// IsNetworkError reports whether err is a request that never got a response.
func IsNetworkError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == ErrorKindNetwork
}

func validationError(op, message string) *AuthError {
	return &AuthError{Kind: ErrorKindValidation, Op: op, Message: message}
}

// StorageError represents errors accessing the persistence store
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "clear"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during transcript export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
