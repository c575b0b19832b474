package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// RequestStatus tracks the lifecycle of the latest session request
type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusPending
	StatusSuccess
	StatusFailed
)

func (s RequestStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Role selects the navigation chrome shown to a user
type Role string

const (
	RoleStudent Role = "student" // students and parents share the same chrome
	RoleTeacher Role = "teacher"
)

// Identity is the authenticated user's profile
type Identity struct {
	Email            string `json:"email" yaml:"email"`
	FirstName        string `json:"firstName,omitempty" yaml:"first_name,omitempty"`
	LastName         string `json:"lastName,omitempty" yaml:"last_name,omitempty"`
	OrganizationName string `json:"organizationName,omitempty" yaml:"organization_name,omitempty"`
	StudentID        string `json:"studentId,omitempty" yaml:"student_id,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty" yaml:"phone_number,omitempty"`
	Role             Role   `json:"role,omitempty" yaml:"role,omitempty"`
}

// UnmarshalJSON accepts either a bare email string or a profile object.
func (i *Identity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var email string
		if err := json.Unmarshal(data, &email); err != nil {
			return err
		}
		*i = Identity{Email: email}
		return nil
	}

	type identityAlias Identity
	var aux struct {
		identityAlias
		Institution string `json:"institution,omitempty"`
		IsTeacher   bool   `json:"isTeacher,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = Identity(aux.identityAlias)
	if i.OrganizationName == "" {
		i.OrganizationName = aux.Institution
	}
	if i.Role == "" && aux.IsTeacher {
		i.Role = RoleTeacher
	}
	return nil
}

// DisplayName returns the user's full name, or the email when unknown.
func (i *Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Email
	}
	return name
}

// EffectiveRole resolves the role, treating unknown roles as students.
func (i *Identity) EffectiveRole() Role {
	if i == nil {
		return ""
	}
	switch strings.ToLower(string(i.Role)) {
	case string(RoleTeacher):
		return RoleTeacher
	case "parent", string(RoleStudent):
		return RoleStudent
	}
	return RoleStudent
}

// merge copies the non-empty profile fields of other onto i.
func (i *Identity) merge(other Identity) {
	if other.FirstName != "" {
		i.FirstName = other.FirstName
	}
	if other.LastName != "" {
		i.LastName = other.LastName
	}
	if other.OrganizationName != "" {
		i.OrganizationName = other.OrganizationName
	}
	if other.StudentID != "" {
		i.StudentID = other.StudentID
	}
	if other.PhoneNumber != "" {
		i.PhoneNumber = other.PhoneNumber
	}
	if other.Role != "" {
		i.Role = other.Role
	}
}

// Session is a point-in-time view of the authentication state
type Session struct {
	Identity        *Identity
	RequestStatus   RequestStatus
	LastError       string
	IsAuthenticated bool
	// Durable reports whether the session token reached persistent storage.
	Durable bool
}

// Email returns the signed-in user's email, or "" when anonymous.
func (s Session) Email() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}

// Role returns the session's role, or "" when anonymous.
func (s Session) Role() Role {
	if !s.IsAuthenticated {
		return ""
	}
	return s.Identity.EffectiveRole()
}

// Sender identifies who wrote a transcript entry
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "ai"
)

// Message is one transcript entry
type Message struct {
	Text      string    `json:"text" yaml:"text"`
	Sender    Sender    `json:"sender" yaml:"sender"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// LoginRequest is the body of a password login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordlessLoginRequest is the body of a passwordless login
type PasswordlessLoginRequest struct {
	Email string `json:"email"`
}

// LoginResponse is returned by both login endpoints
type LoginResponse struct {
	Token string    `json:"token"`
	User  *Identity `json:"user"`
}

// SignupRequest is the body of the parent and teacher signup endpoints
type SignupRequest struct {
	Email       string `json:"email"`
	Password1   string `json:"password1"`
	Password2   string `json:"password2"`
	Institution string `json:"institution,omitempty"`
}

// ProfileInfo is the onboarding form submitted to add-parent-info
type ProfileInfo struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	StudentID   string `json:"studentId"`
	PhoneNumber string `json:"phoneNumber"`
}

// ConfirmEmailRequest is the body of the email confirmation endpoint
type ConfirmEmailRequest struct {
	Email             string `json:"email"`
	ConfirmationToken string `json:"confirmationToken"`
}

// MessageResponse is the generic {message} success body
type MessageResponse struct {
	Message string `json:"message"`
}

// ChatRequest is the body of the completion endpoint
type ChatRequest struct {
	Prompt string `json:"prompt"`
	Email  string `json:"email"`
}

// ChatResponse is the completion endpoint's reply
type ChatResponse struct {
	Response string `json:"response"`
}
