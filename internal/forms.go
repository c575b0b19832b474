package internal

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
)

// MinPasswordLength is the shortest password the forms accept
const MinPasswordLength = 8

// InstitutionPlaceholder is the unselected value of the institution picker
const InstitutionPlaceholder = "Institution"

// Institutions lists the institutions a teacher can sign up under
var Institutions = []string{"Gmail", "Eckerd College"}

// SignupKind selects the signup endpoint
type SignupKind string

const (
	SignupParent  SignupKind = "parent"
	SignupTeacher SignupKind = "teacher"
)

// LoginForm is the login screen's input
type LoginForm struct {
	Email    string
	Password string
	// Passwordless skips the password check
	Passwordless bool
}

// Validate blocks submission before any network call
func (f LoginForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" {
		return validationError("login", MsgRequiredFields)
	}
	if f.Passwordless {
		return nil
	}
	return ValidatePassword("login", f.Password)
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(op, password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return validationError(op, MsgPasswordTooShort)
	}
	return nil
}

// SignupForm is the parent or teacher signup screen's input
type SignupForm struct {
	Kind        SignupKind
	Email       string
	Password    string
	Institution string
}

// Validate checks the form for the selected signup kind
func (f SignupForm) Validate() error {
	op := string(f.Kind) + "-signup"
	if strings.TrimSpace(f.Email) == "" {
		return validationError(op, MsgRequiredFields)
	}
	if err := ValidatePassword(op, f.Password); err != nil {
		return err
	}
	if f.Kind == SignupTeacher && !IsInstitution(f.Institution) {
		return validationError(op, MsgSelectInstitution)
	}
	return nil
}

// Request builds the signup body. The password is sent as both
// password1 and password2.
func (f SignupForm) Request() SignupRequest {
	req := SignupRequest{
		Email:     strings.TrimSpace(f.Email),
		Password1: f.Password,
		Password2: f.Password,
	}
	if f.Kind == SignupTeacher {
		req.Institution = f.Institution
	}
	return req
}

// IsInstitution reports whether name is a selectable institution
func IsInstitution(name string) bool {
	if name == InstitutionPlaceholder {
		return false
	}
	for _, inst := range Institutions {
		if inst == name {
			return true
		}
	}
	return false
}

// SignupClient registers new accounts
type SignupClient interface {
	ParentSignup(ctx context.Context, req SignupRequest) (*MessageResponse, error)
	TeacherSignup(ctx context.Context, req SignupRequest) (*MessageResponse, error)
}

// Signup validates form and submits it. On success it returns the
// lower-cased email the verification step is addressed to.
func Signup(ctx context.Context, client SignupClient, form SignupForm) (string, *MessageResponse, error) {
	if err := form.Validate(); err != nil {
		return "", nil, err
	}

	var (
		resp *MessageResponse
		err  error
	)
	switch form.Kind {
	case SignupTeacher:
		resp, err = client.TeacherSignup(ctx, form.Request())
	default:
		resp, err = client.ParentSignup(ctx, form.Request())
	}
	if err != nil {
		return "", nil, err
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))
	LogInfo("Verification email sent to %s", email)
	return email, resp, nil
}

// ProfileForm is the onboarding screen's input
type ProfileForm struct {
	Email     string
	FirstName string
	LastName  string
	Birthday  string
	StudentID string
	Phone     string
}

// Validate requires every profile field except the birthday
func (f ProfileForm) Validate() error {
	for _, v := range []string{f.Email, f.FirstName, f.LastName, f.StudentID, f.Phone} {
		if strings.TrimSpace(v) == "" {
			return validationError("add-parent-info", MsgRequiredFields)
		}
	}
	return nil
}

// Info builds the add-parent-info body
func (f ProfileForm) Info() ProfileInfo {
	return ProfileInfo{
		Email:       strings.TrimSpace(f.Email),
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		StudentID:   strings.TrimSpace(f.StudentID),
		PhoneNumber: FormatPhone(f.Phone),
	}
}

// FormatPhone prefixes the US country code unless the number already
// starts with "+"
func FormatPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+1" + phone
}

// FormatBirthday keeps the digits of input and lays them out as
// MM/DD/YYYY, dropping anything past eight digits
func FormatBirthday(input string) string {
	var b strings.Builder
	n := 0
	for _, r := range input {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			continue
		}
		if n == 8 {
			break
		}
		if n == 2 || n == 4 {
			b.WriteByte('/')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Flash is an error message that clears itself after a fixed duration
type Flash struct {
	mu       sync.Mutex
	duration time.Duration
	now      func() time.Time
	message  string
	expires  time.Time
}

// NewFlash creates a flash whose messages last for d
func NewFlash(d time.Duration) *Flash {
	if d <= 0 {
		d = DefaultFlashDuration
	}
	return &Flash{duration: d, now: time.Now}
}

// Show replaces the current message and restarts the timer
func (f *Flash) Show(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = message
	f.expires = f.now().Add(f.duration)
}

// Message returns the visible message, or "" once it has expired
func (f *Flash) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.message == "" || !f.now().Before(f.expires) {
		f.message = ""
		return ""
	}
	return f.message
}

// Remaining returns how long the current message stays visible
func (f *Flash) Remaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.message == "" {
		return 0
	}
	if d := f.expires.Sub(f.now()); d > 0 {
		return d
	}
	return 0
}

// Clear hides the message immediately
func (f *Flash) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = ""
}
