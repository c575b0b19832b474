package internal

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Taycanstar/glancenote/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.RespondJSON(http.MethodPost, testutil.PathLogin, http.StatusOK, testutil.LoginSuccess("t1", "a@b.com"))

	client := NewClient(backend.URL)
	resp, err := client.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "a@b.com", resp.User.Email)

	reqs := backend.RequestsTo(testutil.PathLogin)
	require.Len(t, reqs, 1)
	var body LoginRequest
	reqs[0].Decode(t, &body)
	assert.Equal(t, LoginRequest{Email: "a@b.com", Password: "password1"}, body)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
	assert.NotEmpty(t, reqs[0].Header.Get("X-Request-ID"))
	assert.Empty(t, reqs[0].Header.Get("Authorization"))
}

func TestClient_LoginProfileUser(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.RespondJSON(http.MethodPost, testutil.PathLoginPasswordless, http.StatusOK,
		testutil.LoginSuccessProfile("t2", map[string]interface{}{
			"email":            "teach@school.edu",
			"firstName":        "Ada",
			"organizationName": "Eckerd College",
			"role":             "teacher",
		}))

	client := NewClient(backend.URL)
	resp, err := client.LoginWithoutPassword(context.Background(), PasswordlessLoginRequest{Email: "teach@school.edu"})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Ada", resp.User.FirstName)
	assert.Equal(t, "Eckerd College", resp.User.OrganizationName)
	assert.Equal(t, RoleTeacher, resp.User.EffectiveRole())
}

func TestClient_LoginErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    ErrorKind
		wantMessage string
	}{
		{
			name:        "error field",
			status:      http.StatusUnauthorized,
			body:        `{"error": "Invalid email or password"}`,
			wantKind:    ErrorKindApplication,
			wantMessage: "Invalid email or password",
		},
		{
			name:        "detail field",
			status:      http.StatusForbidden,
			body:        `{"detail": "Account not verified"}`,
			wantKind:    ErrorKindApplication,
			wantMessage: "Account not verified",
		},
		{
			name:        "non field errors",
			status:      http.StatusBadRequest,
			body:        `{"non_field_errors": ["Unable to log in with provided credentials."]}`,
			wantKind:    ErrorKindApplication,
			wantMessage: "Unable to log in with provided credentials.",
		},
		{
			name:        "field errors",
			status:      http.StatusBadRequest,
			body:        `{"password": ["This field may not be blank."]}`,
			wantKind:    ErrorKindApplication,
			wantMessage: "This field may not be blank.",
		},
		{
			name:        "bare string",
			status:      http.StatusBadRequest,
			body:        `"User does not exist"`,
			wantKind:    ErrorKindApplication,
			wantMessage: "User does not exist",
		},
		{
			name:        "html body",
			status:      http.StatusInternalServerError,
			body:        `<html>oops</html>`,
			wantKind:    ErrorKindApplication,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "success without token",
			status:      http.StatusOK,
			body:        `{"user": "a@b.com"}`,
			wantKind:    ErrorKindApplication,
			wantMessage: "Unexpected response from the server.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t)
			backend.RespondRaw(http.MethodPost, testutil.PathLogin, tt.status, tt.body)

			_, err := NewClient(backend.URL).Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "password1"})
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantKind, authErr.Kind)
			assert.Equal(t, tt.wantMessage, authErr.Message)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	url := backend.URL
	backend.Close()

	_, err := NewClient(url).Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "password1"})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.Equal(t, MsgConnectionError, UserMessage(err, ""))
}

func TestClient_Timeout(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	gate := testutil.NewGate(t)
	backend.Handle(http.MethodPost, testutil.PathChat, gate.Wrap(testutil.JSONHandler(http.StatusOK, testutil.ChatReply("late"))))

	client := NewClient(backend.URL, WithTimeout(50*time.Millisecond))
	_, err := client.Complete(context.Background(), ChatRequest{Prompt: "hi", Email: "a@b.com"})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestClient_TokenSource(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.RespondJSON(http.MethodPost, testutil.PathChat, http.StatusOK, testutil.ChatReply("hello"))

	client := NewClient(backend.URL, WithTokenSource(func() string { return "t1" }))
	_, err := client.Complete(context.Background(), ChatRequest{Prompt: "hi", Email: "a@b.com"})
	require.NoError(t, err)

	reqs := backend.RequestsTo(testutil.PathChat)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Token t1", reqs[0].Header.Get("Authorization"))
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      string
		wantError bool
	}{
		{name: "reply", status: http.StatusOK, body: `{"response": "Hi there"}`, want: "Hi there"},
		{name: "missing payload", status: http.StatusOK, body: `{"other": 1}`, want: ""},
		{name: "error status with json", status: http.StatusInternalServerError, body: `{"error": "quota"}`, want: ""},
		{name: "non json", status: http.StatusBadGateway, body: `Bad Gateway`, wantError: true},
		{name: "empty body", status: http.StatusOK, body: ``, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t)
			backend.RespondRaw(http.MethodPost, testutil.PathChat, tt.status, tt.body)

			resp, err := NewClient(backend.URL).Complete(context.Background(), ChatRequest{Prompt: "hi", Email: "a@b.com"})
			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, MsgConnectionError, UserMessage(err, ""))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Response)

			var body ChatRequest
			backend.RequestsTo(testutil.PathChat)[0].Decode(t, &body)
			assert.Equal(t, ChatRequest{Prompt: "hi", Email: "a@b.com"}, body)
		})
	}
}

func TestClient_Signups(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.RespondJSON(http.MethodPost, testutil.PathParentSignup, http.StatusCreated, map[string]string{"message": "Verification email sent"})
	backend.RespondJSON(http.MethodPost, testutil.PathTeacherSignup, http.StatusCreated, map[string]string{"message": "Verification email sent"})
	client := NewClient(backend.URL)

	resp, err := client.ParentSignup(context.Background(), SignupRequest{
		Email: "p@b.com", Password1: "password1", Password2: "password1", Institution: "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Verification email sent", resp.Message)

	_, err = client.TeacherSignup(context.Background(), SignupRequest{
		Email: "t@b.com", Password1: "password1", Password2: "password1", Institution: "Eckerd College",
	})
	require.NoError(t, err)

	var parent map[string]interface{}
	backend.RequestsTo(testutil.PathParentSignup)[0].Decode(t, &parent)
	assert.NotContains(t, parent, "institution")
	assert.Equal(t, "password1", parent["password2"])

	var teacher SignupRequest
	backend.RequestsTo(testutil.PathTeacherSignup)[0].Decode(t, &teacher)
	assert.Equal(t, "Eckerd College", teacher.Institution)
}

func TestClient_AddParentInfo(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantNil   bool
		wantFirst string
	}{
		{name: "profile echo", body: `{"email": "a@b.com", "firstName": "Sam"}`, wantFirst: "Sam"},
		{name: "wrapped user", body: `{"user": {"email": "a@b.com", "firstName": "Kim"}}`, wantFirst: "Kim"},
		{name: "message only", body: `{"message": "ok"}`, wantNil: true},
		{name: "empty", body: ``, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t)
			backend.RespondRaw(http.MethodPut, testutil.PathAddParentInfo, http.StatusOK, tt.body)

			profile, err := NewClient(backend.URL).AddParentInfo(context.Background(), ProfileInfo{Email: "a@b.com"})
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, profile)
				return
			}
			require.NotNil(t, profile)
			assert.Equal(t, tt.wantFirst, profile.FirstName)
		})
	}
}

func TestClient_EmailVerification(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.RespondJSON(http.MethodPost, testutil.PathConfirmEmail, http.StatusOK, map[string]string{"message": "Email verified"})
	backend.RespondJSON(http.MethodPost, testutil.PathResendEmail, http.StatusBadRequest, map[string]string{"message": "Already verified"})
	client := NewClient(backend.URL)

	resp, err := client.ConfirmEmail(context.Background(), ConfirmEmailRequest{Email: "a@b.com", ConfirmationToken: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "Email verified", resp.Message)

	var body ConfirmEmailRequest
	backend.RequestsTo(testutil.PathConfirmEmail)[0].Decode(t, &body)
	assert.Equal(t, "abc", body.ConfirmationToken)

	_, err = client.ResendEmail(context.Background(), "a@b.com")
	assert.Equal(t, "Already verified", UserMessage(err, ""))
}

func TestClient_ContextCancelled(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	gate := testutil.NewGate(t)
	backend.Handle(http.MethodPost, testutil.PathChat, gate.Wrap(testutil.JSONHandler(http.StatusOK, testutil.ChatReply("late"))))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := NewClient(backend.URL).Complete(ctx, ChatRequest{Prompt: "hi"})
		done <- err
	}()

	<-gate.Entered()
	cancel()

	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Ping(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	status, err := NewClient(backend.URL).Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	url := backend.URL
	backend.Close()
	_, err = NewClient(url).Ping(context.Background())
	assert.True(t, IsNetworkError(err))
}
