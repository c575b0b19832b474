package internal

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrSessionReset is returned when the session was logged out while a
// login-family request was pending. The late result is discarded.
var ErrSessionReset = errors.New("session was reset while the request was pending")

// SessionStore is the single owner of the authentication state. All
// mutations go through its methods; consumers read snapshots and
// subscribe to changes.
type SessionStore struct {
	bridge PersistenceBridge
	client AuthClient

	mu         sync.RWMutex
	session    Session
	token      string
	generation uint64

	subMu  sync.Mutex
	subs   map[int]func(Session)
	nextID int
}

// NewSessionStore builds a store from whatever the bridge currently holds.
// A stored token and email make the store start authenticated.
func NewSessionStore(bridge PersistenceBridge, client AuthClient) *SessionStore {
	s := &SessionStore{
		bridge: bridge,
		client: client,
		subs:   make(map[int]func(Session)),
	}

	token, email, ok, err := bridge.Read()
	if err != nil {
		LogWarn("Failed to read stored session: %v", err)
		return s
	}
	if ok {
		s.token = token
		s.session = Session{
			Identity:        &Identity{Email: email},
			IsAuthenticated: true,
			Durable:         true,
		}
		LogDebug("Restored session for %s", email)
	}
	return s
}

// Snapshot returns a copy of the current session
func (s *SessionStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Token returns the session token, or "" when anonymous
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn to be called with a snapshot after every state
// change. The returned func removes the subscription.
func (s *SessionStore) Subscribe(fn func(Session)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Login checks an email/password pair. A failed attempt leaves any
// existing identity in place.
func (s *SessionStore) Login(ctx context.Context, email, password string) (Session, error) {
	return s.authenticate(ctx, "login", email, func(ctx context.Context) (*LoginResponse, error) {
		return s.client.Login(ctx, LoginRequest{Email: email, Password: password})
	})
}

// LoginWithoutPassword completes a passwordless login with the same
// success and failure semantics as Login.
func (s *SessionStore) LoginWithoutPassword(ctx context.Context, email string) (Session, error) {
	return s.authenticate(ctx, "login-without-password", email, func(ctx context.Context) (*LoginResponse, error) {
		return s.client.LoginWithoutPassword(ctx, PasswordlessLoginRequest{Email: email})
	})
}

func (s *SessionStore) authenticate(ctx context.Context, op, email string, call func(context.Context) (*LoginResponse, error)) (Session, error) {
	gen, err := s.begin()
	if err != nil {
		return s.Snapshot(), err
	}

	resp, err := call(ctx)
	if err != nil {
		LogDebug("%s failed: %v", op, err)
		return s.fail(gen, UserMessage(err, MsgInvalidCredential), err)
	}

	identity := Identity{Email: email}
	if resp.User != nil {
		identity = *resp.User
		if identity.Email == "" {
			identity.Email = email
		}
	}

	s.mu.Lock()
	if s.generation != gen {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrSessionReset
	}

	durable := true
	if werr := s.bridge.Write(resp.Token, identity.Email); werr != nil {
		LogWarn("Session for %s is not durable: %v", identity.Email, werr)
		durable = false
		// A previous user's fields must not be restored on the next start.
		if cerr := s.bridge.Clear(); cerr != nil {
			LogWarn("Failed to clear stored session: %v", cerr)
		}
	}

	s.token = resp.Token
	s.session = Session{
		Identity:        &identity,
		RequestStatus:   StatusSuccess,
		IsAuthenticated: true,
		Durable:         durable,
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	LogInfo("Logged in as %s", identity.Email)
	s.notify(snap)
	return snap, nil
}

// AddProfileInfo submits onboarding fields and merges the stored profile
// into the identity when it belongs to the signed-in user. Server errors
// are surfaced verbatim.
func (s *SessionStore) AddProfileInfo(ctx context.Context, info ProfileInfo) (Session, error) {
	gen, err := s.begin()
	if err != nil {
		return s.Snapshot(), err
	}

	profile, err := s.client.AddParentInfo(ctx, info)
	if err != nil {
		LogDebug("add-parent-info failed: %v", err)
		return s.fail(gen, UserMessage(err, MsgInvalidPhone), err)
	}
	if profile == nil {
		profile = &Identity{
			Email:       info.Email,
			FirstName:   info.FirstName,
			LastName:    info.LastName,
			StudentID:   info.StudentID,
			PhoneNumber: info.PhoneNumber,
		}
	}

	s.mu.Lock()
	if s.generation != gen {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrSessionReset
	}
	if s.session.Identity != nil && strings.EqualFold(s.session.Identity.Email, info.Email) {
		updated := *s.session.Identity
		updated.merge(*profile)
		s.session.Identity = &updated
	}
	s.session.RequestStatus = StatusSuccess
	s.session.LastError = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap, nil
}

// Logout drops the identity and token and erases the persisted fields.
// It always succeeds; a storage failure is only logged.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.generation++
	s.token = ""
	s.session = Session{}
	if err := s.bridge.Clear(); err != nil {
		LogWarn("Failed to clear stored session: %v", err)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	LogInfo("Logged out")
	s.notify(snap)
}

// begin moves the request status to Pending, refusing when a request is
// already in flight.
func (s *SessionStore) begin() (uint64, error) {
	s.mu.Lock()
	if s.session.RequestStatus == StatusPending {
		s.mu.Unlock()
		return 0, ErrRequestInFlight
	}
	s.session.RequestStatus = StatusPending
	s.session.LastError = ""
	gen := s.generation
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return gen, nil
}

func (s *SessionStore) fail(gen uint64, message string, cause error) (Session, error) {
	s.mu.Lock()
	if s.generation != gen {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrSessionReset
	}
	s.session.RequestStatus = StatusFailed
	s.session.LastError = message
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap, cause
}

func (s *SessionStore) snapshotLocked() Session {
	snap := s.session
	if snap.Identity != nil {
		identity := *snap.Identity
		snap.Identity = &identity
	}
	snap.IsAuthenticated = snap.Identity != nil && s.token != ""
	return snap
}

func (s *SessionStore) notify(snap Session) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Session), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
