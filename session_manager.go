package spaces

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// Snapshot is a point-in-time view of the session state, safe to hand to
// guards and UI layers without exposing the manager's internals.
type Snapshot struct {
	Status  Status
	Session *Session
	Err     string
}

// Loading reports whether an operation is in flight. The uninitialized
// state counts as loading so guards hold rendering until the first
// CheckAuthStatus settles.
func (s Snapshot) Loading() bool {
	return s.Status == StatusLoading || s.Status == StatusUninitialized
}

// IsAuthenticated derives authentication status from session presence.
func (s Snapshot) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Session != nil
}

// Role returns the session role, empty when anonymous.
func (s Snapshot) Role() Role {
	if s.Session == nil {
		return ""
	}
	return s.Session.Role
}

// SessionManager owns the Session and drives its lifecycle:
//
//	uninitialized -> loading -> {authenticated, anonymous}
//	authenticated -> anonymous (logout, expiry, decode failure)
//
// Every operation settles the status; callers never observe a stuck
// loading state. Failures surface through Err() and boolean returns, not
// through panics or raw errors.
//
// The manager is not safe for interleaved operations: there is no
// de-duplication of overlapping Login/Logout calls, and the last one to
// settle wins. Callers are responsible for disabling duplicate triggers
// while Loading() is true.
type SessionManager struct {
	store     TokenStore
	api       AuthAPI
	navigator Navigator
	logger    Logger
	sink      ActivitySink
	now       func() time.Time

	transitions map[Status]map[Status]struct{}

	status  Status
	session *Session
	lastErr string
}

// SessionManagerOption customizes manager construction.
type SessionManagerOption func(*SessionManager)

// WithSessionClock injects a custom clock (useful for tests).
func WithSessionClock(clock func() time.Time) SessionManagerOption {
	return func(m *SessionManager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithSessionLogger overrides the logger.
func WithSessionLogger(logger Logger) SessionManagerOption {
	return func(m *SessionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSessionNavigator sets the Navigator that receives the dashboard and
// home navigation requests fired by login and logout.
func WithSessionNavigator(navigator Navigator) SessionManagerOption {
	return func(m *SessionManager) {
		m.navigator = normalizeNavigator(navigator)
	}
}

// WithSessionActivitySink sets the ActivitySink used to publish session events.
func WithSessionActivitySink(sink ActivitySink) SessionManagerOption {
	return func(m *SessionManager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// NewSessionManager returns a manager in the uninitialized state. Call
// CheckAuthStatus to hydrate from the token store.
func NewSessionManager(store TokenStore, api AuthAPI, opts ...SessionManagerOption) *SessionManager {
	m := &SessionManager{
		store:     store,
		api:       api,
		navigator: noopNavigator{},
		logger:    defLogger{},
		sink:      noopActivitySink{},
		now:       time.Now,
		status:    StatusUninitialized,
		transitions: map[Status]map[Status]struct{}{
			StatusUninitialized: {
				StatusLoading: {},
			},
			StatusLoading: {
				StatusAuthenticated: {},
				StatusAnonymous:     {},
			},
			StatusAuthenticated: {
				StatusLoading:   {},
				StatusAnonymous: {},
			},
			StatusAnonymous: {
				StatusLoading: {},
			},
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Status returns the current lifecycle status.
func (m *SessionManager) Status() Status {
	return m.status
}

// Loading reports whether an operation is in flight.
func (m *SessionManager) Loading() bool {
	return m.Snapshot().Loading()
}

// IsAuthenticated reports whether a session exists.
func (m *SessionManager) IsAuthenticated() bool {
	return m.status == StatusAuthenticated && m.session != nil
}

// Session returns a copy of the current session, nil when anonymous. The
// manager is the sole owner of the session; callers get a value they are
// free to mutate without affecting lifecycle state.
func (m *SessionManager) Session() *Session {
	if m.session == nil {
		return nil
	}
	session := *m.session
	return &session
}

// Err returns the message of the most recent failed operation, empty when
// the last operation succeeded or ClearError was called.
func (m *SessionManager) Err() string {
	return m.lastErr
}

// ClearError clears the recorded error without other side effects.
func (m *SessionManager) ClearError() {
	m.lastErr = ""
}

// Snapshot returns the current state for guards and UI bindings.
func (m *SessionManager) Snapshot() Snapshot {
	return Snapshot{
		Status:  m.status,
		Session: m.Session(),
		Err:     m.lastErr,
	}
}

// CheckAuthStatus hydrates the session from the token store. A missing
// token settles anonymous; a token that fails to decode or has expired is
// cleared from storage before settling anonymous. A valid token settles
// authenticated with a session built from its claims. The status is always
// settled on return, whatever the outcome.
func (m *SessionManager) CheckAuthStatus(ctx context.Context) {
	m.begin()
	defer m.ensureSettled()

	raw, err := m.store.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			m.logger.Error("auth check failed to read token store: %v", err)
		}
		m.settle(nil)
		return
	}

	claims, err := DecodeToken(raw)
	if err != nil {
		m.logger.Error("auth check token decode failed: %v", err)
		m.clearToken(ctx)
		m.settle(nil)
		m.record(ctx, ActivityEventSessionInvalid, "", map[string]any{
			"error": err.Error(),
		})
		return
	}

	if claims.Expired(m.now()) {
		m.clearToken(ctx)
		m.settle(nil)
		m.record(ctx, ActivityEventSessionExpired, claims.UserID(), nil)
		return
	}

	session, err := sessionFromClaims(claims)
	if err != nil {
		m.logger.Error("auth check claims unusable: %v", err)
		m.clearToken(ctx)
		m.settle(nil)
		return
	}

	m.settle(session)
	m.record(ctx, ActivityEventSessionRestored, session.UserID, nil)
}

// Login exchanges credentials for a token, persists it, and settles
// authenticated. On failure the prior session is left untouched, the
// failure message is recorded, and false is returned; Login never raises.
// A successful login fires a single navigation request to the dashboard.
func (m *SessionManager) Login(ctx context.Context, email, password string) bool {
	m.begin()
	m.lastErr = ""
	defer m.ensureSettled()

	creds := Credentials{
		Email:    normalizeEmail(email),
		Password: password,
	}

	res, err := m.api.Login(ctx, creds)
	if err != nil {
		return m.failLogin(ctx, creds.Email, err)
	}

	if err := m.store.Save(ctx, res.AccessToken); err != nil {
		return m.failLogin(ctx, creds.Email, err)
	}

	claims, err := DecodeToken(res.AccessToken)
	if err != nil {
		m.clearToken(ctx)
		return m.failLogin(ctx, creds.Email, err)
	}

	session, err := sessionFromClaims(claims)
	if err != nil {
		m.clearToken(ctx)
		return m.failLogin(ctx, creds.Email, err)
	}

	m.settle(session)
	m.record(ctx, ActivityEventLoginSuccess, session.UserID, nil)
	m.navigator.Navigate(PathDashboard)
	return true
}

// Register creates an account and, on success, logs in with the same
// credentials. Identity fields are normalized (email casing, canonical
// role) before they reach the backend. The failure path mirrors Login.
func (m *SessionManager) Register(ctx context.Context, input Registration) bool {
	m.begin()
	m.lastErr = ""
	defer m.ensureSettled()

	input = input.Normalized()

	if err := m.api.Register(ctx, input); err != nil {
		m.lastErr = errorMessage(err)
		m.settle(m.session)
		m.record(ctx, ActivityEventRegisterFailure, "", map[string]any{
			"email": input.Email,
			"error": m.lastErr,
		})
		return false
	}

	m.record(ctx, ActivityEventRegisterSuccess, "", map[string]any{
		"email": input.Email,
	})

	return m.Login(ctx, input.Email, input.Password)
}

// Logout clears the token store, settles anonymous, and navigates home.
// It cannot fail and is idempotent; logging out while anonymous performs
// only a no-op clear.
func (m *SessionManager) Logout(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("logout failed to clear token store: %v", err)
	}

	hadSession := m.session != nil
	userID := ""
	if hadSession {
		userID = m.session.UserID
	}

	m.session = nil
	m.status = StatusAnonymous

	if hadSession {
		m.record(ctx, ActivityEventLogout, userID, nil)
	}

	m.navigator.Navigate(PathHome)
}

func (m *SessionManager) failLogin(ctx context.Context, email string, err error) bool {
	m.lastErr = errorMessage(err)
	m.settle(m.session)
	m.record(ctx, ActivityEventLoginFailure, "", map[string]any{
		"email": email,
		"error": m.lastErr,
	})
	return false
}

func (m *SessionManager) begin() {
	m.setStatus(StatusLoading)
}

// settle transitions out of loading. A nil session settles anonymous.
func (m *SessionManager) settle(session *Session) {
	m.session = session
	if session != nil {
		m.setStatus(StatusAuthenticated)
		return
	}
	m.setStatus(StatusAnonymous)
}

// ensureSettled guards the invariant that no operation leaves the manager
// loading. It only fires when an early return slipped past a settle call.
func (m *SessionManager) ensureSettled() {
	if m.status == StatusLoading || m.status == StatusUninitialized {
		m.settle(m.session)
	}
}

func (m *SessionManager) setStatus(target Status) {
	if m.status == target {
		return
	}
	if !m.canTransition(m.status, target) {
		m.logger.Debug("unexpected session transition %s -> %s", m.status, target)
	}
	m.status = target
}

func (m *SessionManager) canTransition(from, to Status) bool {
	if allowed, ok := m.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func (m *SessionManager) clearToken(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("failed to clear token store: %v", err)
	}
}

func (m *SessionManager) record(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}

	sink := normalizeActivitySink(m.sink)
	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("session activity sink error: %v", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
