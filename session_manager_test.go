package spaces_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	spaces "github.com/spacehaven/go-spaces"
)

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, creds spaces.Credentials) (spaces.TokenResponse, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(spaces.TokenResponse), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, input spaces.Registration) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

type recordingSink struct {
	events []spaces.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event spaces.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

type failingStore struct {
	saveErr  error
	readErr  error
	clearErr error
	token    string
}

func (s *failingStore) Save(_ context.Context, token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *failingStore) Read(_ context.Context) (string, error) {
	if s.readErr != nil {
		return "", s.readErr
	}
	if s.token == "" {
		return "", spaces.ErrTokenNotFound
	}
	return s.token, nil
}

func (s *failingStore) Clear(_ context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token = ""
	return nil
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestSessionManagerStartsUninitialized(t *testing.T) {
	m := spaces.NewSessionManager(spaces.NewMemoryTokenStore(), &MockAuthAPI{})

	assert.Equal(t, spaces.StatusUninitialized, m.Status())
	assert.True(t, m.Loading())
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Session())
}

func TestCheckAuthStatusNoToken(t *testing.T) {
	m := spaces.NewSessionManager(spaces.NewMemoryTokenStore(), &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock))

	m.CheckAuthStatus(context.Background())

	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.False(t, m.Loading())
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Session())
}

func TestCheckAuthStatusValidToken(t *testing.T) {
	store := spaces.NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), makeToken(t, jwt.MapClaims{
		"sub":  "42",
		"role": "SPACE_OWNER",
		"exp":  fixedNow.Add(time.Hour).Unix(),
	})))

	sink := &recordingSink{}
	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionActivitySink(sink))

	m.CheckAuthStatus(context.Background())

	assert.Equal(t, spaces.StatusAuthenticated, m.Status())
	assert.True(t, m.IsAuthenticated())

	session := m.Session()
	require.NotNil(t, session)
	assert.Equal(t, "42", session.UserID)
	assert.Equal(t, spaces.RoleSpaceOwner, session.Role)
	assert.True(t, session.HasRole(spaces.RoleSpaceOwner))

	require.Len(t, sink.events, 1)
	assert.Equal(t, spaces.ActivityEventSessionRestored, sink.events[0].EventType)
	assert.Equal(t, "42", sink.events[0].UserID)
}

func TestCheckAuthStatusExpiredTokenClearsStore(t *testing.T) {
	store := spaces.NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), makeToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": fixedNow.Add(-time.Minute).Unix(),
	})))

	sink := &recordingSink{}
	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionActivitySink(sink))

	m.CheckAuthStatus(context.Background())

	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.False(t, m.IsAuthenticated())

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, spaces.ErrTokenNotFound)

	require.Len(t, sink.events, 1)
	assert.Equal(t, spaces.ActivityEventSessionExpired, sink.events[0].EventType)
}

func TestCheckAuthStatusMalformedTokenClearsStore(t *testing.T) {
	store := spaces.NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), "garbage"))

	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock))

	assert.NotPanics(t, func() {
		m.CheckAuthStatus(context.Background())
	})

	assert.Equal(t, spaces.StatusAnonymous, m.Status())

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, spaces.ErrTokenNotFound)
}

func TestCheckAuthStatusTokenWithoutSubject(t *testing.T) {
	store := spaces.NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), makeToken(t, jwt.MapClaims{
		"role": "CLIENT",
	})))

	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock))

	m.CheckAuthStatus(context.Background())

	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, spaces.ErrTokenNotFound)
}

func TestCheckAuthStatusStoreReadFailureSettles(t *testing.T) {
	store := &failingStore{readErr: errors.New("disk unavailable")}
	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock))

	m.CheckAuthStatus(context.Background())

	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.False(t, m.Loading())
}

func TestLoginSuccess(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{
		"sub":  "42",
		"role": "CLIENT",
		"exp":  fixedNow.Add(time.Hour).Unix(),
	})

	api := &MockAuthAPI{}
	api.On("Login", mock.Anything, spaces.Credentials{
		Email:    "user@example.com",
		Password: "secret123",
	}).Return(spaces.TokenResponse{AccessToken: token}, nil).Once()

	store := spaces.NewMemoryTokenStore()
	nav := &recordingNavigator{}
	sink := &recordingSink{}
	m := spaces.NewSessionManager(store, api,
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionNavigator(nav),
		spaces.WithSessionActivitySink(sink))

	// Email is normalized before it reaches the API.
	ok := m.Login(context.Background(), "  User@Example.COM ", "secret123")

	assert.True(t, ok)
	assert.True(t, m.IsAuthenticated())
	assert.Empty(t, m.Err())

	saved, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, saved)

	assert.Equal(t, []string{spaces.PathDashboard}, nav.paths)

	require.Len(t, sink.events, 1)
	assert.Equal(t, spaces.ActivityEventLoginSuccess, sink.events[0].EventType)
	api.AssertExpectations(t)
}

func TestLoginFailureRecordsMessage(t *testing.T) {
	api := &MockAuthAPI{}
	api.On("Login", mock.Anything, mock.Anything).
		Return(spaces.TokenResponse{}, errors.New("Invalid credentials")).Once()

	store := spaces.NewMemoryTokenStore()
	nav := &recordingNavigator{}
	m := spaces.NewSessionManager(store, api,
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionNavigator(nav))

	ok := m.Login(context.Background(), "user@example.com", "wrong")

	assert.False(t, ok)
	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.Equal(t, "Invalid credentials", m.Err())
	assert.Empty(t, nav.paths)

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, spaces.ErrTokenNotFound)

	m.ClearError()
	assert.Empty(t, m.Err())
}

func TestLoginFailureLeavesExistingSession(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{"sub": "42", "role": "CLIENT"})

	store := spaces.NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), token))

	api := &MockAuthAPI{}
	api.On("Login", mock.Anything, mock.Anything).
		Return(spaces.TokenResponse{}, errors.New("Invalid credentials")).Once()

	m := spaces.NewSessionManager(store, api,
		spaces.WithSessionClock(fixedClock))
	m.CheckAuthStatus(context.Background())
	require.True(t, m.IsAuthenticated())

	ok := m.Login(context.Background(), "user@example.com", "wrong")

	assert.False(t, ok)
	assert.True(t, m.IsAuthenticated(), "failed login must not destroy the prior session")
	assert.Equal(t, "Invalid credentials", m.Err())
}

func TestLoginSaveFailure(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{"sub": "42"})

	api := &MockAuthAPI{}
	api.On("Login", mock.Anything, mock.Anything).
		Return(spaces.TokenResponse{AccessToken: token}, nil).Once()

	store := &failingStore{saveErr: errors.New("disk full")}
	m := spaces.NewSessionManager(store, api,
		spaces.WithSessionClock(fixedClock))

	ok := m.Login(context.Background(), "user@example.com", "secret123")

	assert.False(t, ok)
	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.Equal(t, "disk full", m.Err())
}

func TestLoginMalformedTokenResponse(t *testing.T) {
	api := &MockAuthAPI{}
	api.On("Login", mock.Anything, mock.Anything).
		Return(spaces.TokenResponse{AccessToken: "garbage"}, nil).Once()

	store := spaces.NewMemoryTokenStore()
	m := spaces.NewSessionManager(store, api,
		spaces.WithSessionClock(fixedClock))

	ok := m.Login(context.Background(), "user@example.com", "secret123")

	assert.False(t, ok)
	assert.Equal(t, spaces.StatusAnonymous, m.Status())

	// The unusable token must not be left behind.
	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, spaces.ErrTokenNotFound)
}

func TestRegisterAutoLoginNavigatesOnce(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{
		"sub":  "77",
		"role": "SPACE_OWNER",
	})

	input := spaces.Registration{
		Email:     "Owner@Example.com",
		Password:  "secret123",
		FirstName: "Pat",
		LastName:  "Chen",
		Role:      spaces.Role("owner"),
	}

	api := &MockAuthAPI{}
	api.On("Register", mock.Anything, mock.MatchedBy(func(in spaces.Registration) bool {
		return in.Email == "owner@example.com" && in.Role == spaces.RoleSpaceOwner
	})).Return(nil).Once()
	api.On("Login", mock.Anything, spaces.Credentials{
		Email:    "owner@example.com",
		Password: "secret123",
	}).Return(spaces.TokenResponse{AccessToken: token}, nil).Once()

	nav := &recordingNavigator{}
	sink := &recordingSink{}
	m := spaces.NewSessionManager(spaces.NewMemoryTokenStore(), api,
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionNavigator(nav),
		spaces.WithSessionActivitySink(sink))

	ok := m.Register(context.Background(), input)

	assert.True(t, ok)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, []string{spaces.PathDashboard}, nav.paths, "register must navigate exactly once")

	types := []spaces.ActivityEventType{}
	for _, event := range sink.events {
		types = append(types, event.EventType)
	}
	assert.Equal(t, []spaces.ActivityEventType{
		spaces.ActivityEventRegisterSuccess,
		spaces.ActivityEventLoginSuccess,
	}, types)
	api.AssertExpectations(t)
}

func TestRegisterFailure(t *testing.T) {
	api := &MockAuthAPI{}
	api.On("Register", mock.Anything, mock.Anything).
		Return(errors.New("Email already registered")).Once()

	nav := &recordingNavigator{}
	m := spaces.NewSessionManager(spaces.NewMemoryTokenStore(), api,
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionNavigator(nav))

	ok := m.Register(context.Background(), spaces.Registration{
		Email:    "user@example.com",
		Password: "secret123",
	})

	assert.False(t, ok)
	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.Equal(t, "Email already registered", m.Err())
	assert.Empty(t, nav.paths)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLogout(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{"sub": "42", "role": "CLIENT"})

	store := spaces.NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), token))

	nav := &recordingNavigator{}
	sink := &recordingSink{}
	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionNavigator(nav),
		spaces.WithSessionActivitySink(sink))
	m.CheckAuthStatus(context.Background())
	require.True(t, m.IsAuthenticated())

	m.Logout(context.Background())

	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.Nil(t, m.Session())

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, spaces.ErrTokenNotFound)

	assert.Equal(t, []string{spaces.PathHome}, nav.paths)

	types := []spaces.ActivityEventType{}
	for _, event := range sink.events {
		types = append(types, event.EventType)
	}
	assert.Contains(t, types, spaces.ActivityEventLogout)
}

func TestLogoutIdempotent(t *testing.T) {
	nav := &recordingNavigator{}
	sink := &recordingSink{}
	m := spaces.NewSessionManager(spaces.NewMemoryTokenStore(), &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionNavigator(nav),
		spaces.WithSessionActivitySink(sink))
	m.CheckAuthStatus(context.Background())

	m.Logout(context.Background())
	m.Logout(context.Background())

	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.Empty(t, sink.events, "logging out while anonymous records nothing")
	assert.Equal(t, []string{spaces.PathHome, spaces.PathHome}, nav.paths)
}

func TestLogoutSurvivesStoreFailure(t *testing.T) {
	store := &failingStore{clearErr: errors.New("disk unavailable")}
	nav := &recordingNavigator{}
	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock),
		spaces.WithSessionNavigator(nav))

	assert.NotPanics(t, func() {
		m.Logout(context.Background())
	})
	assert.Equal(t, spaces.StatusAnonymous, m.Status())
	assert.Equal(t, []string{spaces.PathHome}, nav.paths)
}

func TestSessionReturnsCopy(t *testing.T) {
	store := spaces.NewMemoryTokenStore()
	require.NoError(t, store.Save(context.Background(), makeToken(t, jwt.MapClaims{
		"sub":  "42",
		"role": "CLIENT",
	})))

	m := spaces.NewSessionManager(store, &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock))
	m.CheckAuthStatus(context.Background())

	session := m.Session()
	require.NotNil(t, session)
	session.UserID = "tampered"
	session.Role = spaces.RoleSpaceOwner

	fresh := m.Session()
	assert.Equal(t, "42", fresh.UserID)
	assert.Equal(t, spaces.RoleClient, fresh.Role)
}

func TestSnapshot(t *testing.T) {
	m := spaces.NewSessionManager(spaces.NewMemoryTokenStore(), &MockAuthAPI{},
		spaces.WithSessionClock(fixedClock))

	snap := m.Snapshot()
	assert.True(t, snap.Loading())
	assert.False(t, snap.IsAuthenticated())
	assert.Equal(t, spaces.Role(""), snap.Role())

	m.CheckAuthStatus(context.Background())

	snap = m.Snapshot()
	assert.False(t, snap.Loading())
	assert.Equal(t, spaces.StatusAnonymous, snap.Status)
}
