package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

type stubStorage struct {
	values map[string]string
}

func newStubStorage() *stubStorage {
	return &stubStorage{values: make(map[string]string)}
}

func (s *stubStorage) Get(_ context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubStorage) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

type stubAuthAPI struct {
	loginFn    func(username, password string) (*ports.LoginResult, error)
	logoutErr  error
	logoutCnt  int
	validateFn func(token string) (bool, error)
}

func (a *stubAuthAPI) Login(_ context.Context, username, password string) (*ports.LoginResult, error) {
	if a.loginFn == nil {
		return nil, errors.New("login not stubbed")
	}
	return a.loginFn(username, password)
}

func (a *stubAuthAPI) Logout(context.Context) error {
	a.logoutCnt++
	return a.logoutErr
}

func (a *stubAuthAPI) ValidateToken(_ context.Context, token string) (bool, error) {
	if a.validateFn == nil {
		return false, errors.New("validate not stubbed")
	}
	return a.validateFn(token)
}

func (a *stubAuthAPI) Profile(context.Context) (*domain.User, error) { return nil, nil }

func (a *stubAuthAPI) UpdateProfile(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (a *stubAuthAPI) ChangePassword(context.Context, string, string, string) error { return nil }

func (a *stubAuthAPI) ForgotPassword(context.Context, string) error { return nil }

func (a *stubAuthAPI) ResetPassword(context.Context, string, string, string) error { return nil }

func testUser() *domain.User {
	return &domain.User{
		ID:       1,
		Username: "admin",
		Permissions: domain.Permissions{
			"produtos:read": true,
		},
		Empresas: []domain.EmpresaMembership{
			{ID: 1, Name: "Acme", Active: true},
			{ID: 2, Name: "Dormant", Active: false},
		},
	}
}

func successfulLogin(token string) func(string, string) (*ports.LoginResult, error) {
	return func(username, password string) (*ports.LoginResult, error) {
		if username != "admin" || password != "admin123" {
			return nil, errors.New("invalid credentials")
		}
		return &ports.LoginResult{Token: token, User: testUser()}, nil
	}
}

func TestSessionStore_LoginPersistsBeforeTransition(t *testing.T) {
	store := newStubStorage()
	api := &stubAuthAPI{loginFn: successfulLogin("T1")}
	s := NewSessionStore(api, store, zerolog.Nop())

	result := s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin123"})
	if !result.Success {
		t.Fatalf("expected login to succeed, got %+v", result)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated state, got %s", s.State())
	}
	if s.Token() != "T1" {
		t.Fatalf("expected token T1, got %q", s.Token())
	}
	if store.values[ports.KeyAuthToken] != "T1" {
		t.Fatalf("expected token persisted, got %q", store.values[ports.KeyAuthToken])
	}

	var persisted domain.User
	if err := json.Unmarshal([]byte(store.values[ports.KeyAuthUser]), &persisted); err != nil {
		t.Fatalf("persisted user record does not parse: %v", err)
	}
	if persisted.Username != "admin" {
		t.Fatalf("expected persisted user admin, got %q", persisted.Username)
	}
	if !s.HasPermission("produtos:read") {
		t.Fatalf("expected login to load the user's permission set")
	}
}

func TestSessionStore_LoginRejectsEmptyCredentials(t *testing.T) {
	api := &stubAuthAPI{loginFn: func(string, string) (*ports.LoginResult, error) {
		t.Fatalf("backend must not be called for empty credentials")
		return nil, nil
	}}
	s := NewSessionStore(api, newStubStorage(), zerolog.Nop())

	result := s.Login(context.Background(), domain.Credentials{Username: "admin"})
	if result.Success || result.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected local validation failure, got %+v", result)
	}
}

type facingErr struct{ msg, code string }

func (e *facingErr) Error() string       { return e.msg }
func (e *facingErr) UserMessage() string { return e.msg }
func (e *facingErr) ErrorCode() string   { return e.code }

func TestSessionStore_LoginFailureFoldsError(t *testing.T) {
	api := &stubAuthAPI{loginFn: func(string, string) (*ports.LoginResult, error) {
		return nil, &facingErr{msg: "not authorized - sign in again", code: "HTTP_401"}
	}}
	s := NewSessionStore(api, newStubStorage(), zerolog.Nop())

	result := s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "wrong"})
	if result.Success {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.Message != "not authorized - sign in again" || result.Code != "HTTP_401" {
		t.Fatalf("expected the backend's user-facing message, got %+v", result)
	}
	if s.State() != domain.SessionUnauthenticated {
		t.Fatalf("expected unauthenticated after failed login, got %s", s.State())
	}
}

func TestSessionStore_RestoreValidToken(t *testing.T) {
	store := newStubStorage()
	rawUser, _ := json.Marshal(testUser())
	store.values[ports.KeyAuthToken] = "opaque-token"
	store.values[ports.KeyAuthUser] = string(rawUser)

	var validated string
	api := &stubAuthAPI{validateFn: func(token string) (bool, error) {
		validated = token
		return true, nil
	}}
	s := NewSessionStore(api, store, zerolog.Nop())

	s.Restore(context.Background())

	if !s.IsAuthenticated() {
		t.Fatalf("expected restored session, got %s", s.State())
	}
	if validated != "opaque-token" {
		t.Fatalf("expected stored token to be validated, got %q", validated)
	}
	user := s.CurrentUser()
	if user == nil || user.Username != "admin" {
		t.Fatalf("expected restored user, got %+v", user)
	}
	if s.IsLoading() {
		t.Fatalf("expected loading to end after restore")
	}
}

func TestSessionStore_RestoreRejectedTokenClearsStorage(t *testing.T) {
	store := newStubStorage()
	rawUser, _ := json.Marshal(testUser())
	store.values[ports.KeyAuthToken] = "stale"
	store.values[ports.KeyAuthUser] = string(rawUser)

	api := &stubAuthAPI{validateFn: func(string) (bool, error) { return false, nil }}
	s := NewSessionStore(api, store, zerolog.Nop())

	s.Restore(context.Background())

	if s.State() != domain.SessionUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", s.State())
	}
	if _, ok := store.values[ports.KeyAuthToken]; ok {
		t.Fatalf("expected rejected token to be cleared")
	}
	if _, ok := store.values[ports.KeyAuthUser]; ok {
		t.Fatalf("expected user record to be cleared")
	}
}

func TestSessionStore_RestoreExpiredJWTSkipsBackend(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}

	store := newStubStorage()
	rawUser, _ := json.Marshal(testUser())
	store.values[ports.KeyAuthToken] = expired
	store.values[ports.KeyAuthUser] = string(rawUser)

	api := &stubAuthAPI{validateFn: func(string) (bool, error) {
		t.Fatalf("expired token must not reach the backend")
		return false, nil
	}}
	s := NewSessionStore(api, store, zerolog.Nop())

	s.Restore(context.Background())

	if s.State() != domain.SessionUnauthenticated {
		t.Fatalf("expected unauthenticated for expired token, got %s", s.State())
	}
	if _, ok := store.values[ports.KeyAuthToken]; ok {
		t.Fatalf("expected expired token to be cleared")
	}
}

func TestSessionStore_RestoreCorruptUserRecord(t *testing.T) {
	store := newStubStorage()
	store.values[ports.KeyAuthToken] = "T1"
	store.values[ports.KeyAuthUser] = "{not json"

	s := NewSessionStore(&stubAuthAPI{}, store, zerolog.Nop())
	s.Restore(context.Background())

	if s.State() != domain.SessionUnauthenticated {
		t.Fatalf("expected unauthenticated for corrupt user record, got %s", s.State())
	}
	if _, ok := store.values[ports.KeyAuthToken]; ok {
		t.Fatalf("expected auth keys to be cleared with the corrupt record")
	}
}

func TestSessionStore_RestoreEmptyStorage(t *testing.T) {
	s := NewSessionStore(&stubAuthAPI{}, newStubStorage(), zerolog.Nop())
	s.Restore(context.Background())
	if s.State() != domain.SessionUnauthenticated {
		t.Fatalf("expected unauthenticated with empty storage, got %s", s.State())
	}
}

func TestSessionStore_LogoutClearsEverythingDespiteServerFailure(t *testing.T) {
	store := newStubStorage()
	api := &stubAuthAPI{
		loginFn:   successfulLogin("T1"),
		logoutErr: errors.New("backend unreachable"),
	}
	s := NewSessionStore(api, store, zerolog.Nop())

	s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin123"})
	store.values[ports.KeySelectedEmpresa] = `{"id":1}`

	result := s.Logout(context.Background())
	if !result.Success {
		t.Fatalf("expected logout to report success, got %+v", result)
	}
	if api.logoutCnt != 1 {
		t.Fatalf("expected one server-side logout attempt, got %d", api.logoutCnt)
	}
	for _, key := range []string{ports.KeyAuthToken, ports.KeyAuthUser, ports.KeySelectedEmpresa} {
		if _, ok := store.values[key]; ok {
			t.Fatalf("expected %s cleared on logout", key)
		}
	}
	if s.IsAuthenticated() || s.Token() != "" || s.CurrentUser() != nil {
		t.Fatalf("expected in-memory session dropped")
	}
}

func TestSessionStore_EpochMovesOnEveryTransition(t *testing.T) {
	api := &stubAuthAPI{loginFn: successfulLogin("T1")}
	s := NewSessionStore(api, newStubStorage(), zerolog.Nop())

	before := s.Epoch()
	s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin123"})
	afterLogin := s.Epoch()
	if afterLogin == before {
		t.Fatalf("expected epoch to move on login")
	}
	s.Logout(context.Background())
	if s.Epoch() == afterLogin {
		t.Fatalf("expected epoch to move on logout")
	}
}

func TestSessionStore_TransitionListeners(t *testing.T) {
	api := &stubAuthAPI{loginFn: successfulLogin("T1")}
	s := NewSessionStore(api, newStubStorage(), zerolog.Nop())

	var seen []domain.SessionState
	s.OnTransition(func(state domain.SessionState) { seen = append(seen, state) })

	s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin123"})
	s.Logout(context.Background())

	want := []domain.SessionState{domain.SessionAuthenticated, domain.SessionUnauthenticated}
	if len(seen) != len(want) {
		t.Fatalf("expected %d notifications, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notification %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestSessionStore_UpdatePermissionsRewritesStorage(t *testing.T) {
	store := newStubStorage()
	api := &stubAuthAPI{loginFn: successfulLogin("T1")}
	s := NewSessionStore(api, store, zerolog.Nop())
	s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin123"})

	s.UpdatePermissions(context.Background(), domain.Permissions{"empresa:admin": true})

	if !s.HasPermission("empresa:admin") || !s.HasPermission("produtos:read") {
		t.Fatalf("expected merged permission set")
	}
	var persisted domain.User
	if err := json.Unmarshal([]byte(store.values[ports.KeyAuthUser]), &persisted); err != nil {
		t.Fatalf("persisted user record does not parse: %v", err)
	}
	if !persisted.Permissions.Has("empresa:admin") {
		t.Fatalf("expected refreshed permissions persisted, got %v", persisted.Permissions)
	}
}

func TestSessionStore_InvalidateLocalKeepsStorageUntouched(t *testing.T) {
	store := newStubStorage()
	api := &stubAuthAPI{loginFn: successfulLogin("T1")}
	s := NewSessionStore(api, store, zerolog.Nop())
	s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admin123"})

	s.InvalidateLocal()

	if s.IsAuthenticated() {
		t.Fatalf("expected in-memory session dropped")
	}
	// the access layer already cleared storage before calling InvalidateLocal;
	// the store must not be written again here
	if store.values[ports.KeyAuthToken] != "T1" {
		t.Fatalf("expected storage untouched by InvalidateLocal")
	}
}
