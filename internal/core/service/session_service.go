package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

// SessionStore is the single source of truth for who is logged in. It owns
// the Session record and the auth_token/auth_user persisted keys.
//
// Lifecycle: uninitialized → restoring → {authenticated, unauthenticated}.
// Every transition into one of the two terminal states bumps the epoch
// counter; asynchronous flows capture the epoch before a round-trip and
// discard their result when it moved.
type SessionStore struct {
	api   ports.AuthAPI
	store ports.Storage
	log   zerolog.Logger

	mu          sync.Mutex
	state       domain.SessionState
	user        *domain.User
	token       string
	permissions domain.Permissions
	loading     bool
	epoch       uint64
	listeners   []func(domain.SessionState)
}

func NewSessionStore(api ports.AuthAPI, store ports.Storage, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		api:         api,
		store:       store,
		log:         log,
		state:       domain.SessionUninitialized,
		permissions: domain.Permissions{},
	}
}

// OnTransition registers fn to run after every transition into authenticated
// or unauthenticated. The tenant context uses this to drop state on logout.
func (s *SessionStore) OnTransition(fn func(domain.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Restore rehydrates the session from storage at process start. A persisted
// token is first checked for local expiry, then validated against the
// backend; anything short of a positive answer clears the auth keys and
// leaves the session unauthenticated.
func (s *SessionStore) Restore(ctx context.Context) {
	s.mu.Lock()
	s.state = domain.SessionRestoring
	s.loading = true
	s.mu.Unlock()

	token, tokenErr := s.store.Get(ctx, ports.KeyAuthToken)
	rawUser, userErr := s.store.Get(ctx, ports.KeyAuthUser)
	if tokenErr != nil || userErr != nil || token == "" {
		s.setUnauthenticated()
		return
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.log.Warn().Err(err).Msg("persisted user record is corrupt, discarding session")
		s.clearAuthKeys(ctx)
		s.setUnauthenticated()
		return
	}

	valid := !tokenExpired(token)
	if valid {
		ok, err := s.api.ValidateToken(ctx, token)
		if err != nil {
			s.log.Warn().Err(err).Msg("token validation unreachable, discarding session")
		}
		valid = err == nil && ok
	}
	if !valid {
		s.clearAuthKeys(ctx)
		s.setUnauthenticated()
		return
	}

	s.setAuthenticated(&user, token)
	s.log.Info().Str("username", user.Username).Msg("session restored from storage")
}

// Login authenticates against the backend. On success the token and user are
// persisted before the in-memory transition. Always returns a result value.
func (s *SessionStore) Login(ctx context.Context, creds domain.Credentials) domain.OpResult {
	if creds.Username == "" || creds.Password == "" {
		return domain.Fail("username and password are required", "VALIDATION_ERROR")
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	result, err := s.api.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		s.setUnauthenticated()
		return resultFromErr(err, "login failed")
	}
	if result == nil || result.Token == "" || result.User == nil {
		s.setUnauthenticated()
		return domain.Fail("login response missing token or user", "INVALID_RESPONSE")
	}

	rawUser, err := json.Marshal(result.User)
	if err == nil {
		if err := s.store.Set(ctx, ports.KeyAuthToken, result.Token); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist token")
		}
		if err := s.store.Set(ctx, ports.KeyAuthUser, string(rawUser)); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist user record")
		}
	}

	s.setAuthenticated(result.User, result.Token)
	s.log.Info().Str("username", result.User.Username).Msg("login succeeded")
	return domain.Ok("signed in")
}

// Logout invalidates the session server-side on a best-effort basis, then
// unconditionally clears local state. The local teardown always wins over an
// unreachable server.
func (s *SessionStore) Logout(ctx context.Context) domain.OpResult {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server-side logout failed, clearing local state anyway")
	}

	s.clearAuthKeys(ctx)
	if err := s.store.Delete(ctx, ports.KeySelectedEmpresa); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear empresa selection")
	}

	s.setUnauthenticated()
	return domain.Ok("signed out")
}

// UpdatePermissions merges perms into the session's permission set and
// rewrites the persisted user record so storage stays consistent with
// memory.
func (s *SessionStore) UpdatePermissions(ctx context.Context, perms domain.Permissions) {
	s.mu.Lock()
	s.permissions = s.permissions.Merge(perms)
	if s.user != nil {
		s.user.Permissions = s.permissions
	}
	user := s.user
	s.mu.Unlock()

	if user == nil {
		return
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, ports.KeyAuthUser, string(rawUser)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist updated permissions")
	}
}

// InvalidateLocal drops the in-memory session without touching the server or
// storage. The access layer calls it after a 401 teardown has already
// cleared the persisted keys.
func (s *SessionStore) InvalidateLocal() {
	s.setUnauthenticated()
}

// HasPermission reports whether the named permission is granted.
func (s *SessionStore) HasPermission(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permissions.Has(name)
}

func (s *SessionStore) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.State() == domain.SessionAuthenticated
}

// IsLoading is true only while restoring or during an in-flight login.
func (s *SessionStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *SessionStore) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copy := *s.user
	return &copy
}

func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Epoch identifies the current logical session. It changes on every login,
// logout and restore outcome.
func (s *SessionStore) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *SessionStore) setAuthenticated(user *domain.User, token string) {
	s.mu.Lock()
	s.state = domain.SessionAuthenticated
	s.user = user
	s.token = token
	s.permissions = domain.Permissions{}.Merge(user.Permissions)
	s.loading = false
	s.epoch++
	listeners := append([]func(domain.SessionState){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(domain.SessionAuthenticated)
	}
}

func (s *SessionStore) setUnauthenticated() {
	s.mu.Lock()
	s.state = domain.SessionUnauthenticated
	s.user = nil
	s.token = ""
	s.permissions = domain.Permissions{}
	s.loading = false
	s.epoch++
	listeners := append([]func(domain.SessionState){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(domain.SessionUnauthenticated)
	}
}

func (s *SessionStore) clearAuthKeys(ctx context.Context) {
	for _, key := range []string{ports.KeyAuthToken, ports.KeyAuthUser} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to clear persisted key")
		}
	}
}

// tokenExpired checks the exp claim without verifying the signature: the
// client has no signing key and only wants to skip a doomed round-trip.
// Opaque (non-JWT) tokens are passed through to the backend.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
