package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/logging"
	"github.com/sipico/staff-console/internal/metrics"
	"github.com/sipico/staff-console/internal/storage"
)

// Identity is the signed-in account.
type Identity struct {
	Name        string
	Email       string
	Permissions PermissionSet
}

func identityFrom(u api.Identity) Identity {
	return Identity{
		Name:        u.Name,
		Email:       u.Email,
		Permissions: NewPermissionSet(u.Permissions...),
	}
}

// Authenticator is the part of the API gateway the session needs.
// Restore calls Me with a context from api.WithToken so that a stored
// credential is checked before it is adopted.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Me(ctx context.Context) (*api.Identity, error)
}

// Session owns the current identity and bearer credential. Restore, Login,
// Logout and Refresh are serialized; the credential is written to the store
// before memory on login and removed from the store before memory on logout
// and rejection.
type Session struct {
	authn  Authenticator
	store  storage.TokenStore
	logger *slog.Logger

	// opMu serializes operations that touch both the store and memory.
	opMu sync.Mutex

	mu       sync.RWMutex
	identity *Identity
	token    string
}

// NewSession creates a signed-out session.
func NewSession(authn Authenticator, store storage.TokenStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		authn:  authn,
		store:  store,
		logger: logger,
	}
}

// Restore signs in with the persisted credential, if any. When nothing is
// stored it returns nil and the session stays signed out. When the stored
// credential cannot be read or the identity fetch fails, the credential is
// removed from the store, the session stays signed out, and the cause is
// returned.
func (s *Session) Restore(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token, err := s.store.LoadToken(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case errors.Is(err, storage.ErrDecryption):
		metrics.RecordAuthFailure("credential_unreadable")
		s.logger.Warn("stored credential unreadable, discarding", "error", err)
		return s.discard(ctx, fmt.Errorf("restoring session: %w", err))
	case err != nil:
		return fmt.Errorf("restoring session: %w", err)
	}

	me, err := s.authn.Me(api.WithToken(ctx, token))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			metrics.RecordAuthFailure("credential_rejected")
		} else {
			metrics.RecordAuthFailure("restore_error")
		}
		s.logger.Info("stored credential rejected", "error", err)
		return s.discard(ctx, fmt.Errorf("restoring session: %w", err))
	}

	identity := identityFrom(*me)
	s.set(&identity, token)
	s.logger.Info("session restored", "email", identity.Email, "permissions", identity.Permissions.Len())
	return nil
}

// Login exchanges credentials for a session. On failure the previous state is
// left untouched and the error is returned; api.Message extracts the server
// text from it.
func (s *Session) Login(ctx context.Context, email, password string) (Identity, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	resp, err := s.authn.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			metrics.RecordAuthFailure("login_rejected")
		} else {
			metrics.RecordAuthFailure("login_error")
		}
		s.logger.Info("login failed", "email", email, "error", err)
		return Identity{}, err
	}

	if err := s.store.SaveToken(ctx, resp.Token); err != nil {
		s.logger.Error("failed to persist credential", "error", err)
		return Identity{}, fmt.Errorf("saving credential: %w", err)
	}

	identity := identityFrom(resp.User)
	s.set(&identity, resp.Token)
	s.logger.Info("signed in", "email", identity.Email, "permissions", identity.Permissions.Len())
	return identity, nil
}

// Logout ends the session. It never fails: clearing the store is tried
// twice, a remaining error is logged and the in-memory session is cleared
// regardless.
func (s *Session) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.clearStored(ctx); err != nil {
		s.logger.Error("failed to clear stored credential", "error", err)
	}
	s.set(nil, "")
	s.logger.Info("signed out")
}

// Refresh re-fetches the identity behind the current credential, picking up
// permission changes. A rejected credential ends the session like Restore
// does; other failures leave it in place.
func (s *Session) Refresh(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token := s.Token()
	if token == "" {
		return ErrUnauthenticated
	}

	me, err := s.authn.Me(api.WithToken(ctx, token))
	if errors.Is(err, api.ErrUnauthorized) {
		metrics.RecordAuthFailure("credential_rejected")
		return s.discard(ctx, fmt.Errorf("refreshing session: %w", err))
	}
	if err != nil {
		return fmt.Errorf("refreshing session: %w", err)
	}

	identity := identityFrom(*me)
	s.set(&identity, token)
	return nil
}

// discard removes the persisted credential, then clears memory, and returns
// cause joined with any store error.
func (s *Session) discard(ctx context.Context, cause error) error {
	clearErr := s.clearStored(ctx)
	if clearErr != nil {
		s.logger.Error("failed to clear stored credential", "error", clearErr)
	}
	s.set(nil, "")
	if clearErr != nil {
		return errors.Join(cause, clearErr)
	}
	return cause
}

// clearStored removes the persisted credential, retrying once.
func (s *Session) clearStored(ctx context.Context) error {
	err := s.store.ClearToken(ctx)
	if err == nil {
		return nil
	}
	s.logger.Warn("clearing stored credential failed, retrying", "error", err)
	return s.store.ClearToken(ctx)
}

func (s *Session) set(identity *Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.token = token
}

// Token returns the bearer credential, or "" when signed out. Session is an
// api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the signed-in identity.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether an identity is signed in.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// HasPermission reports whether the signed-in identity holds p. It is false,
// not an error, when nobody is signed in.
func (s *Session) HasPermission(p Permission) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.Permissions.Has(p)
}

var (
	_ Gate            = (*Session)(nil)
	_ api.TokenSource = (*Session)(nil)
	_ Authenticator   = (*api.Client)(nil)
)
