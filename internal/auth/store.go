package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/blogclient/internal/web"
	"github.com/siahsang/blogclient/models"
)

const unauthorizedClearTimeout = 5 * time.Second

type Session struct {
	User  models.User
	Token Credential
}

func (s *Session) ExpiresAt() (time.Time, bool) {
	return s.Token.ExpiresAt()
}

// Authenticator is the part of the API client the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

// Store owns the client session: the in-memory copy and its persisted form in a Provider.
type Store struct {
	provider Provider
	client   Authenticator
	nav      web.Navigator
	log      *slog.Logger

	mu      sync.RWMutex
	current *Session

	ready     chan struct{}
	readyOnce sync.Once
}

func NewStore(provider Provider, client Authenticator, nav web.Navigator, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		provider: provider,
		client:   client,
		nav:      nav,
		log:      log,
		ready:    make(chan struct{}),
	}
}

// Initialize restores the session from the provider. It never touches the network.
// Partial or malformed state is cleared and the store stays anonymous.
func (s *Store) Initialize(ctx context.Context) error {
	defer s.readyOnce.Do(func() { close(s.ready) })

	token, hasToken, err := s.provider.Get(ctx, TokenKey)
	if err != nil {
		return s.discard(ctx, xerrors.Newf("read persisted token: %w", err))
	}
	rawUser, hasUser, err := s.provider.Get(ctx, UserKey)
	if err != nil {
		return s.discard(ctx, xerrors.Newf("read persisted profile: %w", err))
	}

	if !hasToken && !hasUser {
		return nil
	}
	if !hasToken || !hasUser || token == "" {
		s.log.Warn("incomplete persisted session, clearing")
		return s.clear(ctx)
	}

	user, ok := decodeUser(rawUser)
	if !ok {
		s.log.Warn("malformed persisted profile, clearing")
		return s.clear(ctx)
	}

	s.mu.Lock()
	s.current = &Session{User: user, Token: Credential(token)}
	s.mu.Unlock()

	s.log.Debug("session restored", slog.Int64("user_id", user.ID))
	return nil
}

// discard clears whatever can be cleared after a read failure and reports the read failure.
func (s *Store) discard(ctx context.Context, readErr error) error {
	if err := s.clear(ctx); err != nil {
		s.log.Warn("failed to clear session", slog.String("error", err.Error()))
	}
	return readErr
}

func decodeUser(raw string) (models.User, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil || probe == nil {
		return models.User{}, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == 0 {
		return models.User{}, false
	}
	return user, true
}

// Ready is closed once Initialize has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login authenticates and persists the session. On failure the error is returned unchanged
// and no state is touched.
func (s *Store) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.establish(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.establish(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Store) establish(ctx context.Context, resp *models.AuthResponse) error {
	user := resp.User()
	rawUser, err := json.Marshal(user)
	if err != nil {
		return xerrors.Newf("encode profile: %w", err)
	}

	if err := s.provider.Set(ctx, TokenKey, resp.Token); err != nil {
		return xerrors.Newf("persist token: %w", err)
	}
	if err := s.provider.Set(ctx, UserKey, string(rawUser)); err != nil {
		_ = s.provider.Delete(ctx, TokenKey)
		return xerrors.Newf("persist profile: %w", err)
	}

	s.mu.Lock()
	s.current = &Session{User: user, Token: Credential(resp.Token)}
	s.mu.Unlock()

	s.log.Info("signed in", slog.Int64("user_id", user.ID), slog.String("email", user.Email))
	return nil
}

// Logout clears the session locally. The backend is not contacted.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.log.Info("signed out")
	return nil
}

func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.provider.Delete(ctx, TokenKey, UserKey); err != nil {
		return xerrors.Newf("clear session: %w", err)
	}
	return nil
}

func (s *Store) Current() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	session := *s.current
	return &session, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// UserID returns the signed in user's id, or 0 when anonymous.
func (s *Store) UserID() int64 {
	if session, ok := s.Current(); ok {
		return session.User.ID
	}
	return 0
}

// CanModify reports whether the signed in user owns a resource authored by authorID.
func (s *Store) CanModify(authorID int64) bool {
	session, ok := s.Current()
	return ok && session.User.ID == authorID
}

// HandleUnauthorized reacts to a 401 from any operation: the persisted session is cleared and,
// unless the user is already on the login or register view, the navigator is sent to login.
func (s *Store) HandleUnauthorized(op string) {
	ctx, cancel := context.WithTimeout(context.Background(), unauthorizedClearTimeout)
	defer cancel()

	if err := s.clear(ctx); err != nil {
		s.log.Warn("failed to clear session after 401", slog.String("op", op), slog.String("error", err.Error()))
	}

	if s.nav == nil {
		return
	}
	if s.nav.CurrentView().IsAuthView() {
		s.log.Debug("401 on auth view, staying", slog.String("op", op))
		return
	}
	s.log.Info("session expired, redirecting to login", slog.String("op", op))
	s.nav.Navigate(web.ViewLogin)
}
