// Package session holds the signed-in state of the client: the persisted
// bearer token and the user it resolves to.
package session

import (
	"context"
	"fmt"
	"sync"

	"mx70/internal/client"
	"mx70/internal/model"

	"github.com/rs/zerolog"
)

type Store struct {
	mu      sync.RWMutex
	backend Backend
	token   string
	user    *model.User
	logger  zerolog.Logger
}

// NewStore reads the persisted token. A token that cannot be read is treated as absent.
func NewStore(backend Backend, logger zerolog.Logger) *Store {
	s := &Store{
		backend: backend,
		logger:  logger.With().Str("service", "Session").Logger(),
	}
	token, err := backend.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Ignoring unreadable token")
	}
	s.token = token
	return s
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Caller is the identity passed to every API call.
func (s *Store) Caller() client.Caller {
	return client.Caller{Token: s.Token()}
}

// User is the resolved account, nil when signed out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

func (s *Store) SetToken(token string) error {
	if err := s.backend.Save(token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		s.user = nil
	}
	s.token = token
	return nil
}

// ClearToken forgets the token and the user. Persistence errors are only logged.
func (s *Store) ClearToken() {
	if err := s.backend.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear persisted token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Restore resolves the persisted token. Any failure clears the token and
// leaves the store signed out; the caller never sees the error.
func (s *Store) Restore(ctx context.Context, api client.API) *model.User {
	token := s.Token()
	if token == "" {
		return nil
	}
	u, err := api.CurrentUser(ctx, client.Caller{Token: token})
	if err != nil {
		s.logger.Info().Err(err).Msg("Stored session is no longer valid")
		s.ClearToken()
		return nil
	}
	s.setUser(u)
	return s.User()
}

func (s *Store) setUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Login authenticates and persists the token.
func (s *Store) Login(ctx context.Context, api client.API, email, password string) (*model.User, error) {
	res, err := api.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.SetToken(res.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	s.setUser(res.User)
	s.logger.Info().Int64("user_id", res.User.ID).Msg("Signed in")
	return s.User(), nil
}

// Signup registers the account and signs it in.
func (s *Store) Signup(ctx context.Context, api client.API, reg model.Registration) (*model.User, error) {
	if _, err := api.Register(ctx, reg); err != nil {
		return nil, err
	}
	return s.Login(ctx, api, reg.Email, reg.Password)
}

func (s *Store) Logout() {
	s.ClearToken()
	s.logger.Info().Msg("Signed out")
}

// Watch makes api clear this session whenever the backend rejects its token.
func (s *Store) Watch(api client.API) {
	if n, ok := api.(client.UnauthorizedNotifier); ok {
		n.SetUnauthorizedHook(s.ClearToken)
	}
}
