package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/auth"
	"mx70/internal/model"
	"mx70/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AuthService handles accounts and bearer tokens
type AuthService interface {
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.AuthResult, error)
	// Resolve returns the user a token belongs to or an Unauthenticated error.
	Resolve(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
	now      func() time.Time
	logger   zerolog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, validate *validator.Validate, now func() time.Time, logger zerolog.Logger) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		validate: validate,
		now:      now,
		logger:   logger.With().Str("service", "AuthService").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	role, ok := model.ParseRole(string(reg.Role))
	if !ok && reg.Role != "" {
		return nil, apperr.Validation("role must be business or clipper")
	}
	reg.Role = role
	if err := invalid(s.validate, reg); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Email:        reg.Email,
		Role:         reg.Role,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperr.New(apperr.ErrAlreadyRegistered, "Email already registered")
		}
		s.logger.Error().Err(err).Str("email", reg.Email).Msg("Failed to create user")
		return nil, err
	}

	s.logger.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("User registered")
	return u, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.AuthResult, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil || auth.CheckPassword(password, u.PasswordHash) != nil {
		return nil, apperr.New(apperr.ErrInvalidCredentials, "Incorrect email or password")
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("Account is inactive")
	}

	token, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", u.ID).Msg("Failed to issue token")
		return nil, err
	}
	return &model.AuthResult{AccessToken: token, TokenType: "bearer", User: u}, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}
	id, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Rejected token")
		return nil, apperr.New(apperr.ErrUnauthenticated, "Could not validate credentials")
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "Could not validate credentials")
	}
	return u, nil
}
