package handler

import (
	"context"
	"errors"
	"net/http"

	"mx70/internal/api/v1/dto"
	"mx70/internal/api/v1/operation"
	"mx70/internal/apperr"
	"mx70/internal/middleware"
	"mx70/internal/model"
	"mx70/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler implements signup, login and identity
type UserHandler struct {
	authService service.AuthService
	logger      zerolog.Logger
}

func NewUserHandler(authService service.AuthService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup creates a new account
func (h *UserHandler) Signup(ctx context.Context, input *operation.SignupInput) (*operation.SignupOutput, error) {
	u, err := h.authService.Register(ctx, model.Registration{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Role:     model.Role(input.Body.Role),
	})
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.SignupOutput{Body: *u}, nil
}

// GetUser returns the account the bearer token belongs to
func (h *UserHandler) GetUser(ctx context.Context, input *operation.GetUserInput) (*operation.GetUserOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	return &operation.GetUserOutput{Body: *u}, nil
}

// Token exchanges form-encoded credentials for a bearer token.
// Mounted as a raw handler because the body is not JSON.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteProblem(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		middleware.WriteProblem(w, http.StatusBadRequest, "username and password are required")
		return
	}

	res, err := h.authService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			middleware.WriteProblem(w, http.StatusUnauthorized, apperr.Message(err))
			return
		}
		h.logger.Error().Err(err).Msg("Failed to authenticate")
		middleware.WriteProblem(w, apperr.Status(err), apperr.Message(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.TokenResponseDTO{AccessToken: res.AccessToken, TokenType: res.TokenType})
}
