package handler

import (
	"context"
	"net/http"

	"mx70/internal/apperr"
	"mx70/internal/middleware"
	"mx70/internal/model"
	"mx70/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// Helper to resolve the caller from the token injected by the token middleware
func getUserFromContext(ctx context.Context, auth service.AuthService) (*model.User, error) {
	token := middleware.TokenFromContext(ctx)
	if token == "" {
		return nil, huma.Error401Unauthorized("Not authenticated")
	}
	u, err := auth.Resolve(ctx, token)
	if err != nil {
		return nil, toHumaError(err, zerolog.Nop())
	}
	return u, nil
}

// getOptionalUser allows anonymous calls but still rejects a bad token.
func getOptionalUser(ctx context.Context, auth service.AuthService) (*model.User, error) {
	if middleware.TokenFromContext(ctx) == "" {
		return nil, nil
	}
	return getUserFromContext(ctx, auth)
}

// toHumaError turns a service error into a problem response with the same status the client maps back.
func toHumaError(err error, logger zerolog.Logger) error {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Unhandled service error")
		return huma.Error500InternalServerError("Internal server error", err)
	}
	return huma.NewError(status, apperr.Message(err))
}
