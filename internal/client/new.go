package client

import (
	"fmt"

	"mx70/internal/auth"
	"mx70/internal/config"
	"mx70/internal/repository"
	"mx70/internal/service"
	"mx70/internal/storage"
	"mx70/internal/upload"

	"github.com/rs/zerolog"
)

// UnauthorizedNotifier is implemented by clients that can report a rejected token.
type UnauthorizedNotifier interface {
	SetUnauthorizedHook(fn func())
}

// New builds the API selected by cfg.APIMode.
func New(cfg *config.Config, logger zerolog.Logger) (API, error) {
	policy := upload.Policy{MaxBytes: cfg.MaxUploadBytes}

	switch cfg.APIMode {
	case config.ModeHTTP:
		logger.Debug().Str("base_url", cfg.APIBaseURL).Msg("Using HTTP backend")
		return NewHTTP(cfg.APIBaseURL, cfg.APITimeout, logger, WithUploadPolicy(policy)), nil

	case config.ModeMock, "":
		store, err := repository.NewDefaultStore()
		if err != nil {
			return nil, fmt.Errorf("failed to seed simulation: %w", err)
		}
		svc := service.New(service.Deps{
			Store:  store,
			Tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, nil),
			Blobs:  storage.NewMemory(storage.MockBaseURL),
			Policy: policy,
			Logger: logger,
		})
		logger.Debug().Dur("latency", cfg.SimLatency).Msg("Using simulated backend")
		return NewSimulated(svc, SimOptions{
			Latency:       cfg.SimLatency,
			UploadLatency: cfg.SimUploadLatency,
			Policy:        policy,
		}), nil
	}
	return nil, fmt.Errorf("unknown API mode %q", cfg.APIMode)
}
