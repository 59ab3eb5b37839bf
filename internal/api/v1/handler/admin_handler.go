package handler

import (
	"net/http"

	"mx70/internal/api/v1/dto"
	"mx70/internal/middleware"

	"github.com/rs/zerolog"
)

// AdminHandler exposes twin maintenance endpoints
type AdminHandler struct {
	reset  func()
	logger zerolog.Logger
}

func NewAdminHandler(reset func(), logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{reset: reset, logger: logger}
}

// Reset restores the seed fixtures
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.reset()
	h.logger.Info().Msg("State reset to seed fixtures")
	middleware.WriteJSON(w, http.StatusOK, dto.StatusResponseDTO{Status: "ok"})
}
