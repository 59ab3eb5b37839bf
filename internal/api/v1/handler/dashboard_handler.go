package handler

import (
	"context"

	"mx70/internal/api/v1/operation"
	"mx70/internal/model"
	"mx70/internal/service"

	"github.com/rs/zerolog"
)

// DashboardHandler implements the dashboard, analytics and self-promotion operations
type DashboardHandler struct {
	authService      service.AuthService
	dashboardService service.DashboardService
	promoService     service.PromoService
	logger           zerolog.Logger
}

func NewDashboardHandler(authService service.AuthService, dashboardService service.DashboardService, promoService service.PromoService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		authService:      authService,
		dashboardService: dashboardService,
		promoService:     promoService,
		logger:           logger,
	}
}

func (h *DashboardHandler) GetDashboard(ctx context.Context, input *operation.GetDashboardInput) (*operation.GetDashboardOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	d, err := h.dashboardService.Dashboard(ctx, u)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.GetDashboardOutput{Body: *d}, nil
}

func (h *DashboardHandler) GetAnalytics(ctx context.Context, input *operation.GetAnalyticsInput) (*operation.GetAnalyticsOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	a, err := h.dashboardService.Analytics(ctx, u, input.Timeframe)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.GetAnalyticsOutput{Body: *a}, nil
}

func (h *DashboardHandler) SelfPromo(ctx context.Context, input *operation.SelfPromoInput) (*operation.SelfPromoOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	res, err := h.promoService.SubmitSelfPromo(ctx, u, model.SelfPromoInput{
		PostLink: input.Body.PostLink,
		Views:    input.Body.Views,
		Likes:    input.Body.Likes,
	})
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.SelfPromoOutput{Body: *res}, nil
}
