package handler

import (
	"context"

	"mx70/internal/api/v1/operation"
	"mx70/internal/model"
	"mx70/internal/service"

	"github.com/rs/zerolog"
)

// GigHandler implements the gig lifecycle operations
type GigHandler struct {
	authService service.AuthService
	gigService  service.GigService
	logger      zerolog.Logger
}

func NewGigHandler(authService service.AuthService, gigService service.GigService, logger zerolog.Logger) *GigHandler {
	return &GigHandler{
		authService: authService,
		gigService:  gigService,
		logger:      logger,
	}
}

// CreateGig posts a gig for the calling business
func (h *GigHandler) CreateGig(ctx context.Context, input *operation.CreateGigInput) (*operation.GigOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	g, err := h.gigService.CreateGig(ctx, u, model.GigInput{
		Budget:        input.Body.Budget,
		Goals:         input.Body.Goals,
		StoryType:     input.Body.StoryType,
		RawFootageURL: input.Body.RawFootageURL,
	})
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.GigOutput{Body: *g}, nil
}

// ListAvailable lists pending gigs
func (h *GigHandler) ListAvailable(ctx context.Context, input *operation.ListGigsInput) (*operation.ListGigsOutput, error) {
	if _, err := getOptionalUser(ctx, h.authService); err != nil {
		return nil, err
	}
	gigs, err := h.gigService.ListAvailable(ctx)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.ListGigsOutput{Body: gigs}, nil
}

// ListMine lists a business's own gigs or a clipper's claims
func (h *GigHandler) ListMine(ctx context.Context, input *operation.ListGigsInput) (*operation.ListGigsOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	gigs, err := h.gigService.ListMine(ctx, u)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.ListGigsOutput{Body: gigs}, nil
}

// ClaimGig reserves a pending gig for the calling clipper
func (h *GigHandler) ClaimGig(ctx context.Context, input *operation.ClaimGigInput) (*operation.GigOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	g, err := h.gigService.ClaimGig(ctx, u, input.GigID)
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.GigOutput{Body: *g}, nil
}

// SubmitVideo delivers the edited video for a claimed gig
func (h *GigHandler) SubmitVideo(ctx context.Context, input *operation.SubmitVideoInput) (*operation.SubmissionOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	sub, err := h.gigService.SubmitVideo(ctx, u, input.GigID, model.SubmissionInput{
		EditedVideoURL: input.Body.EditedVideoURL,
		SocialPostLink: input.Body.SocialPostLink,
	})
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.SubmissionOutput{Body: *sub}, nil
}

// RecordMetrics updates engagement numbers and the bonus of a submission
func (h *GigHandler) RecordMetrics(ctx context.Context, input *operation.RecordMetricsInput) (*operation.SubmissionOutput, error) {
	u, err := getUserFromContext(ctx, h.authService)
	if err != nil {
		return nil, err
	}
	sub, err := h.gigService.RecordMetrics(ctx, u, input.SubmissionID, model.MetricsInput{
		Views:    input.Body.Views,
		Likes:    input.Body.Likes,
		Outcomes: input.Body.Outcomes,
	})
	if err != nil {
		return nil, toHumaError(err, h.logger)
	}
	return &operation.SubmissionOutput{Body: *sub}, nil
}
