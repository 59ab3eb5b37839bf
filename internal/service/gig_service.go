package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/model"
	"mx70/internal/pubsub"
	"mx70/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// GigService covers the gig lifecycle: post, claim, submit and metrics.
type GigService interface {
	CreateGig(ctx context.Context, caller *model.User, in model.GigInput) (*model.Gig, error)
	ListAvailable(ctx context.Context) ([]model.Gig, error)
	ListMine(ctx context.Context, caller *model.User) ([]model.Gig, error)
	ClaimGig(ctx context.Context, caller *model.User, gigID int64) (*model.Gig, error)
	SubmitVideo(ctx context.Context, caller *model.User, gigID int64, in model.SubmissionInput) (*model.Submission, error)
	RecordMetrics(ctx context.Context, caller *model.User, submissionID int64, in model.MetricsInput) (*model.Submission, error)
}

type gigService struct {
	gigs        repository.GigRepository
	submissions repository.SubmissionRepository
	events      pubsub.Publisher
	validate    *validator.Validate
	now         func() time.Time
	logger      zerolog.Logger
}

func NewGigService(gigs repository.GigRepository, submissions repository.SubmissionRepository, events pubsub.Publisher, validate *validator.Validate, now func() time.Time, logger zerolog.Logger) GigService {
	return &gigService{
		gigs:        gigs,
		submissions: submissions,
		events:      events,
		validate:    validate,
		now:         now,
		logger:      logger.With().Str("service", "GigService").Logger(),
	}
}

func (s *gigService) CreateGig(ctx context.Context, caller *model.User, in model.GigInput) (*model.Gig, error) {
	if err := requireRole(caller, model.RoleBusiness, "post gigs"); err != nil {
		return nil, err
	}
	in.Goals = strings.TrimSpace(in.Goals)
	in.StoryType = strings.TrimSpace(in.StoryType)
	if in.RawFootageURL != nil && strings.TrimSpace(*in.RawFootageURL) == "" {
		in.RawFootageURL = nil
	}
	if err := invalid(s.validate, in); err != nil {
		return nil, err
	}

	g := &model.Gig{
		BusinessID:    caller.ID,
		Budget:        in.Budget,
		Goals:         in.Goals,
		StoryType:     in.StoryType,
		RawFootageURL: in.RawFootageURL,
		Status:        model.GigPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.gigs.CreateGig(ctx, g); err != nil {
		s.logger.Error().Err(err).Int64("business_id", caller.ID).Msg("Failed to create gig")
		return nil, err
	}
	s.logger.Info().Int64("gig_id", g.ID).Float64("budget", g.Budget).Msg("Gig posted")
	return g, nil
}

func (s *gigService) ListAvailable(ctx context.Context) ([]model.Gig, error) {
	return s.gigs.ListGigsByStatus(ctx, model.GigPending)
}

func (s *gigService) ListMine(ctx context.Context, caller *model.User) ([]model.Gig, error) {
	if caller == nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}
	if caller.Role == model.RoleBusiness {
		return s.gigs.ListGigsByBusiness(ctx, caller.ID)
	}
	return s.gigs.ListGigsByClaimant(ctx, caller.ID)
}

func (s *gigService) ClaimGig(ctx context.Context, caller *model.User, gigID int64) (*model.Gig, error) {
	if err := requireRole(caller, model.RoleClipper, "claim gigs"); err != nil {
		return nil, err
	}

	clipperID := caller.ID
	g, err := s.gigs.Transition(ctx, gigID, model.GigPending, model.GigClaimed, &clipperID)
	switch {
	case errors.Is(err, repository.ErrStaleStatus):
		return nil, apperr.Conflict("Gig is not available for claiming")
	case err != nil:
		s.logger.Error().Err(err).Int64("gig_id", gigID).Msg("Failed to claim gig")
		return nil, err
	case g == nil:
		return nil, apperr.NotFound("Gig not found")
	}

	s.logger.Info().Int64("gig_id", gigID).Int64("clipper_id", clipperID).Msg("Gig claimed")
	pubsub.Emit(ctx, s.events, s.logger, pubsub.TopicGigClaimed, GigClaimedEvent{
		GigID:      g.ID,
		BusinessID: g.BusinessID,
		ClipperID:  clipperID,
		ClaimedAt:  s.now().UTC(),
	})
	return g, nil
}

func (s *gigService) SubmitVideo(ctx context.Context, caller *model.User, gigID int64, in model.SubmissionInput) (*model.Submission, error) {
	if err := requireRole(caller, model.RoleClipper, "submit videos"); err != nil {
		return nil, err
	}
	in.EditedVideoURL = strings.TrimSpace(in.EditedVideoURL)
	in.SocialPostLink = strings.TrimSpace(in.SocialPostLink)
	if err := invalid(s.validate, in); err != nil {
		return nil, err
	}

	// 1. The gig must be claimed by this clipper
	g, err := s.gigs.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("Gig not found")
	}
	if g.ClaimedBy != nil && *g.ClaimedBy != caller.ID {
		return nil, apperr.Forbidden("Gig is claimed by another clipper")
	}

	// 2. Complete it; losing this race means someone else already submitted
	if _, err := s.gigs.Transition(ctx, gigID, model.GigClaimed, model.GigCompleted, nil); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperr.Conflict("Gig must be claimed before submitting")
		}
		return nil, err
	}

	// 3. Store the submission
	sub := &model.Submission{
		GigID:          gigID,
		ClipperID:      caller.ID,
		EditedVideoURL: in.EditedVideoURL,
		SocialPostLink: in.SocialPostLink,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.submissions.CreateSubmission(ctx, sub); err != nil {
		s.logger.Error().Err(err).Int64("gig_id", gigID).Msg("Failed to store submission")
		return nil, err
	}

	s.logger.Info().Int64("gig_id", gigID).Int64("submission_id", sub.ID).Msg("Video submitted")
	pubsub.Emit(ctx, s.events, s.logger, pubsub.TopicSubmissionCreated, SubmissionCreatedEvent{
		SubmissionID:   sub.ID,
		GigID:          gigID,
		BusinessID:     g.BusinessID,
		ClipperID:      caller.ID,
		EditedVideoURL: sub.EditedVideoURL,
	})
	return sub, nil
}

func (s *gigService) RecordMetrics(ctx context.Context, caller *model.User, submissionID int64, in model.MetricsInput) (*model.Submission, error) {
	if caller == nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}
	if err := invalid(s.validate, in); err != nil {
		return nil, err
	}

	sub, err := s.submissions.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("Submission not found")
	}

	allowed := caller.Role == model.RoleClipper && sub.ClipperID == caller.ID
	if caller.Role == model.RoleBusiness {
		g, err := s.gigs.GetGigByID(ctx, sub.GigID)
		if err != nil {
			return nil, err
		}
		allowed = g != nil && g.BusinessID == caller.ID
	}
	if !allowed {
		return nil, apperr.Forbidden("Not allowed to update this submission")
	}

	bonus := CalculateBonus(in.Views, in.Likes, in.Outcomes)
	updated, err := s.submissions.UpdateMetrics(ctx, submissionID, in, bonus)
	if err != nil {
		s.logger.Error().Err(err).Int64("submission_id", submissionID).Msg("Failed to update metrics")
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("Submission not found")
	}
	return updated, nil
}
