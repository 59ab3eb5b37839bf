package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mx70/internal/model"
	"mx70/internal/pubsub"
	"mx70/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PromoService awards credit for organic posts made by businesses.
type PromoService interface {
	SubmitSelfPromo(ctx context.Context, caller *model.User, in model.SelfPromoInput) (*model.SelfPromoResult, error)
}

type promoService struct {
	credits  repository.CreditRepository
	events   pubsub.Publisher
	validate *validator.Validate
	now      func() time.Time
	logger   zerolog.Logger
}

func NewPromoService(credits repository.CreditRepository, events pubsub.Publisher, validate *validator.Validate, now func() time.Time, logger zerolog.Logger) PromoService {
	return &promoService{
		credits:  credits,
		events:   events,
		validate: validate,
		now:      now,
		logger:   logger.With().Str("service", "PromoService").Logger(),
	}
}

// SubmitSelfPromo issues the full credit or nothing. There is no monthly cap.
func (s *promoService) SubmitSelfPromo(ctx context.Context, caller *model.User, in model.SelfPromoInput) (*model.SelfPromoResult, error) {
	if err := requireRole(caller, model.RoleBusiness, "submit self-promotion posts"); err != nil {
		return nil, err
	}
	in.PostLink = strings.TrimSpace(in.PostLink)
	if err := invalid(s.validate, in); err != nil {
		return nil, err
	}

	if in.Views < model.SelfPromoMinViews || in.Likes < model.SelfPromoMinLikes {
		return &model.SelfPromoResult{
			CreditEarned: 0,
			Message: fmt.Sprintf("Post needs at least %d views and %d likes to qualify for credits",
				model.SelfPromoMinViews, model.SelfPromoMinLikes),
		}, nil
	}

	now := s.now().UTC()
	c := &model.Credit{
		UserID:    caller.ID,
		Amount:    model.SelfPromoCredit,
		Source:    model.CreditSourceSelfPromo,
		Expiry:    now.AddDate(0, model.CreditLifetimeMonths, 0),
		CreatedAt: now,
	}
	if err := s.credits.CreateCredit(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("user_id", caller.ID).Msg("Failed to store credit")
		return nil, err
	}

	s.logger.Info().Int64("user_id", caller.ID).Int64("credit_id", c.ID).Msg("Self-promo credit issued")
	pubsub.Emit(ctx, s.events, s.logger, pubsub.TopicCreditEarned, CreditEarnedEvent{
		CreditID: c.ID,
		UserID:   caller.ID,
		Amount:   c.Amount,
		Source:   c.Source,
		Expiry:   c.Expiry,
	})
	return &model.SelfPromoResult{
		CreditEarned: c.Amount,
		Message:      fmt.Sprintf("Congratulations! You earned $%.2f in credits", c.Amount),
		Expiry:       &c.Expiry,
	}, nil
}
