package service

import (
	"context"
	"math"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/model"
	"mx70/internal/payments"
	"mx70/internal/pubsub"
	"mx70/internal/repository"

	"github.com/rs/zerolog"
)

// PaymentService approves delivered work and pays clippers for it.
type PaymentService interface {
	ApproveSubmission(ctx context.Context, caller *model.User, submissionID int64) (*model.Approval, error)
	Payout(ctx context.Context, caller *model.User, submissionID int64) (*model.Payout, error)
	Balance(ctx context.Context, caller *model.User) (*model.Balance, error)
}

type paymentService struct {
	users       repository.UserRepository
	gigs        repository.GigRepository
	submissions repository.SubmissionRepository
	credits     repository.CreditRepository
	payer       payments.Payer
	events      pubsub.Publisher
	now         func() time.Time
	logger      zerolog.Logger
}

func NewPaymentService(store *repository.Store, payer payments.Payer, events pubsub.Publisher, now func() time.Time, logger zerolog.Logger) PaymentService {
	return &paymentService{
		users:       store.Users(),
		gigs:        store.Gigs(),
		submissions: store.Submissions(),
		credits:     store.Credits(),
		payer:       payer,
		events:      events,
		now:         now,
		logger:      logger.With().Str("service", "PaymentService").Logger(),
	}
}

// ownedSubmission loads a submission on one of the caller's gigs.
func (s *paymentService) ownedSubmission(ctx context.Context, caller *model.User, submissionID int64, action string) (*model.Submission, error) {
	if err := requireRole(caller, model.RoleBusiness, action); err != nil {
		return nil, err
	}
	sub, err := s.submissions.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("Submission not found")
	}
	g, err := s.gigs.GetGigByID(ctx, sub.GigID)
	if err != nil {
		return nil, err
	}
	if g == nil || g.BusinessID != caller.ID {
		return nil, apperr.Forbidden("You can only %s for your own gigs", action)
	}
	return sub, nil
}

func (s *paymentService) ApproveSubmission(ctx context.Context, caller *model.User, submissionID int64) (*model.Approval, error) {
	if _, err := s.ownedSubmission(ctx, caller, submissionID, "approve submissions"); err != nil {
		return nil, err
	}
	sub, err := s.submissions.ApproveSubmission(ctx, submissionID)
	if err != nil {
		s.logger.Error().Err(err).Int64("submission_id", submissionID).Msg("Failed to approve submission")
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound("Submission not found")
	}

	s.logger.Info().Int64("submission_id", submissionID).Msg("Submission approved")
	return &model.Approval{
		SubmissionID:   submissionID,
		ReadyForPayout: sub.PayoutStatus == "",
		Message:        "Submission approved successfully",
	}, nil
}

func (s *paymentService) Payout(ctx context.Context, caller *model.User, submissionID int64) (*model.Payout, error) {
	// 1. Only the business behind the gig can pay
	sub, err := s.ownedSubmission(ctx, caller, submissionID, "approve payouts")
	if err != nil {
		return nil, err
	}
	if !sub.Approved {
		return nil, apperr.Validation("Submission must be approved before payout")
	}

	// 2. Reserve the submission so concurrent calls cannot pay twice
	sub, ok, err := s.submissions.BeginPayout(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("Submission has already been paid out")
	}

	clipper, err := s.users.GetUserByID(ctx, sub.ClipperID)
	if err != nil {
		_ = s.submissions.AbortPayout(ctx, submissionID)
		return nil, err
	}
	var destination string
	if clipper != nil {
		destination = clipper.PayoutAccount
	}

	// 3. Transfer the earnings net of the platform fee
	earnings := model.EarningsFor(sub.Bonus)
	id, err := s.payer.Pay(ctx, payments.Transfer{
		SubmissionID: sub.ID,
		ClipperID:    sub.ClipperID,
		Destination:  destination,
		AmountCents:  int64(math.Round(earnings.Amount * 100)),
		Currency:     "usd",
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("submission_id", submissionID).Msg("Payout transfer failed")
		_ = s.submissions.AbortPayout(ctx, submissionID)
		return nil, err
	}
	if err := s.submissions.FinishPayout(ctx, submissionID, id); err != nil {
		s.logger.Error().Err(err).Str("payout_id", id).Int64("submission_id", submissionID).Msg("Failed to record payout")
		return nil, err
	}

	s.logger.Info().Str("payout_id", id).Int64("submission_id", submissionID).Float64("amount", earnings.Amount).Msg("Payout sent")
	pubsub.Emit(ctx, s.events, s.logger, pubsub.TopicPayoutSent, PayoutSentEvent{
		PayoutID:     id,
		SubmissionID: submissionID,
		ClipperID:    sub.ClipperID,
		Amount:       earnings.Amount,
	})
	return &model.Payout{
		ID:           id,
		SubmissionID: submissionID,
		Earnings:     earnings,
		Status:       model.PayoutPaid,
		Message:      "Payout processed successfully",
	}, nil
}

func (s *paymentService) Balance(ctx context.Context, caller *model.User) (*model.Balance, error) {
	if caller == nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}

	if caller.Role == model.RoleBusiness {
		credits, err := s.credits.ListCreditsByUser(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		gigs, err := s.gigs.ListGigsByBusiness(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		b := &model.Balance{Role: caller.Role, CreditsBalance: ActiveCreditTotal(credits, s.now())}
		for _, g := range gigs {
			b.TotalSpent += g.Budget
			if g.Status == model.GigPending || g.Status == model.GigClaimed {
				b.ActiveGigs++
			}
		}
		return b, nil
	}

	subs, err := s.submissions.ListSubmissionsByClipper(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	b := &model.Balance{Role: caller.Role}
	b.TotalEarnings, b.CompletedGigs, b.PendingApproval = ClipperEarnings(subs)
	return b, nil
}

// ClipperEarnings totals the net earnings of approved submissions and counts
// approved and pending ones.
func ClipperEarnings(subs []model.Submission) (total float64, approved, pending int) {
	for _, sub := range subs {
		if !sub.Approved {
			pending++
			continue
		}
		approved++
		total += model.EarningsFor(sub.Bonus).Amount
	}
	return math.Round(total*100) / 100, approved, pending
}
